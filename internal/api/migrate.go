package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/celeaxy/tradepost/internal/store"
	"github.com/celeaxy/tradepost/internal/tracing"
)

// migrateRequest is the bulk import body. Unlike the per-resource routes the
// tenant key may ride in the body as userToken, falling back to the query
// string and then the Authorization header.
type migrateRequest struct {
	UserToken string                  `json:"userToken"`
	Items     []store.SnapshotItem    `json:"items"`
	Stations  []store.SnapshotStation `json:"stations"`
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tenant := req.UserToken
	if tenant == "" {
		tenant = r.URL.Query().Get("userToken")
	}
	if tenant == "" {
		tenant = bearerToken(r)
	}
	if tenant == "" {
		writeError(w, http.StatusBadRequest, "missing tenant token")
		return
	}

	snap := &store.Snapshot{Items: req.Items, Stations: req.Stations}
	ctx, span := tracing.StartStoreSpan(r.Context(), "snapshot", "import")
	err := s.store.ImportSnapshot(tenant, snap)
	if err != nil {
		tracing.RecordError(ctx, err)
	}
	span.End()
	if err != nil {
		// The import is not transactional; rows written before the failure
		// remain, so the cache must be dropped either way.
		s.lists.Invalidate(tenant)
		log.Error().Err(err).Msg("snapshot import failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.lists.Invalidate(tenant)
	log.Info().
		Int("items", len(req.Items)).
		Int("stations", len(req.Stations)).
		Msg("snapshot imported")
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
