package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/celeaxy/tradepost/internal/store"
)

const demandsCollection = "demands"

func (s *Server) handleListDemands(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	if body, ok := s.lists.Get(tenant, demandsCollection); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	demands, err := s.store.ListDemands(tenant)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if demands == nil {
		demands = []*store.Demand{}
	}

	body, err := json.Marshal(demands)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode demand list")
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	s.lists.Put(tenant, demandsCollection, body)
	writeRawJSON(w, http.StatusOK, body)
}

func (s *Server) handleUpsertDemand(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	// All three fields are required; pointers distinguish absent from zero.
	var req struct {
		StationID   *int64   `json:"stationId"`
		ItemID      *int64   `json:"itemId"`
		DemandLevel *float64 `json:"demandLevel"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StationID == nil || req.ItemID == nil || req.DemandLevel == nil {
		writeError(w, http.StatusBadRequest, "missing demand data")
		return
	}

	demand, err := s.store.UpsertDemand(tenant, *req.StationID, *req.ItemID, *req.DemandLevel)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, demand)
}

func (s *Server) handleUpdateDemand(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	stationID, itemID, ok := demandKeys(w, r)
	if !ok {
		return
	}

	var req struct {
		DemandLevel *float64 `json:"demandLevel"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DemandLevel == nil {
		writeError(w, http.StatusBadRequest, "missing demand data")
		return
	}

	demand, err := s.store.UpdateDemand(tenant, stationID, itemID, *req.DemandLevel)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, demand)
}

func (s *Server) handleDeleteDemand(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	stationID, itemID, ok := demandKeys(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteDemand(tenant, stationID, itemID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
