package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/celeaxy/tradepost/internal/store"
)

const itemsCollection = "items"

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	if body, ok := s.lists.Get(tenant, itemsCollection); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	items, err := s.store.ListItems(tenant)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if items == nil {
		items = []*store.Item{}
	}

	body, err := json.Marshal(items)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode item list")
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	s.lists.Put(tenant, itemsCollection, body)
	writeRawJSON(w, http.StatusOK, body)
}

func (s *Server) handleUpsertItem(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	var req struct {
		ID    int64   `json:"id"`
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.store.UpsertItem(tenant, req.ID, req.Name, req.Value)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name  *string  `json:"name"`
		Value *float64 `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.store.UpdateItem(tenant, id, store.ItemPatch{Name: req.Name, Value: req.Value})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteItem(tenant, id); err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
