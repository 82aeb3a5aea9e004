package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/celeaxy/tradepost/internal/store"
)

const stationsCollection = "stations"

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	if body, ok := s.lists.Get(tenant, stationsCollection); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	stations, err := s.store.ListStations(tenant)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if stations == nil {
		stations = []*store.Station{}
	}

	body, err := json.Marshal(stations)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode station list")
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	s.lists.Put(tenant, stationsCollection, body)
	writeRawJSON(w, http.StatusOK, body)
}

func (s *Server) handleUpsertStation(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	// Clients may send a nested items list alongside the station, in which
	// case each entry is upserted as a demand row for the station.
	var req struct {
		ID    int64                 `json:"id"`
		Name  string                `json:"name"`
		Items []store.SnapshotEntry `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station, err := s.store.UpsertStation(tenant, req.ID, req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	for _, entry := range req.Items {
		if _, err := s.store.UpsertDemand(tenant, station.ID, entry.Item.ID, entry.Demand); err != nil {
			s.lists.Invalidate(tenant)
			writeStoreError(w, err)
			return
		}
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, station)
}

func (s *Server) handleUpdateStation(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name *string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	station, err := s.store.UpdateStation(tenant, id, store.StationPatch{Name: req.Name})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, station)
}

func (s *Server) handleDeleteStation(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteStation(tenant, id); err != nil {
		writeStoreError(w, err)
		return
	}

	s.lists.Invalidate(tenant)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
