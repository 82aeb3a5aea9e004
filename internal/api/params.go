package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// pathID parses the {id} route parameter. On failure it writes a 400
// response and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// demandKeys parses the stationId and itemId query parameters that key a
// demand row. On failure it writes a 400 response and returns ok=false.
func demandKeys(w http.ResponseWriter, r *http.Request) (stationID, itemID int64, ok bool) {
	q := r.URL.Query()
	rawStation := q.Get("stationId")
	rawItem := q.Get("itemId")
	if rawStation == "" || rawItem == "" {
		writeError(w, http.StatusBadRequest, "missing demand data")
		return 0, 0, false
	}

	stationID, errS := strconv.ParseInt(rawStation, 10, 64)
	itemID, errI := strconv.ParseInt(rawItem, 10, 64)
	if errS != nil || errI != nil {
		writeError(w, http.StatusBadRequest, "invalid stationId or itemId")
		return 0, 0, false
	}
	return stationID, itemID, true
}
