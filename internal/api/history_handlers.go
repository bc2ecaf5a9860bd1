package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
)

type HistoryHandler struct {
	Service *history.Service
}

func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

// RecordStatus ingests one observation from the external poller.
// POST /api/nvr-status
func (h *HistoryHandler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	var obs data.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid observation payload")
		return
	}
	if obs.NVRName == "" {
		respondError(w, http.StatusBadRequest, "nvr_name is required")
		return
	}
	if obs.RecordedAt.IsZero() {
		obs.RecordedAt = time.Now()
	}

	id, err := h.Service.Record(r.Context(), &obs)
	if err != nil {
		var exhausted *history.WriteExhaustedError
		switch {
		case errors.As(err, &exhausted):
			// The caller decides whether to drop or alert; we just say
			// it did not land.
			respondError(w, http.StatusConflict, exhausted.Error())
		case errors.Is(err, history.ErrStoreUnavailable):
			respondError(w, http.StatusServiceUnavailable, "history store unavailable")
		default:
			respondError(w, http.StatusInternalServerError, "failed to record observation")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// GetStatusHistory serves the dashboard's main view.
// GET /api/nvr-status?startDate=&endDate=&limit=
func (h *HistoryHandler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	filter, limit, ok := historyQuery(w, r)
	if !ok {
		return
	}

	observations, err := h.Service.ListHistory(r.Context(), filter, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch NVR status history")
		return
	}
	if observations == nil {
		observations = []*data.Observation{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"data":        observations,
		"count":       len(observations),
		"lastUpdated": time.Now().Format(time.RFC3339),
	})
}

// GetSnapshots serves per-station history when nvrName is given, global
// history otherwise. Kept for dashboard compatibility.
// GET /api/snapshots?nvrName=&startDate=&endDate=&limit=
func (h *HistoryHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	filter, limit, ok := historyQuery(w, r)
	if !ok {
		return
	}
	filter.NVRName = r.URL.Query().Get("nvrName")

	observations, err := h.Service.ListHistory(r.Context(), filter, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch NVR data")
		return
	}
	if observations == nil {
		observations = []*data.Observation{}
	}
	respondJSON(w, http.StatusOK, observations)
}

func historyQuery(w http.ResponseWriter, r *http.Request) (data.HistoryFilter, int, bool) {
	var filter data.HistoryFilter
	q := r.URL.Query()

	if v := q.Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid startDate")
			return filter, 0, false
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid endDate")
			return filter, 0, false
		}
		filter.EndDate = &t
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return filter, 0, false
		}
		limit = n
	}

	return filter, limit, true
}
