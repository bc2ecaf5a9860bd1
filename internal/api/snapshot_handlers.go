package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/snapshots"
)

type SnapshotHandler struct {
	Service *snapshots.Service
}

func NewSnapshotHandler(svc *snapshots.Service) *SnapshotHandler {
	return &SnapshotHandler{Service: svc}
}

// GetSnapshotLogs lists attempt logs, newest first.
// GET /api/snapshot-logs?cameraName=&limit=
func (h *SnapshotHandler) GetSnapshotLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	logs, err := h.Service.ListLogs(r.Context(), q.Get("cameraName"), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch snapshot logs")
		return
	}
	if logs == nil {
		logs = []*data.SnapshotLogEntry{}
	}
	respondJSON(w, http.StatusOK, logs)
}

// TriggerSnapshots logs a TRIGGERED entry for each eligible camera and
// announces them on the event bus.
// POST /api/trigger-snapshots
func (h *SnapshotHandler) TriggerSnapshots(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CameraNames []string `json:"cameraNames"`
	}
	if r.Body != nil {
		// An empty body means "all eligible cameras".
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	result, err := h.Service.Trigger(r.Context(), body.CameraNames)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to trigger snapshots")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":    fmt.Sprintf("Triggered snapshots for %d cameras", result.Count),
		"request_id": result.RequestID,
		"skipped":    result.Skipped,
		"cameras":    result.Cameras,
	})
}

// LogSnapshots records a SCHEDULED entry for every eligible camera.
// Invoked by the external cron.
// POST /api/log-snapshots
func (h *SnapshotHandler) LogSnapshots(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.LogScheduled(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to log snapshots")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Logged %d cameras for snapshot processing", result.Count),
		"timestamp": nowRFC3339(),
	})
}
