package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/history"
	"github.com/Marsh2546/nvr-monitoring-system/internal/retention"
	"github.com/Marsh2546/nvr-monitoring-system/internal/snapshots"
)

func TestGetStatusHistory_Envelope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "nvr_id", "nvr_name", "district", "location",
		"onu_ip", "ping_onu", "nvr_ip", "ping_nvr",
		"hdd_status", "normal_view", "check_login", "camera_count",
		"recorded_at", "created_at",
	}).AddRow(1, 12, "NVR-01", "North", "Substation A",
		"10.0.0.2", true, "10.0.0.11", true,
		true, true, false, 16, now, now)
	mock.ExpectQuery("SELECT (.+) FROM nvr_status_history").WillReturnRows(rows)

	handler := NewHistoryHandler(history.NewService(&data.HistoryModel{DB: db}))

	req := httptest.NewRequest("GET", "/api/nvr-status", nil)
	w := httptest.NewRecorder()
	handler.GetStatusHistory(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    []data.Observation `json:"data"`
		Count   int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "NVR-01", resp.Data[0].NVRName)
}

func TestGetStatusHistory_BadDate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHistoryHandler(history.NewService(&data.HistoryModel{DB: db}))

	req := httptest.NewRequest("GET", "/api/nvr-status?startDate=not-a-date", nil)
	w := httptest.NewRecorder()
	handler.GetStatusHistory(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordStatus_AssignsIDAndPersists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Id unset in the payload: the allocator reads max(id)=10 and the
	// insert lands under 11.
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\), 0\) FROM nvr_status_history`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(10))
	mock.ExpectExec("INSERT INTO nvr_status_history").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHistoryHandler(history.NewService(&data.HistoryModel{DB: db}))

	body, _ := json.Marshal(map[string]any{
		"nvr_name":     "NVR-01",
		"nvr_ip":       "10.0.0.11",
		"ping_nvr":     true,
		"camera_count": 16,
	})
	req := httptest.NewRequest("POST", "/api/nvr-status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.RecordStatus(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(11), resp["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStatus_RequiresNVRName(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHistoryHandler(history.NewService(&data.HistoryModel{DB: db}))

	req := httptest.NewRequest("POST", "/api/nvr-status", bytes.NewReader([]byte(`{"nvr_ip":"10.0.0.11"}`)))
	w := httptest.NewRecorder()
	handler.RecordStatus(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerSnapshots(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT DISTINCT camera_name").
		WillReturnRows(sqlmock.NewRows([]string{"camera_name", "nvr_ip", "nvr_name"}).
			AddRow("CAM-01", "10.0.0.11", "NVR-01").
			AddRow("CAM-02", "10.0.0.12", "NVR-02"))
	mock.ExpectExec("INSERT INTO nvr_snapshot_history").
		WillReturnResult(sqlmock.NewResult(0, 2))

	svc := snapshots.NewService(&data.SnapshotModel{DB: db}, nil, nil)
	handler := NewSnapshotHandler(svc)

	req := httptest.NewRequest("POST", "/api/trigger-snapshots", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	handler.TriggerSnapshots(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string                `json:"message"`
		Cameras []data.SnapshotCamera `json:"cameras"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Triggered snapshots for 2 cameras", resp.Message)
	require.Len(t, resp.Cameras, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupLogs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM nvr_status_history WHERE created_at < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 400))
	mock.ExpectExec(`DELETE FROM nvr_snapshot_history WHERE created_at < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 25))

	historyRepo := &data.HistoryModel{DB: db}
	snapshotRepo := &data.SnapshotModel{DB: db}
	sweeper := retention.NewSweeper(historyRepo, snapshotRepo, retention.DefaultHorizon)

	handler := NewMaintenanceHandler(history.NewService(historyRepo), sweeper, db)

	req := httptest.NewRequest("POST", "/api/cleanup-logs", nil)
	w := httptest.NewRecorder()
	handler.CleanupLogs(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(425), resp.Deleted)
}

func TestReconcileEndpoint_CleanTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	empty := sqlmock.NewRows([]string{"id", "count"})
	mock.ExpectQuery("SELECT id, COUNT").WillReturnRows(empty)
	mock.ExpectExec("SELECT setval").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectQuery("SELECT id, COUNT").WillReturnRows(sqlmock.NewRows([]string{"id", "count"}))

	historyRepo := &data.HistoryModel{DB: db}
	sweeper := retention.NewSweeper(historyRepo, &data.SnapshotModel{DB: db}, retention.DefaultHorizon)
	handler := NewMaintenanceHandler(history.NewService(historyRepo), sweeper, db)

	req := httptest.NewRequest("POST", "/api/admin/reconcile", nil)
	w := httptest.NewRecorder()
	handler.Reconcile(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Incomplete bool                 `json:"incomplete"`
		Report     history.RepairReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Incomplete)
	require.Equal(t, int64(3), resp.Report.MaxIDAfter)
}
