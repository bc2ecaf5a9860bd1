package data

import (
	"context"
	"time"
)

type SnapshotStatus string

const (
	// SnapshotStatusEligible is the legacy sentinel marking a camera as
	// enrolled for snapshot collection. It is never shown in log listings.
	SnapshotStatusEligible  SnapshotStatus = "TRUE"
	SnapshotStatusScheduled SnapshotStatus = "SCHEDULED"
	SnapshotStatusTriggered SnapshotStatus = "TRIGGERED"
	SnapshotStatusFailed    SnapshotStatus = "FAILED"
)

// SnapshotLogEntry is one camera-level snapshot attempt. Entries are
// append-only: created once, never updated, pruned by retention.
type SnapshotLogEntry struct {
	CameraName string         `json:"camera_name"`
	NVRIP      string         `json:"nvr_ip"`
	NVRName    string         `json:"nvr_name"`
	Status     SnapshotStatus `json:"snapshot_status"`
	Comment    string         `json:"comment,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
	CreatedAt  time.Time      `json:"created_at"`
}

// SnapshotCamera identifies a camera eligible for snapshot triggering.
type SnapshotCamera struct {
	CameraName string `json:"camera_name"`
	NVRIP      string `json:"nvr_ip"`
	NVRName    string `json:"nvr_name"`
}

// SnapshotRepository defines store operations for the snapshot log table
type SnapshotRepository interface {
	InsertLogBatch(ctx context.Context, entries []*SnapshotLogEntry) (int64, error)
	ListLogs(ctx context.Context, cameraName string, limit int) ([]*SnapshotLogEntry, error)
	ListEligibleCameras(ctx context.Context, cameraNames []string) ([]SnapshotCamera, error)
	DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
