package data

import (
	"context"
	"time"
)

// Observation is one recorded health snapshot of an NVR station.
// Station identity is denormalized on purpose: the row must describe the
// station as it was at observation time, not as it is now.
type Observation struct {
	ID          int64     `json:"id"`
	NVRID       int64     `json:"nvr_id"`
	NVRName     string    `json:"nvr_name"`
	District    string    `json:"district"`
	Location    string    `json:"location"`
	ONUIP       string    `json:"onu_ip"`
	PingONU     bool      `json:"ping_onu"`
	NVRIP       string    `json:"nvr_ip"`
	PingNVR     bool      `json:"ping_nvr"`
	HDDStatus   bool      `json:"hdd_status"`
	NormalView  bool      `json:"normal_view"`
	CheckLogin  bool      `json:"check_login"`
	CameraCount int       `json:"camera_count"`
	RecordedAt  time.Time `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// DuplicateGroup reports one id shared by more than one history row.
type DuplicateGroup struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

// HistoryFilter narrows ListHistory. Zero values mean "no restriction".
type HistoryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	NVRName   string
}

// HistoryRepository defines store operations for the status history table
type HistoryRepository interface {
	Insert(ctx context.Context, o *Observation) error
	InsertDefault(ctx context.Context, o *Observation) (int64, error)
	MaxID(ctx context.Context) (int64, error)
	ResyncSequence(ctx context.Context) error
	FindDuplicateIDs(ctx context.Context) ([]DuplicateGroup, error)
	DeleteDuplicates(ctx context.Context) (int64, error)
	ListHistory(ctx context.Context, f HistoryFilter, limit int) ([]*Observation, error)
	DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
