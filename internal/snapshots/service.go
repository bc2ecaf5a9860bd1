package snapshots

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Marsh2546/nvr-monitoring-system/internal/data"
	"github.com/Marsh2546/nvr-monitoring-system/internal/metrics"
)

const DefaultLogLimit = 50

// TriggerResult summarizes one trigger or scheduling run.
type TriggerResult struct {
	RequestID string               `json:"request_id"`
	Count     int                  `json:"count"`
	Skipped   int                  `json:"skipped"`
	Cameras   []data.SnapshotCamera `json:"cameras"`
}

// Service logs snapshot attempts for eligible cameras. Entries are
// written as one batched insert per run, and triggered cameras are
// announced on the event bus for the capture agent.
type Service struct {
	Repo      data.SnapshotRepository
	Publisher EventPublisher
	Dedup     *TriggerDedup
	now       func() time.Time
}

func NewService(repo data.SnapshotRepository, pub EventPublisher, dedup *TriggerDedup) *Service {
	return &Service{
		Repo:      repo,
		Publisher: pub,
		Dedup:     dedup,
		now:       time.Now,
	}
}

// Trigger logs a TRIGGERED entry for each eligible camera (optionally
// restricted to cameraNames) and publishes one event per camera.
func (s *Service) Trigger(ctx context.Context, cameraNames []string) (*TriggerResult, error) {
	cameras, err := s.Repo.ListEligibleCameras(ctx, cameraNames)
	if err != nil {
		return nil, fmt.Errorf("list eligible cameras: %w", err)
	}

	result := &TriggerResult{RequestID: uuid.New().String()}

	var selected []data.SnapshotCamera
	for _, c := range cameras {
		if s.Dedup != nil && s.Dedup.ShouldSkip(c.CameraName, c.NVRIP) {
			result.Skipped++
			continue
		}
		selected = append(selected, c)
	}

	if err := s.logBatch(ctx, selected, data.SnapshotStatusTriggered, "Manual trigger via API"); err != nil {
		return nil, err
	}

	result.Count = len(selected)
	result.Cameras = selected

	if s.Publisher != nil {
		for _, c := range selected {
			evt := &SnapshotEvent{
				RequestID:  result.RequestID,
				CameraName: c.CameraName,
				NVRIP:      c.NVRIP,
				NVRName:    c.NVRName,
				Status:     string(data.SnapshotStatusTriggered),
				OccurredAt: s.now(),
			}
			if err := s.Publisher.Publish(evt); err != nil {
				// The log entry is already durable; a lost event only
				// delays the capture agent until its next poll.
				log.Printf("[SNAPSHOT] publish failed for camera %s: %v", c.CameraName, err)
			}
		}
	}

	return result, nil
}

// LogScheduled logs a SCHEDULED entry for every eligible camera. Invoked
// by the external cron before the capture agent's sweep.
func (s *Service) LogScheduled(ctx context.Context) (*TriggerResult, error) {
	cameras, err := s.Repo.ListEligibleCameras(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list eligible cameras: %w", err)
	}

	if err := s.logBatch(ctx, cameras, data.SnapshotStatusScheduled, "Scheduled snapshot via cron"); err != nil {
		return nil, err
	}

	return &TriggerResult{
		RequestID: uuid.New().String(),
		Count:     len(cameras),
		Cameras:   cameras,
	}, nil
}

func (s *Service) ListLogs(ctx context.Context, cameraName string, limit int) ([]*data.SnapshotLogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return s.Repo.ListLogs(ctx, cameraName, limit)
}

func (s *Service) logBatch(ctx context.Context, cameras []data.SnapshotCamera, status data.SnapshotStatus, comment string) error {
	if len(cameras) == 0 {
		return nil
	}

	now := s.now()
	entries := make([]*data.SnapshotLogEntry, 0, len(cameras))
	for _, c := range cameras {
		entries = append(entries, &data.SnapshotLogEntry{
			CameraName: c.CameraName,
			NVRIP:      c.NVRIP,
			NVRName:    c.NVRName,
			Status:     status,
			Comment:    comment,
			RecordedAt: now,
			CreatedAt:  now,
		})
	}

	n, err := s.Repo.InsertLogBatch(ctx, entries)
	if err != nil {
		return fmt.Errorf("log %s batch of %d: %w", status, len(entries), err)
	}
	metrics.SnapshotTriggersTotal.WithLabelValues(string(status)).Add(float64(n))
	return nil
}
