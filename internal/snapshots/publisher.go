package snapshots

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// SnapshotEvent is published for each triggered camera so the external
// capture agent can take the actual snapshot.
type SnapshotEvent struct {
	RequestID  string    `json:"request_id"`
	CameraName string    `json:"camera_name"`
	NVRIP      string    `json:"nvr_ip"`
	NVRName    string    `json:"nvr_name"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(event *SnapshotEvent) error
}

type NATSPublisher struct {
	conn       *nats.Conn
	subject    string
	maxRetries int
}

func NewNATSPublisher(conn *nats.Conn, subject string, maxRetries int) *NATSPublisher {
	return &NATSPublisher{
		conn:       conn,
		subject:    subject,
		maxRetries: maxRetries,
	}
}

func (p *NATSPublisher) Publish(event *SnapshotEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal snapshot event: %w", err)
	}

	for i := 0; i <= p.maxRetries; i++ {
		err = p.conn.Publish(p.subject, payload)
		if err == nil {
			return nil
		}
		time.Sleep(time.Duration(i*100) * time.Millisecond)
	}

	return fmt.Errorf("publish snapshot event after %d retries: %w", p.maxRetries, err)
}
