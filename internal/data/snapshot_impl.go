package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type SnapshotModel struct {
	DB *sql.DB
}

// InsertLogBatch writes all entries in a single multi-row insert.
// One round trip for N rows, all-or-nothing: either every entry lands or
// the statement fails and none do.
func (m *SnapshotModel) InsertLogBatch(ctx context.Context, entries []*SnapshotLogEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO nvr_snapshot_history (camera_name, nvr_ip, nvr_name, snapshot_status, comment, recorded_at, created_at) VALUES `)

	args := make([]interface{}, 0, len(entries)*7)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, e.CameraName, e.NVRIP, e.NVRName, e.Status, e.Comment, e.RecordedAt, e.CreatedAt)
	}

	res, err := m.DB.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListLogs returns snapshot attempts newest first. The eligibility
// sentinel rows are excluded: only real attempt statuses are listed.
func (m *SnapshotModel) ListLogs(ctx context.Context, cameraName string, limit int) ([]*SnapshotLogEntry, error) {
	q := `
		SELECT camera_name, nvr_ip, nvr_name, snapshot_status, comment, recorded_at, created_at
		FROM nvr_snapshot_history
		WHERE snapshot_status IN ('SCHEDULED', 'TRIGGERED', 'FAILED')`
	var args []interface{}
	idx := 1

	if cameraName != "" {
		q += fmt.Sprintf(" AND camera_name = $%d", idx)
		args = append(args, cameraName)
		idx++
	}

	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", idx)
	args = append(args, limit)

	rows, err := m.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*SnapshotLogEntry
	for rows.Next() {
		var e SnapshotLogEntry
		var comment sql.NullString
		if err := rows.Scan(&e.CameraName, &e.NVRIP, &e.NVRName, &e.Status, &comment, &e.RecordedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		if comment.Valid {
			e.Comment = comment.String
		}
		logs = append(logs, &e)
	}
	return logs, rows.Err()
}

// ListEligibleCameras returns the distinct cameras enrolled for snapshot
// collection, optionally restricted to the given names.
func (m *SnapshotModel) ListEligibleCameras(ctx context.Context, cameraNames []string) ([]SnapshotCamera, error) {
	q := `
		SELECT DISTINCT camera_name, nvr_ip, nvr_name
		FROM nvr_snapshot_history
		WHERE snapshot_status = 'TRUE'`
	var args []interface{}

	if len(cameraNames) > 0 {
		q += ` AND camera_name = ANY($1)`
		args = append(args, pq.Array(cameraNames))
	}
	q += ` ORDER BY camera_name`

	rows, err := m.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cams []SnapshotCamera
	for rows.Next() {
		var c SnapshotCamera
		if err := rows.Scan(&c.CameraName, &c.NVRIP, &c.NVRName); err != nil {
			return nil, err
		}
		cams = append(cams, c)
	}
	return cams, rows.Err()
}

func (m *SnapshotModel) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := m.DB.ExecContext(ctx,
		`DELETE FROM nvr_snapshot_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
