package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// HistoryPKConstraint is the primary key constraint of nvr_status_history.
// Conflict detection keys on this exact name so that unrelated unique
// violations are never mistaken for an id collision.
const HistoryPKConstraint = "nvr_status_history_pkey"

// IsUniqueViolation reports whether err is a Postgres unique violation
// (SQLSTATE 23505) against the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}

type HistoryModel struct {
	DB *sql.DB
}

// Insert writes an observation with an explicit id. The id is always a
// bound parameter, never interpolated, so a retry is just a resubmit with
// one argument changed.
func (m *HistoryModel) Insert(ctx context.Context, o *Observation) error {
	query := `
		INSERT INTO nvr_status_history (id, nvr_id, nvr_name, district, location, onu_ip, ping_onu, nvr_ip, ping_nvr, hdd_status, normal_view, check_login, camera_count, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := m.DB.ExecContext(ctx, query,
		o.ID, o.NVRID, o.NVRName, o.District, o.Location,
		o.ONUIP, o.PingONU, o.NVRIP, o.PingNVR,
		o.HDDStatus, o.NormalView, o.CheckLogin, o.CameraCount, o.RecordedAt,
	)
	return err
}

// InsertDefault writes an observation letting the sequence assign the id.
func (m *HistoryModel) InsertDefault(ctx context.Context, o *Observation) (int64, error) {
	query := `
		INSERT INTO nvr_status_history (nvr_id, nvr_name, district, location, onu_ip, ping_onu, nvr_ip, ping_nvr, hdd_status, normal_view, check_login, camera_count, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int64
	err := m.DB.QueryRowContext(ctx, query,
		o.NVRID, o.NVRName, o.District, o.Location,
		o.ONUIP, o.PingONU, o.NVRIP, o.PingNVR,
		o.HDDStatus, o.NormalView, o.CheckLogin, o.CameraCount, o.RecordedAt,
	).Scan(&id)
	return id, err
}

func (m *HistoryModel) MaxID(ctx context.Context) (int64, error) {
	var max int64
	err := m.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM nvr_status_history`).Scan(&max)
	return max, err
}

// ResyncSequence forces the id sequence to max(id)+1 so default-generated
// ids cannot collide with rows inserted with explicit ids.
func (m *HistoryModel) ResyncSequence(ctx context.Context) error {
	query := `
		SELECT setval('nvr_status_history_id_seq',
			COALESCE((SELECT MAX(id) FROM nvr_status_history), 0) + 1,
			true)
	`
	_, err := m.DB.ExecContext(ctx, query)
	return err
}

func (m *HistoryModel) FindDuplicateIDs(ctx context.Context) ([]DuplicateGroup, error) {
	query := `
		SELECT id, COUNT(*) AS count
		FROM nvr_status_history
		GROUP BY id
		HAVING COUNT(*) > 1
		ORDER BY id
	`
	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var g DuplicateGroup
		if err := rows.Scan(&g.ID, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteDuplicates removes all but the first physically stored row of each
// duplicate id group. Survivor selection is by ctid, i.e. storage order,
// not by any business field.
func (m *HistoryModel) DeleteDuplicates(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM nvr_status_history
		WHERE ctid NOT IN (
			SELECT MIN(ctid)
			FROM nvr_status_history
			GROUP BY id
		)
	`
	res, err := m.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (m *HistoryModel) ListHistory(ctx context.Context, f HistoryFilter, limit int) ([]*Observation, error) {
	q := `
		SELECT id, nvr_id, nvr_name, district, location, onu_ip, ping_onu, nvr_ip, ping_nvr, hdd_status, normal_view, check_login, camera_count, recorded_at, created_at
		FROM nvr_status_history
		WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.StartDate != nil {
		q += fmt.Sprintf(" AND recorded_at >= $%d", idx)
		args = append(args, *f.StartDate)
		idx++
	}
	if f.EndDate != nil {
		q += fmt.Sprintf(" AND recorded_at <= $%d", idx)
		args = append(args, *f.EndDate)
		idx++
	}
	if f.NVRName != "" {
		q += fmt.Sprintf(" AND nvr_name = $%d", idx)
		args = append(args, f.NVRName)
		idx++
	}

	q += fmt.Sprintf(" ORDER BY recorded_at DESC LIMIT $%d", idx)
	args = append(args, limit)

	rows, err := m.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(
			&o.ID, &o.NVRID, &o.NVRName, &o.District, &o.Location,
			&o.ONUIP, &o.PingONU, &o.NVRIP, &o.PingNVR,
			&o.HDDStatus, &o.NormalView, &o.CheckLogin, &o.CameraCount,
			&o.RecordedAt, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, &o)
	}
	return history, rows.Err()
}

// DeleteObservationsBefore removes rows strictly older than cutoff.
// Rows exactly at the cutoff are retained.
func (m *HistoryModel) DeleteObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := m.DB.ExecContext(ctx,
		`DELETE FROM nvr_status_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
