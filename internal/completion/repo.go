package completion

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is one device's completion blob for one document revision. The
// payload is opaque to the server: a JSON value of checked item ids the UI
// owns, mirroring what it keeps in local storage.
type State struct {
	DeviceID  string          `json:"device_id"`
	Revision  int             `json:"revision"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// RegisterDevice issues a fresh anonymous device id.
func (r *Repo) RegisterDevice(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO devices (device_id, created_at)
		VALUES (?, ?)
	`, id, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert device: %w", err)
	}
	return id, nil
}

func (r *Repo) DeviceExists(ctx context.Context, deviceID string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `
		SELECT 1 FROM devices WHERE device_id = ?
	`, deviceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query device: %w", err)
	}
	return true, nil
}

func (r *Repo) Get(ctx context.Context, deviceID string, revision int) (*State, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT device_id, revision, payload, updated_at
		FROM completion_state
		WHERE device_id = ? AND revision = ?
	`, deviceID, revision)

	var (
		s       State
		payload string
	)
	if err := row.Scan(&s.DeviceID, &s.Revision, &payload, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan completion state: %w", err)
	}
	s.Payload = json.RawMessage(payload)
	return &s, nil
}

func (r *Repo) Put(ctx context.Context, s State) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO completion_state (device_id, revision, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(device_id, revision) DO UPDATE SET
		  payload = excluded.payload,
		  updated_at = excluded.updated_at
	`, s.DeviceID, s.Revision, string(s.Payload), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert completion state: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, deviceID string, revision int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM completion_state
		WHERE device_id = ? AND revision = ?
	`, deviceID, revision)
	if err != nil {
		return false, fmt.Errorf("delete completion state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
