package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"outliner-cli/internal/model"
)

// AppendEvent records a mutation in the audit log. Payload is stored as JSON.
func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id, err := NewID("evt")
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO events(id, ts_unixms, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), typ, strings.TrimSpace(entityID), string(pb))
	return err
}

// ReadEvents returns the newest events first. An empty entityID reads all
// entities; limit <= 0 means no limit.
func (s Store) ReadEvents(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM events`
	var args []any
	if entityID = strings.TrimSpace(entityID); entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY ts_unixms DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev   model.Event
			ms   int64
			body string
		)
		if err := rows.Scan(&ev.ID, &ms, &ev.Type, &ev.EntityID, &body); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		if body != "" {
			var p any
			if err := json.Unmarshal([]byte(body), &p); err == nil {
				ev.Payload = p
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
