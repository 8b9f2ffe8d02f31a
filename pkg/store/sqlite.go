package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutorgo/pkg/db"
	"tutorgo/pkg/model"
)

// ErrNotFound is returned when a module id does not exist.
var ErrNotFound = errors.New("module not found")

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetModule loads and re-normalizes one module. Normalization runs on every
// load so legacy-aliased rows written by older authoring tools come out
// canonical.
func (s *SQLiteStore) GetModule(ctx context.Context, id string) (*model.Module, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, background_url, natural_w, natural_h, annotations, events, created_at, updated_at
		 FROM modules WHERE id = ?`, id)

	var m model.Module
	var annJSON, evJSON string
	var updated sql.NullTime

	err := row.Scan(&m.ID, &m.Title, &m.BackgroundURL, &m.NaturalWidth, &m.NaturalHeight,
		&annJSON, &evJSON, &m.CreatedAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("module %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load module %q: %w", id, err)
	}
	if updated.Valid {
		m.UpdatedAt = updated.Time
	}

	if err := json.Unmarshal([]byte(annJSON), &m.Annotations); err != nil {
		return nil, fmt.Errorf("module %q: corrupt annotations: %w", id, err)
	}
	if err := json.Unmarshal([]byte(evJSON), &m.Events); err != nil {
		return nil, fmt.Errorf("module %q: corrupt events: %w", id, err)
	}

	if err := model.NormalizeModule(&m); err != nil {
		return nil, fmt.Errorf("module %q failed validation: %w", id, err)
	}
	return &m, nil
}

func (s *SQLiteStore) ListModules(ctx context.Context) ([]ModuleSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, annotations, events FROM modules ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	var out []ModuleSummary
	for rows.Next() {
		var sum ModuleSummary
		var annJSON, evJSON string
		if err := rows.Scan(&sum.ID, &sum.Title, &annJSON, &evJSON); err != nil {
			return nil, err
		}
		var anns []model.Annotation
		var evs []model.TimelineEvent
		_ = json.Unmarshal([]byte(annJSON), &anns)
		_ = json.Unmarshal([]byte(evJSON), &evs)
		sum.Annotations = len(anns)
		sum.Events = len(evs)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// SaveModule validates, normalizes and upserts a module.
func (s *SQLiteStore) SaveModule(ctx context.Context, m *model.Module) error {
	if err := model.NormalizeModule(m); err != nil {
		return err
	}

	annJSON, err := json.Marshal(m.Annotations)
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}
	evJSON, err := json.Marshal(m.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO modules (id, title, background_url, natural_w, natural_h, annotations, events, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			background_url = excluded.background_url,
			natural_w = excluded.natural_w,
			natural_h = excluded.natural_h,
			annotations = excluded.annotations,
			events = excluded.events,
			updated_at = excluded.updated_at`,
		m.ID, m.Title, m.BackgroundURL, m.NaturalWidth, m.NaturalHeight,
		string(annJSON), string(evJSON), now)
	if err != nil {
		return fmt.Errorf("failed to save module %q: %w", m.ID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteModule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete module %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("module %q: %w", id, ErrNotFound)
	}
	return nil
}
