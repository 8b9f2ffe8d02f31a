package store

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"tutorgo/pkg/model"
)

// ImportBytes parses a YAML-authored module, backfills missing ids, and
// persists it. Annotations without ids get generated ones (authoring
// convenience); events without ids stay invalid and fail validation with a
// descriptive error.
func (s *SQLiteStore) ImportBytes(ctx context.Context, data []byte) (*model.Module, error) {
	var m model.Module
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse module yaml: %w", err)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	for i := range m.Annotations {
		if m.Annotations[i].ID == "" {
			m.Annotations[i].ID = uuid.NewString()
		}
	}
	if err := s.SaveModule(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ImportFile imports a YAML module file from disk.
func (s *SQLiteStore) ImportFile(ctx context.Context, path string) (*model.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}
	return s.ImportBytes(ctx, data)
}
