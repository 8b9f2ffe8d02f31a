package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorgo/pkg/db"
	"tutorgo/pkg/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	database, err := db.Init(filepath.Join(t.TempDir(), "tutorgo.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(database)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testModule() *model.Module {
	return &model.Module{
		ID:            "mod-1",
		Title:         "Cockpit Basics",
		BackgroundURL: "/img/cockpit.png",
		NaturalWidth:  1600,
		NaturalHeight: 900,
		Annotations: []model.Annotation{
			{ID: "a1", X: 25, Y: 40, Title: "Altimeter"},
		},
		Events: []model.TimelineEvent{
			{ID: "e1", Step: 1, Type: model.EventPulse, TargetID: "a1"},
		},
	}
}

func TestSaveGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModule(ctx, testModule()))

	got, err := s.GetModule(ctx, "mod-1")
	require.NoError(t, err)
	assert.Equal(t, "Cockpit Basics", got.Title)
	require.Len(t, got.Annotations, 1)
	assert.Equal(t, model.SizeMedium, got.Annotations[0].Size, "normalization applies defaults")
	require.Len(t, got.Events, 1)
	assert.Equal(t, model.EventPulse, got.Events[0].Type)
}

func TestGetModule_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetModule(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveModule_RejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testModule()
	m.Events[0].Type = "confetti"
	err := s.SaveModule(ctx, m)
	assert.ErrorIs(t, err, model.ErrUnknownType)

	_, err = s.GetModule(ctx, "mod-1")
	assert.ErrorIs(t, err, ErrNotFound, "rejected module is never written")
}

func TestSaveModule_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModule(ctx, testModule()))

	m := testModule()
	m.Title = "Cockpit Basics v2"
	require.NoError(t, s.SaveModule(ctx, m))

	got, err := s.GetModule(ctx, "mod-1")
	require.NoError(t, err)
	assert.Equal(t, "Cockpit Basics v2", got.Title)

	list, err := s.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListModules(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := testModule()
	b := testModule()
	b.ID = "mod-2"
	b.Title = "Avionics"
	require.NoError(t, s.SaveModule(ctx, a))
	require.NoError(t, s.SaveModule(ctx, b))

	list, err := s.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Avionics", list[0].Title, "sorted by title")
	assert.Equal(t, 1, list[0].Annotations)
	assert.Equal(t, 1, list[0].Events)
}

func TestDeleteModule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveModule(ctx, testModule()))
	require.NoError(t, s.DeleteModule(ctx, "mod-1"))

	_, err := s.GetModule(ctx, "mod-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteModule(ctx, "mod-1"), ErrNotFound)
}

func TestImportBytes_BackfillsIDs(t *testing.T) {
	s := newTestStore(t)

	yml := []byte(`
title: Imported
background_url: /img/bg.png
annotations:
  - x: 30
    y: 60
    title: Dial
    id: dial
  - x: 70
    y: 20
    title: Switch
events:
  - id: ev1
    step: 1
    type: emphasis-pulse
    target_id: dial
`)
	m, err := s.ImportBytes(context.Background(), yml)
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID, "module id generated")
	assert.Equal(t, "dial", m.Annotations[0].ID, "existing ids kept")
	assert.NotEmpty(t, m.Annotations[1].ID, "missing annotation id generated")

	got, err := s.GetModule(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imported", got.Title)
}

func TestImportBytes_EventWithoutIDFails(t *testing.T) {
	s := newTestStore(t)

	yml := []byte(`
title: Broken
annotations:
  - id: a1
    x: 10
    y: 10
events:
  - step: 1
    type: emphasis-pulse
    target_id: a1
`)
	_, err := s.ImportBytes(context.Background(), yml)
	assert.ErrorIs(t, err, model.ErrMissingID)
}

func TestImportBytes_LegacyZoomAliasFolded(t *testing.T) {
	s := newTestStore(t)

	yml := []byte(`
title: Legacy
annotations:
  - id: a1
    x: 40
    y: 40
events:
  - id: z1
    step: 1
    type: pan-zoom
    target_id: a1
    zoom_level: 3.5
`)
	m, err := s.ImportBytes(context.Background(), yml)
	require.NoError(t, err)

	got, err := s.GetModule(context.Background(), m.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Events[0].PanZoom)
	assert.Equal(t, 3.5, got.Events[0].PanZoom.Factor)
	assert.Nil(t, got.Events[0].LegacyZoomLevel, "aliases cleared after folding")
}
