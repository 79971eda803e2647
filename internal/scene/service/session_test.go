package service

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"sync"
	"testing"

	"column3d/internal/scene/models"
	"column3d/internal/scene/parser"
	"column3d/internal/scene/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()

	db, err := repository.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))
	return NewSessionManager(repo, zerolog.New(io.Discard))
}

func TestCreate_SeedsDefaults(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	s, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, models.DefaultDataset(), s.Dataset)
	assert.Equal(t, models.DefaultStyle(), s.Style)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Dataset, got.Dataset)
	assert.Equal(t, s.Style, got.Style)
}

func TestUpload_ReplacesDataset(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	ds, msg, err := m.Upload(ctx, s.ID, "sales.csv", strings.NewReader("A,1\nB,2\nC,3\n"))
	require.NoError(t, err)
	assert.Len(t, ds, 3)
	assert.Equal(t, "sales.csv loaded! 3 points", msg)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got.Dataset.Labels())
}

func TestUpload_RejectionKeepsPreviousDataset(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, _, err = m.Upload(ctx, s.ID, "one.csv", strings.NewReader("only,1\n"))
	assert.ErrorIs(t, err, parser.ErrTooFewLines)
	assert.True(t, IsRejected(err))

	_, _, err = m.Upload(ctx, s.ID, "bad.csv", strings.NewReader("a,x\nb,y\n"))
	assert.ErrorIs(t, err, parser.ErrInvalidFormat)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDataset(), got.Dataset)
}

func TestUploadDataURL(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	contents := "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte("X,10\nY,20\n"))
	ds, msg, err := m.UploadDataURL(ctx, s.ID, "xy.csv", contents)
	require.NoError(t, err)
	assert.Len(t, ds, 2)
	assert.Contains(t, msg, "2 points")
}

func TestResetDataset(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	_, _, err = m.Upload(ctx, s.ID, "f.csv", strings.NewReader("A,1\nB,2\n"))
	require.NoError(t, err)

	ds, msg, err := m.ResetDataset(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDataset(), ds)
	assert.Equal(t, MsgDatasetRestored, msg)
}

func TestStyle_SetAndReset(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	style := models.DefaultStyle()
	style.Layout = models.LayoutWave
	require.NoError(t, m.SetStyle(ctx, s.ID, style))

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LayoutWave, got.Style.Layout)

	reset, err := m.ResetStyle(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultStyle(), reset)
}

func TestBuildScene(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	res, err := m.BuildScene(ctx, s.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Message)
	assert.Equal(t, 5, res.Scene.Columns)
	assert.Equal(t, models.DefaultTitle, res.Scene.Title)
}

func TestBuildScene_StoresGivenStyle(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	style := models.DefaultStyle()
	style.Title = "Weekly"
	style.RenderStyle = models.RenderBars
	res, err := m.BuildScene(ctx, s.ID, &style)
	require.NoError(t, err)
	assert.Equal(t, "Weekly", res.Scene.Title)
	assert.Len(t, res.Scene.Faces, 25)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly", got.Style.Title)
}

func TestRender_FallbackMessage(t *testing.T) {
	m := newTestManager(t)

	res := m.Render(models.Dataset{}, models.DefaultStyle())
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, "Basic 3D Chart", res.Scene.Title)
	assert.Len(t, res.Scene.Points, 3)
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Get(ctx, "missing")
	assert.True(t, IsNotFound(err))

	_, err = m.BuildScene(ctx, "missing", nil)
	assert.True(t, IsNotFound(err))

	_, _, err = m.Upload(ctx, "missing", "f.csv", strings.NewReader("A,1\nB,2\n"))
	assert.True(t, IsNotFound(err))
}

func TestUnknownSession_LocksNotRetained(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	_, err := m.Get(ctx, "missing-get")
	assert.True(t, IsNotFound(err))
	_, _, err = m.Upload(ctx, "missing-upload", "f.csv", strings.NewReader("A,1\nB,2\n"))
	assert.True(t, IsNotFound(err))
	_, _, err = m.ResetDataset(ctx, "missing-reset")
	assert.True(t, IsNotFound(err))
	err = m.SetStyle(ctx, "missing-style", models.DefaultStyle())
	assert.True(t, IsNotFound(err))
	_, err = m.ResetStyle(ctx, "missing-style-reset")
	assert.True(t, IsNotFound(err))
	style := models.DefaultStyle()
	_, err = m.BuildScene(ctx, "missing-scene", &style)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(m.Delete(ctx, "missing-delete")))

	assert.Zero(t, m.lockCount())

	s, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.BuildScene(ctx, s.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.lockCount())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.True(t, IsNotFound(err))
}

func TestConcurrentUploads(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	s, err := m.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := m.Upload(ctx, s.ID, "f.csv", strings.NewReader("A,1\nB,2\nC,3\n"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Dataset, 3)
}
