package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"swagplan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestFileStore(t *testing.T) *FileStore {
	return NewFileStore(filepath.Join(t.TempDir(), "data", "data.json"), zaptest.NewLogger(t))
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := newTestFileStore(t)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Activities)
	assert.Empty(t, doc.Users)
	assert.NotNil(t, doc.Activities)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestFileStore(t)
	responsible := "u1"
	doc := &models.Document{
		Activities: []models.Activity{{
			ID:           "a1",
			Title:        "Sauna night",
			Date:         "2024-01-15",
			Status:       models.StatusPlanned,
			Responsible:  &responsible,
			Participants: []string{"u1"},
			Notifications: map[models.LeadTimeKey]*models.NotificationRecord{
				models.TwoWeeks: {Sent: true, SentAt: "2024-01-01T00:00:00.000Z", Recipients: []string{"a@x.com"}},
			},
		}},
		Users: []models.User{{ID: "u1", Name: "Ada", Email: "a@x.com"}},
	}

	require.NoError(t, s.Save(context.Background(), doc))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"activities\": [")

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStoreCorruptFileIsMovedAside(t *testing.T) {
	s := newTestFileStore(t)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Activities)

	backup, err := os.ReadFile(s.Path() + ".corrupt-1700000000")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreReadErrorBlocksUpdate(t *testing.T) {
	s := newTestFileStore(t)
	// a directory at the data path makes the read fail with something other than ENOENT
	require.NoError(t, os.MkdirAll(filepath.Join(s.Path(), "keep"), 0o755))

	_, err := s.Load(context.Background())
	require.Error(t, err)

	called := false
	err = NewGuarded(s).Update(context.Background(), func(doc *models.Document) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called, "nothing may be written over an unreadable data file")

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreNormalizesNulls(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"activities":[{"id":"a1","participants":null}],"users":null}`), 0o644))

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Users)
	assert.NotNil(t, doc.Activities[0].Participants)
}

func TestOpenSelectsDriver(t *testing.T) {
	log := zaptest.NewLogger(t)

	s, closeFn, err := Open("file", filepath.Join(t.TempDir(), "data.json"), "", log)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	assert.NoError(t, closeFn())

	_, _, err = Open("mongo", "", "", log)
	assert.Error(t, err)
}
