package storage

import (
	"os"
	"testing"

	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func TestBlobStoreSurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/store.json"
	log := logger.NewLogger("ERROR", "test")

	first := NewBlobStore(path, log)
	require.NoError(t, first.Initialize())

	rec := &models.MStoredLayout{
		ID:      "l1",
		Name:    "Persisted",
		Data:    *testLayout("blob"),
		SavedAt: 1700000000000,
		Version: 1,
	}
	require.NoError(t, first.PutLayout(rec))
	require.NoError(t, first.PutCacheEntry(&models.MCacheEntry{Key: "bar", Value: "payload", Timestamp: 1}))
	require.NoError(t, first.Close())

	// A second instance over the same file sees everything
	second := NewBlobStore(path, log)
	require.NoError(t, second.Initialize())

	got, err := second.GetLayout("l1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Persisted", got.Name)
	assert.Equal(t, rec.Data.Widgets, got.Data.Widgets)

	entry, err := second.GetCacheEntry("bar")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "payload", entry.Value)
}

// -----------------------------------------------------------------------------

func TestBlobStoreCorruptFileStartsEmpty(t *testing.T) {
	path := t.TempDir() + "/store.json"
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	b := NewBlobStore(path, logger.NewLogger("ERROR", "test"))
	require.NoError(t, b.Initialize(), "corrupt backup must not fail startup")

	layouts, err := b.GetAllLayouts()
	require.NoError(t, err)
	assert.Empty(t, layouts)
}

// -----------------------------------------------------------------------------

func TestBlobStoreListingOrder(t *testing.T) {
	b := newTestBlob(t)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, b.PutLayout(&models.MStoredLayout{
			ID:      id,
			Name:    id,
			SavedAt: int64(100 + i),
			Version: 1,
		}))
	}

	layouts, err := b.GetAllLayouts()
	require.NoError(t, err)
	require.Len(t, layouts, 3)
	// Most recent first
	assert.Equal(t, "c", layouts[0].ID)
	assert.Equal(t, "a", layouts[2].ID)
}

// -----------------------------------------------------------------------------

func TestBlobStoreDeleteAndClear(t *testing.T) {
	b := newTestBlob(t)

	require.NoError(t, b.PutLayout(&models.MStoredLayout{ID: "l1", Version: 1}))
	require.NoError(t, b.DeleteLayout("l1"))

	got, err := b.GetLayout("l1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, b.PutLayout(&models.MStoredLayout{ID: "l2", Version: 1}))
	require.NoError(t, b.PutCacheEntry(&models.MCacheEntry{Key: "bar", Timestamp: 1}))
	require.NoError(t, b.ClearAll())

	layouts, err := b.GetAllLayouts()
	require.NoError(t, err)
	assert.Empty(t, layouts)

	entry, err := b.GetCacheEntry("bar")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
