package storage

import (
	"errors"
	"testing"
	"time"

	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

// failingBackend errors on every operation, standing in for a dead primary.
type failingBackend struct{}

var errDown = errors.New("backend down")

func (f *failingBackend) Initialize() error { return errDown }

func (f *failingBackend) PutLayout(*models.MStoredLayout) error { return errDown }

func (f *failingBackend) GetLayout(string) (*models.MStoredLayout, error) { return nil, errDown }

func (f *failingBackend) GetAllLayouts() ([]models.MStoredLayout, error) { return nil, errDown }

func (f *failingBackend) DeleteLayout(string) error { return errDown }

func (f *failingBackend) PutCacheEntry(*models.MCacheEntry) error { return errDown }

func (f *failingBackend) GetCacheEntry(string) (*models.MCacheEntry, error) { return nil, errDown }

func (f *failingBackend) ClearAll() error { return errDown }

func (f *failingBackend) Close() error { return nil }

// -----------------------------------------------------------------------------

func newTestBlob(t *testing.T) *BlobStore {
	t.Helper()
	b := NewBlobStore(t.TempDir()+"/fallback.json", logger.NewLogger("ERROR", "test"))
	require.NoError(t, b.Initialize())
	return b
}

func testLayout(name string) *models.MDashboardLayout {
	now := time.Now().UnixMilli()
	return &models.MDashboardLayout{
		ID:   "layout-" + name,
		Name: name,
		Widgets: []models.MWidgetConfig{
			{ID: "w1", Type: models.WidgetTypeBar, Title: "bar chart", DataSource: "bar",
				Position: models.MWidgetPosition{X: 0, Y: 0, W: 3, H: 2}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// -----------------------------------------------------------------------------

func TestDualStoreRoundTrip(t *testing.T) {
	store := NewDualStore(nil, newTestBlob(t), 0, logger.NewLogger("ERROR", "test"))

	layout := testLayout("roundtrip")
	require.True(t, store.SaveLayout(layout))

	loaded := store.LoadLayout(layout.ID)
	require.NotNil(t, loaded)
	assert.Equal(t, layout.ID, loaded.ID)
	assert.Equal(t, layout.Name, loaded.Name)
	assert.Equal(t, layout.Widgets, loaded.Widgets)
	assert.Equal(t, layout.CreatedAt, loaded.CreatedAt)
	assert.Equal(t, layout.UpdatedAt, loaded.UpdatedAt)
}

// -----------------------------------------------------------------------------

func TestDualStoreAbsentLayoutIsNilNotError(t *testing.T) {
	store := NewDualStore(nil, newTestBlob(t), 0, logger.NewLogger("ERROR", "test"))

	assert.Nil(t, store.LoadLayout("never-saved"))
}

// -----------------------------------------------------------------------------

func TestDualStoreMonotonicVersions(t *testing.T) {
	store := NewDualStore(nil, newTestBlob(t), 0, logger.NewLogger("ERROR", "test"))

	layout := testLayout("versions")
	require.True(t, store.SaveLayout(layout))
	require.True(t, store.SaveLayout(layout))
	require.True(t, store.SaveLayout(layout))

	layouts := store.GetAllLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, int64(3), layouts[0].Version)
}

// -----------------------------------------------------------------------------

func TestDualStoreFallbackCarriesFailedPrimary(t *testing.T) {
	store := NewDualStore(&failingBackend{}, newTestBlob(t), 0, logger.NewLogger("ERROR", "test"))

	layout := testLayout("degraded")

	// Primary rejects everything; the save must still succeed via fallback.
	require.True(t, store.SaveLayout(layout))

	loaded := store.LoadLayout(layout.ID)
	require.NotNil(t, loaded)
	assert.Equal(t, layout.Name, loaded.Name)

	assert.True(t, store.CacheWidgetData("bar", "payload"))
	assert.Equal(t, "payload", store.GetCachedWidgetData("bar"))

	assert.True(t, store.DeleteLayout(layout.ID))
	assert.Nil(t, store.LoadLayout(layout.ID))
}

// -----------------------------------------------------------------------------

func TestDualStoreBothTiersDownReturnsFalse(t *testing.T) {
	store := NewDualStore(&failingBackend{}, &failingBackend{}, 0, logger.NewLogger("ERROR", "test"))

	assert.False(t, store.SaveLayout(testLayout("doomed")))
	assert.Nil(t, store.LoadLayout("anything"))
	assert.False(t, store.CacheWidgetData("bar", "payload"))
	assert.Nil(t, store.GetCachedWidgetData("bar"))
	assert.False(t, store.ClearAll())
}

// -----------------------------------------------------------------------------

func TestDualStoreCacheTTLEviction(t *testing.T) {
	blob := newTestBlob(t)
	store := NewDualStore(nil, blob, 50*time.Millisecond, logger.NewLogger("ERROR", "test"))

	require.True(t, store.CacheWidgetData("bar", "payload"))
	assert.Equal(t, "payload", store.GetCachedWidgetData("bar"))

	time.Sleep(60 * time.Millisecond)

	assert.Nil(t, store.GetCachedWidgetData("bar"), "stale entry must be evicted at read time")
	// Once evicted it stays gone
	assert.Nil(t, store.GetCachedWidgetData("bar"))
}

// -----------------------------------------------------------------------------

func TestDualStoreSaveNilLayout(t *testing.T) {
	store := NewDualStore(nil, newTestBlob(t), 0, logger.NewLogger("ERROR", "test"))
	assert.False(t, store.SaveLayout(nil))
}
