package interfaces

import "dashboard-builder/src/models"

// -----------------------------------------------------------------------------
// IStorageBackend defines the contract for one persistence tier.
// -----------------------------------------------------------------------------

type IStorageBackend interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up tables or loads the backing file.
	Initialize() error

	// -----------------------------------------------------------------------------

	// PutLayout inserts or overwrites one stored layout record.
	PutLayout(rec *models.MStoredLayout) error

	// -----------------------------------------------------------------------------

	// GetLayout returns a stored layout, or (nil, nil) when the id is absent.
	GetLayout(id string) (*models.MStoredLayout, error)

	// -----------------------------------------------------------------------------

	// GetAllLayouts returns every stored layout record.
	GetAllLayouts() ([]models.MStoredLayout, error)

	// -----------------------------------------------------------------------------

	// DeleteLayout removes one layout. Deleting an absent id is not an error.
	DeleteLayout(id string) error

	// -----------------------------------------------------------------------------

	// PutCacheEntry inserts or overwrites one widget-data cache record.
	PutCacheEntry(entry *models.MCacheEntry) error

	// -----------------------------------------------------------------------------

	// GetCacheEntry returns a cache record, or (nil, nil) when absent.
	GetCacheEntry(key string) (*models.MCacheEntry, error)

	// -----------------------------------------------------------------------------

	// ClearAll wipes both the layout table and the widget-data cache.
	ClearAll() error

	// -----------------------------------------------------------------------------

	// Close the backend
	Close() error
}

// -----------------------------------------------------------------------------
// ILayoutStore is the best-effort persistence surface consumed by the
// dashboard. Operations degrade to false/nil instead of failing; internal
// faults are caught and logged behind this boundary.
// -----------------------------------------------------------------------------

type ILayoutStore interface {

	// SaveLayout persists a layout, bumping its stored version.
	SaveLayout(layout *models.MDashboardLayout) bool

	// -----------------------------------------------------------------------------

	// LoadLayout returns a layout by id, or nil when not found anywhere.
	LoadLayout(id string) *models.MDashboardLayout

	// -----------------------------------------------------------------------------

	// GetAllLayouts lists every stored layout record.
	GetAllLayouts() []models.MStoredLayout

	// -----------------------------------------------------------------------------

	// DeleteLayout removes a layout from every tier.
	DeleteLayout(id string) bool

	// -----------------------------------------------------------------------------

	// CacheWidgetData stores arbitrary widget data under a key.
	CacheWidgetData(key string, value interface{}) bool

	// -----------------------------------------------------------------------------

	// GetCachedWidgetData returns cached data, or nil when absent or stale.
	GetCachedWidgetData(key string) interface{}

	// -----------------------------------------------------------------------------

	// ClearAll wipes layouts and cached widget data in every tier.
	ClearAll() bool
}
