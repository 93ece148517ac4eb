package storage

import (
	"time"

	"dashboard-builder/src/interfaces"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
)

// -----------------------------------------------------------------------------
// Dual-Tier Facade
// -----------------------------------------------------------------------------

// DualStore implements the best-effort persistence surface over two tiers.
// Writes go to the primary and are mirrored into the fallback as a backup;
// when the primary is unavailable or an operation on it fails, the fallback
// carries the operation alone. Reads try the primary first and consult the
// fallback on any error or absence. Nothing escapes this boundary as a fault:
// failures are logged and degrade to false/nil.
type DualStore struct {
	Primary  interfaces.IStorageBackend // nil when the primary tier is unavailable
	Fallback interfaces.IStorageBackend
	CacheTTL time.Duration
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewDualStore(primary, fallback interfaces.IStorageBackend, cacheTTL time.Duration, log *logger.Logger) *DualStore {
	return &DualStore{
		Primary:  primary,
		Fallback: fallback,
		CacheTTL: cacheTTL,
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

// SaveLayout persists a layout, bumping the stored version monotonically.
// Loss of both tiers reports a failed save but must not abort the caller's
// in-memory state change.
func (s *DualStore) SaveLayout(layout *models.MDashboardLayout) bool {
	if layout == nil {
		return false
	}

	rec := &models.MStoredLayout{
		ID:      layout.ID,
		Name:    layout.Name,
		Data:    *layout.Clone(),
		SavedAt: time.Now().UnixMilli(),
		Version: s.nextVersion(layout.ID),
	}

	saved := false
	if s.Primary != nil {
		if err := s.Primary.PutLayout(rec); err != nil {
			s.Logger.Warning("Primary layout save failed for %s, using fallback: %v", rec.ID, err)
		} else {
			saved = true
		}
	}

	// Mirror into the fallback even after a primary success, so the backup
	// tier can answer reads if the primary dies later.
	if err := s.Fallback.PutLayout(rec); err != nil {
		s.Logger.Error("Fallback layout save failed for %s: %v", rec.ID, err)
	} else {
		saved = true
	}

	return saved
}

// -----------------------------------------------------------------------------

// LoadLayout returns a layout by id, or nil when no tier has it. Absence is
// not an error.
func (s *DualStore) LoadLayout(id string) *models.MDashboardLayout {
	rec := s.getRecord(id)
	if rec == nil {
		return nil
	}
	return rec.Data.Clone()
}

// -----------------------------------------------------------------------------

func (s *DualStore) GetAllLayouts() []models.MStoredLayout {
	if s.Primary != nil {
		layouts, err := s.Primary.GetAllLayouts()
		if err == nil {
			return layouts
		}
		s.Logger.Warning("Primary layout listing failed, using fallback: %v", err)
	}

	layouts, err := s.Fallback.GetAllLayouts()
	if err != nil {
		s.Logger.Error("Fallback layout listing failed: %v", err)
		return nil
	}
	return layouts
}

// -----------------------------------------------------------------------------

func (s *DualStore) DeleteLayout(id string) bool {
	deleted := false
	if s.Primary != nil {
		if err := s.Primary.DeleteLayout(id); err != nil {
			s.Logger.Warning("Primary layout delete failed for %s: %v", id, err)
		} else {
			deleted = true
		}
	}

	if err := s.Fallback.DeleteLayout(id); err != nil {
		s.Logger.Error("Fallback layout delete failed for %s: %v", id, err)
	} else {
		deleted = true
	}

	return deleted
}

// -----------------------------------------------------------------------------

func (s *DualStore) CacheWidgetData(key string, value interface{}) bool {
	entry := &models.MCacheEntry{
		Key:       key,
		Value:     value,
		Timestamp: time.Now().UnixMilli(),
	}

	cached := false
	if s.Primary != nil {
		if err := s.Primary.PutCacheEntry(entry); err != nil {
			s.Logger.Warning("Primary cache write failed for %s, using fallback: %v", key, err)
		} else {
			cached = true
		}
	}

	if err := s.Fallback.PutCacheEntry(entry); err != nil {
		s.Logger.Error("Fallback cache write failed for %s: %v", key, err)
	} else {
		cached = true
	}

	return cached
}

// -----------------------------------------------------------------------------

// GetCachedWidgetData returns cached widget data, or nil when absent. Stale
// entries are evicted here, at read time; there is no proactive sweep.
func (s *DualStore) GetCachedWidgetData(key string) interface{} {
	entry := s.getCacheEntry(key)
	if entry == nil {
		return nil
	}

	if s.CacheTTL > 0 {
		age := time.Since(time.UnixMilli(entry.Timestamp))
		if age > s.CacheTTL {
			s.evictCacheEntry(key)
			return nil
		}
	}

	return entry.Value
}

// -----------------------------------------------------------------------------

func (s *DualStore) ClearAll() bool {
	cleared := false
	if s.Primary != nil {
		if err := s.Primary.ClearAll(); err != nil {
			s.Logger.Warning("Primary clear failed: %v", err)
		} else {
			cleared = true
		}
	}

	if err := s.Fallback.ClearAll(); err != nil {
		s.Logger.Error("Fallback clear failed: %v", err)
	} else {
		cleared = true
	}

	return cleared
}

// -----------------------------------------------------------------------------
// Internal Read Path
// -----------------------------------------------------------------------------

func (s *DualStore) getRecord(id string) *models.MStoredLayout {
	if s.Primary != nil {
		rec, err := s.Primary.GetLayout(id)
		if err != nil {
			s.Logger.Warning("Primary layout read failed for %s, using fallback: %v", id, err)
		} else if rec != nil {
			return rec
		}
	}

	rec, err := s.Fallback.GetLayout(id)
	if err != nil {
		s.Logger.Error("Fallback layout read failed for %s: %v", id, err)
		return nil
	}
	return rec
}

// -----------------------------------------------------------------------------

func (s *DualStore) getCacheEntry(key string) *models.MCacheEntry {
	if s.Primary != nil {
		entry, err := s.Primary.GetCacheEntry(key)
		if err != nil {
			s.Logger.Warning("Primary cache read failed for %s, using fallback: %v", key, err)
		} else if entry != nil {
			return entry
		}
	}

	entry, err := s.Fallback.GetCacheEntry(key)
	if err != nil {
		s.Logger.Error("Fallback cache read failed for %s: %v", key, err)
		return nil
	}
	return entry
}

// -----------------------------------------------------------------------------

// evictCacheEntry drops a stale entry from both tiers, best effort. Backends
// have no targeted cache delete, so the entry is overwritten with a zero
// timestamp which every future read treats as stale and skips.
func (s *DualStore) evictCacheEntry(key string) {
	stale := &models.MCacheEntry{Key: key, Value: nil, Timestamp: 0}
	if s.Primary != nil {
		if err := s.Primary.PutCacheEntry(stale); err != nil {
			s.Logger.Debug("Stale cache overwrite failed for %s: %v", key, err)
		}
	}
	if err := s.Fallback.PutCacheEntry(stale); err != nil {
		s.Logger.Debug("Stale cache overwrite failed for %s: %v", key, err)
	}
}

// -----------------------------------------------------------------------------

// nextVersion reads the current stored version of a layout and increments it.
// A layout never saved before starts at version 1.
func (s *DualStore) nextVersion(id string) int64 {
	rec := s.getRecord(id)
	if rec == nil {
		return 1
	}
	return rec.Version + 1
}
