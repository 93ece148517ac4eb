package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
)

// -----------------------------------------------------------------------------

// blobFile is the on-disk shape of the fallback store: a single flat JSON
// document holding both tables.
type blobFile struct {
	Layouts map[string]models.MStoredLayout `json:"layouts"`
	Cache   map[string]models.MCacheEntry   `json:"cache"`
}

// -----------------------------------------------------------------------------

// BlobStore is the fallback tier: a flat serialized-blob store backed by one
// JSON file, rewritten whole on every mutation. It trades write amplification
// for having no dependency on a storage engine at all.
type BlobStore struct {
	Path   string
	Logger *logger.Logger

	mu   sync.Mutex
	data blobFile
}

// -----------------------------------------------------------------------------

func NewBlobStore(path string, log *logger.Logger) *BlobStore {
	return &BlobStore{
		Path:   path,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (b *BlobStore) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = blobFile{
		Layouts: make(map[string]models.MStoredLayout),
		Cache:   make(map[string]models.MCacheEntry),
	}

	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create fallback directory: %w", err)
		}
	}

	raw, err := os.ReadFile(b.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read fallback store '%s': %w", b.Path, err)
	}

	if err := json.Unmarshal(raw, &b.data); err != nil {
		// A corrupt backup is not worth failing startup over. Start fresh.
		b.Logger.Warning("Fallback store '%s' is corrupt, starting empty: %v", b.Path, err)
		b.data = blobFile{
			Layouts: make(map[string]models.MStoredLayout),
			Cache:   make(map[string]models.MCacheEntry),
		}
	}
	if b.data.Layouts == nil {
		b.data.Layouts = make(map[string]models.MStoredLayout)
	}
	if b.data.Cache == nil {
		b.data.Cache = make(map[string]models.MCacheEntry)
	}
	return nil
}

// -----------------------------------------------------------------------------

// flush rewrites the whole file. Caller must hold the lock.
func (b *BlobStore) flush() error {
	raw, err := json.Marshal(b.data)
	if err != nil {
		return fmt.Errorf("failed to marshal fallback store: %w", err)
	}
	if err := os.WriteFile(b.Path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write fallback store '%s': %w", b.Path, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (b *BlobStore) PutLayout(rec *models.MStoredLayout) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data.Layouts[rec.ID] = *rec
	return b.flush()
}

// -----------------------------------------------------------------------------

func (b *BlobStore) GetLayout(id string) (*models.MStoredLayout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.data.Layouts[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// -----------------------------------------------------------------------------

func (b *BlobStore) GetAllLayouts() ([]models.MStoredLayout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	layouts := make([]models.MStoredLayout, 0, len(b.data.Layouts))
	for _, rec := range b.data.Layouts {
		layouts = append(layouts, rec)
	}
	sort.Slice(layouts, func(i, j int) bool {
		return layouts[i].SavedAt > layouts[j].SavedAt
	})
	return layouts, nil
}

// -----------------------------------------------------------------------------

func (b *BlobStore) DeleteLayout(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data.Layouts, id)
	return b.flush()
}

// -----------------------------------------------------------------------------

func (b *BlobStore) PutCacheEntry(entry *models.MCacheEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data.Cache[entry.Key] = *entry
	return b.flush()
}

// -----------------------------------------------------------------------------

func (b *BlobStore) GetCacheEntry(key string) (*models.MCacheEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.data.Cache[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// -----------------------------------------------------------------------------

func (b *BlobStore) ClearAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data.Layouts = make(map[string]models.MStoredLayout)
	b.data.Cache = make(map[string]models.MCacheEntry)
	return b.flush()
}

// -----------------------------------------------------------------------------

func (b *BlobStore) Close() error {
	return nil
}
