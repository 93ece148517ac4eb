package dataservice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"dashboard-builder/src/interfaces"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/schemas"
)

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

const (
	DefaultRetries   = 2
	DefaultTimeout   = 5 * time.Second
	DefaultCacheTTL  = 5 * time.Minute
	backoffBaseDelay = 100 * time.Millisecond
)

// -----------------------------------------------------------------------------

// FetchOptions tune one fetch call. Zero values fall back to the service
// defaults.
type FetchOptions struct {
	Retries int
	Timeout time.Duration
}

// -----------------------------------------------------------------------------

type cacheRecord struct {
	response  *models.MWidgetDataResponse
	timestamp time.Time
}

// -----------------------------------------------------------------------------
// Data Service
// -----------------------------------------------------------------------------

// DataService fetches widget data from the HTTP data API with an in-memory
// TTL cache, per-attempt timeouts and bounded retry with exponential backoff.
// An optional durable store receives successful payloads (write-behind) and
// serves them back when the network is unreachable.
type DataService struct {
	APIBase  string
	Client   *http.Client
	CacheTTL time.Duration
	Retries  int
	Timeout  time.Duration
	Store    interfaces.ILayoutStore // optional, may be nil
	Logger   *logger.Logger

	mu    sync.RWMutex
	cache map[string]cacheRecord
}

// -----------------------------------------------------------------------------

func NewDataService(cfg *models.MConfig, store interfaces.ILayoutStore, log *logger.Logger) *DataService {
	retries := DefaultRetries
	timeout := DefaultTimeout
	ttl := DefaultCacheTTL
	apiBase := ""

	if cfg != nil {
		apiBase = cfg.Network.APIBase
		if cfg.Network.MaxRetries > 0 {
			retries = cfg.Network.MaxRetries
		}
		if cfg.Network.RequestTimeout > 0 {
			timeout = time.Duration(cfg.Network.RequestTimeout) * time.Second
		}
		if cfg.Network.CacheTTLSec > 0 {
			ttl = time.Duration(cfg.Network.CacheTTLSec) * time.Second
		}
	}

	return &DataService{
		APIBase:  apiBase,
		Client:   &http.Client{},
		CacheTTL: ttl,
		Retries:  retries,
		Timeout:  timeout,
		Store:    store,
		Logger:   log,
		cache:    make(map[string]cacheRecord),
	}
}

// -----------------------------------------------------------------------------

// FetchWidgetData resolves one data source key to widget data. The result is
// always a settled state: IsLoading false, and either data or an error
// message. Faults never propagate to the caller.
func (ds *DataService) FetchWidgetData(sourceKey string, opts *FetchOptions) models.MWidgetState {
	retries := ds.Retries
	timeout := ds.Timeout
	if opts != nil {
		if opts.Retries > 0 {
			retries = opts.Retries
		}
		if opts.Timeout > 0 {
			timeout = opts.Timeout
		}
	}

	// Fresh cache entry short-circuits the network entirely.
	if cached := ds.cachedResponse(sourceKey); cached != nil {
		return models.MWidgetState{Data: cached.Data}
	}

	var lastErr error

	for attempt := 0; attempt < retries; attempt++ {
		resp, err := ds.fetchOnce(sourceKey, timeout)
		if err == nil {
			ds.storeResponse(sourceKey, resp)
			return models.MWidgetState{Data: resp.Data}
		}

		lastErr = err
		if attempt < retries-1 {
			// exponential backoff, attempt-indexed from 0
			time.Sleep(backoffBaseDelay * (1 << attempt))
		}
	}

	ds.Logger.Warning("Fetch exhausted for '%s': %v", sourceKey, lastErr)

	// Degraded mode: a durably cached payload beats an empty error widget.
	if ds.Store != nil {
		if value := ds.Store.GetCachedWidgetData(sourceKey); value != nil {
			ds.Logger.Info("Serving '%s' from durable cache", sourceKey)
			return models.MWidgetState{Data: value}
		}
	}

	return models.MWidgetState{Error: lastErr.Error()}
}

// -----------------------------------------------------------------------------

// fetchOnce performs a single request cycle, abandoned when it exceeds the
// timeout.
func (ds *DataService) fetchOnce(sourceKey string, timeout time.Duration) (*models.MWidgetDataResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/data/%s", ds.APIBase, sourceKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := ds.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return schemas.DecodeEnvelope(body)
}

// -----------------------------------------------------------------------------
// Cache
// -----------------------------------------------------------------------------

// cachedResponse returns a fresh envelope or nil; staleness is checked at
// read time only.
func (ds *DataService) cachedResponse(sourceKey string) *models.MWidgetDataResponse {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	rec, ok := ds.cache[sourceKey]
	if !ok {
		return nil
	}
	if time.Since(rec.timestamp) >= ds.CacheTTL {
		return nil
	}
	return rec.response
}

// -----------------------------------------------------------------------------

func (ds *DataService) storeResponse(sourceKey string, resp *models.MWidgetDataResponse) {
	ds.mu.Lock()
	ds.cache[sourceKey] = cacheRecord{response: resp, timestamp: time.Now()}
	ds.mu.Unlock()

	// Write-behind into the durable cache, best effort.
	if ds.Store != nil {
		if ok := ds.Store.CacheWidgetData(sourceKey, resp.Data); !ok {
			ds.Logger.Debug("Durable cache write skipped for '%s'", sourceKey)
		}
	}
}

// -----------------------------------------------------------------------------

// InvalidateCache evicts one key, for manual refresh paths.
func (ds *DataService) InvalidateCache(sourceKey string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.cache, sourceKey)
}

// -----------------------------------------------------------------------------

// InvalidateAllCache evicts every cached entry.
func (ds *DataService) InvalidateAllCache() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.cache = make(map[string]cacheRecord)
}
