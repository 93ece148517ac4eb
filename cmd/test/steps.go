package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dashboard-builder/src/dashboard"
	"dashboard-builder/src/dataservice"
	"dashboard-builder/src/interfaces"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/storage"
)

// -----------------------------------------------------------------------------

// setupStorage builds the dual-tier store on throwaway paths
func setupStorage(conf *models.MConfig, appLogger *logger.Logger) interfaces.ILayoutStore {
	primary, err := storage.NewSQLiteStore(conf, appLogger)
	if err == nil {
		if err := primary.Initialize(); err != nil {
			appLogger.Warning("Smoke sqlite init failed, fallback only: %v", err)
			primary = nil
		}
	} else {
		primary = nil
	}

	fallback := storage.NewBlobStore(conf.Storage.FallbackPath, appLogger)
	if err := fallback.Initialize(); err != nil {
		appLogger.Critical("Failed to init fallback store: %v", err)
	}

	ttl := time.Duration(conf.Network.CacheTTLSec) * time.Second

	if primary == nil {
		return storage.NewDualStore(nil, fallback, ttl, appLogger)
	}
	return storage.NewDualStore(primary, fallback, ttl, appLogger)
}

// -----------------------------------------------------------------------------

func checkHealth(apiBase string) (interface{}, error) {
	resp, err := http.Get(apiBase + "/api/health")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("health returned %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body["status"] != "ok" {
		return nil, fmt.Errorf("unexpected health status: %v", body["status"])
	}
	return body, nil
}

// -----------------------------------------------------------------------------

func checkInfo(apiBase string) error {
	resp, err := http.Get(apiBase + "/")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("info returned %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body["name"] == nil || body["endpoints"] == nil {
		return fmt.Errorf("info body incomplete: %v", body)
	}
	return nil
}

// -----------------------------------------------------------------------------

// checkFetchPerType goes through the client data service so the full
// fetch/validate/decode/cache path is exercised, not just the raw endpoint
func checkFetchPerType(conf *models.MConfig, store interfaces.ILayoutStore, appLogger *logger.Logger) error {
	ds := dataservice.NewDataService(conf, store, appLogger)

	for _, t := range models.AllWidgetTypes() {
		state := ds.FetchWidgetData(string(t), nil)
		if state.Error != "" {
			return fmt.Errorf("fetch %s failed: %s", t, state.Error)
		}
		if state.Data == nil {
			return fmt.Errorf("fetch %s returned no data", t)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func checkInvalidType(apiBase string) error {
	resp, err := http.Get(apiBase + "/api/data/gauge")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		return fmt.Errorf("expected 400 for unknown type, got %d", resp.StatusCode)
	}
	return nil
}

// -----------------------------------------------------------------------------

func checkBatch(apiBase string) error {
	// "gauge" must be filtered out silently; duplicates collapse
	payload := []byte(`{"types": ["bar", "line", "bar", "gauge"]}`)

	resp, err := http.Post(apiBase+"/api/data/batch", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("batch returned %d: %s", resp.StatusCode, raw)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}

	if len(body) != 2 {
		return fmt.Errorf("expected 2 distinct results, got %d", len(body))
	}
	for _, t := range []string{"bar", "line"} {
		if _, ok := body[t]; !ok {
			return fmt.Errorf("batch result missing type %s", t)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func checkLayoutRoundTrip(store interfaces.ILayoutStore) error {
	layout := dashboard.NewLayout("Smoke Layout")
	layout.Widgets = append(layout.Widgets, models.MWidgetConfig{
		ID:         "w1",
		Type:       models.WidgetTypeBar,
		Title:      "bar chart",
		DataSource: "bar",
		Position:   models.MWidgetPosition{X: 0, Y: 0, W: 3, H: 2},
	})

	if !store.SaveLayout(layout) {
		return fmt.Errorf("save failed")
	}

	loaded := store.LoadLayout(layout.ID)
	if loaded == nil {
		return fmt.Errorf("load returned nil for %s", layout.ID)
	}
	if loaded.Name != layout.Name || len(loaded.Widgets) != 1 {
		return fmt.Errorf("round-trip mismatch: %+v", loaded)
	}
	if loaded.Widgets[0].ID != "w1" || loaded.Widgets[0].Position.W != 3 {
		return fmt.Errorf("widget round-trip mismatch: %+v", loaded.Widgets[0])
	}

	// Saving again must bump the stored version
	if !store.SaveLayout(layout) {
		return fmt.Errorf("second save failed")
	}
	for _, rec := range store.GetAllLayouts() {
		if rec.ID == layout.ID {
			if rec.Version < 2 {
				return fmt.Errorf("expected version >= 2, got %d", rec.Version)
			}
			return nil
		}
	}
	return fmt.Errorf("layout %s missing from listing", layout.ID)
}
