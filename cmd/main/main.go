package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard-builder/src/config"
	"dashboard-builder/src/dashboard"
	"dashboard-builder/src/generators"
	"dashboard-builder/src/interfaces"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/orchestrator"
	"dashboard-builder/src/registry"
	"dashboard-builder/src/server"
	"dashboard-builder/src/storage"
	"dashboard-builder/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.LogLevel, config.Name)

	// 2. Storage tiers
	var primary interfaces.IStorageBackend

	switch config.Storage.DBType {
	case "postgres":
		primary, err = storage.NewPostgresStore(config.MConfig, appLogger)
	default:
		// Default to SQLite
		primary, err = storage.NewSQLiteStore(config.MConfig, appLogger)
	}

	// A dead primary is survivable: the dual store runs fallback-only.
	if err != nil {
		appLogger.Warning("Primary store unavailable, running on fallback only: %v", err)
		primary = nil
	} else if err := primary.Initialize(); err != nil {
		appLogger.Warning("Primary store init failed, running on fallback only: %v", err)
		primary = nil
	}

	fallback := storage.NewBlobStore(config.Storage.FallbackPath, appLogger)
	if err := fallback.Initialize(); err != nil {
		appLogger.Critical("Failed to init fallback store: %v", err)
	}

	cacheTTL := time.Duration(config.Network.CacheTTLSec) * time.Second
	store := storage.NewDualStore(primary, fallback, cacheTTL, appLogger)

	// 3. Setup Components
	widgetRegistry := registry.NewWidgetRegistry()
	registry.RegisterBuiltins(widgetRegistry)

	genRegistry := generators.NewRegistry(&config.Generator)
	orch := orchestrator.NewOrchestrator(genRegistry, appLogger)

	dashStore := dashboard.NewStore(appLogger)

	// 4. Rehydrate the most recently saved layout, or mint a default one
	layout := loadOrCreateLayout(config.MConfig, store, widgetRegistry, appLogger)
	dashStore.SetLayout(layout)

	// 5. Start Server (REST + websocket hub)
	srv := server.NewAPIServer(config.MConfig, orch, store, appLogger)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 6. Refresh loop: regenerate data for the layout's widget types and push
	interval := time.Duration(config.Dashboard.RefreshIntervalSeconds) * time.Second
	scheduler := utils.NewRefreshScheduler(interval, func() {
		refreshTick(dashStore, orch, srv, appLogger)
	})
	scheduler.Start()

	appLogger.Info("Dashboard builder running (refresh every %s)", interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	scheduler.Stop()

	// Persist the final layout state before closing the tiers
	if snapshot := dashStore.GetLayout(); snapshot != nil {
		store.SaveLayout(snapshot)
	}

	if primary != nil {
		primary.Close()
	}
	fallback.Close()
}

// -----------------------------------------------------------------------------

// loadOrCreateLayout restores the most recently saved layout. On first run it
// builds a default layout holding one widget per built-in type, sized to the
// registry minimums, and saves it in the background.
func loadOrCreateLayout(cfg *models.MConfig, store interfaces.ILayoutStore, reg *registry.WidgetRegistry, log *logger.Logger) *models.MDashboardLayout {
	if saved := store.GetAllLayouts(); len(saved) > 0 {
		// GetAllLayouts is ordered most recent first
		if layout := store.LoadLayout(saved[0].ID); layout != nil {
			log.Info("Restored layout '%s' (%d widgets)", layout.Name, len(layout.Widgets))
			return layout
		}
	}

	layout := dashboard.NewLayout(cfg.Dashboard.DefaultLayoutName)

	x := 0
	for i, t := range reg.GetAvailableTypes() {
		w, h := 3, 2
		if def := reg.GetDefinition(t); def != nil {
			w, h = def.MinWidth, def.MinHeight
		}

		layout.Widgets = append(layout.Widgets, models.MWidgetConfig{
			ID:         fmt.Sprintf("w%d", i+1),
			Type:       t,
			Title:      fmt.Sprintf("%s chart", t),
			DataSource: string(t),
			Position:   models.MWidgetPosition{X: x, Y: 0, W: w, H: h},
		})
		x += w
	}

	log.Info("Created default layout '%s' (%d widgets)", layout.Name, len(layout.Widgets))

	// First save happens off the startup path
	go func() {
		if !store.SaveLayout(layout) {
			log.Warning("Initial layout save failed")
		}
	}()

	return layout
}

// -----------------------------------------------------------------------------

// refreshTick regenerates data for every widget type present in the layout,
// updates per-widget fetch state and broadcasts to websocket subscribers.
func refreshTick(dashStore *dashboard.Store, orch *orchestrator.Orchestrator, srv *server.APIServer, log *logger.Logger) {
	layout := dashStore.GetLayout()
	if layout == nil || len(layout.Widgets) == 0 {
		return
	}

	types := make([]models.WidgetType, 0, len(layout.Widgets))
	for _, w := range layout.Widgets {
		types = append(types, w.Type)
	}

	// Duplicates collapse inside the batch
	results := orch.GenerateBatch(types)

	responses := make(map[models.WidgetType]*models.MWidgetDataResponse, len(results))
	for t, res := range results {
		if res.Err != nil {
			log.Warning("Refresh failed for type %s: %v", t, res.Err)
			continue
		}
		responses[t] = res.Response
	}

	for _, w := range layout.Widgets {
		if res, ok := results[w.Type]; ok {
			if res.Err != nil {
				dashStore.SetWidgetError(w.ID, res.Err.Message)
			} else {
				dashStore.SetWidgetData(w.ID, models.MWidgetState{Data: res.Response.Data})
			}
		}
	}

	srv.BroadcastResponses(responses)
}
