package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"dashboard-builder/src/config"
	"dashboard-builder/src/generators"
	"dashboard-builder/src/helpers"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/orchestrator"
	"dashboard-builder/src/server"
)

// Smoke binary: boots the full stack against throwaway storage, then drives
// the HTTP surface the way a dashboard frontend would. Prints PASS/FAIL per
// step and exits non-zero if anything failed.

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(conf.LogLevel, "SmokeTest")
	errHandler := helpers.NewErrorHandler(conf.LogLevel)

	// 4. Throwaway storage so smoke runs never touch real data
	tmpDir, err := os.MkdirTemp("", "dashboard-smoke-*")
	if err != nil {
		appLogger.Critical("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	conf.Storage.DBType = "sqlite"
	conf.Storage.DBPath = tmpDir + "/smoke.db"
	conf.Storage.FallbackPath = tmpDir + "/smoke_backup.json"

	store := setupStorage(conf.MConfig, appLogger)

	// 5. Start the server in-process
	genRegistry := generators.NewRegistry(&conf.Generator)
	orch := orchestrator.NewOrchestrator(genRegistry, appLogger)
	srv := server.NewAPIServer(conf.MConfig, orch, store, appLogger)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	apiBase := fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)
	conf.Network.APIBase = apiBase

	// 6. Wait until the server answers health checks
	_, err = helpers.RetryWithBackoff("health check", 5, 200*time.Millisecond, func() (interface{}, error) {
		return checkHealth(apiBase)
	})
	if err != nil {
		appLogger.Critical("Server never became healthy: %v", err)
	}

	// 7. Run the smoke steps
	passed := 0
	failed := 0

	steps := []struct {
		name string
		fn   func() error
	}{
		{"health endpoint", func() error { _, e := checkHealth(apiBase); return e }},
		{"info endpoint", func() error { return checkInfo(apiBase) }},
		{"fetch per type", func() error { return checkFetchPerType(conf.MConfig, store, appLogger) }},
		{"invalid type rejected", func() error { return checkInvalidType(apiBase) }},
		{"batch generation", func() error { return checkBatch(apiBase) }},
		{"layout round-trip", func() error { return checkLayoutRoundTrip(store) }},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			errHandler.Handle(err, step.name)
			fmt.Printf("FAIL  %s: %v\n", step.name, err)
			failed++
		} else {
			fmt.Printf("PASS  %s\n", step.name)
			passed++
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
