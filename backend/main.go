package main

import (
	"log"

	"pincorder/backend/config"
	"pincorder/backend/metrics"
	"pincorder/backend/routes"
	"pincorder/backend/services"
	"pincorder/backend/storage"
	"pincorder/backend/store"
	"pincorder/backend/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat, EnableColors: cfg.LogColors})

	// Initialize database
	db, err := store.Open(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	svc := services.New(st, storage.NewLocalStorage(cfg.MediaRoot), cfg, logger, m)

	app := routes.NewApp(cfg, svc, logger, m, registry)

	logger.Printf("listening on :%s (%s)", cfg.ServerPort, cfg.DBDriver)
	logger.Fatal(app.Listen(":" + cfg.ServerPort))
}
