// Currently server.
//
// Serves the appliance catalogue and each user's rooms and appliances
// over REST, with daily energy and cost estimates on every appliance.
// MQTT change events and InfluxDB estimate history are optional.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/currently-core/migrations"

	"github.com/nerrad567/currently-core/internal/api"
	"github.com/nerrad567/currently-core/internal/audit"
	"github.com/nerrad567/currently-core/internal/auth"
	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
	"github.com/nerrad567/currently-core/internal/infrastructure/config"
	"github.com/nerrad567/currently-core/internal/infrastructure/database"
	"github.com/nerrad567/currently-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/currently-core/internal/infrastructure/logging"
	"github.com/nerrad567/currently-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/currently-core/internal/usage"
)

// Set at build time: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts every component, blocks until ctx is cancelled, then shuts
// down in reverse order.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Currently",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "level", cfg.Logging.Level)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	idx, err := loadCatalogue(cfg.Catalogue)
	if err != nil {
		return err
	}
	log.Info("catalogue loaded", "archetypes", idx.Len(), "custom", cfg.Catalogue.Path != "")

	authSvc, err := auth.NewService(auth.NewUserRepository(db.DB), cfg.Security.JWT.Secret, cfg.GetAccessTokenTTL())
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	checks := map[string]api.HealthChecker{"database": db}
	deps := api.Deps{
		Config:     cfg.API,
		Logger:     log,
		Auth:       authSvc,
		Households: household.NewSQLiteRepository(db.DB),
		Activity:   audit.NewSQLiteRepository(db.DB),
		Catalogue:  idx,
		Calculator: usage.NewCalculator(idx, cfg.Energy.TariffPerKWh),
		Checks:     checks,
		Version:    version,
	}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
		mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
		deps.Events = mqttClient
		checks["mqtt"] = mqttClient
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) { log.Error("InfluxDB write error", "error", err) })
		deps.Estimates = influxClient
		checks["influxdb"] = influxClient
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	}

	if err := healthCheck(ctx, checks); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns CURRENTLY_CONFIG if set. Otherwise it returns the
// default path when that file exists, or "" to run on defaults and
// environment alone.
func getConfigPath() string {
	if path := os.Getenv(config.EnvPrefix + "CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func loadCatalogue(cfg config.CatalogueConfig) (*catalogue.Index, error) {
	if cfg.Path == "" {
		return catalogue.Default(), nil
	}
	idx, err := catalogue.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}
	return idx, nil
}

// healthCheck checks every connected dependency once at startup.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	for name, c := range checks {
		if err := c.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
