// thermalctl - Home Climate Controller
//
// This is the main entry point for the thermal controller. It ingests
// Home Assistant statestream sensor readings over MQTT, runs a periodic
// rule-based evaluation of every configured room, and publishes AC,
// floor heating, and water heater commands back over MQTT. A read-only
// HTTP API exposes the latest decisions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/radumarinoiu/thermal-control-ha/internal/api"
	"github.com/radumarinoiu/thermal-control-ha/internal/controller"
	"github.com/radumarinoiu/thermal-control-ha/internal/dispatch"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/config"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/influxdb"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/logging"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/mqtt"
	"github.com/radumarinoiu/thermal-control-ha/internal/snapshot"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting thermal controller",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "rooms", len(cfg.Rooms))

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		// Set up InfluxDB error callback
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the sensor snapshot store and the evaluation pipeline
	topics := mqttClient.Topics()
	store := snapshot.NewStore(topics)
	builder := snapshot.NewBuilder(store, cfg)
	dispatcher := dispatch.New(mqttClient, topics, byte(cfg.MQTT.QoS), log)

	var telemetry controller.Telemetry
	if influxClient != nil {
		telemetry = influxClient
	}

	ctrl, err := controller.New(cfg, builder, dispatcher, telemetry, log)
	if err != nil {
		return fmt.Errorf("creating controller: %w", err)
	}

	// A solar excess move past the configured band forces an immediate
	// re-evaluation instead of waiting out the tick.
	if cfg.Global.SolarExcess != "" && cfg.Engine.SolarThresholdChange > 0 {
		store.WatchSignificantChange(cfg.Global.SolarExcess, cfg.Engine.SolarThresholdChange, ctrl.Trigger)
	}

	// Subscribe to statestream updates. Wildcard covers every entity;
	// the store indexes only what the config references.
	if err := mqttClient.Subscribe(topics.AllEntityStates(), byte(cfg.MQTT.QoS), store.HandleState); err != nil {
		return fmt.Errorf("subscribing to state topics: %w", err)
	}
	log.Info("subscribed to statestream", "topic", topics.AllEntityStates())

	if cfg.Global.WeatherForecast != "" {
		forecastTopic := topics.EntityAttribute(cfg.Global.WeatherForecast, "forecast")
		if err := mqttClient.Subscribe(forecastTopic, byte(cfg.MQTT.QoS), store.HandleForecast); err != nil {
			return fmt.Errorf("subscribing to forecast topic: %w", err)
		}
		log.Info("subscribed to weather forecast", "topic", forecastTopic)
	}

	// Start the evaluation loop
	go ctrl.Run(ctx)
	log.Info("evaluation loop started",
		"interval_seconds", cfg.Engine.UpdateInterval,
		"rooms", len(cfg.Rooms),
	)

	// Start the status API (optional)
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = api.New(api.Deps{
			Config:  cfg.API,
			Logger:  log,
			Status:  ctrl,
			Version: version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
		log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)
	} else {
		log.Info("API server disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (if enabled)
	// 2. InfluxDB (if enabled)
	// 3. MQTT

	log.Info("thermal controller stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses THERMAL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("THERMAL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if apiServer != nil {
		if err := apiServer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("api: %w", err)
		}
	}

	return nil
}
