package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the thermal controller.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	API      APIConfig      `yaml:"api"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Engine   EngineConfig   `yaml:"engine"`
	Global   GlobalEntities `yaml:"global_entities"`
	Rooms    []RoomConfig   `yaml:"rooms"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
	Topics    MQTTTopicsConfig    `yaml:"topics"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// MQTTTopicsConfig contains the topic prefixes the controller binds to.
//
// StatePrefix is where external entity states are published (Home Assistant
// statestream layout: {prefix}/{domain}/{object_id}/state). CommandPrefix is
// where this controller publishes actuation commands.
type MQTTTopicsConfig struct {
	StatePrefix   string `yaml:"state_prefix"`
	CommandPrefix string `yaml:"command_prefix"`
}

// APIConfig contains HTTP status API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// InfluxDBConfig contains InfluxDB telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// EngineConfig contains every knob the decision engine and its surrounding
// evaluation loop read. Loaded once, validated once, immutable afterwards.
type EngineConfig struct {
	// UpdateInterval is the evaluation cycle period in seconds.
	UpdateInterval int `yaml:"update_interval"`

	// SensorStaleness is the maximum age in seconds before a sensor reading
	// counts as missing.
	SensorStaleness int `yaml:"sensor_staleness"`

	// Day/night schedule. Times are local "HH:MM"; the day period is
	// [day_start_time, night_start_time), night wraps past midnight.
	DayStartTime   string `yaml:"day_start_time"`
	NightStartTime string `yaml:"night_start_time"`

	// Default targets for rooms that do not override them.
	DefaultTargetTempDay   float64 `yaml:"default_target_temp_day"`
	DefaultTargetTempNight float64 `yaml:"default_target_temp_night"`

	// TempTolerance is the deadband half-width around the target.
	TempTolerance float64 `yaml:"temp_tolerance"`

	// AC setpoint bounds.
	ACMinTemp float64 `yaml:"ac_min_temp"`
	ACMaxTemp float64 `yaml:"ac_max_temp"`

	// Central heater water temperature bounds and curve anchors.
	// The curve holds HeaterMinTemp for outdoor >= WaterMildOutdoor and
	// rises linearly to HeaterMaxTemp at outdoor <= WaterColdOutdoor.
	HeaterMinTemp     float64 `yaml:"heater_min_temp"`
	HeaterMaxTemp     float64 `yaml:"heater_max_temp"`
	WaterMildOutdoor  float64 `yaml:"water_mild_outdoor"`
	WaterColdOutdoor  float64 `yaml:"water_cold_outdoor"`
	WaterReissueDelta float64 `yaml:"water_reissue_delta"`

	// HeatBoostDelta is the temperature error in degrees beyond which both
	// AC heating and floor heating run together for faster recovery.
	HeatBoostDelta float64 `yaml:"heat_boost_delta"`

	// Eco-away behaviour.
	EcoModeWhenAway     bool    `yaml:"eco_mode_when_away"`
	EcoTempHeating      float64 `yaml:"eco_temp_heating"`
	EcoTempCooling      float64 `yaml:"eco_temp_cooling"`
	RoomPresenceTimeout int     `yaml:"room_presence_timeout"` // minutes
	HomePresenceTimeout int     `yaml:"home_presence_timeout"` // minutes

	// Renewable energy thresholds and cost discounts.
	PrioritizeSolar      bool    `yaml:"prioritize_solar"`
	SolarExcessThreshold float64 `yaml:"solar_excess_threshold"` // watts
	SolarThresholdChange float64 `yaml:"solar_threshold_change"` // watts
	SolarDiscount        float64 `yaml:"solar_discount"`
	BatteryThreshold     float64 `yaml:"battery_threshold"` // percent
	BatteryDiscount      float64 `yaml:"battery_discount"`

	// SolarExcessInverted flips the sign of the solar excess sensor. Grid
	// meters commonly report export as negative power; with this set the
	// controller reads -600 W as 600 W of usable surplus.
	SolarExcessInverted bool `yaml:"solar_excess_inverted"`

	// Season classification.
	CoolingThreshold float64 `yaml:"cooling_threshold"`
	SeasonTolerance  float64 `yaml:"season_tolerance"`
	ForecastHours    int     `yaml:"forecast_hours"`
}

// GlobalEntities names the shared external entities the controller reads.
type GlobalEntities struct {
	SolarExcess     string   `yaml:"solar_excess"`
	BatterySOC      string   `yaml:"battery_soc"`
	OutdoorTemp     string   `yaml:"outdoor_temperature"`
	OutdoorHumidity string   `yaml:"outdoor_humidity"`
	WeatherForecast string   `yaml:"weather_forecast"`
	HeaterWaterTemp string   `yaml:"heater_water_temp"`
	HeaterControl   string   `yaml:"heater_control"`
	Presence        []string `yaml:"presence"`
}

// RoomConfig describes one controlled room.
type RoomConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Optional per-room targets; zero means "use engine default".
	TargetTempDay   float64 `yaml:"target_temp_day"`
	TargetTempNight float64 `yaml:"target_temp_night"`

	PresenceRequired bool `yaml:"presence_required"`

	ACHeatingAvailable    bool `yaml:"ac_heating_available"`
	ACCoolingAvailable    bool `yaml:"ac_cooling_available"`
	FloorHeatingAvailable bool `yaml:"floor_heating_available"`

	// Relative cost factors used by method selection.
	ACHeatingCost    float64 `yaml:"ac_heating_cost"`
	FloorHeatingCost float64 `yaml:"floor_heating_cost"`

	Windows                []string `yaml:"windows"`
	WindowDetectionEnabled bool     `yaml:"window_detection_enabled"`

	Entities RoomEntities `yaml:"entities"`
}

// RoomEntities names the external entities bound to a room. Empty fields are
// filled from naming templates at load time (sensor.<room>_temperature etc.).
type RoomEntities struct {
	Temperature  string   `yaml:"temperature"`
	Humidity     string   `yaml:"humidity"`
	Presence     string   `yaml:"presence"`
	AC           string   `yaml:"ac"`
	FloorHeating string   `yaml:"floor_heating"`
	Windows      []string `yaml:"windows"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: THERMAL_SECTION_KEY
// For example: THERMAL_MQTT_HOST, THERMAL_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyEntityTemplates(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults. Engine defaults
// mirror the reference deployment this controller was extracted from.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "home",
			Name:     "Thermal Control",
			Timezone: "UTC",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "thermal-control",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			Topics: MQTTTopicsConfig{
				StatePrefix:   "homeassistant/statestream",
				CommandPrefix: "thermal",
			},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8093,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Engine: EngineConfig{
			UpdateInterval:         300,
			SensorStaleness:        900,
			DayStartTime:           "07:00",
			NightStartTime:         "22:00",
			DefaultTargetTempDay:   21.0,
			DefaultTargetTempNight: 18.0,
			TempTolerance:          0.5,
			ACMinTemp:              16.0,
			ACMaxTemp:              30.0,
			HeaterMinTemp:          35.0,
			HeaterMaxTemp:          55.0,
			WaterMildOutdoor:       15.0,
			WaterColdOutdoor:       -10.0,
			WaterReissueDelta:      1.0,
			HeatBoostDelta:         4.0,
			EcoModeWhenAway:        true,
			EcoTempHeating:         16.0,
			EcoTempCooling:         26.0,
			RoomPresenceTimeout:    15,
			HomePresenceTimeout:    30,
			PrioritizeSolar:        true,
			SolarExcessThreshold:   500.0,
			SolarThresholdChange:   300.0,
			SolarDiscount:          0.5,
			BatteryThreshold:       50.0,
			BatteryDiscount:        0.8,
			SolarExcessInverted:    false,
			CoolingThreshold:       18.0,
			SeasonTolerance:        1.0,
			ForecastHours:          12,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: THERMAL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT
	if v := os.Getenv("THERMAL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("THERMAL_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("THERMAL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("THERMAL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("THERMAL_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("THERMAL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("THERMAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// applyEntityTemplates fills empty entity bindings from naming templates,
// matching the entity naming conventions of the Home Assistant deployment
// this controller binds to.
func applyEntityTemplates(cfg *Config) {
	for i := range cfg.Rooms {
		room := &cfg.Rooms[i]
		if room.Entities.Temperature == "" {
			room.Entities.Temperature = "sensor." + room.ID + "_temperature"
		}
		if room.Entities.Humidity == "" {
			room.Entities.Humidity = "sensor." + room.ID + "_humidity"
		}
		if room.Entities.Presence == "" {
			room.Entities.Presence = "binary_sensor." + room.ID + "_presence"
		}
		if room.Entities.AC == "" && (room.ACHeatingAvailable || room.ACCoolingAvailable) {
			room.Entities.AC = "climate." + room.ID + "_ac"
		}
		if room.Entities.FloorHeating == "" && room.FloorHeatingAvailable {
			room.Entities.FloorHeating = "switch." + room.ID + "_floor_heating"
		}
		if len(room.Entities.Windows) == 0 {
			for _, w := range room.Windows {
				room.Entities.Windows = append(room.Entities.Windows,
					"binary_sensor."+room.ID+"_window_"+w)
			}
		}
	}
}

// Sane bounds for configured target temperatures (degrees Celsius).
const (
	minSaneTarget = 5.0
	maxSaneTarget = 35.0
)

// Validate checks the configuration for errors.
//
// Room validation follows the fail-fast policy: a room with no actuation
// method at all, or a target temperature outside the sane range, is a
// configuration error rejected before any decision runs.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Topics.StatePrefix == "" {
		errs = append(errs, "mqtt.topics.state_prefix is required")
	}
	if c.MQTT.Topics.CommandPrefix == "" {
		errs = append(errs, "mqtt.topics.command_prefix is required")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	errs = append(errs, c.Engine.validate()...)

	if len(c.Rooms) == 0 {
		errs = append(errs, "at least one room must be configured")
	}
	seen := make(map[string]bool, len(c.Rooms))
	for _, room := range c.Rooms {
		errs = append(errs, room.validate()...)
		if seen[room.ID] {
			errs = append(errs, fmt.Sprintf("rooms: duplicate id %q", room.ID))
		}
		seen[room.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (e EngineConfig) validate() []string {
	var errs []string

	if e.UpdateInterval <= 0 {
		errs = append(errs, "engine.update_interval must be positive")
	}
	if _, err := ParseClockTime(e.DayStartTime); err != nil {
		errs = append(errs, fmt.Sprintf("engine.day_start_time: %v", err))
	}
	if _, err := ParseClockTime(e.NightStartTime); err != nil {
		errs = append(errs, fmt.Sprintf("engine.night_start_time: %v", err))
	}
	if e.TempTolerance < 0 {
		errs = append(errs, "engine.temp_tolerance must not be negative")
	}
	if e.ACMinTemp >= e.ACMaxTemp {
		errs = append(errs, "engine.ac_min_temp must be below engine.ac_max_temp")
	}
	if e.HeaterMinTemp >= e.HeaterMaxTemp {
		errs = append(errs, "engine.heater_min_temp must be below engine.heater_max_temp")
	}
	if e.WaterColdOutdoor >= e.WaterMildOutdoor {
		errs = append(errs, "engine.water_cold_outdoor must be below engine.water_mild_outdoor")
	}
	if e.HeatBoostDelta <= 0 {
		errs = append(errs, "engine.heat_boost_delta must be positive")
	}
	if e.SolarDiscount <= 0 || e.SolarDiscount > 1 {
		errs = append(errs, "engine.solar_discount must be in (0, 1]")
	}
	if e.BatteryDiscount <= 0 || e.BatteryDiscount > 1 {
		errs = append(errs, "engine.battery_discount must be in (0, 1]")
	}
	if e.ForecastHours <= 0 {
		errs = append(errs, "engine.forecast_hours must be positive")
	}
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"engine.default_target_temp_day", e.DefaultTargetTempDay},
		{"engine.default_target_temp_night", e.DefaultTargetTempNight},
		{"engine.eco_temp_heating", e.EcoTempHeating},
		{"engine.eco_temp_cooling", e.EcoTempCooling},
	} {
		if t.value < minSaneTarget || t.value > maxSaneTarget {
			errs = append(errs, fmt.Sprintf("%s must be between %.0f and %.0f", t.name, minSaneTarget, maxSaneTarget))
		}
	}

	return errs
}

func (r RoomConfig) validate() []string {
	var errs []string

	if r.ID == "" {
		errs = append(errs, "rooms: id is required")
		return errs
	}
	if !r.ACHeatingAvailable && !r.ACCoolingAvailable && !r.FloorHeatingAvailable {
		errs = append(errs, fmt.Sprintf("rooms.%s: no actuation method available (room would be inert)", r.ID))
	}
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"target_temp_day", r.TargetTempDay},
		{"target_temp_night", r.TargetTempNight},
	} {
		if t.value != 0 && (t.value < minSaneTarget || t.value > maxSaneTarget) {
			errs = append(errs, fmt.Sprintf("rooms.%s.%s must be between %.0f and %.0f", r.ID, t.name, minSaneTarget, maxSaneTarget))
		}
	}
	if r.ACHeatingAvailable && r.ACHeatingCost <= 0 {
		errs = append(errs, fmt.Sprintf("rooms.%s.ac_heating_cost must be positive", r.ID))
	}
	if r.FloorHeatingAvailable && r.FloorHeatingCost <= 0 {
		errs = append(errs, fmt.Sprintf("rooms.%s.floor_heating_cost must be positive", r.ID))
	}
	if r.WindowDetectionEnabled && len(r.Entities.Windows) == 0 {
		errs = append(errs, fmt.Sprintf("rooms.%s: window_detection_enabled but no windows configured", r.ID))
	}

	return errs
}

// ParseClockTime parses a local "HH:MM" time of day into minutes since
// midnight.
func ParseClockTime(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q (want HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// UpdateIntervalDuration returns the evaluation cycle period as a Duration.
func (e EngineConfig) UpdateIntervalDuration() time.Duration {
	return time.Duration(e.UpdateInterval) * time.Second
}

// SensorStalenessDuration returns the sensor staleness window as a Duration.
func (e EngineConfig) SensorStalenessDuration() time.Duration {
	return time.Duration(e.SensorStaleness) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
