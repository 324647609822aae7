package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
site:
  id: "test-home"
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
engine:
  update_interval: 300
  day_start_time: "07:00"
  night_start_time: "22:00"
rooms:
  - id: "living_room"
    name: "Living Room"
    target_temp_day: 21.5
    ac_heating_available: true
    ac_cooling_available: true
    floor_heating_available: true
    ac_heating_cost: 1.5
    floor_heating_cost: 1.0
  - id: "bedroom"
    floor_heating_available: true
    floor_heating_cost: 1.0
    presence_required: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-home" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-home")
	}
	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
	if len(cfg.Rooms) != 2 {
		t.Fatalf("len(Rooms) = %d, want 2", len(cfg.Rooms))
	}
	if cfg.Rooms[0].TargetTempDay != 21.5 {
		t.Errorf("Rooms[0].TargetTempDay = %v, want 21.5", cfg.Rooms[0].TargetTempDay)
	}

	// Defaults survive partial files.
	if cfg.Engine.TempTolerance != 0.5 {
		t.Errorf("Engine.TempTolerance = %v, want default 0.5", cfg.Engine.TempTolerance)
	}
	if cfg.Engine.SolarExcessThreshold != 500.0 {
		t.Errorf("Engine.SolarExcessThreshold = %v, want default 500", cfg.Engine.SolarExcessThreshold)
	}
}

func TestLoad_EntityTemplates(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	room := cfg.Rooms[0]
	if room.Entities.Temperature != "sensor.living_room_temperature" {
		t.Errorf("Entities.Temperature = %q, want templated default", room.Entities.Temperature)
	}
	if room.Entities.AC != "climate.living_room_ac" {
		t.Errorf("Entities.AC = %q, want templated default", room.Entities.AC)
	}
	if room.Entities.FloorHeating != "switch.living_room_floor_heating" {
		t.Errorf("Entities.FloorHeating = %q, want templated default", room.Entities.FloorHeating)
	}

	// Bedroom has no AC available, so no AC entity should be templated.
	if cfg.Rooms[1].Entities.AC != "" {
		t.Errorf("Rooms[1].Entities.AC = %q, want empty", cfg.Rooms[1].Entities.AC)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InertRoomRejected(t *testing.T) {
	content := `
site:
  id: "test-home"
rooms:
  - id: "closet"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected error for room with no actuation method, got nil")
	}
	if !strings.Contains(err.Error(), "no actuation method") {
		t.Errorf("error = %v, want mention of missing actuation method", err)
	}
}

func TestLoad_InsaneTargetRejected(t *testing.T) {
	content := `
site:
  id: "test-home"
rooms:
  - id: "sauna"
    target_temp_day: 80
    floor_heating_available: true
    floor_heating_cost: 1.0
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for target outside sane range, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("THERMAL_MQTT_HOST", "broker.example")
	t.Setenv("THERMAL_INFLUXDB_TOKEN", "secret-token")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.example" {
		t.Errorf("MQTT.Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want env override", cfg.InfluxDB.Token)
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:00", 420, false},
		{"22:30", 1350, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"7am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClockTime(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClockTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClockTime(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestValidate_DuplicateRoomIDs(t *testing.T) {
	content := `
site:
  id: "test-home"
rooms:
  - id: "bedroom"
    floor_heating_available: true
    floor_heating_cost: 1.0
  - id: "bedroom"
    floor_heating_available: true
    floor_heating_cost: 1.0
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected error for duplicate room ids, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v, want mention of duplicate id", err)
	}
}
