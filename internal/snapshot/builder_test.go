package snapshot

import (
	"testing"
	"time"

	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/config"
)

func testRoomConfig() config.RoomConfig {
	return config.RoomConfig{
		ID: "office",
		Entities: config.RoomEntities{
			Temperature: "sensor.office_temperature",
			Humidity:    "sensor.office_humidity",
			Presence:    "binary_sensor.office_presence",
			Windows:     []string{"binary_sensor.office_window_left", "binary_sensor.office_window_right"},
		},
	}
}

func testBuilderConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			SensorStaleness: 900,
		},
		Global: config.GlobalEntities{
			SolarExcess:     "sensor.solar_excess",
			BatterySOC:      "sensor.battery_soc",
			OutdoorTemp:     "sensor.outdoor_temperature",
			HeaterWaterTemp: "sensor.heater_water_temp",
			Presence:        []string{"device_tracker.phone_a", "device_tracker.phone_b"},
		},
	}
}

func TestBuilder_RoomState(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	s.Set("sensor.office_temperature", "20.8")
	s.Set("sensor.office_humidity", "48")
	s.Set("binary_sensor.office_presence", "on")
	s.Set("binary_sensor.office_window_left", "off")
	s.Set("binary_sensor.office_window_right", "off")

	rs := b.RoomState(testRoomConfig(), *clock)

	if rs.Temperature == nil || *rs.Temperature != 20.8 {
		t.Errorf("Temperature = %v, want 20.8", rs.Temperature)
	}
	if rs.Humidity == nil || *rs.Humidity != 48 {
		t.Errorf("Humidity = %v, want 48", rs.Humidity)
	}
	if !rs.Occupied {
		t.Error("Occupied = false, want true")
	}
	if rs.WindowOpen {
		t.Error("WindowOpen = true, want false")
	}
}

func TestBuilder_RoomState_StaleTemperatureIsMissing(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	s.Set("sensor.office_temperature", "20.8")

	rs := b.RoomState(testRoomConfig(), clock.Add(20*time.Minute))
	if rs.Temperature != nil {
		t.Errorf("Temperature = %v, want nil beyond the staleness window", *rs.Temperature)
	}
}

func TestBuilder_RoomState_AnyWindowOpen(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	s.Set("binary_sensor.office_window_left", "off")
	s.Set("binary_sensor.office_window_right", "on")

	if rs := b.RoomState(testRoomConfig(), *clock); !rs.WindowOpen {
		t.Error("WindowOpen = false with one window open")
	}
}

func TestBuilder_RoomState_PresenceLastSeen(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	s.Set("binary_sensor.office_presence", "on")
	left := *clock

	*clock = base.Add(10 * time.Minute)
	s.Set("binary_sensor.office_presence", "off")

	*clock = base.Add(30 * time.Minute)
	rs := b.RoomState(testRoomConfig(), *clock)

	if rs.Occupied {
		t.Error("Occupied = true, want false")
	}
	if rs.LastSeen.Equal(left) || !rs.LastSeen.Equal(base.Add(10*time.Minute)) {
		t.Errorf("LastSeen = %v, want transition time", rs.LastSeen)
	}
}

func TestBuilder_GlobalState(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	s.Set("sensor.solar_excess", "620")
	s.Set("sensor.battery_soc", "72")
	s.Set("sensor.outdoor_temperature", "3.5")
	s.Set("sensor.heater_water_temp", "41.0")
	s.Set("device_tracker.phone_a", "not_home")
	s.Set("device_tracker.phone_b", "home")

	gs := b.GlobalState(*clock)

	if gs.SolarExcess == nil || *gs.SolarExcess != 620 {
		t.Errorf("SolarExcess = %v, want 620", gs.SolarExcess)
	}
	if gs.BatterySOC == nil || *gs.BatterySOC != 72 {
		t.Errorf("BatterySOC = %v, want 72", gs.BatterySOC)
	}
	if gs.WaterTemp == nil || *gs.WaterTemp != 41.0 {
		t.Errorf("WaterTemp = %v, want 41.0", gs.WaterTemp)
	}
	if !gs.HomeOccupied {
		t.Error("HomeOccupied = false with one tracker home")
	}
}

func TestBuilder_GlobalState_SolarSignNormalization(t *testing.T) {
	s, clock := newTestStore()
	cfg := testBuilderConfig()
	cfg.Engine.SolarExcessInverted = true
	b := NewBuilder(s, cfg)

	// Grid meter reports export as negative power.
	s.Set("sensor.solar_excess", "-800")

	gs := b.GlobalState(*clock)
	if gs.SolarExcess == nil || *gs.SolarExcess != 800 {
		t.Errorf("SolarExcess = %v, want 800 after sign normalization", gs.SolarExcess)
	}
}

func TestBuilder_GlobalState_NobodyHome(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	s.Set("device_tracker.phone_a", "not_home")
	*clock = base.Add(5 * time.Minute)
	s.Set("device_tracker.phone_b", "not_home")

	gs := b.GlobalState(*clock)
	if gs.HomeOccupied {
		t.Error("HomeOccupied = true, want false")
	}
	if !gs.HomeLastSeen.Equal(base.Add(5 * time.Minute)) {
		t.Errorf("HomeLastSeen = %v, want latest transition", gs.HomeLastSeen)
	}
}

func TestBuilder_GlobalState_MissingEntities(t *testing.T) {
	s, clock := newTestStore()
	b := NewBuilder(s, testBuilderConfig())

	gs := b.GlobalState(*clock)
	if gs.SolarExcess != nil || gs.WaterTemp != nil || gs.OutdoorTemp != nil {
		t.Error("missing entities must produce nil fields")
	}
	if gs.HomeOccupied || !gs.HomeLastSeen.IsZero() {
		t.Error("no presence data must leave home presence unset")
	}
}
