package snapshot

import (
	"testing"
	"time"

	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/mqtt"
)

var base = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

// newTestStore returns a store with a controllable clock.
func newTestStore() (*Store, *time.Time) {
	clock := base
	s := NewStore(mqtt.NewTopics(mqtt.TopicsConfig{}))
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestStore_HandleState(t *testing.T) {
	s, _ := newTestStore()

	err := s.HandleState("homeassistant/statestream/sensor/office_temperature/state", []byte("21.4"))
	if err != nil {
		t.Fatalf("HandleState() error = %v", err)
	}

	entry, ok := s.Get("sensor.office_temperature")
	if !ok {
		t.Fatal("entity not cached")
	}
	if entry.Value != "21.4" {
		t.Errorf("Value = %q, want %q", entry.Value, "21.4")
	}
}

func TestStore_HandleState_UnexpectedTopic(t *testing.T) {
	s, _ := newTestStore()

	if err := s.HandleState("something/else", []byte("x")); err == nil {
		t.Error("HandleState() should report unexpected topics")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_ChangedAtTracksTransitions(t *testing.T) {
	s, clock := newTestStore()

	s.Set("binary_sensor.office_presence", "on")
	first := *clock

	// Republishing the same value refreshes UpdatedAt, not ChangedAt.
	*clock = base.Add(5 * time.Minute)
	s.Set("binary_sensor.office_presence", "on")

	entry, _ := s.Get("binary_sensor.office_presence")
	if !entry.ChangedAt.Equal(first) {
		t.Errorf("ChangedAt = %v, want %v", entry.ChangedAt, first)
	}
	if !entry.UpdatedAt.Equal(*clock) {
		t.Errorf("UpdatedAt = %v, want %v", entry.UpdatedAt, *clock)
	}

	// A transition moves ChangedAt.
	*clock = base.Add(10 * time.Minute)
	s.Set("binary_sensor.office_presence", "off")
	entry, _ = s.Get("binary_sensor.office_presence")
	if !entry.ChangedAt.Equal(*clock) {
		t.Errorf("ChangedAt = %v, want %v after transition", entry.ChangedAt, *clock)
	}
}

func TestStore_Fresh(t *testing.T) {
	s, clock := newTestStore()
	s.Set("sensor.outdoor_temperature", "4.5")

	if _, ok := s.Fresh("sensor.outdoor_temperature", 15*time.Minute, clock.Add(10*time.Minute)); !ok {
		t.Error("reading within the window must be fresh")
	}
	if _, ok := s.Fresh("sensor.outdoor_temperature", 15*time.Minute, clock.Add(16*time.Minute)); ok {
		t.Error("reading beyond the window must be stale")
	}
	if _, ok := s.Fresh("sensor.never_seen", 15*time.Minute, *clock); ok {
		t.Error("unknown entity must not be fresh")
	}
}

func TestStore_HandleForecast(t *testing.T) {
	s, _ := newTestStore()

	payload := `[
		{"datetime": "2026-02-01T12:00:00Z", "condition": "sunny", "temperature": 8.5},
		{"datetime": "2026-02-01T15:00:00Z", "condition": "cloudy", "temperature": 6.0}
	]`
	if err := s.HandleForecast("homeassistant/statestream/weather/home/forecast", []byte(payload)); err != nil {
		t.Fatalf("HandleForecast() error = %v", err)
	}

	forecast := s.Forecast()
	if len(forecast) != 2 {
		t.Fatalf("len(forecast) = %d, want 2", len(forecast))
	}
	if forecast[0].Temperature != 8.5 || forecast[0].Condition != "sunny" {
		t.Errorf("forecast[0] = %+v", forecast[0])
	}
}

func TestStore_HandleForecast_Malformed(t *testing.T) {
	s, _ := newTestStore()

	if err := s.HandleForecast("t", []byte("not json")); err == nil {
		t.Error("HandleForecast() should report malformed payloads")
	}
}

func TestStore_WatchSignificantChange(t *testing.T) {
	s, _ := newTestStore()

	fired := 0
	s.WatchSignificantChange("sensor.solar_excess", 300, func() { fired++ })

	// The first reading primes the watch without firing.
	s.Set("sensor.solar_excess", "100")
	if fired != 0 {
		t.Fatalf("fired = %d after priming, want 0", fired)
	}

	// A move inside the band stays quiet.
	s.Set("sensor.solar_excess", "350")
	if fired != 0 {
		t.Fatalf("fired = %d after small move, want 0", fired)
	}

	// A move beyond the band fires and re-anchors.
	s.Set("sensor.solar_excess", "600")
	if fired != 1 {
		t.Fatalf("fired = %d after large move, want 1", fired)
	}
	s.Set("sensor.solar_excess", "650")
	if fired != 1 {
		t.Fatalf("fired = %d after move from new anchor, want 1", fired)
	}

	// Other entities never trigger.
	s.Set("sensor.outdoor_temperature", "9000")
	if fired != 1 {
		t.Fatalf("fired = %d after unrelated entity, want 1", fired)
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"on", "home", "detected", "open", "true"}
	for _, v := range truthy {
		if got, ok := parseBool(v); !ok || !got {
			t.Errorf("parseBool(%q) = (%v, %v), want (true, true)", v, got, ok)
		}
	}
	falsy := []string{"off", "not_home", "clear", "closed", "false", "away"}
	for _, v := range falsy {
		if got, ok := parseBool(v); !ok || got {
			t.Errorf("parseBool(%q) = (%v, %v), want (false, true)", v, got, ok)
		}
	}
	if _, ok := parseBool("maybe"); ok {
		t.Error("parseBool(maybe) should not be valid")
	}
}

func TestParseFloat_UnavailableMarkers(t *testing.T) {
	for _, v := range []string{"", "unavailable", "unknown", "none", "abc"} {
		if _, ok := parseFloat(v); ok {
			t.Errorf("parseFloat(%q) should not be valid", v)
		}
	}
	if got, ok := parseFloat("-123.5"); !ok || got != -123.5 {
		t.Errorf("parseFloat(-123.5) = (%v, %v)", got, ok)
	}
}
