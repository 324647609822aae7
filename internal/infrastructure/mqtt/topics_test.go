package mqtt

import "testing"

func TestNewTopics_Defaults(t *testing.T) {
	topics := NewTopics(TopicsConfig{})

	if got := topics.AllEntityStates(); got != "homeassistant/statestream/+/+/state" {
		t.Errorf("AllEntityStates() = %q", got)
	}
	if got := topics.SystemStatus(); got != "thermal/system/status" {
		t.Errorf("SystemStatus() = %q", got)
	}
}

func TestNewTopics_CustomPrefixes(t *testing.T) {
	topics := NewTopics(TopicsConfig{
		StatePrefix:   "ha/state/",
		CommandPrefix: "house/climate",
	})

	if got := topics.EntityState("sensor.bedroom_temperature"); got != "ha/state/sensor/bedroom_temperature/state" {
		t.Errorf("EntityState() = %q", got)
	}
	if got := topics.ACCommand("bedroom"); got != "house/climate/command/ac/bedroom" {
		t.Errorf("ACCommand() = %q", got)
	}
}

func TestTopics_CommandTopics(t *testing.T) {
	topics := NewTopics(TopicsConfig{})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ac", topics.ACCommand("living_room"), "thermal/command/ac/living_room"},
		{"floor", topics.FloorHeatingCommand("office"), "thermal/command/floor_heating/office"},
		{"water", topics.WaterHeaterCommand(), "thermal/command/water_heater/setpoint"},
		{"decision", topics.RoomDecision("office"), "thermal/core/room/office/decision"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopics_EntityAttribute(t *testing.T) {
	topics := NewTopics(TopicsConfig{})

	got := topics.EntityAttribute("weather.home", "forecast")
	want := "homeassistant/statestream/weather/home/forecast"
	if got != want {
		t.Errorf("EntityAttribute() = %q, want %q", got, want)
	}
}

func TestTopics_EntityIDFromStateTopic(t *testing.T) {
	topics := NewTopics(TopicsConfig{})

	tests := []struct {
		name   string
		topic  string
		wantID string
		wantOK bool
	}{
		{
			name:   "valid sensor topic",
			topic:  "homeassistant/statestream/sensor/living_room_temperature/state",
			wantID: "sensor.living_room_temperature",
			wantOK: true,
		},
		{
			name:   "valid binary sensor topic",
			topic:  "homeassistant/statestream/binary_sensor/office_window/state",
			wantID: "binary_sensor.office_window",
			wantOK: true,
		},
		{
			name:   "wrong prefix",
			topic:  "other/sensor/x/state",
			wantOK: false,
		},
		{
			name:   "attribute topic, not state",
			topic:  "homeassistant/statestream/weather/home/forecast",
			wantOK: false,
		},
		{
			name:   "too many segments",
			topic:  "homeassistant/statestream/sensor/a/b/state",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := topics.EntityIDFromStateTopic(tt.topic)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestSplitEntityID(t *testing.T) {
	domain, object := SplitEntityID("climate.living_room_ac")
	if domain != "climate" || object != "living_room_ac" {
		t.Errorf("SplitEntityID() = (%q, %q)", domain, object)
	}

	domain, object = SplitEntityID("bare")
	if domain != "" || object != "bare" {
		t.Errorf("SplitEntityID(no dot) = (%q, %q)", domain, object)
	}
}
