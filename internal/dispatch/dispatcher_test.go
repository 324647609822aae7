package dispatch

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/logging"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/mqtt"
)

// fakePublisher records published messages and can fail on demand.
type fakePublisher struct {
	messages []publishedMessage
	fail     bool
}

type publishedMessage struct {
	topic    string
	payload  []byte
	retained bool
}

func (p *fakePublisher) Publish(topic string, payload []byte, _ byte, retained bool) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, publishedMessage{topic: topic, payload: payload, retained: retained})
	return nil
}

func (p *fakePublisher) topicsPublished() []string {
	var topics []string
	for _, m := range p.messages {
		topics = append(topics, m.topic)
	}
	return topics
}

func newTestDispatcher(p Publisher) *Dispatcher {
	return New(p, mqtt.NewTopics(mqtt.TopicsConfig{}), 1, logging.Default())
}

func heatingPlan() climate.ActuationPlan {
	return climate.ActuationPlan{
		Rooms: map[string]climate.RoomDecision{
			"office": {
				Room:         "office",
				Mode:         climate.ModeFloorHeat,
				ModeName:     "floor_heat",
				FloorHeating: true,
			},
		},
		WaterTemp: 45.0,
	}
}

func TestDispatch_IssuesCommands(t *testing.T) {
	p := &fakePublisher{}
	d := newTestDispatcher(p)

	if err := d.Dispatch(heatingPlan()); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	topics := strings.Join(p.topicsPublished(), "\n")
	for _, want := range []string{
		"thermal/command/ac/office",
		"thermal/command/floor_heating/office",
		"thermal/command/water_heater/setpoint",
	} {
		if !strings.Contains(topics, want) {
			t.Errorf("no command published to %s; got:\n%s", want, topics)
		}
	}

	for _, m := range p.messages {
		if !m.retained {
			t.Errorf("command to %s not retained", m.topic)
		}
	}
}

func TestDispatch_ACPayload(t *testing.T) {
	p := &fakePublisher{}
	d := newTestDispatcher(p)

	plan := climate.ActuationPlan{
		Rooms: map[string]climate.RoomDecision{
			"bedroom": {
				Room:       "bedroom",
				Mode:       climate.ModeACCool,
				ModeName:   "ac_cool",
				ACSetpoint: 24.0,
			},
		},
		WaterTemp: 35.0,
	}
	if err := d.Dispatch(plan); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	var cmd struct {
		CommandID string  `json:"command_id"`
		Mode      string  `json:"mode"`
		Setpoint  float64 `json:"setpoint"`
	}
	found := false
	for _, m := range p.messages {
		if m.topic == "thermal/command/ac/bedroom" {
			found = true
			if err := json.Unmarshal(m.payload, &cmd); err != nil {
				t.Fatalf("unmarshaling AC command: %v", err)
			}
		}
	}
	if !found {
		t.Fatal("no AC command published")
	}
	if cmd.Mode != "cool" || cmd.Setpoint != 24.0 {
		t.Errorf("AC command = %+v, want cool at 24.0", cmd)
	}
	if cmd.CommandID == "" {
		t.Error("AC command missing command_id")
	}
}

func TestDispatch_SuppressesRedundantWrites(t *testing.T) {
	p := &fakePublisher{}
	d := newTestDispatcher(p)

	plan := heatingPlan()
	if err := d.Dispatch(plan); err != nil {
		t.Fatalf("first Dispatch() error = %v", err)
	}
	first := len(p.messages)

	// The identical plan again: every write is redundant.
	if err := d.Dispatch(plan); err != nil {
		t.Fatalf("second Dispatch() error = %v", err)
	}
	if len(p.messages) != first {
		t.Errorf("redundant dispatch published %d extra messages", len(p.messages)-first)
	}

	// A mode transition publishes again.
	plan.Rooms["office"] = climate.RoomDecision{
		Room:     "office",
		Mode:     climate.ModeOff,
		ModeName: "off",
	}
	if err := d.Dispatch(plan); err != nil {
		t.Fatalf("third Dispatch() error = %v", err)
	}
	if len(p.messages) == first {
		t.Error("transition to off published nothing")
	}
}

func TestDispatch_PublishFailureDoesNotCacheState(t *testing.T) {
	p := &fakePublisher{fail: true}
	d := newTestDispatcher(p)

	if err := d.Dispatch(heatingPlan()); err == nil {
		t.Fatal("Dispatch() should report publish failures")
	}

	// After the broker recovers the same plan must go out in full.
	p.fail = false
	if err := d.Dispatch(heatingPlan()); err != nil {
		t.Fatalf("Dispatch() after recovery error = %v", err)
	}
	if len(p.messages) != 3 {
		t.Errorf("published %d messages after recovery, want 3", len(p.messages))
	}
}

func TestPublishDecision(t *testing.T) {
	p := &fakePublisher{}
	d := newTestDispatcher(p)

	d.PublishDecision(climate.RoomDecision{
		Room:     "office",
		Mode:     climate.ModeACHeat,
		ModeName: "ac_heat",
		Reason:   "heating via ac_heat",
	})

	if len(p.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(p.messages))
	}
	if p.messages[0].topic != "thermal/core/room/office/decision" {
		t.Errorf("topic = %s", p.messages[0].topic)
	}
	if !strings.Contains(string(p.messages[0].payload), `"mode":"ac_heat"`) {
		t.Errorf("payload = %s", p.messages[0].payload)
	}
}
