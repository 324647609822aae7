package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/logging"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/mqtt"
)

// Publisher is the transport the dispatcher writes commands through.
// Satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// acCommand is the wire payload for an AC command.
type acCommand struct {
	CommandID string  `json:"command_id"`
	Mode      string  `json:"mode"`
	Setpoint  float64 `json:"setpoint,omitempty"`
	IssuedAt  string  `json:"issued_at"`
}

// switchCommand is the wire payload for a floor-heating circuit command.
type switchCommand struct {
	CommandID string `json:"command_id"`
	State     string `json:"state"`
	IssuedAt  string `json:"issued_at"`
}

// waterCommand is the wire payload for the central heater setpoint.
type waterCommand struct {
	CommandID string  `json:"command_id"`
	Setpoint  float64 `json:"setpoint"`
	IssuedAt  string  `json:"issued_at"`
}

// acState is the deduplication key for AC commands.
type acState struct {
	mode     string
	setpoint float64
}

// Dispatcher issues actuation commands for plans, suppressing writes that
// repeat the last commanded state. Safe for concurrent use, though the
// controller invokes it from a single loop.
type Dispatcher struct {
	publisher Publisher
	topics    mqtt.Topics
	qos       byte
	logger    *logging.Logger

	mu        sync.Mutex
	lastAC    map[string]acState
	lastFloor map[string]bool
	lastWater *float64
}

// New creates a dispatcher publishing through the given transport.
func New(publisher Publisher, topics mqtt.Topics, qos byte, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		topics:    topics,
		qos:       qos,
		logger:    logger.With("component", "dispatch"),
		lastAC:    make(map[string]acState),
		lastFloor: make(map[string]bool),
	}
}

// Dispatch issues the commands a plan calls for. Individual publish
// failures are logged and collected; the rest of the plan still goes out.
func (d *Dispatcher) Dispatch(plan climate.ActuationPlan) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, decision := range plan.Rooms {
		if err := d.dispatchAC(decision); err != nil {
			errs = append(errs, err)
		}
		if err := d.dispatchFloor(decision); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.dispatchWater(plan.WaterTemp); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) dispatchAC(decision climate.RoomDecision) error {
	desired := acState{mode: acMode(decision.Mode)}
	if decision.Mode.UsesAC() {
		desired.setpoint = decision.ACSetpoint
	}
	if last, ok := d.lastAC[decision.Room]; ok && last == desired {
		return nil
	}

	cmd := acCommand{
		CommandID: uuid.New().String(),
		Mode:      desired.mode,
		Setpoint:  desired.setpoint,
		IssuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := d.publish(d.topics.ACCommand(decision.Room), cmd); err != nil {
		return fmt.Errorf("ac command for %s: %w", decision.Room, err)
	}

	d.lastAC[decision.Room] = desired
	d.logger.Info("AC command issued",
		"room", decision.Room,
		"mode", desired.mode,
		"setpoint", desired.setpoint,
		"command_id", cmd.CommandID,
	)
	return nil
}

func (d *Dispatcher) dispatchFloor(decision climate.RoomDecision) error {
	desired := decision.FloorHeating
	if last, ok := d.lastFloor[decision.Room]; ok && last == desired {
		return nil
	}

	cmd := switchCommand{
		CommandID: uuid.New().String(),
		State:     onOff(desired),
		IssuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := d.publish(d.topics.FloorHeatingCommand(decision.Room), cmd); err != nil {
		return fmt.Errorf("floor heating command for %s: %w", decision.Room, err)
	}

	d.lastFloor[decision.Room] = desired
	d.logger.Info("floor heating command issued",
		"room", decision.Room,
		"state", cmd.State,
		"command_id", cmd.CommandID,
	)
	return nil
}

func (d *Dispatcher) dispatchWater(setpoint float64) error {
	if d.lastWater != nil && *d.lastWater == setpoint {
		return nil
	}

	cmd := waterCommand{
		CommandID: uuid.New().String(),
		Setpoint:  setpoint,
		IssuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := d.publish(d.topics.WaterHeaterCommand(), cmd); err != nil {
		return fmt.Errorf("water heater command: %w", err)
	}

	d.lastWater = &setpoint
	d.logger.Info("water heater setpoint issued",
		"setpoint", setpoint,
		"command_id", cmd.CommandID,
	)
	return nil
}

// PublishDecision publishes a room's decision to its retained status topic
// for observability. Failures are logged only; status is best effort.
func (d *Dispatcher) PublishDecision(decision climate.RoomDecision) {
	payload, err := json.Marshal(decision)
	if err != nil {
		d.logger.Error("marshaling room decision", "room", decision.Room, "error", err)
		return
	}
	if err := d.publisher.Publish(d.topics.RoomDecision(decision.Room), payload, d.qos, true); err != nil {
		d.logger.Warn("publishing room decision", "room", decision.Room, "error", err)
	}
}

func (d *Dispatcher) publish(topic string, cmd any) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshaling command: %w", err)
	}
	if err := d.publisher.Publish(topic, payload, d.qos, true); err != nil {
		d.logger.Warn("publishing command failed", "topic", topic, "error", err)
		return err
	}
	return nil
}

// acMode maps a room mode onto the AC entity's hvac mode.
func acMode(m climate.Mode) string {
	switch {
	case m == climate.ModeACCool:
		return "cool"
	case m.UsesAC():
		return "heat"
	default:
		return "off"
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
