package mqtt

import (
	"fmt"
	"strings"
)

// Default topic prefixes, used when the configuration leaves them empty.
const (
	// DefaultStatePrefix is where external entity states are published,
	// following the Home Assistant MQTT statestream layout:
	// {prefix}/{domain}/{object_id}/state
	DefaultStatePrefix = "homeassistant/statestream"

	// DefaultCommandPrefix is the base for all controller-owned topics
	// (actuation commands, plan events, system status).
	DefaultCommandPrefix = "thermal"
)

// Topics builds the MQTT topics the controller subscribes to and publishes on.
//
// The controller does not own the entity state tree; it binds to whatever
// statestream prefix the deployment uses. Command and status topics live
// under the controller's own prefix.
//
//	topics := mqtt.NewTopics(cfg.MQTT.Topics)
//	topics.EntityState("sensor.living_room_temperature")
//	// Returns: "homeassistant/statestream/sensor/living_room_temperature/state"
type Topics struct {
	statePrefix   string
	commandPrefix string
}

// NewTopics creates a topic builder from configuration, applying defaults
// for empty prefixes.
func NewTopics(cfg TopicsConfig) Topics {
	t := Topics{
		statePrefix:   strings.TrimSuffix(cfg.StatePrefix, "/"),
		commandPrefix: strings.TrimSuffix(cfg.CommandPrefix, "/"),
	}
	if t.statePrefix == "" {
		t.statePrefix = DefaultStatePrefix
	}
	if t.commandPrefix == "" {
		t.commandPrefix = DefaultCommandPrefix
	}
	return t
}

// TopicsConfig carries the configurable prefixes. It mirrors the
// config package's MQTTTopicsConfig without importing it here, keeping this
// package usable from tests with literal values.
type TopicsConfig struct {
	StatePrefix   string
	CommandPrefix string
}

// =============================================================================
// Entity state topics (inbound)
// =============================================================================

// EntityState returns the state topic for an entity ID like
// "sensor.living_room_temperature".
//
// Example: homeassistant/statestream/sensor/living_room_temperature/state
func (t Topics) EntityState(entityID string) string {
	domain, object := SplitEntityID(entityID)
	return fmt.Sprintf("%s/%s/%s/state", t.statePrefix, domain, object)
}

// EntityAttribute returns the topic for a single published attribute of an
// entity, such as a weather entity's forecast list.
//
// Example: homeassistant/statestream/weather/home/forecast
func (t Topics) EntityAttribute(entityID, attribute string) string {
	domain, object := SplitEntityID(entityID)
	return fmt.Sprintf("%s/%s/%s/%s", t.statePrefix, domain, object, attribute)
}

// AllEntityStates returns a pattern matching every entity state update
// under the statestream prefix.
//
// Pattern: homeassistant/statestream/+/+/state
func (t Topics) AllEntityStates() string {
	return fmt.Sprintf("%s/+/+/state", t.statePrefix)
}

// EntityIDFromStateTopic recovers the entity ID from a statestream state
// topic. Returns false when the topic does not match the expected layout.
func (t Topics) EntityIDFromStateTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, t.statePrefix+"/")
	if !ok {
		return "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[2] != "state" {
		return "", false
	}
	return parts[0] + "." + parts[1], true
}

// SplitEntityID splits "domain.object_id" into its parts. Entity IDs without
// a domain separator map to an empty domain.
func SplitEntityID(entityID string) (domain, object string) {
	domain, object, ok := strings.Cut(entityID, ".")
	if !ok {
		return "", entityID
	}
	return domain, object
}

// =============================================================================
// Actuation command topics (outbound)
// =============================================================================

// ACCommand returns the command topic for a room's air-conditioning unit.
//
// Example: thermal/command/ac/living_room
func (t Topics) ACCommand(roomID string) string {
	return fmt.Sprintf("%s/command/ac/%s", t.commandPrefix, roomID)
}

// FloorHeatingCommand returns the command topic for a room's floor-heating
// circuit switch.
//
// Example: thermal/command/floor_heating/living_room
func (t Topics) FloorHeatingCommand(roomID string) string {
	return fmt.Sprintf("%s/command/floor_heating/%s", t.commandPrefix, roomID)
}

// WaterHeaterCommand returns the command topic for the shared central
// heater water temperature setpoint.
//
// Example: thermal/command/water_heater/setpoint
func (t Topics) WaterHeaterCommand() string {
	return fmt.Sprintf("%s/command/water_heater/setpoint", t.commandPrefix)
}

// =============================================================================
// Controller status topics
// =============================================================================

// RoomDecision returns the topic where the room's latest decision is
// published (retained) for observability.
//
// Example: thermal/core/room/living_room/decision
func (t Topics) RoomDecision(roomID string) string {
	return fmt.Sprintf("%s/core/room/%s/decision", t.commandPrefix, roomID)
}

// SystemStatus returns the controller online/offline status topic, also
// used for the Last Will and Testament message.
//
// Example: thermal/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.commandPrefix)
}
