// Package snapshot maintains the in-memory cache of external entity states
// and assembles the immutable snapshots the decision engine consumes.
//
// The controller does not own any sensors; a Home Assistant statestream
// publishes every entity state change over MQTT, and the Store keeps the
// latest raw value and timestamps per entity:
//
//	homeassistant/statestream/sensor/office_temperature/state  "21.4"
//	                               |
//	                               v
//	                     Store (value, changed, updated)
//	                               |
//	                  Builder.RoomState / Builder.GlobalState
//	                               |
//	                               v
//	                   climate.Decide (per cycle)
//
// Readings older than the configured staleness window count as missing;
// the engine fails safe on missing data, so a dead sensor degrades one
// room without blocking the others.
//
// The Store also watches the solar excess entity and notifies the
// controller when it moves by more than the configured band, triggering an
// early re-evaluation so surplus power is used promptly.
package snapshot
