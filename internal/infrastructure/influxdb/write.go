package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRoomClimate writes a room's evaluated climate state to InfluxDB.
//
// This is the primary method for recording per-room telemetry after each
// evaluation. The write is non-blocking; data is batched and sent
// asynchronously.
//
// Parameters:
//   - roomID: Room identifier (e.g., "living_room")
//   - mode: Decided mode as a string (e.g., "ac_cool", "floor_heat", "off")
//   - temperature: Current room temperature in Celsius
//   - target: Target temperature after overrides
//   - unmetDemand: Whether demand exists but no method is available
//
// Example:
//
//	client.WriteRoomClimate("living_room", "floor_heat", 19.2, 21.0, false)
func (c *Client) WriteRoomClimate(roomID string, mode string, temperature, target float64, unmetDemand bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"room_climate",
		map[string]string{
			"room": roomID,
			"mode": mode,
		},
		map[string]interface{}{
			"temperature":  temperature,
			"target":       target,
			"unmet_demand": unmetDemand,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePowerStatus writes the house power picture used for cost decisions.
//
// Parameters:
//   - solarExcessWatts: Exported solar power (positive = surplus)
//   - batterySOC: House battery state of charge in percent
func (c *Client) WritePowerStatus(solarExcessWatts, batterySOC float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"power_status",
		nil,
		map[string]interface{}{
			"solar_excess_watts": solarExcessWatts,
			"battery_soc":        batterySOC,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteWaterTemperature writes the central heater water setpoint alongside
// the measured water temperature.
//
// Parameters:
//   - setpoint: The setpoint the controller issued
//   - measured: The measured water temperature, or NaN when unknown
func (c *Client) WriteWaterTemperature(setpoint, measured float64) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"setpoint": setpoint,
	}
	if measured == measured { // skip NaN
		fields["measured"] = measured
	}

	point := write.NewPoint("water_heater", nil, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("evaluation_stats",
//	    map[string]string{"trigger": "tick"},
//	    map[string]interface{}{"duration_ms": 12.4, "rooms": 5})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
