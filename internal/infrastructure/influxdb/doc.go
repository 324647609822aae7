// Package influxdb provides optional time-series telemetry for the
// thermal controller.
//
// It wraps the official InfluxDB v2 Go client with connection management
// and non-blocking batched writes. When influxdb.enabled is false in the
// configuration, Connect returns ErrDisabled and the controller runs
// without telemetry.
//
// # Measurements
//
//	room_climate   per-room evaluation result (tags: room, mode)
//	power_status   solar excess and battery state of charge
//	water_heater   central water setpoint and measured temperature
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    client = nil // telemetry off
//	} else if err != nil {
//	    return err
//	}
//
//	client.WriteRoomClimate("office", "ac_heat", 18.9, 21.0, false)
//
// Writes are fire-and-forget; async write errors are delivered through
// the SetOnError callback.
package influxdb
