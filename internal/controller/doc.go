// Package controller runs the periodic evaluation loop.
//
// Every update_interval the controller snapshots the entity cache, runs
// the decision engine for each room, adapts the shared water temperature
// and hands the resulting plan to the dispatcher:
//
//	 ticker ----+
//	            |--> evaluate --> climate.Decide (per room, concurrent)
//	 solar -----+        |
//	 trigger             +-----> climate.AdaptWaterTemperature
//	                     |
//	                     +-----> dispatch.Dispatcher
//	                     +-----> influxdb telemetry (optional)
//
// Rooms evaluate concurrently; each room's hysteresis cell serializes
// evaluations of that room. If a cycle overruns the interval the next tick
// is skipped rather than queued, so evaluations never pile up.
//
// A significant solar-excess change fires an extra evaluation between
// ticks so surplus power is picked up promptly instead of waiting out the
// interval.
//
// The latest plan and global snapshot are retained for the status API.
// Nothing in the loop is fatal to the process; a bad snapshot for one room
// degrades that room only.
package controller
