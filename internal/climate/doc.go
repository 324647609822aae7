// Package climate implements the per-room climate decision engine.
//
// The engine is pure decision logic: given immutable snapshots of room and
// global state plus static configuration, it produces a deterministic
// actuation plan. No I/O happens here; entity ingest and actuation live in
// the snapshot and dispatch packages.
//
// # Decision Flow
//
//	         RoomState + GlobalState (per cycle)
//	                      |
//	                      v
//	   +--------------------------------------+
//	   | Decide(cfg, room, rs, gs, prev, now)  |
//	   |                                      |
//	   |  1. missing data  -> off (fail safe) |
//	   |  2. eco/away      -> season-aware    |
//	   |     override         eco target      |
//	   |  3. schedule      -> day/night target|
//	   |  4. window open   -> off             |
//	   |  5. deadband      -> off             |
//	   |  6. direction     -> heat or cool    |
//	   |  7. method select -> cheapest by     |
//	   |                      effective cost  |
//	   +--------------------------------------+
//	                      |
//	                      v
//	              RoomDecision -> ActuationPlan
//
// # Method Selection
//
// Heating may use AC or in-floor heating. Each candidate is a Method with
// an availability flag and a base cost factor; the cheapest effective cost
// wins. When solar excess exceeds the configured threshold (or the house
// battery is well charged), AC costs are discounted since AC runs directly
// on electricity, while floor heating draws from the shared thermal store
// and is never discounted. Ties favour floor heating. When the temperature
// error exceeds HeatBoostDelta and both methods are usable, both run
// together for faster recovery.
//
// Cooling is AC only. With abundant solar the cooling deadband tightens to
// zero, spending surplus power that would otherwise be exported.
//
// # Hysteresis
//
// The only carried-forward state is the previous mode per room and the last
// commanded water temperature, held in a HysteresisStore. Temperature
// exactly on a tolerance boundary retains the previous mode instead of
// flipping. The store is reset to unknown on startup; the first decision
// runs undamped.
//
// # Shared Water Temperature
//
// AdaptWaterTemperature computes the central heater setpoint from outdoor
// temperature: HeaterMinTemp at or above the mild anchor, rising linearly
// to HeaterMaxTemp at or below the cold anchor. With no floor-heating
// demand anywhere the heater idles at HeaterMinTemp.
package climate
