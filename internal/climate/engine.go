package climate

import (
	"fmt"
	"time"
)

// Decide evaluates one room and returns its actuation decision.
//
// The engine is deterministic: identical inputs (including prev) always
// produce the identical decision. It never returns an error; expected
// missing-sensor conditions degrade to the safest action (off) with a
// structured reason, so one bad room never blocks the others.
//
// Priority order:
//  1. Missing room temperature forces off (fail safe).
//  2. Eco/away override replaces the target with the season-appropriate
//     eco temperature; a neutral season forces off.
//  3. Otherwise the day/night schedule resolves the target.
//  4. An open window forces off regardless of temperature error.
//  5. Inside the deadband the room is off; exact boundary equality
//     retains the previous direction instead of flipping (hysteresis).
//  6. The cheapest available method by effective cost actuates; demand
//     with no usable method reports UnmetDemand.
//
// Parameters:
//   - cfg: Engine configuration, immutable for the process lifetime
//   - room: Static room configuration
//   - rs: Room sensor snapshot for this cycle
//   - gs: House-wide snapshot for this cycle
//   - prev: The room's previous mode (ModeUnknown on first evaluation)
//   - now: Evaluation time, local to the site
//
// Returns:
//   - RoomDecision: Mode, AC setpoint, floor flag, reason, unmet-demand flag
func Decide(cfg Config, room Room, rs RoomState, gs GlobalState, prev Mode, now time.Time) RoomDecision {
	d := RoomDecision{Room: room.ID, Mode: ModeOff}
	defer func() { d.ModeName = d.Mode.String() }()

	if rs.Temperature == nil {
		d.Reason = "missing data: room temperature unknown or stale"
		return d
	}
	cur := *rs.Temperature

	target := room.Target(cfg, ResolvePeriod(cfg, now))

	// Eco/away override. Room-level absence only counts when the room
	// requires presence; home-level absence always counts.
	ecoSeason := SeasonNeutral
	eco := false
	if cfg.EcoModeWhenAway {
		away := gs.AwayFor(cfg.HomePresenceTimeout, now) ||
			(room.PresenceRequired && rs.AwayFor(cfg.RoomPresenceTimeout, now))
		if away {
			eco = true
			ecoSeason = ClassifySeason(cfg, gs, now)
			switch ecoSeason {
			case SeasonHeating:
				target = cfg.EcoTempHeating
			case SeasonCooling:
				target = cfg.EcoTempCooling
			}
		}
	}
	d.Target = target

	// Window override wins over any would-be heat/cool decision.
	if room.WindowDetection && rs.WindowOpen {
		d.Reason = "window open"
		return d
	}

	if eco && ecoSeason == SeasonNeutral {
		d.Reason = "eco away: neutral season, no action"
		return d
	}

	// Direction selection with hysteresis. Demand requires the error to
	// strictly exceed the tolerance; sitting exactly on the boundary
	// retains the previous direction rather than flipping.
	tolerance := cfg.Tolerance
	coolTolerance := tolerance
	if solarAbundant(cfg, gs) {
		// Surplus power is otherwise wasted; cool as soon as the room
		// passes the target.
		coolTolerance = 0
	}

	heatNeeded := cur < target-tolerance ||
		(cur == target-tolerance && prev.IsHeating())
	coolNeeded := cur > target+coolTolerance ||
		(cur == target+coolTolerance && coolTolerance > 0 && prev.IsCooling())

	// Eco mode only ever pushes toward the season's direction.
	if eco {
		switch ecoSeason {
		case SeasonHeating:
			coolNeeded = false
		case SeasonCooling:
			heatNeeded = false
		}
	}

	switch {
	case heatNeeded:
		return decideHeating(cfg, room, gs, d, cur, target, eco)
	case coolNeeded:
		return decideCooling(cfg, room, gs, d, target, eco)
	default:
		d.Reason = fmt.Sprintf("within tolerance of %.1f", target)
		return d
	}
}

// decideHeating selects the heating method and fills the decision.
func decideHeating(cfg Config, room Room, gs GlobalState, d RoomDecision, cur, target float64, eco bool) RoomDecision {
	methods := heatingMethods(cfg, room, gs)

	best, ok := cheapestMethod(cfg, gs, methods)
	if !ok {
		d.UnmetDemand = true
		d.Reason = "unmet demand: heating required but no method available"
		return d
	}

	// Large errors run every usable method together for faster recovery.
	boost := target-cur >= cfg.HeatBoostDelta && allAvailable(methods)

	switch {
	case boost:
		d.Mode = ModeACHeatFloorHeat
		d.Reason = fmt.Sprintf("heating boost: %.1f below target", target-cur)
	default:
		d.Mode = best.Mode()
		d.Reason = "heating via " + best.Kind.String()
	}
	if eco {
		d.Reason = "eco away: " + d.Reason
	}

	if d.Mode.UsesAC() {
		d.ACSetpoint = clamp(target, cfg.ACMinTemp, cfg.ACMaxTemp)
	}
	d.FloorHeating = d.Mode.UsesFloorHeating()
	return d
}

// decideCooling selects the cooling method and fills the decision.
func decideCooling(cfg Config, room Room, gs GlobalState, d RoomDecision, target float64, eco bool) RoomDecision {
	best, ok := cheapestMethod(cfg, gs, coolingMethods(room))
	if !ok {
		d.UnmetDemand = true
		d.Reason = "unmet demand: cooling required but no method available"
		return d
	}

	d.Mode = best.Mode()
	d.Reason = "cooling via " + best.Kind.String()
	if solarAbundant(cfg, gs) {
		d.Reason += " (solar surplus)"
	}
	if eco {
		d.Reason = "eco away: " + d.Reason
	}
	d.ACSetpoint = clamp(target, cfg.ACMinTemp, cfg.ACMaxTemp)
	return d
}

// allAvailable reports whether every listed method is usable.
func allAvailable(methods []Method) bool {
	for _, m := range methods {
		if !m.Available {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
