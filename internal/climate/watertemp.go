package climate

// AdaptWaterTemperature computes the desired central heater water
// temperature for the current cycle.
//
// With no floor-heating demand anywhere the heater idles at HeaterMinTemp,
// keeping the loops ready without burning energy on unused hot water. With
// demand, the setpoint follows a piecewise-linear curve in outdoor
// temperature:
//
//	HeaterMaxTemp |____
//	              |    \
//	              |     \
//	HeaterMinTemp |      \________
//	              +----------------
//	          ColdOutdoor   MildOutdoor
//
// The curve is monotonic non-increasing in outdoor temperature and never
// drops below HeaterMinTemp while demand exists. An unknown outdoor
// temperature holds the setpoint at HeaterMinTemp, the least-action fail
// safe, matching the engine's policy for missing sensors.
//
// Parameters:
//   - cfg: Engine configuration (bounds and curve anchors)
//   - gs: Global snapshot (outdoor temperature)
//   - floorDemand: Whether any room currently draws floor heating
//
// Returns:
//   - float64: Desired water temperature, always >= HeaterMinTemp
func AdaptWaterTemperature(cfg Config, gs GlobalState, floorDemand bool) float64 {
	if !floorDemand {
		return cfg.HeaterMinTemp
	}
	if gs.OutdoorTemp == nil {
		return cfg.HeaterMinTemp
	}

	outdoor := *gs.OutdoorTemp
	switch {
	case outdoor >= cfg.WaterMildOutdoor:
		return cfg.HeaterMinTemp
	case outdoor <= cfg.WaterColdOutdoor:
		return cfg.HeaterMaxTemp
	default:
		frac := (cfg.WaterMildOutdoor - outdoor) / (cfg.WaterMildOutdoor - cfg.WaterColdOutdoor)
		return cfg.HeaterMinTemp + frac*(cfg.HeaterMaxTemp-cfg.HeaterMinTemp)
	}
}
