package climate

// MethodKind identifies an actuation method.
type MethodKind int

// Actuation method kinds.
const (
	MethodACHeat MethodKind = iota
	MethodACCool
	MethodFloorHeat
)

// String returns the wire representation of the method kind.
func (k MethodKind) String() string {
	switch k {
	case MethodACHeat:
		return "ac_heat"
	case MethodACCool:
		return "ac_cool"
	default:
		return "floor_heat"
	}
}

// Method is one candidate actuation method: a tagged variant with an
// availability flag and a base cost factor. Modeling methods this way keeps
// the "choose cheapest available" logic uniform as methods are added.
type Method struct {
	Kind      MethodKind
	Available bool
	BaseCost  float64
}

// Mode returns the room mode selecting only this method.
func (m Method) Mode() Mode {
	switch m.Kind {
	case MethodACHeat:
		return ModeACHeat
	case MethodACCool:
		return ModeACCool
	default:
		return ModeFloorHeat
	}
}

// usesElectricity reports whether the method runs on directly usable
// electricity. Only such methods receive renewable discounts; floor heating
// draws from the shared thermal store.
func (m Method) usesElectricity() bool {
	return m.Kind == MethodACHeat || m.Kind == MethodACCool
}

// heatingMethods lists the room's heating candidates in tie-break order:
// floor heating first, so that cost ties resolve in its favour (lower
// marginal cost at steady state).
//
// Floor heating is only usable when the measured water temperature is known
// and at least HeaterMinTemp; a cold or unknown loop cannot deliver heat,
// so the room falls back to AC.
func heatingMethods(cfg Config, room Room, gs GlobalState) []Method {
	floorReady := room.FloorHeating &&
		gs.WaterTemp != nil && *gs.WaterTemp >= cfg.HeaterMinTemp

	return []Method{
		{Kind: MethodFloorHeat, Available: floorReady, BaseCost: room.FloorHeatingCost},
		{Kind: MethodACHeat, Available: room.ACHeating, BaseCost: room.ACHeatingCost},
	}
}

// coolingMethods lists the room's cooling candidates. AC is the only
// implemented cooling method.
func coolingMethods(room Room) []Method {
	return []Method{
		{Kind: MethodACCool, Available: room.ACCooling, BaseCost: 1},
	}
}

// solarAbundant reports whether solar excess exceeds the configured
// threshold and solar prioritization is on.
func solarAbundant(cfg Config, gs GlobalState) bool {
	return cfg.PrioritizeSolar &&
		gs.SolarExcess != nil && *gs.SolarExcess > cfg.SolarExcessThreshold
}

// batteryAbundant reports whether the house battery is above the
// configured threshold.
func batteryAbundant(cfg Config, gs GlobalState) bool {
	return gs.BatterySOC != nil && *gs.BatterySOC > cfg.BatteryThreshold
}

// effectiveCost applies renewable discounts to the method's base cost.
// Solar surplus gives electric methods the larger discount; a well-charged
// battery the smaller one. Discounts do not stack.
func effectiveCost(cfg Config, gs GlobalState, m Method) float64 {
	cost := m.BaseCost
	if !m.usesElectricity() {
		return cost
	}
	switch {
	case solarAbundant(cfg, gs):
		cost *= cfg.SolarDiscount
	case batteryAbundant(cfg, gs):
		cost *= cfg.BatteryDiscount
	}
	return cost
}

// cheapestMethod returns the available method with the lowest effective
// cost. Candidates earlier in the list win ties (strict improvement is
// required to displace them). The second return is false when no method is
// available.
func cheapestMethod(cfg Config, gs GlobalState, candidates []Method) (Method, bool) {
	var best Method
	bestCost := 0.0
	found := false

	for _, m := range candidates {
		if !m.Available {
			continue
		}
		cost := effectiveCost(cfg, gs, m)
		if !found || cost < bestCost {
			best = m
			bestCost = cost
			found = true
		}
	}
	return best, found
}
