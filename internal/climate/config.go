package climate

import "time"

// Config carries every knob the engine reads. It is built once from the
// loaded configuration, validated there, and treated as immutable for the
// process lifetime.
type Config struct {
	// Schedule boundaries in minutes since local midnight. The day period
	// is [DayStart, NightStart); night is the complement, wrapping past
	// midnight.
	DayStart   int
	NightStart int

	// Default targets for rooms without their own.
	DefaultTargetDay   float64
	DefaultTargetNight float64

	// Tolerance is the deadband half-width around the target.
	Tolerance float64

	// AC setpoint bounds.
	ACMinTemp float64
	ACMaxTemp float64

	// Central heater water curve anchors. The curve holds HeaterMinTemp
	// for outdoor >= WaterMildOutdoor and rises linearly to HeaterMaxTemp
	// at outdoor <= WaterColdOutdoor.
	HeaterMinTemp    float64
	HeaterMaxTemp    float64
	WaterMildOutdoor float64
	WaterColdOutdoor float64

	// HeatBoostDelta is the temperature error beyond which AC and floor
	// heating run together.
	HeatBoostDelta float64

	// Eco-away behaviour.
	EcoModeWhenAway     bool
	EcoTempHeating      float64
	EcoTempCooling      float64
	RoomPresenceTimeout time.Duration
	HomePresenceTimeout time.Duration

	// Renewable energy thresholds and AC cost discounts.
	PrioritizeSolar      bool
	SolarExcessThreshold float64
	SolarDiscount        float64
	BatteryThreshold     float64
	BatteryDiscount      float64

	// Season classification.
	CoolingThreshold float64
	SeasonTolerance  float64
	ForecastHorizon  time.Duration
}

// Room is the static per-room configuration the engine reads.
type Room struct {
	ID string

	// Per-room targets; zero means "use the engine default".
	TargetDay   float64
	TargetNight float64

	// PresenceRequired makes room-level absence trigger eco mode, not just
	// home-level absence.
	PresenceRequired bool

	// Availability flags for the actuation methods.
	ACHeating    bool
	ACCooling    bool
	FloorHeating bool

	// Relative cost factors for method selection.
	ACHeatingCost    float64
	FloorHeatingCost float64

	// WindowDetection forces the room off while any window is open.
	WindowDetection bool
}

// Target returns the room's target temperature for the given period,
// falling back to the engine defaults.
func (r Room) Target(cfg Config, p Period) float64 {
	if p == PeriodNight {
		if r.TargetNight != 0 {
			return r.TargetNight
		}
		return cfg.DefaultTargetNight
	}
	if r.TargetDay != 0 {
		return r.TargetDay
	}
	return cfg.DefaultTargetDay
}
