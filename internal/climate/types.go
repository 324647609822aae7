package climate

import (
	"fmt"
	"time"
)

// Mode is the actuation mode decided for a room.
type Mode int

// Room actuation modes.
const (
	// ModeUnknown is the hysteresis reset value; no previous decision exists.
	ModeUnknown Mode = iota

	// ModeOff leaves all actuators idle.
	ModeOff

	// ModeACHeat heats with the AC unit.
	ModeACHeat

	// ModeACCool cools with the AC unit.
	ModeACCool

	// ModeFloorHeat heats with the in-floor circuit.
	ModeFloorHeat

	// ModeACHeatFloorHeat runs AC and floor heating together for fast
	// recovery from a large temperature error.
	ModeACHeatFloorHeat
)

// String returns the wire representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeACHeat:
		return "ac_heat"
	case ModeACCool:
		return "ac_cool"
	case ModeFloorHeat:
		return "floor_heat"
	case ModeACHeatFloorHeat:
		return "ac_heat+floor_heat"
	default:
		return "unknown"
	}
}

// ParseMode converts a wire representation back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "off":
		return ModeOff, nil
	case "ac_heat":
		return ModeACHeat, nil
	case "ac_cool":
		return ModeACCool, nil
	case "floor_heat":
		return ModeFloorHeat, nil
	case "ac_heat+floor_heat":
		return ModeACHeatFloorHeat, nil
	default:
		return ModeUnknown, fmt.Errorf("climate: unknown mode %q", s)
	}
}

// IsHeating reports whether the mode heats the room.
func (m Mode) IsHeating() bool {
	return m == ModeACHeat || m == ModeFloorHeat || m == ModeACHeatFloorHeat
}

// IsCooling reports whether the mode cools the room.
func (m Mode) IsCooling() bool {
	return m == ModeACCool
}

// UsesAC reports whether the mode drives the AC unit.
func (m Mode) UsesAC() bool {
	return m == ModeACHeat || m == ModeACCool || m == ModeACHeatFloorHeat
}

// UsesFloorHeating reports whether the mode drives the floor circuit.
func (m Mode) UsesFloorHeating() bool {
	return m == ModeFloorHeat || m == ModeACHeatFloorHeat
}

// Season is the classifier's view of the current part of the year.
type Season int

// Season classifications.
const (
	// SeasonNeutral means the forecast sits inside the tolerance band
	// around the cooling threshold, or no data is available. Eco-away
	// takes no action in a neutral season.
	SeasonNeutral Season = iota

	// SeasonHeating means the forecast mean is below the cooling threshold.
	SeasonHeating

	// SeasonCooling means the forecast mean is above the cooling threshold.
	SeasonCooling
)

// String returns the wire representation of the season.
func (s Season) String() string {
	switch s {
	case SeasonHeating:
		return "heating"
	case SeasonCooling:
		return "cooling"
	default:
		return "neutral"
	}
}

// Period is the schedule period a point in time falls into.
type Period int

// Schedule periods.
const (
	PeriodDay Period = iota
	PeriodNight
)

// String returns the wire representation of the period.
func (p Period) String() string {
	if p == PeriodNight {
		return "night"
	}
	return "day"
}

// ForecastSample is one point of the weather forecast.
type ForecastSample struct {
	Time        time.Time
	Condition   string
	Temperature float64
}

// Forecast is an ordered sequence of forecast samples.
type Forecast []ForecastSample

// MeanTemperatureUntil returns the mean temperature of the samples whose
// time falls within (now, horizon]. The second return is false when no
// sample qualifies.
func (f Forecast) MeanTemperatureUntil(now time.Time, horizon time.Duration) (float64, bool) {
	var sum float64
	var n int
	limit := now.Add(horizon)
	for _, s := range f {
		if s.Time.Before(now) || s.Time.After(limit) {
			continue
		}
		sum += s.Temperature
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// RoomState is the per-room sensor snapshot for one evaluation cycle.
// It is rebuilt fully each cycle and never mutated partially. Nil pointer
// fields mean the reading is missing or stale.
type RoomState struct {
	// Temperature is the current room temperature in Celsius. Required;
	// nil forces the room off (fail safe).
	Temperature *float64

	// Humidity is the current relative humidity in percent, if known.
	Humidity *float64

	// WindowOpen reports whether any of the room's windows is open.
	WindowOpen bool

	// Occupied reports current room occupancy. LastSeen is the last time
	// occupancy was detected; a zero LastSeen means presence was never
	// observed, in which case the room does not count as away.
	Occupied bool
	LastSeen time.Time
}

// AwayFor reports whether the room has been unoccupied for longer than the
// given timeout as of now.
func (rs RoomState) AwayFor(timeout time.Duration, now time.Time) bool {
	if rs.Occupied || rs.LastSeen.IsZero() {
		return false
	}
	return now.Sub(rs.LastSeen) > timeout
}

// GlobalState is the house-wide snapshot for one evaluation cycle.
// Nil pointer fields mean the reading is missing or stale.
type GlobalState struct {
	// WaterTemp is the measured central heater water temperature.
	WaterTemp *float64

	// SolarExcess is the exported solar power in watts, sign-normalized so
	// positive means surplus available.
	SolarExcess *float64

	// BatterySOC is the house battery state of charge in percent.
	BatterySOC *float64

	// Outdoor conditions.
	OutdoorTemp     *float64
	OutdoorHumidity *float64

	// Forecast is the weather look-ahead, ordered by time.
	Forecast Forecast

	// HomeOccupied reports whether anyone is home. HomeLastSeen is the
	// last time presence was detected anywhere; zero means never observed.
	HomeOccupied bool
	HomeLastSeen time.Time
}

// AwayFor reports whether the home has been unoccupied for longer than the
// given timeout as of now.
func (gs GlobalState) AwayFor(timeout time.Duration, now time.Time) bool {
	if gs.HomeOccupied || gs.HomeLastSeen.IsZero() {
		return false
	}
	return now.Sub(gs.HomeLastSeen) > timeout
}

// RoomDecision is the engine's output for one room.
type RoomDecision struct {
	Room string `json:"room"`
	Mode Mode   `json:"-"`

	// ModeName is the wire form of Mode, filled for JSON consumers.
	ModeName string `json:"mode"`

	// ACSetpoint is the AC target temperature, valid when Mode.UsesAC().
	// Always within the configured AC bounds.
	ACSetpoint float64 `json:"ac_setpoint,omitempty"`

	// FloorHeating reports whether the floor circuit should be on.
	FloorHeating bool `json:"floor_heating"`

	// Target is the resolved target temperature after schedule and eco
	// overrides, zero when the room failed safe on missing data.
	Target float64 `json:"target,omitempty"`

	// Reason is a structured explanation for observability.
	Reason string `json:"reason"`

	// UnmetDemand reports heating/cooling demand with no usable method.
	UnmetDemand bool `json:"unmet_demand,omitempty"`
}

// ActuationPlan is the whole-home output of one evaluation cycle, consumed
// by the actuation dispatcher. Derived output only, never persisted.
type ActuationPlan struct {
	// Rooms maps room ID to its decision.
	Rooms map[string]RoomDecision `json:"rooms"`

	// WaterTemp is the desired central heater water temperature.
	WaterTemp float64 `json:"water_temp"`

	// GeneratedAt is when the plan was computed.
	GeneratedAt time.Time `json:"generated_at"`
}
