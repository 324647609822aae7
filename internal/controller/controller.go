package controller

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/dispatch"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/config"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/influxdb"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/logging"
	"github.com/radumarinoiu/thermal-control-ha/internal/snapshot"
)

// Telemetry is the optional metrics sink. Satisfied by *influxdb.Client;
// nil disables telemetry.
type Telemetry interface {
	WriteRoomClimate(roomID string, mode string, temperature, target float64, unmetDemand bool)
	WritePowerStatus(solarExcessWatts, batterySOC float64)
	WriteWaterTemperature(setpoint, measured float64)
}

var _ Telemetry = (*influxdb.Client)(nil)

// Controller owns the evaluation loop and the engine's hysteresis state.
type Controller struct {
	engineCfg  climate.Config
	rooms      []config.RoomConfig
	interval   time.Duration
	waterDelta float64

	builder    *snapshot.Builder
	hysteresis *climate.HysteresisStore
	dispatcher *dispatch.Dispatcher
	telemetry  Telemetry
	logger     *logging.Logger

	// trigger requests an early evaluation; 1-buffered so a burst of
	// solar changes coalesces into one extra cycle.
	trigger chan struct{}

	// evalMu enforces the skip-on-overrun policy: a tick that arrives
	// while an evaluation is still running is dropped.
	evalMu sync.Mutex

	// Latest results for the status API.
	resultMu   sync.RWMutex
	lastPlan   *climate.ActuationPlan
	lastGlobal climate.GlobalState

	// now is replaceable for tests.
	now func() time.Time
}

// New creates a controller from the loaded configuration.
func New(cfg *config.Config, builder *snapshot.Builder, dispatcher *dispatch.Dispatcher, telemetry Telemetry, logger *logging.Logger) (*Controller, error) {
	engineCfg, err := engineConfig(cfg.Engine)
	if err != nil {
		return nil, err
	}

	return &Controller{
		engineCfg:  engineCfg,
		rooms:      cfg.Rooms,
		interval:   cfg.Engine.UpdateIntervalDuration(),
		waterDelta: cfg.Engine.WaterReissueDelta,
		builder:    builder,
		hysteresis: climate.NewHysteresisStore(),
		dispatcher: dispatcher,
		telemetry:  telemetry,
		logger:     logger.With("component", "controller"),
		trigger:    make(chan struct{}, 1),
		now:        time.Now,
	}, nil
}

// Trigger requests an early evaluation, used when solar excess moves
// significantly between ticks. Never blocks; a pending trigger absorbs
// further requests.
func (c *Controller) Trigger() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// Run evaluates immediately, then on every tick or trigger until the
// context is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.logger.Info("evaluation loop started",
		"interval", c.interval.String(),
		"rooms", len(c.rooms),
	)

	c.evaluate()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("evaluation loop stopped")
			return
		case <-ticker.C:
			c.evaluate()
		case <-c.trigger:
			c.logger.Debug("early evaluation triggered")
			c.evaluate()
		}
	}
}

// evaluate runs one full cycle. Overlapping calls are skipped, never
// queued, so a slow cycle cannot pile up work behind it.
func (c *Controller) evaluate() {
	if !c.evalMu.TryLock() {
		c.logger.Warn("evaluation overrun, skipping tick")
		return
	}
	defer c.evalMu.Unlock()

	now := c.now()
	gs := c.builder.GlobalState(now)

	plan := climate.ActuationPlan{
		Rooms:       make(map[string]climate.RoomDecision, len(c.rooms)),
		GeneratedAt: now,
	}

	// Rooms are independent; evaluate them concurrently. Each room's
	// hysteresis cell serializes evaluations of that room.
	var wg sync.WaitGroup
	decisions := make([]climate.RoomDecision, len(c.rooms))
	for i, roomCfg := range c.rooms {
		wg.Add(1)
		go func(i int, roomCfg config.RoomConfig) {
			defer wg.Done()
			decisions[i] = c.evaluateRoom(roomCfg, gs, now)
		}(i, roomCfg)
	}
	wg.Wait()

	floorDemand := false
	for _, d := range decisions {
		plan.Rooms[d.Room] = d
		if d.FloorHeating {
			floorDemand = true
		}
	}

	water := climate.AdaptWaterTemperature(c.engineCfg, gs, floorDemand)
	damped, changed := c.hysteresis.DampWaterTemp(water, c.waterDelta)
	plan.WaterTemp = damped
	if changed {
		c.logger.Info("water temperature adapted",
			"setpoint", damped,
			"floor_demand", floorDemand,
		)
	}

	if err := c.dispatcher.Dispatch(plan); err != nil {
		c.logger.Error("dispatching plan", "error", err)
	}
	for _, d := range plan.Rooms {
		c.dispatcher.PublishDecision(d)
	}

	c.recordTelemetry(plan, gs)

	c.resultMu.Lock()
	c.lastPlan = &plan
	c.lastGlobal = gs
	c.resultMu.Unlock()
}

// evaluateRoom runs the engine for one room under its hysteresis cell.
func (c *Controller) evaluateRoom(roomCfg config.RoomConfig, gs climate.GlobalState, now time.Time) climate.RoomDecision {
	rs := c.builder.RoomState(roomCfg, now)
	room := engineRoom(roomCfg)

	var decision climate.RoomDecision
	c.hysteresis.Room(room.ID).Evaluate(func(prev climate.Mode) climate.Mode {
		decision = climate.Decide(c.engineCfg, room, rs, gs, prev, now)
		return decision.Mode
	})

	c.logger.Debug("room evaluated",
		"room", room.ID,
		"mode", decision.ModeName,
		"target", decision.Target,
		"reason", decision.Reason,
	)
	if decision.UnmetDemand {
		c.logger.Warn("unmet demand", "room", room.ID, "reason", decision.Reason)
	}
	return decision
}

// recordTelemetry writes the cycle's results to the metrics sink, if any.
func (c *Controller) recordTelemetry(plan climate.ActuationPlan, gs climate.GlobalState) {
	if c.telemetry == nil {
		return
	}

	for _, d := range plan.Rooms {
		// Rooms without a temperature reading have nothing to record.
		roomCfg := c.roomConfig(d.Room)
		if roomCfg == nil {
			continue
		}
		rs := c.builder.RoomState(*roomCfg, plan.GeneratedAt)
		if rs.Temperature == nil {
			continue
		}
		c.telemetry.WriteRoomClimate(d.Room, d.ModeName, *rs.Temperature, d.Target, d.UnmetDemand)
	}

	if gs.SolarExcess != nil && gs.BatterySOC != nil {
		c.telemetry.WritePowerStatus(*gs.SolarExcess, *gs.BatterySOC)
	}
	measured := math.NaN()
	if gs.WaterTemp != nil {
		measured = *gs.WaterTemp
	}
	c.telemetry.WriteWaterTemperature(plan.WaterTemp, measured)
}

func (c *Controller) roomConfig(id string) *config.RoomConfig {
	for i := range c.rooms {
		if c.rooms[i].ID == id {
			return &c.rooms[i]
		}
	}
	return nil
}

// LastPlan returns the most recent actuation plan, if any cycle has run.
func (c *Controller) LastPlan() (climate.ActuationPlan, bool) {
	c.resultMu.RLock()
	defer c.resultMu.RUnlock()
	if c.lastPlan == nil {
		return climate.ActuationPlan{}, false
	}
	return *c.lastPlan, true
}

// LastGlobal returns the global snapshot from the most recent cycle.
func (c *Controller) LastGlobal() (climate.GlobalState, bool) {
	c.resultMu.RLock()
	defer c.resultMu.RUnlock()
	if c.lastPlan == nil {
		return climate.GlobalState{}, false
	}
	return c.lastGlobal, true
}

// Rooms returns the configured rooms, for the status API.
func (c *Controller) Rooms() []config.RoomConfig {
	return c.rooms
}
