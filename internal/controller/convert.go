package controller

import (
	"fmt"
	"time"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/config"
)

// engineConfig converts the loaded configuration into the engine's
// immutable config value. The clock strings were already validated at
// load time; a parse failure here still reports rather than panics.
func engineConfig(cfg config.EngineConfig) (climate.Config, error) {
	dayStart, err := config.ParseClockTime(cfg.DayStartTime)
	if err != nil {
		return climate.Config{}, fmt.Errorf("day start time: %w", err)
	}
	nightStart, err := config.ParseClockTime(cfg.NightStartTime)
	if err != nil {
		return climate.Config{}, fmt.Errorf("night start time: %w", err)
	}

	return climate.Config{
		DayStart:             dayStart,
		NightStart:           nightStart,
		DefaultTargetDay:     cfg.DefaultTargetTempDay,
		DefaultTargetNight:   cfg.DefaultTargetTempNight,
		Tolerance:            cfg.TempTolerance,
		ACMinTemp:            cfg.ACMinTemp,
		ACMaxTemp:            cfg.ACMaxTemp,
		HeaterMinTemp:        cfg.HeaterMinTemp,
		HeaterMaxTemp:        cfg.HeaterMaxTemp,
		WaterMildOutdoor:     cfg.WaterMildOutdoor,
		WaterColdOutdoor:     cfg.WaterColdOutdoor,
		HeatBoostDelta:       cfg.HeatBoostDelta,
		EcoModeWhenAway:      cfg.EcoModeWhenAway,
		EcoTempHeating:       cfg.EcoTempHeating,
		EcoTempCooling:       cfg.EcoTempCooling,
		RoomPresenceTimeout:  time.Duration(cfg.RoomPresenceTimeout) * time.Minute,
		HomePresenceTimeout:  time.Duration(cfg.HomePresenceTimeout) * time.Minute,
		PrioritizeSolar:      cfg.PrioritizeSolar,
		SolarExcessThreshold: cfg.SolarExcessThreshold,
		SolarDiscount:        cfg.SolarDiscount,
		BatteryThreshold:     cfg.BatteryThreshold,
		BatteryDiscount:      cfg.BatteryDiscount,
		CoolingThreshold:     cfg.CoolingThreshold,
		SeasonTolerance:      cfg.SeasonTolerance,
		ForecastHorizon:      time.Duration(cfg.ForecastHours) * time.Hour,
	}, nil
}

// engineRoom converts one room's configuration for the engine.
func engineRoom(room config.RoomConfig) climate.Room {
	return climate.Room{
		ID:               room.ID,
		TargetDay:        room.TargetTempDay,
		TargetNight:      room.TargetTempNight,
		PresenceRequired: room.PresenceRequired,
		ACHeating:        room.ACHeatingAvailable,
		ACCooling:        room.ACCoolingAvailable,
		FloorHeating:     room.FloorHeatingAvailable,
		ACHeatingCost:    room.ACHeatingCost,
		FloorHeatingCost: room.FloorHeatingCost,
		WindowDetection:  room.WindowDetectionEnabled,
	}
}
