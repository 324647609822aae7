package snapshot

import (
	"time"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/config"
)

// Builder assembles immutable engine snapshots from the store. Each call
// reads the cache fresh; snapshots are never mutated after building.
type Builder struct {
	store     *Store
	staleness time.Duration
	global    config.GlobalEntities

	// solarInverted flips the sign of the solar excess reading so the
	// engine always sees positive = surplus.
	solarInverted bool
}

// NewBuilder creates a builder bound to the configured entities.
func NewBuilder(store *Store, cfg *config.Config) *Builder {
	return &Builder{
		store:         store,
		staleness:     cfg.Engine.SensorStalenessDuration(),
		global:        cfg.Global,
		solarInverted: cfg.Engine.SolarExcessInverted,
	}
}

// RoomState builds one room's snapshot as of now. Missing or stale
// readings become nil fields; the engine fails safe on them.
func (b *Builder) RoomState(room config.RoomConfig, now time.Time) climate.RoomState {
	rs := climate.RoomState{
		Temperature: b.freshFloat(room.Entities.Temperature, now),
		Humidity:    b.freshFloat(room.Entities.Humidity, now),
	}

	// Binary sensors hold their value until the next transition, so
	// staleness does not apply; ChangedAt carries the "last seen" time.
	if entry, ok := b.store.Get(room.Entities.Presence); ok {
		if occupied, valid := parseBool(entry.Value); valid {
			rs.Occupied = occupied
			if occupied {
				rs.LastSeen = entry.UpdatedAt
			} else {
				rs.LastSeen = entry.ChangedAt
			}
		}
	}

	for _, window := range room.Entities.Windows {
		if entry, ok := b.store.Get(window); ok {
			if open, valid := parseBool(entry.Value); valid && open {
				rs.WindowOpen = true
				break
			}
		}
	}

	return rs
}

// GlobalState builds the house-wide snapshot as of now.
func (b *Builder) GlobalState(now time.Time) climate.GlobalState {
	gs := climate.GlobalState{
		WaterTemp:       b.freshFloat(b.global.HeaterWaterTemp, now),
		BatterySOC:      b.freshFloat(b.global.BatterySOC, now),
		OutdoorTemp:     b.freshFloat(b.global.OutdoorTemp, now),
		OutdoorHumidity: b.freshFloat(b.global.OutdoorHumidity, now),
		Forecast:        b.store.Forecast(),
	}

	if solar := b.freshFloat(b.global.SolarExcess, now); solar != nil {
		v := *solar
		if b.solarInverted {
			v = -v
		}
		gs.SolarExcess = &v
	}

	// Anyone home counts; last seen is the latest transition across all
	// presence trackers.
	for _, entity := range b.global.Presence {
		entry, ok := b.store.Get(entity)
		if !ok {
			continue
		}
		present, valid := parseBool(entry.Value)
		if !valid {
			continue
		}
		seen := entry.ChangedAt
		if present {
			gs.HomeOccupied = true
			seen = entry.UpdatedAt
		}
		if seen.After(gs.HomeLastSeen) {
			gs.HomeLastSeen = seen
		}
	}

	return gs
}

// freshFloat returns the entity's numeric value when present, parseable
// and within the staleness window.
func (b *Builder) freshFloat(entityID string, now time.Time) *float64 {
	if entityID == "" {
		return nil
	}
	entry, ok := b.store.Fresh(entityID, b.staleness, now)
	if !ok {
		return nil
	}
	v, ok := parseFloat(entry.Value)
	if !ok {
		return nil
	}
	return &v
}
