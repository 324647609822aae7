package snapshot

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/radumarinoiu/thermal-control-ha/internal/climate"
	"github.com/radumarinoiu/thermal-control-ha/internal/infrastructure/mqtt"
)

// Entry is the cached state of one external entity.
type Entry struct {
	// Value is the raw state string as published by the statestream.
	Value string

	// ChangedAt is when the value last changed; UpdatedAt is when it was
	// last published (statestreams republish unchanged values).
	ChangedAt time.Time
	UpdatedAt time.Time
}

// Store caches the latest state per external entity, fed by MQTT message
// handlers. Safe for concurrent use.
type Store struct {
	topics mqtt.Topics

	mu       sync.RWMutex
	entries  map[string]Entry
	forecast climate.Forecast

	watchMu      sync.Mutex
	watchEntity  string
	watchBand    float64
	watchLast    float64
	watchPrimed  bool
	watchTrigger func()

	// now is replaceable for tests.
	now func() time.Time
}

// NewStore creates an empty store parsing state topics with the given
// topic scheme.
func NewStore(topics mqtt.Topics) *Store {
	return &Store{
		topics:  topics,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// HandleState is the MQTT message handler for statestream state topics.
// Register it against Topics.AllEntityStates. Topics outside the
// statestream layout are reported as errors and otherwise ignored.
func (s *Store) HandleState(topic string, payload []byte) error {
	entityID, ok := s.topics.EntityIDFromStateTopic(topic)
	if !ok {
		return fmt.Errorf("snapshot: unexpected state topic %q", topic)
	}
	s.Set(entityID, string(payload))
	return nil
}

// Set records a new state for an entity. Exposed for tests and for
// non-MQTT feeds.
func (s *Store) Set(entityID, value string) {
	now := s.now()

	s.mu.Lock()
	prev, existed := s.entries[entityID]
	entry := Entry{Value: value, UpdatedAt: now, ChangedAt: now}
	if existed && prev.Value == value {
		entry.ChangedAt = prev.ChangedAt
	}
	s.entries[entityID] = entry
	s.mu.Unlock()

	s.checkWatch(entityID, value)
}

// Get returns the cached entry for an entity.
func (s *Store) Get(entityID string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[entityID]
	return entry, ok
}

// Fresh returns the entity's value when it exists and was updated within
// the staleness window ending at now.
func (s *Store) Fresh(entityID string, staleness time.Duration, now time.Time) (Entry, bool) {
	entry, ok := s.Get(entityID)
	if !ok || now.Sub(entry.UpdatedAt) > staleness {
		return Entry{}, false
	}
	return entry, true
}

// Len returns the number of cached entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// forecastSample is the statestream JSON shape of one forecast entry.
type forecastSample struct {
	Datetime    time.Time `json:"datetime"`
	Condition   string    `json:"condition"`
	Temperature float64   `json:"temperature"`
}

// HandleForecast is the MQTT message handler for the weather entity's
// forecast attribute, published as a JSON array of samples.
func (s *Store) HandleForecast(_ string, payload []byte) error {
	var samples []forecastSample
	if err := json.Unmarshal(payload, &samples); err != nil {
		return fmt.Errorf("snapshot: parsing forecast: %w", err)
	}

	forecast := make(climate.Forecast, 0, len(samples))
	for _, sample := range samples {
		forecast = append(forecast, climate.ForecastSample{
			Time:        sample.Datetime,
			Condition:   sample.Condition,
			Temperature: sample.Temperature,
		})
	}

	s.mu.Lock()
	s.forecast = forecast
	s.mu.Unlock()
	return nil
}

// Forecast returns the latest parsed forecast.
func (s *Store) Forecast() climate.Forecast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forecast
}

// WatchSignificantChange registers a trigger fired whenever the named
// entity's numeric value moves by more than band since the last firing.
// Used for solar-excess re-evaluation. Only one watch is supported.
func (s *Store) WatchSignificantChange(entityID string, band float64, trigger func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	s.watchEntity = entityID
	s.watchBand = band
	s.watchPrimed = false
	s.watchTrigger = trigger
}

func (s *Store) checkWatch(entityID, value string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if s.watchTrigger == nil || entityID != s.watchEntity {
		return
	}
	v, ok := parseFloat(value)
	if !ok {
		return
	}
	if s.watchPrimed && abs(v-s.watchLast) <= s.watchBand {
		return
	}
	fire := s.watchPrimed
	s.watchLast = v
	s.watchPrimed = true
	if fire {
		s.watchTrigger()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
