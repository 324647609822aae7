package climate

import "sync"

// HysteresisStore holds the only state the controller carries between
// evaluation cycles: the previous mode per room and the last water
// temperature it computed. It lives in process memory only; a restart
// resets every cell to unknown and the first decision runs undamped.
//
// Each room has its own cell with its own lock, so different rooms
// evaluate concurrently while evaluations of the same room are serialized.
type HysteresisStore struct {
	mu    sync.Mutex
	rooms map[string]*Cell

	waterMu  sync.Mutex
	water    float64
	waterSet bool
}

// NewHysteresisStore creates an empty store; every room starts at
// ModeUnknown.
func NewHysteresisStore() *HysteresisStore {
	return &HysteresisStore{rooms: make(map[string]*Cell)}
}

// Room returns the room's cell, creating it on first use.
func (s *HysteresisStore) Room(id string) *Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, ok := s.rooms[id]
	if !ok {
		cell = &Cell{prev: ModeUnknown}
		s.rooms[id] = cell
	}
	return cell
}

// DampWaterTemp decides whether a newly computed water temperature should
// be issued. Movements smaller than delta keep the previously issued value
// to avoid chattering the heater setpoint; the first call always issues.
//
// Returns the value to command and whether it differs from the last issued
// one.
func (s *HysteresisStore) DampWaterTemp(next, delta float64) (float64, bool) {
	s.waterMu.Lock()
	defer s.waterMu.Unlock()

	if s.waterSet && abs(next-s.water) < delta {
		return s.water, false
	}
	s.water = next
	s.waterSet = true
	return next, true
}

// Cell is one room's hysteresis memory. Evaluate serializes access so a
// decision never reads a half-updated previous mode.
type Cell struct {
	mu   sync.Mutex
	prev Mode
}

// Evaluate runs fn with the previous mode and stores its result as the new
// previous mode. Calls for the same cell are serialized.
func (c *Cell) Evaluate(fn func(prev Mode) Mode) Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := fn(c.prev)
	c.prev = next
	return next
}

// TryEvaluate is Evaluate, except it reports false without running fn when
// an evaluation of the same room is already in flight. Used by the
// controller's skip-on-overrun policy.
func (c *Cell) TryEvaluate(fn func(prev Mode) Mode) (Mode, bool) {
	if !c.mu.TryLock() {
		return ModeUnknown, false
	}
	defer c.mu.Unlock()

	next := fn(c.prev)
	c.prev = next
	return next, true
}

// Previous returns the cell's current previous mode.
func (c *Cell) Previous() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prev
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
