package climate

import (
	"sync"
	"testing"
)

func TestHysteresisStore_StartsUnknown(t *testing.T) {
	store := NewHysteresisStore()

	if got := store.Room("living_room").Previous(); got != ModeUnknown {
		t.Errorf("Previous() = %v, want unknown on startup", got)
	}
}

func TestCell_EvaluateCarriesMode(t *testing.T) {
	store := NewHysteresisStore()
	cell := store.Room("office")

	got := cell.Evaluate(func(prev Mode) Mode {
		if prev != ModeUnknown {
			t.Errorf("first evaluation prev = %v, want unknown", prev)
		}
		return ModeFloorHeat
	})
	if got != ModeFloorHeat {
		t.Errorf("Evaluate() = %v, want floor_heat", got)
	}

	cell.Evaluate(func(prev Mode) Mode {
		if prev != ModeFloorHeat {
			t.Errorf("second evaluation prev = %v, want floor_heat", prev)
		}
		return ModeOff
	})
	if got := cell.Previous(); got != ModeOff {
		t.Errorf("Previous() = %v, want off", got)
	}
}

func TestCell_TryEvaluateSkipsWhenBusy(t *testing.T) {
	cell := NewHysteresisStore().Room("office")

	inFlight := make(chan struct{})
	release := make(chan struct{})
	go cell.Evaluate(func(Mode) Mode {
		close(inFlight)
		<-release
		return ModeACHeat
	})
	<-inFlight

	if _, ok := cell.TryEvaluate(func(Mode) Mode { return ModeOff }); ok {
		t.Error("TryEvaluate() ran while another evaluation was in flight")
	}
	close(release)
}

func TestHysteresisStore_RoomsAreIndependent(t *testing.T) {
	store := NewHysteresisStore()

	var wg sync.WaitGroup
	rooms := []string{"living_room", "office", "bedroom", "kitchen"}
	for _, id := range rooms {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				store.Room(id).Evaluate(func(Mode) Mode { return ModeACHeat })
			}
		}(id)
	}
	wg.Wait()

	for _, id := range rooms {
		if got := store.Room(id).Previous(); got != ModeACHeat {
			t.Errorf("room %s: Previous() = %v, want ac_heat", id, got)
		}
	}
}

func TestDampWaterTemp(t *testing.T) {
	store := NewHysteresisStore()

	// First call always issues.
	got, changed := store.DampWaterTemp(42.0, 1.0)
	if got != 42.0 || !changed {
		t.Errorf("first DampWaterTemp() = (%.1f, %v), want (42.0, true)", got, changed)
	}

	// Small movement is damped to the last issued value.
	got, changed = store.DampWaterTemp(42.6, 1.0)
	if got != 42.0 || changed {
		t.Errorf("damped DampWaterTemp() = (%.1f, %v), want (42.0, false)", got, changed)
	}

	// Movement of at least the delta issues the new value.
	got, changed = store.DampWaterTemp(43.6, 1.0)
	if got != 43.6 || !changed {
		t.Errorf("moved DampWaterTemp() = (%.1f, %v), want (43.6, true)", got, changed)
	}
}
