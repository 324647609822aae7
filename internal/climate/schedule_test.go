package climate

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	cfg := testConfig() // day 07:00, night 22:00

	tests := []struct {
		name string
		now  time.Time
		want Period
	}{
		{"early morning", at(3, 0), PeriodNight},
		{"just before day start", at(6, 59), PeriodNight},
		{"day start is day", at(7, 0), PeriodDay},
		{"afternoon", at(15, 30), PeriodDay},
		{"just before night start", at(21, 59), PeriodDay},
		{"night start is night", at(22, 0), PeriodNight},
		{"midnight", at(0, 0), PeriodNight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePeriod(cfg, tt.now); got != tt.want {
				t.Errorf("ResolvePeriod(%s) = %v, want %v", tt.now.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestResolvePeriod_DayWrapsMidnight(t *testing.T) {
	// Night-shift household: day period 22:00 to 06:00.
	cfg := testConfig()
	cfg.DayStart = 22 * 60
	cfg.NightStart = 6 * 60

	tests := []struct {
		now  time.Time
		want Period
	}{
		{at(23, 0), PeriodDay},
		{at(1, 0), PeriodDay},
		{at(5, 59), PeriodDay},
		{at(6, 0), PeriodNight},
		{at(12, 0), PeriodNight},
		{at(21, 59), PeriodNight},
	}
	for _, tt := range tests {
		if got := ResolvePeriod(cfg, tt.now); got != tt.want {
			t.Errorf("ResolvePeriod(%s) = %v, want %v", tt.now.Format("15:04"), got, tt.want)
		}
	}
}

func TestRoomTarget(t *testing.T) {
	cfg := testConfig()

	room := Room{ID: "office"}
	if got := room.Target(cfg, PeriodDay); got != cfg.DefaultTargetDay {
		t.Errorf("default day target = %.1f, want %.1f", got, cfg.DefaultTargetDay)
	}
	if got := room.Target(cfg, PeriodNight); got != cfg.DefaultTargetNight {
		t.Errorf("default night target = %.1f, want %.1f", got, cfg.DefaultTargetNight)
	}

	room.TargetDay = 22.5
	room.TargetNight = 17.0
	if got := room.Target(cfg, PeriodDay); got != 22.5 {
		t.Errorf("override day target = %.1f, want 22.5", got)
	}
	if got := room.Target(cfg, PeriodNight); got != 17.0 {
		t.Errorf("override night target = %.1f, want 17.0", got)
	}
}
