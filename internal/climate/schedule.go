package climate

import "time"

// ResolvePeriod returns the schedule period the given local time falls
// into. The day period is [DayStart, NightStart); night is the complement,
// wrapping past midnight when NightStart precedes DayStart.
func ResolvePeriod(cfg Config, now time.Time) Period {
	minutes := now.Hour()*60 + now.Minute()

	if cfg.DayStart < cfg.NightStart {
		if minutes >= cfg.DayStart && minutes < cfg.NightStart {
			return PeriodDay
		}
		return PeriodNight
	}

	// Day period wraps midnight (e.g. day 22:00, night 06:00).
	if minutes >= cfg.DayStart || minutes < cfg.NightStart {
		return PeriodDay
	}
	return PeriodNight
}
