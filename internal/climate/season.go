package climate

import "time"

// ClassifySeason determines whether the home is in a heating or cooling
// season from current outdoor temperature plus the forecast look-ahead
// window.
//
// It computes the mean of the current outdoor reading and the forecast
// samples within ForecastHorizon of now. A mean below CoolingThreshold
// minus SeasonTolerance classifies as heating; above the threshold plus
// tolerance as cooling; inside the band, or with no data at all, as
// neutral. Eco-away takes no action in a neutral season, so missing
// weather data degrades to "do nothing" rather than a guessed season.
//
// Parameters:
//   - cfg: Engine configuration (threshold, tolerance, horizon)
//   - gs: Global snapshot (outdoor temperature, forecast)
//   - now: Evaluation time, anchors the forecast horizon
//
// Returns:
//   - Season: SeasonHeating, SeasonCooling, or SeasonNeutral
func ClassifySeason(cfg Config, gs GlobalState, now time.Time) Season {
	var sum float64
	var n int

	if gs.OutdoorTemp != nil {
		sum += *gs.OutdoorTemp
		n++
	}
	if mean, ok := gs.Forecast.MeanTemperatureUntil(now, cfg.ForecastHorizon); ok {
		sum += mean
		n++
	}
	if n == 0 {
		return SeasonNeutral
	}

	mean := sum / float64(n)
	switch {
	case mean < cfg.CoolingThreshold-cfg.SeasonTolerance:
		return SeasonHeating
	case mean > cfg.CoolingThreshold+cfg.SeasonTolerance:
		return SeasonCooling
	default:
		return SeasonNeutral
	}
}
