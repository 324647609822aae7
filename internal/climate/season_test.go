package climate

import (
	"testing"
	"time"
)

func TestClassifySeason(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig() // threshold 18.0, tolerance 1.0, horizon 12h

	forecast := func(temps ...float64) Forecast {
		var fc Forecast
		for i, temp := range temps {
			fc = append(fc, ForecastSample{
				Time:        now.Add(time.Duration(i+1) * time.Hour),
				Temperature: temp,
			})
		}
		return fc
	}

	tests := []struct {
		name     string
		outdoor  *float64
		forecast Forecast
		want     Season
	}{
		{
			name:     "cold outdoor, cold forecast",
			outdoor:  f(5.0),
			forecast: forecast(4.0, 3.0, 2.0),
			want:     SeasonHeating,
		},
		{
			name:     "hot outdoor, hot forecast",
			outdoor:  f(28.0),
			forecast: forecast(29.0, 30.0, 27.0),
			want:     SeasonCooling,
		},
		{
			name:     "mean inside the tolerance band",
			outdoor:  f(18.0),
			forecast: forecast(18.5, 17.5),
			want:     SeasonNeutral,
		},
		{
			name:    "no data at all",
			outdoor: nil,
			want:    SeasonNeutral,
		},
		{
			name:    "outdoor only",
			outdoor: f(2.0),
			want:    SeasonHeating,
		},
		{
			name:     "forecast only",
			outdoor:  nil,
			forecast: forecast(30.0, 31.0),
			want:     SeasonCooling,
		},
		{
			name:    "exactly on band edge is neutral",
			outdoor: f(19.0), // threshold + tolerance, not strictly above
			want:    SeasonNeutral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := GlobalState{OutdoorTemp: tt.outdoor, Forecast: tt.forecast}
			if got := ClassifySeason(cfg, gs, now); got != tt.want {
				t.Errorf("ClassifySeason() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifySeason_HorizonFiltersSamples(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()

	// Cold samples inside the 12h horizon, a heat wave beyond it. The
	// far samples must not drag the mean up.
	gs := GlobalState{
		OutdoorTemp: f(8.0),
		Forecast: Forecast{
			{Time: now.Add(2 * time.Hour), Temperature: 7.0},
			{Time: now.Add(6 * time.Hour), Temperature: 6.0},
			{Time: now.Add(48 * time.Hour), Temperature: 35.0},
			{Time: now.Add(72 * time.Hour), Temperature: 36.0},
		},
	}

	if got := ClassifySeason(cfg, gs, now); got != SeasonHeating {
		t.Errorf("ClassifySeason() = %v, want heating", got)
	}
}

func TestClassifySeason_PastSamplesIgnored(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig()

	gs := GlobalState{
		Forecast: Forecast{
			{Time: now.Add(-2 * time.Hour), Temperature: 30.0},
			{Time: now.Add(3 * time.Hour), Temperature: 5.0},
		},
	}

	if got := ClassifySeason(cfg, gs, now); got != SeasonHeating {
		t.Errorf("ClassifySeason() = %v, want heating from future sample only", got)
	}
}

func TestForecast_MeanTemperatureUntil_Empty(t *testing.T) {
	now := time.Now()
	if _, ok := Forecast(nil).MeanTemperatureUntil(now, 12*time.Hour); ok {
		t.Error("empty forecast must report no mean")
	}
}
