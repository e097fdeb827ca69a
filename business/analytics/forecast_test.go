package analytics

import (
	"testing"
	"time"

	"shopRadar/domain"
)

func dailySeries(start time.Time, counts ...int) []domain.DailySales {
	out := make([]domain.DailySales, len(counts))
	for i, c := range counts {
		out[i] = domain.DailySales{Day: start.AddDate(0, 0, i), Count: c}
	}
	return out
}

func TestBuildForecastInsufficientHistory(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	daily := dailySeries(start, 2, 3, 1, 4, 2) // 5 days, below the minimum

	forecast, reason := BuildForecast(daily, 30, DefaultForecastOptions())
	if forecast != nil {
		t.Fatalf("forecast = %v, want nil", forecast)
	}
	if reason == "" {
		t.Fatal("expected a reason for the missing result")
	}
}

func TestBuildForecastFlatSeries(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	daily := dailySeries(start, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2)

	forecast, reason := BuildForecast(daily, 30, DefaultForecastOptions())
	if forecast == nil {
		t.Fatalf("no forecast, reason: %q", reason)
	}
	if len(forecast.Days) != 30 {
		t.Fatalf("len(Days) = %d, want 30", len(forecast.Days))
	}

	// projection starts the day after the last observed day
	if forecast.Days[0].Date != "2026-03-11" {
		t.Errorf("Days[0].Date = %s, want 2026-03-11", forecast.Days[0].Date)
	}
	for _, d := range forecast.Days {
		if d.Count != 2 {
			t.Errorf("prediction for %s = %d, want 2", d.Date, d.Count)
		}
	}
}

func TestBuildForecastClampsNegativePredictions(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// steep decline crosses zero within the horizon
	daily := dailySeries(start, 50, 45, 40, 35, 30, 25, 20, 15, 10, 5)

	forecast, reason := BuildForecast(daily, 30, DefaultForecastOptions())
	if forecast == nil {
		t.Fatalf("no forecast, reason: %q", reason)
	}
	for _, d := range forecast.Days {
		if d.Count < 0 {
			t.Errorf("negative prediction %d on %s", d.Count, d.Date)
		}
	}
	last := forecast.Days[len(forecast.Days)-1]
	if last.Count != 0 {
		t.Errorf("trailing prediction = %d, want 0 after decline", last.Count)
	}
}

func TestBuildForecastGapsInHistory(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	daily := dailySeries(start, 3, 3, 3, 3, 3, 3, 3, 3, 3)
	// a tenth day two weeks later; the fit uses real day indices, not
	// slice positions
	daily = append(daily, domain.DailySales{Day: start.AddDate(0, 0, 21), Count: 3})

	forecast, reason := BuildForecast(daily, 7, DefaultForecastOptions())
	if forecast == nil {
		t.Fatalf("no forecast, reason: %q", reason)
	}
	if forecast.Days[0].Date != "2026-03-23" {
		t.Errorf("Days[0].Date = %s, want 2026-03-23", forecast.Days[0].Date)
	}
	for _, d := range forecast.Days {
		if d.Count != 3 {
			t.Errorf("prediction for %s = %d, want 3", d.Date, d.Count)
		}
	}
}

func TestBuildForecastDefaultHorizon(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	daily := dailySeries(start, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)

	opts := DefaultForecastOptions()
	forecast, _ := BuildForecast(daily, 0, opts)
	if forecast == nil {
		t.Fatal("no forecast")
	}
	if len(forecast.Days) != opts.DefaultHorizonDays {
		t.Errorf("len(Days) = %d, want %d", len(forecast.Days), opts.DefaultHorizonDays)
	}
}
