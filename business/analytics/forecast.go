package analytics

import (
	"math"
	"sort"
	"time"

	"shopRadar/domain"
)

// ForecastOptions holds the forecaster's knobs.
type ForecastOptions struct {
	// LookbackDays is how far back purchase history is considered.
	LookbackDays int
	// MinDataDays is the minimum number of distinct days with sales needed
	// to fit a trend at all.
	MinDataDays int
	// DefaultHorizonDays is used when the caller passes a horizon of 0.
	DefaultHorizonDays int
}

func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		LookbackDays:       90,
		MinDataDays:        10,
		DefaultHorizonDays: 30,
	}
}

// DailyPrediction is one forecast day. Date is an ISO calendar date.
type DailyPrediction struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type SalesForecast struct {
	Days []DailyPrediction `json:"days"`
}

// BuildForecast fits an ordinary least squares line to the observed daily
// purchase counts and projects it over the horizon, starting the day after
// the last observed day. Predictions are clamped at zero and rounded.
//
// Returns (nil, reason) when there are fewer than MinDataDays observations.
func BuildForecast(daily []domain.DailySales, horizonDays int, opts ForecastOptions) (*SalesForecast, string) {
	if horizonDays <= 0 {
		horizonDays = opts.DefaultHorizonDays
	}

	if len(daily) < opts.MinDataDays {
		return nil, "not enough sales history to forecast this product"
	}

	sorted := make([]domain.DailySales, len(daily))
	copy(sorted, daily)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})

	origin := truncateDay(sorted[0].Day)

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, d := range sorted {
		xs[i] = float64(dayIndex(origin, d.Day))
		ys[i] = float64(d.Count)
	}

	slope, intercept := fitLine(xs, ys)

	lastIndex := int(xs[len(xs)-1])
	forecast := &SalesForecast{Days: make([]DailyPrediction, 0, horizonDays)}
	for i := 1; i <= horizonDays; i++ {
		idx := lastIndex + i
		predicted := slope*float64(idx) + intercept
		if predicted < 0 {
			predicted = 0
		}
		forecast.Days = append(forecast.Days, DailyPrediction{
			Date:  origin.AddDate(0, 0, idx).Format("2006-01-02"),
			Count: int(math.Round(predicted)),
		})
	}

	return forecast, ""
}

// fitLine is ordinary least squares of y on x. A degenerate input (all x
// equal, e.g. a single observed day) yields slope 0 and intercept equal to
// the mean, keeping the fit numerically stable.
func fitLine(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var covXY, varX float64
	for i := range xs {
		dx := xs[i] - meanX
		covXY += dx * (ys[i] - meanY)
		varX += dx * dx
	}

	if varX == 0 {
		return 0, meanY
	}

	slope = covXY / varX
	intercept = meanY - slope*meanX
	return slope, intercept
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayIndex(origin, t time.Time) int {
	return int(truncateDay(t).Sub(origin).Hours() / 24)
}
