package analytics

import (
	"shopRadar/domain"
)

const (
	WinnerControl      = "control"
	WinnerVariant      = "variant"
	WinnerUndetermined = "undetermined"
)

type ArmStats struct {
	Views       int     `json:"views"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// ABTestResult compares the two arms' raw conversion rates. No
// statistical-significance adjustment is applied; the winner is whichever
// arm has the strictly higher rate, and equal rates are undetermined.
type ABTestResult struct {
	Control ArmStats `json:"control"`
	Variant ArmStats `json:"variant"`
	Winner  string   `json:"winner"`
}

// BuildTestResult partitions a test's events by arm and computes per-arm
// conversion rates (conversions / views, as a percentage).
func BuildTestResult(events []domain.ABTestEvent) ABTestResult {
	var result ABTestResult

	for _, e := range events {
		var arm *ArmStats
		switch e.VariantShown {
		case domain.VariantControl:
			arm = &result.Control
		case domain.VariantVariant:
			arm = &result.Variant
		default:
			continue
		}
		switch e.EventType {
		case domain.TestEventView:
			arm.Views++
		case domain.TestEventConversion:
			arm.Conversions++
		}
	}

	result.Control.Rate = ratio(result.Control.Conversions, result.Control.Views)
	result.Variant.Rate = ratio(result.Variant.Conversions, result.Variant.Views)

	switch {
	case result.Control.Rate > result.Variant.Rate:
		result.Winner = WinnerControl
	case result.Variant.Rate > result.Control.Rate:
		result.Winner = WinnerVariant
	default:
		result.Winner = WinnerUndetermined
	}

	return result
}
