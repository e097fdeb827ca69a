package analytics

import (
	"testing"

	"shopRadar/domain"
)

func testEvent(variant, eventType string) domain.ABTestEvent {
	return domain.ABTestEvent{TestID: 1, VariantShown: variant, EventType: eventType}
}

func TestBuildTestResultVariantWins(t *testing.T) {
	var events []domain.ABTestEvent
	for i := 0; i < 100; i++ {
		events = append(events, testEvent(domain.VariantControl, domain.TestEventView))
	}
	for i := 0; i < 5; i++ {
		events = append(events, testEvent(domain.VariantControl, domain.TestEventConversion))
	}
	for i := 0; i < 100; i++ {
		events = append(events, testEvent(domain.VariantVariant, domain.TestEventView))
	}
	for i := 0; i < 9; i++ {
		events = append(events, testEvent(domain.VariantVariant, domain.TestEventConversion))
	}

	got := BuildTestResult(events)

	if got.Control.Views != 100 || got.Control.Conversions != 5 || got.Control.Rate != 5 {
		t.Errorf("control = %+v, want 100/5/5", got.Control)
	}
	if got.Variant.Views != 100 || got.Variant.Conversions != 9 || got.Variant.Rate != 9 {
		t.Errorf("variant = %+v, want 100/9/9", got.Variant)
	}
	if got.Winner != WinnerVariant {
		t.Errorf("winner = %s, want %s", got.Winner, WinnerVariant)
	}
}

func TestBuildTestResultTieIsUndetermined(t *testing.T) {
	events := []domain.ABTestEvent{
		testEvent(domain.VariantControl, domain.TestEventView),
		testEvent(domain.VariantControl, domain.TestEventConversion),
		testEvent(domain.VariantVariant, domain.TestEventView),
		testEvent(domain.VariantVariant, domain.TestEventConversion),
	}

	got := BuildTestResult(events)
	if got.Winner != WinnerUndetermined {
		t.Errorf("winner = %s, want %s", got.Winner, WinnerUndetermined)
	}
}

func TestBuildTestResultNoEvents(t *testing.T) {
	got := BuildTestResult(nil)

	if got.Control.Rate != 0 || got.Variant.Rate != 0 {
		t.Error("rates with no events must be 0")
	}
	if got.Winner != WinnerUndetermined {
		t.Errorf("winner = %s, want %s", got.Winner, WinnerUndetermined)
	}
}

func TestBuildTestResultIgnoresUnknownVariant(t *testing.T) {
	events := []domain.ABTestEvent{
		testEvent("SOMETHING_ELSE", domain.TestEventView),
		testEvent(domain.VariantControl, domain.TestEventView),
	}

	got := BuildTestResult(events)
	if got.Control.Views != 1 {
		t.Errorf("control views = %d, want 1", got.Control.Views)
	}
	if got.Variant.Views != 0 {
		t.Errorf("variant views = %d, want 0", got.Variant.Views)
	}
}
