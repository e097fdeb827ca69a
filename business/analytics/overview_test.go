package analytics

import (
	"testing"
	"time"

	"shopRadar/domain"
)

func rowOn(day time.Time, eventType string) domain.EventRow {
	r := row(1, "c1", "mug", eventType, 10)
	r.OccurredAt = day.Add(9 * time.Hour)
	return r
}

func TestBuildDailyBreakdownExclusiveEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// the handler turns an inclusive end_date of 03-07 into this bound
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	breakdown := BuildDailyBreakdown(nil, start, end)

	if len(breakdown.Labels) != 7 {
		t.Fatalf("labels = %d, want 7", len(breakdown.Labels))
	}
	if breakdown.Labels[0] != "2026-03-01" {
		t.Errorf("first label = %s, want 2026-03-01", breakdown.Labels[0])
	}
	if breakdown.Labels[6] != "2026-03-07" {
		t.Errorf("last label = %s, want 2026-03-07", breakdown.Labels[6])
	}
}

func TestBuildDailyBreakdownMidDayEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// the default range ends at the current instant, so today is included
	end := time.Date(2026, 3, 3, 15, 30, 0, 0, time.UTC)

	breakdown := BuildDailyBreakdown(nil, start, end)

	if len(breakdown.Labels) != 3 {
		t.Fatalf("labels = %d, want 3", len(breakdown.Labels))
	}
	if breakdown.Labels[2] != "2026-03-03" {
		t.Errorf("last label = %s, want 2026-03-03", breakdown.Labels[2])
	}
}

func TestBuildDailyBreakdownBucketsCounts(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	rows := []domain.EventRow{
		rowOn(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), domain.EventTypeView),
		rowOn(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), domain.EventTypeView),
		rowOn(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), domain.EventTypeAddToCart),
		rowOn(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), domain.EventTypePurchase),
		// outside the range, must be dropped
		rowOn(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), domain.EventTypeView),
	}

	breakdown := BuildDailyBreakdown(rows, start, end)

	if len(breakdown.Labels) != 3 {
		t.Fatalf("labels = %d, want 3", len(breakdown.Labels))
	}
	if breakdown.Views[0] != 2 || breakdown.Carts[1] != 1 || breakdown.Purchases[2] != 1 {
		t.Errorf("series = views %v carts %v purchases %v", breakdown.Views, breakdown.Carts, breakdown.Purchases)
	}
	for i := range breakdown.Views {
		total := breakdown.Views[i] + breakdown.Carts[i] + breakdown.Purchases[i]
		if i == 0 && total != 2 || i > 0 && total != 1 {
			t.Errorf("day %d total = %d", i, total)
		}
	}
}

func TestBuildOverviewTopProducts(t *testing.T) {
	mug := row(1, "c1", "mug", domain.EventTypePurchase, 10)
	lamp := row(2, "c2", "lamp", domain.EventTypePurchase, 30)
	lamp.ProductID = 2

	rows := []domain.EventRow{
		row(1, "c1", "mug", domain.EventTypeView, 10),
		row(2, "c2", "lamp", domain.EventTypeView, 30),
		mug, mug, lamp,
	}

	report := BuildOverview(rows, 5)

	if report.TotalViews != 2 || report.TotalPurchases != 3 {
		t.Fatalf("totals = %d views, %d purchases", report.TotalViews, report.TotalPurchases)
	}
	if len(report.TopProducts) != 2 {
		t.Fatalf("top products = %d, want 2", len(report.TopProducts))
	}
	if report.TopProducts[0].Name != "mug" || report.TopProducts[0].Purchases != 2 {
		t.Errorf("top product = %+v, want mug with 2 purchases", report.TopProducts[0])
	}
}
