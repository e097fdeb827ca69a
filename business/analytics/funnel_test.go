package analytics

import (
	"testing"
	"time"

	"shopRadar/domain"
)

func row(customerID uint64, customerKey, productName, eventType string, price float64) domain.EventRow {
	return domain.EventRow{
		CustomerID:  customerID,
		CustomerKey: customerKey,
		ProductID:   1,
		ProductName: productName,
		Price:       price,
		EventType:   eventType,
		OccurredAt:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildFunnelCountsDistinctCustomers(t *testing.T) {
	rows := []domain.EventRow{
		// customer 1 views the same product four times
		row(1, "c1", "mug", domain.EventTypeView, 10),
		row(1, "c1", "mug", domain.EventTypeView, 10),
		row(1, "c1", "mug", domain.EventTypeView, 10),
		row(1, "c1", "mug", domain.EventTypeView, 10),
		row(2, "c2", "mug", domain.EventTypeView, 10),
		row(3, "c3", "mug", domain.EventTypeView, 10),
		row(4, "c4", "mug", domain.EventTypeView, 10),

		row(1, "c1", "mug", domain.EventTypeAddToCart, 10),
		row(2, "c2", "mug", domain.EventTypeAddToCart, 10),

		row(1, "c1", "mug", domain.EventTypePurchase, 10),
	}

	got := BuildFunnel(rows)

	if got.Views != 4 {
		t.Errorf("Views = %d, want 4", got.Views)
	}
	if got.Carts != 2 {
		t.Errorf("Carts = %d, want 2", got.Carts)
	}
	if got.Purchases != 1 {
		t.Errorf("Purchases = %d, want 1", got.Purchases)
	}
	if got.ViewToCartRate != 50 {
		t.Errorf("ViewToCartRate = %v, want 50", got.ViewToCartRate)
	}
	if got.CartToPurchaseRate != 50 {
		t.Errorf("CartToPurchaseRate = %v, want 50", got.CartToPurchaseRate)
	}
	if got.OverallConversionRate != 25 {
		t.Errorf("OverallConversionRate = %v, want 25", got.OverallConversionRate)
	}
}

func TestBuildFunnelEmptyInput(t *testing.T) {
	got := BuildFunnel(nil)

	if got.Views != 0 || got.Carts != 0 || got.Purchases != 0 {
		t.Errorf("counts = %d/%d/%d, want all zero", got.Views, got.Carts, got.Purchases)
	}
	if got.ViewToCartRate != 0 || got.CartToPurchaseRate != 0 || got.OverallConversionRate != 0 {
		t.Error("rates must be 0 when there are no events")
	}
}

func TestBuildFunnelZeroDenominators(t *testing.T) {
	// purchases without any views or carts: rates stay 0 instead of
	// dividing by zero
	rows := []domain.EventRow{
		row(1, "c1", "mug", domain.EventTypePurchase, 10),
	}

	got := BuildFunnel(rows)

	if got.Purchases != 1 {
		t.Fatalf("Purchases = %d, want 1", got.Purchases)
	}
	if got.ViewToCartRate != 0 || got.CartToPurchaseRate != 0 || got.OverallConversionRate != 0 {
		t.Error("rates with zero denominators must be 0")
	}
}
