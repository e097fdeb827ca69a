package analytics

import (
	"shopRadar/domain"
)

// FunnelReport is the VIEW -> ADD_TO_CART -> PURCHASE progression for one
// owner over a date range. Counts are distinct customers, not raw events, so
// a shopper refreshing a product page ten times still counts once.
type FunnelReport struct {
	Views                 int     `json:"views"`
	Carts                 int     `json:"carts"`
	Purchases             int     `json:"purchases"`
	ViewToCartRate        float64 `json:"view_to_cart_rate"`
	CartToPurchaseRate    float64 `json:"cart_to_purchase_rate"`
	OverallConversionRate float64 `json:"overall_conversion_rate"`
}

// BuildFunnel computes the funnel from a slice of event rows already scoped
// to one owner and date range.
func BuildFunnel(rows []domain.EventRow) FunnelReport {
	distinct := map[string]map[uint64]struct{}{
		domain.EventTypeView:      {},
		domain.EventTypeAddToCart: {},
		domain.EventTypePurchase:  {},
	}

	for _, row := range rows {
		set, ok := distinct[row.EventType]
		if !ok {
			continue
		}
		set[row.CustomerID] = struct{}{}
	}

	report := FunnelReport{
		Views:     len(distinct[domain.EventTypeView]),
		Carts:     len(distinct[domain.EventTypeAddToCart]),
		Purchases: len(distinct[domain.EventTypePurchase]),
	}

	report.ViewToCartRate = ratio(report.Carts, report.Views)
	report.CartToPurchaseRate = ratio(report.Purchases, report.Carts)
	report.OverallConversionRate = ratio(report.Purchases, report.Views)

	return report
}

// ratio returns numerator/denominator as a percentage, 0 when the
// denominator is 0.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
