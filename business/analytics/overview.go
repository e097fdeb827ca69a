package analytics

import (
	"sort"
	"time"

	"shopRadar/domain"
)

// OverviewReport is the dashboard header: raw event totals (the funnel
// handles distinct-customer counting) plus the best sellers in range.
type OverviewReport struct {
	TotalViews        int                `json:"total_views"`
	TotalCarts        int                `json:"total_carts"`
	TotalPurchases    int                `json:"total_purchases"`
	OverallConversion float64            `json:"overall_conversion"`
	TopProducts       []ProductPurchases `json:"top_products"`
}

type ProductPurchases struct {
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name"`
	Purchases int    `json:"purchases"`
}

func BuildOverview(rows []domain.EventRow, topN int) OverviewReport {
	report := OverviewReport{TopProducts: []ProductPurchases{}}

	purchasesByProduct := make(map[uint64]*ProductPurchases)
	for _, row := range rows {
		switch row.EventType {
		case domain.EventTypeView:
			report.TotalViews++
		case domain.EventTypeAddToCart:
			report.TotalCarts++
		case domain.EventTypePurchase:
			report.TotalPurchases++
			p, ok := purchasesByProduct[row.ProductID]
			if !ok {
				p = &ProductPurchases{ProductID: row.ProductID, Name: row.ProductName}
				purchasesByProduct[row.ProductID] = p
			}
			p.Purchases++
		}
	}

	report.OverallConversion = ratio(report.TotalPurchases, report.TotalViews)

	for _, p := range purchasesByProduct {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if a.Purchases != b.Purchases {
			return a.Purchases > b.Purchases
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topN {
		report.TopProducts = report.TopProducts[:topN]
	}

	return report
}

// DailyBreakdown feeds the dashboard chart: one label per calendar day in
// the range, with parallel raw count series.
type DailyBreakdown struct {
	Labels    []string `json:"labels"`
	Views     []int    `json:"views"`
	Carts     []int    `json:"carts"`
	Purchases []int    `json:"purchases"`
}

// BuildDailyBreakdown treats end as an exclusive bound: a midnight end
// stops the labels at the previous day.
func BuildDailyBreakdown(rows []domain.EventRow, start, end time.Time) DailyBreakdown {
	startDay := truncateDay(start)
	lastDay := truncateDay(end)
	if end.Equal(lastDay) {
		lastDay = lastDay.AddDate(0, 0, -1)
	}

	days := dayIndex(startDay, lastDay) + 1
	if days < 1 {
		days = 1
	}

	breakdown := DailyBreakdown{
		Labels:    make([]string, days),
		Views:     make([]int, days),
		Carts:     make([]int, days),
		Purchases: make([]int, days),
	}
	for i := 0; i < days; i++ {
		breakdown.Labels[i] = startDay.AddDate(0, 0, i).Format("2006-01-02")
	}

	for _, row := range rows {
		i := dayIndex(startDay, row.OccurredAt)
		if i < 0 || i >= days {
			continue
		}
		switch row.EventType {
		case domain.EventTypeView:
			breakdown.Views[i]++
		case domain.EventTypeAddToCart:
			breakdown.Carts[i]++
		case domain.EventTypePurchase:
			breakdown.Purchases[i]++
		}
	}

	return breakdown
}

// ProductSummary is the per-product metric card: raw counts over the
// window plus conversion rates off views.
type ProductSummary struct {
	Views              int     `json:"views"`
	Carts              int     `json:"carts"`
	Purchases          int     `json:"purchases"`
	ViewToCartRate     float64 `json:"view_to_cart_rate"`
	ViewToPurchaseRate float64 `json:"view_to_purchase_rate"`
}

func BuildProductSummary(rows []domain.EventRow) ProductSummary {
	var summary ProductSummary
	for _, row := range rows {
		switch row.EventType {
		case domain.EventTypeView:
			summary.Views++
		case domain.EventTypeAddToCart:
			summary.Carts++
		case domain.EventTypePurchase:
			summary.Purchases++
		}
	}
	summary.ViewToCartRate = ratio(summary.Carts, summary.Views)
	summary.ViewToPurchaseRate = ratio(summary.Purchases, summary.Views)
	return summary
}
