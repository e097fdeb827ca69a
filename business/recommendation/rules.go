package recommendation

import (
	"fmt"

	"shopRadar/domain"
)

// ProductMetrics is the evaluation-window snapshot one product is judged
// on. ConversionRate is carts/views as a percentage.
type ProductMetrics struct {
	ProductID      uint64  `json:"product_id"`
	Name           string  `json:"name"`
	Views          int     `json:"views"`
	Carts          int     `json:"carts"`
	Purchases      int     `json:"purchases"`
	ConversionRate float64 `json:"conversion_rate"`
	Stock          int     `json:"stock"`
	Discount       float64 `json:"discount"`
	AgeDays        int     `json:"age_days"`
}

// SiteMetrics aggregates the whole store for the site-wide rules.
// OverallConversion is purchases/views as a percentage.
type SiteMetrics struct {
	TotalViews        int     `json:"total_views"`
	TotalCarts        int     `json:"total_carts"`
	TotalPurchases    int     `json:"total_purchases"`
	OverallConversion float64 `json:"overall_conversion"`
	ProductCount      int     `json:"product_count"`
}

// RuleMatch is the single winning suggestion for a subject.
type RuleMatch struct {
	Reason     string
	Text       string
	Confidence float64
}

type productRule struct {
	reason string
	match  func(cfg Config, m ProductMetrics) bool
	build  func(cfg Config, m ProductMetrics) (string, float64)
}

// productRules is evaluated in order, first match wins. The rules are
// mutually exclusive by construction: a product gets at most one non-AI
// suggestion per pass.
var productRules = []productRule{
	{
		reason: domain.ReasonPopularItem,
		match: func(cfg Config, m ProductMetrics) bool {
			return m.Views > cfg.PopularMinViews && m.ConversionRate > cfg.PopularMinConversion
		},
		build: func(cfg Config, m ProductMetrics) (string, float64) {
			return fmt.Sprintf("%q is a strong performer: %d views with a %.1f%% add-to-cart rate. Feature it more prominently.",
				m.Name, m.Views, m.ConversionRate), 0.9
		},
	},
	{
		reason: domain.ReasonHighViewLowAdd,
		match: func(cfg Config, m ProductMetrics) bool {
			return m.Views > cfg.HighViewMinViews && m.ConversionRate < cfg.HighViewMaxConversion
		},
		build: func(cfg Config, m ProductMetrics) (string, float64) {
			return fmt.Sprintf("%q attracts traffic (%d views) but almost nobody adds it to the cart (%.1f%%). Review its price or product page.",
				m.Name, m.Views, m.ConversionRate), 0.85
		},
	},
	{
		reason: domain.ReasonLowView,
		match: func(cfg Config, m ProductMetrics) bool {
			return m.Views < cfg.LowViewMaxViews && m.AgeDays > cfg.LowViewMinAgeDays
		},
		build: func(cfg Config, m ProductMetrics) (string, float64) {
			return fmt.Sprintf("%q had only %d views in the last %d days. Improve its visibility with internal links or campaigns.",
				m.Name, m.Views, cfg.WindowDays), 0.75
		},
	},
	{
		reason: domain.ReasonLowStock,
		match: func(cfg Config, m ProductMetrics) bool {
			return m.Stock > 0 && m.Stock < cfg.LowStockMax
		},
		build: func(cfg Config, m ProductMetrics) (string, float64) {
			return fmt.Sprintf("Only %d units of %q left in stock. Restock before you start missing sales.",
				m.Stock, m.Name), 0.8
		},
	},
	{
		reason: domain.ReasonHighDiscount,
		match: func(cfg Config, m ProductMetrics) bool {
			return m.Discount > cfg.HighDiscountMin
		},
		build: func(cfg Config, m ProductMetrics) (string, float64) {
			return fmt.Sprintf("%q carries a %.0f%% discount. Double-check that the margin is intentional.",
				m.Name, m.Discount), 0.6
		},
	},
}

// EvaluateProductRules walks the ordered chain and returns the first match,
// or nil when no rule fires.
func EvaluateProductRules(cfg Config, m ProductMetrics) *RuleMatch {
	for _, rule := range productRules {
		if !rule.match(cfg, m) {
			continue
		}
		text, confidence := rule.build(cfg, m)
		return &RuleMatch{
			Reason:     rule.reason,
			Text:       text,
			Confidence: confidence,
		}
	}
	return nil
}

// EvaluateSiteRules runs the site-wide chain against aggregate metrics.
func EvaluateSiteRules(cfg Config, m SiteMetrics) *RuleMatch {
	if m.TotalViews > cfg.SiteHighViewMinViews && m.OverallConversion < cfg.SiteLowConversionMax {
		return &RuleMatch{
			Reason: domain.ReasonHighViewLowAdd,
			Text: fmt.Sprintf("Your store received %d views but converts only %.1f%% of them. Your checkout flow or pricing may need attention.",
				m.TotalViews, m.OverallConversion),
			Confidence: 0.7,
		}
	}

	if m.TotalViews < cfg.SiteLowViewMaxViews && m.ProductCount >= 1 {
		return &RuleMatch{
			Reason: domain.ReasonLowView,
			Text: fmt.Sprintf("Your store received only %d views in the last %d days. Consider driving more traffic to your products.",
				m.TotalViews, cfg.WindowDays),
			Confidence: 0.7,
		}
	}

	return nil
}
