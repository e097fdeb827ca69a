package recommendation

import (
	"os"
	"strconv"
	"time"
)

// Config holds every rule threshold the engine evaluates against. The
// values are deliberately configuration, not in-rule literals: the exact
// cutoffs are tuning knobs, only their presence and the rule ordering are
// structural.
type Config struct {
	// evaluation window for view/cart/purchase counts
	WindowDays int

	// rule 1: POPULAR_ITEM
	PopularMinViews      int
	PopularMinConversion float64

	// rule 2: HIGH_VIEW_LOW_ADD
	HighViewMinViews      int
	HighViewMaxConversion float64

	// rule 3: LOW_VIEW
	LowViewMaxViews   int
	LowViewMinAgeDays int

	// rule 4: LOW_STOCK (matches 0 < stock < LowStockMax)
	LowStockMax int

	// rule 5: HIGH_DISCOUNT
	HighDiscountMin float64

	// site-wide rules
	SiteHighViewMinViews int
	SiteLowConversionMax float64
	SiteLowViewMaxViews  int

	// external AI advisor call budget
	AITimeout time.Duration
}

const (
	defaultWindowDays            = 30
	defaultPopularMinViews       = 50
	defaultPopularMinConversion  = 5.0
	defaultHighViewMinViews      = 30
	defaultHighViewMaxConversion = 1.0
	defaultLowViewMaxViews       = 10
	defaultLowViewMinAgeDays     = 7
	defaultLowStockMax           = 5
	defaultHighDiscountMin       = 20.0
	defaultSiteHighViewMinViews  = 100
	defaultSiteLowConversionMax  = 1.0
	defaultSiteLowViewMaxViews   = 50
	defaultAITimeout             = 10 * time.Second
)

func DefaultConfig() Config {
	return Config{
		WindowDays:            defaultWindowDays,
		PopularMinViews:       defaultPopularMinViews,
		PopularMinConversion:  defaultPopularMinConversion,
		HighViewMinViews:      defaultHighViewMinViews,
		HighViewMaxConversion: defaultHighViewMaxConversion,
		LowViewMaxViews:       defaultLowViewMaxViews,
		LowViewMinAgeDays:     defaultLowViewMinAgeDays,
		LowStockMax:           defaultLowStockMax,
		HighDiscountMin:       defaultHighDiscountMin,
		SiteHighViewMinViews:  defaultSiteHighViewMinViews,
		SiteLowConversionMax:  defaultSiteLowConversionMax,
		SiteLowViewMaxViews:   defaultSiteLowViewMaxViews,
		AITimeout:             defaultAITimeout,
	}
}

// ConfigFromEnv starts from the defaults and overrides individual
// thresholds from the environment where set.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	overrideInt(&cfg.WindowDays, "RECO_WINDOW_DAYS")
	overrideInt(&cfg.PopularMinViews, "RECO_POPULAR_MIN_VIEWS")
	overrideFloat(&cfg.PopularMinConversion, "RECO_POPULAR_MIN_CONVERSION")
	overrideInt(&cfg.HighViewMinViews, "RECO_HIGH_VIEW_MIN_VIEWS")
	overrideFloat(&cfg.HighViewMaxConversion, "RECO_HIGH_VIEW_MAX_CONVERSION")
	overrideInt(&cfg.LowViewMaxViews, "RECO_LOW_VIEW_MAX_VIEWS")
	overrideInt(&cfg.LowViewMinAgeDays, "RECO_LOW_VIEW_MIN_AGE_DAYS")
	overrideInt(&cfg.LowStockMax, "RECO_LOW_STOCK_MAX")
	overrideFloat(&cfg.HighDiscountMin, "RECO_HIGH_DISCOUNT_MIN")
	overrideInt(&cfg.SiteHighViewMinViews, "RECO_SITE_HIGH_VIEW_MIN_VIEWS")
	overrideFloat(&cfg.SiteLowConversionMax, "RECO_SITE_LOW_CONVERSION_MAX")
	overrideInt(&cfg.SiteLowViewMaxViews, "RECO_SITE_LOW_VIEW_MAX_VIEWS")

	return cfg
}

func overrideInt(target *int, key string) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			*target = v
		}
	}
}

func overrideFloat(target *float64, key string) {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*target = v
		}
	}
}
