package analytics

import (
	"sort"

	"shopRadar/domain"
)

// SegmentOptions controls the behavioral segmentation cutoffs.
type SegmentOptions struct {
	// Cap is the maximum length of each ranked list.
	Cap int
	// WindowShopperMinViews is the exclusive VIEW-count threshold above
	// which a non-buying customer counts as a window shopper.
	WindowShopperMinViews int
}

func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		Cap:                   5,
		WindowShopperMinViews: 10,
	}
}

type HighValueCustomer struct {
	Identifier string  `json:"identifier"`
	TotalSpent float64 `json:"total_spent"`
}

type LoyalCustomer struct {
	Identifier    string `json:"identifier"`
	PurchaseCount int    `json:"purchase_count"`
}

type WindowShopper struct {
	Identifier string `json:"identifier"`
	ViewCount  int    `json:"view_count"`
}

type CustomerSegments struct {
	HighValue      []HighValueCustomer `json:"high_value"`
	Loyal          []LoyalCustomer     `json:"loyal"`
	WindowShoppers []WindowShopper     `json:"window_shoppers"`
}

// BuildSegments classifies customers from their aggregated event counts.
// Ties on the primary ranking key break by customer identifier ascending so
// repeated runs over the same data produce identical lists.
func BuildSegments(rows []domain.EventRow, opts SegmentOptions) CustomerSegments {
	type tally struct {
		spent     float64
		purchases int
		views     int
	}

	tallies := make(map[string]*tally)
	for _, row := range rows {
		t, ok := tallies[row.CustomerKey]
		if !ok {
			t = &tally{}
			tallies[row.CustomerKey] = t
		}
		switch row.EventType {
		case domain.EventTypePurchase:
			t.purchases++
			t.spent += row.Price
		case domain.EventTypeView:
			t.views++
		}
	}

	segments := CustomerSegments{
		HighValue:      []HighValueCustomer{},
		Loyal:          []LoyalCustomer{},
		WindowShoppers: []WindowShopper{},
	}

	for key, t := range tallies {
		if t.purchases > 0 {
			segments.HighValue = append(segments.HighValue, HighValueCustomer{Identifier: key, TotalSpent: t.spent})
			segments.Loyal = append(segments.Loyal, LoyalCustomer{Identifier: key, PurchaseCount: t.purchases})
		}
		if t.purchases == 0 && t.views > opts.WindowShopperMinViews {
			segments.WindowShoppers = append(segments.WindowShoppers, WindowShopper{Identifier: key, ViewCount: t.views})
		}
	}

	sort.Slice(segments.HighValue, func(i, j int) bool {
		a, b := segments.HighValue[i], segments.HighValue[j]
		if a.TotalSpent != b.TotalSpent {
			return a.TotalSpent > b.TotalSpent
		}
		return a.Identifier < b.Identifier
	})
	sort.Slice(segments.Loyal, func(i, j int) bool {
		a, b := segments.Loyal[i], segments.Loyal[j]
		if a.PurchaseCount != b.PurchaseCount {
			return a.PurchaseCount > b.PurchaseCount
		}
		return a.Identifier < b.Identifier
	})
	sort.Slice(segments.WindowShoppers, func(i, j int) bool {
		a, b := segments.WindowShoppers[i], segments.WindowShoppers[j]
		if a.ViewCount != b.ViewCount {
			return a.ViewCount > b.ViewCount
		}
		return a.Identifier < b.Identifier
	})

	if len(segments.HighValue) > opts.Cap {
		segments.HighValue = segments.HighValue[:opts.Cap]
	}
	if len(segments.Loyal) > opts.Cap {
		segments.Loyal = segments.Loyal[:opts.Cap]
	}
	if len(segments.WindowShoppers) > opts.Cap {
		segments.WindowShoppers = segments.WindowShoppers[:opts.Cap]
	}

	return segments
}
