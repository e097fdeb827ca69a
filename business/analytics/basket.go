package analytics

import (
	"sort"
	"strings"

	"shopRadar/domain"
)

// MarketBasketOptions holds the mining thresholds.
type MarketBasketOptions struct {
	// MinPurchases is the minimum number of PURCHASE events required before
	// mining is attempted at all.
	MinPurchases int
	// MinSupport is the minimum fraction of baskets an itemset must appear
	// in to count as frequent.
	MinSupport float64
	// MinLift filters rules; lift <= MinLift means no positive association.
	MinLift float64
	// TopN caps the number of returned rules.
	TopN int
}

func DefaultMarketBasketOptions() MarketBasketOptions {
	return MarketBasketOptions{
		MinPurchases: 20,
		MinSupport:   0.01,
		MinLift:      1.0,
		TopN:         5,
	}
}

// AssociationRule is one mined co-purchase rule. Antecedents and
// Consequents are comma-joined product names for direct display.
type AssociationRule struct {
	Antecedents string  `json:"antecedents"`
	Consequents string  `json:"consequents"`
	Support     float64 `json:"support"`
	Confidence  float64 `json:"confidence"`
	Lift        float64 `json:"lift"`
}

const itemsetSep = "\x1f"

// BuildMarketBasket mines association rules from the owner's full purchase
// history. A basket is the set of distinct product names one customer bought
// on one calendar day; the event stream carries no checkout/transaction id,
// so customer+day is the grouping unit (a documented approximation).
//
// Returns (nil, reason) when there is not enough data or nothing passes the
// thresholds.
func BuildMarketBasket(purchases []domain.EventRow, opts MarketBasketOptions) ([]AssociationRule, string) {
	if len(purchases) < opts.MinPurchases {
		return nil, "not enough purchase history for basket analysis"
	}

	baskets := groupBaskets(purchases)
	if len(baskets) == 0 {
		return nil, "not enough purchase history for basket analysis"
	}

	support := mineFrequentItemsets(baskets, opts.MinSupport)

	rules := deriveRules(support, opts.MinLift)
	if len(rules) == 0 {
		return nil, "no meaningful product associations found"
	}

	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		return a.Antecedents < b.Antecedents
	})

	if len(rules) > opts.TopN {
		rules = rules[:opts.TopN]
	}

	return rules, ""
}

// groupBaskets collapses purchase rows into per-(customer, day) sets of
// distinct product names.
func groupBaskets(purchases []domain.EventRow) []map[string]struct{} {
	grouped := make(map[string]map[string]struct{})
	for _, row := range purchases {
		if row.ProductName == "" {
			continue
		}
		key := row.CustomerKey + itemsetSep + row.OccurredAt.Format("2006-01-02")
		basket, ok := grouped[key]
		if !ok {
			basket = make(map[string]struct{})
			grouped[key] = basket
		}
		basket[row.ProductName] = struct{}{}
	}

	baskets := make([]map[string]struct{}, 0, len(grouped))
	for _, b := range grouped {
		baskets = append(baskets, b)
	}
	return baskets
}

// mineFrequentItemsets runs a level-wise apriori pass and returns the
// support of every frequent itemset, keyed by its sorted, joined items.
func mineFrequentItemsets(baskets []map[string]struct{}, minSupport float64) map[string]float64 {
	total := float64(len(baskets))
	support := make(map[string]float64)

	// level 1
	itemCounts := make(map[string]int)
	for _, basket := range baskets {
		for item := range basket {
			itemCounts[item]++
		}
	}

	var level [][]string
	for item, count := range itemCounts {
		s := float64(count) / total
		if s >= minSupport {
			support[item] = s
			level = append(level, []string{item})
		}
	}

	for len(level) > 1 {
		sort.Slice(level, func(i, j int) bool {
			return itemsetKey(level[i]) < itemsetKey(level[j])
		})

		candidates := generateCandidates(level, support)
		if len(candidates) == 0 {
			break
		}

		var next [][]string
		for _, candidate := range candidates {
			count := 0
			for _, basket := range baskets {
				if containsAll(basket, candidate) {
					count++
				}
			}
			s := float64(count) / total
			if s >= minSupport {
				support[itemsetKey(candidate)] = s
				next = append(next, candidate)
			}
		}
		level = next
	}

	return support
}

// generateCandidates joins frequent k-itemsets sharing their first k-1
// items and prunes candidates with an infrequent subset.
func generateCandidates(level [][]string, support map[string]float64) [][]string {
	var candidates [][]string
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			k := len(a)
			if !equalPrefix(a, b, k-1) {
				continue
			}
			candidate := make([]string, k+1)
			copy(candidate, a)
			candidate[k] = b[k-1]
			sort.Strings(candidate)
			if allSubsetsFrequent(candidate, support) {
				candidates = append(candidates, candidate)
			}
		}
	}
	return candidates
}

func equalPrefix(a, b []string, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(candidate []string, support map[string]float64) bool {
	for skip := range candidate {
		subset := make([]string, 0, len(candidate)-1)
		for i, item := range candidate {
			if i != skip {
				subset = append(subset, item)
			}
		}
		if _, ok := support[itemsetKey(subset)]; !ok {
			return false
		}
	}
	return true
}

func containsAll(basket map[string]struct{}, items []string) bool {
	for _, item := range items {
		if _, ok := basket[item]; !ok {
			return false
		}
	}
	return true
}

// deriveRules splits every frequent itemset of size >= 2 into all
// antecedent/consequent partitions and keeps those above the lift floor.
// Every subset of a frequent itemset is itself frequent, so both sides'
// supports are always present in the map.
func deriveRules(support map[string]float64, minLift float64) []AssociationRule {
	var rules []AssociationRule
	for key, itemsetSupport := range support {
		items := strings.Split(key, itemsetSep)
		if len(items) < 2 {
			continue
		}

		// every non-empty proper subset as antecedent
		for mask := 1; mask < (1<<len(items))-1; mask++ {
			var antecedent, consequent []string
			for i, item := range items {
				if mask&(1<<i) != 0 {
					antecedent = append(antecedent, item)
				} else {
					consequent = append(consequent, item)
				}
			}

			antSupport := support[itemsetKey(antecedent)]
			conSupport := support[itemsetKey(consequent)]
			if antSupport == 0 || conSupport == 0 {
				continue
			}

			confidence := itemsetSupport / antSupport
			lift := confidence / conSupport
			if lift <= minLift {
				continue
			}

			rules = append(rules, AssociationRule{
				Antecedents: strings.Join(antecedent, ", "),
				Consequents: strings.Join(consequent, ", "),
				Support:     itemsetSupport,
				Confidence:  confidence,
				Lift:        lift,
			})
		}
	}
	return rules
}

func itemsetKey(items []string) string {
	return strings.Join(items, itemsetSep)
}
