package analytics

import (
	"fmt"
	"math"
	"testing"

	"shopRadar/domain"
)

func TestBuildMarketBasketInsufficientHistory(t *testing.T) {
	rows := []domain.EventRow{
		row(1, "c1", "bread", domain.EventTypePurchase, 3),
	}

	rules, reason := BuildMarketBasket(rows, DefaultMarketBasketOptions())
	if rules != nil {
		t.Fatalf("rules = %v, want nil", rules)
	}
	if reason == "" {
		t.Fatal("expected a reason for the missing result")
	}
}

func TestBuildMarketBasketFindsAssociation(t *testing.T) {
	var rows []domain.EventRow
	// ten customers each buy bread and butter together, five buy only jam
	for i := uint64(1); i <= 10; i++ {
		key := fmt.Sprintf("c%d", i)
		rows = append(rows, row(i, key, "bread", domain.EventTypePurchase, 3))
		rows = append(rows, row(i, key, "butter", domain.EventTypePurchase, 2))
	}
	for i := uint64(11); i <= 15; i++ {
		rows = append(rows, row(i, fmt.Sprintf("c%d", i), "jam", domain.EventTypePurchase, 4))
	}

	rules, reason := BuildMarketBasket(rows, DefaultMarketBasketOptions())
	if rules == nil {
		t.Fatalf("no rules, reason: %q", reason)
	}

	found := false
	for _, r := range rules {
		if r.Antecedents == "bread" && r.Consequents == "butter" {
			found = true
			if math.Abs(r.Confidence-1.0) > 1e-9 {
				t.Errorf("confidence = %v, want 1.0", r.Confidence)
			}
			if math.Abs(r.Lift-1.5) > 1e-9 {
				t.Errorf("lift = %v, want 1.5", r.Lift)
			}
			if math.Abs(r.Support-10.0/15.0) > 1e-9 {
				t.Errorf("support = %v, want %v", r.Support, 10.0/15.0)
			}
		}
		// every reported rule must pass the quality floor
		if r.Lift <= 1.0 {
			t.Errorf("rule %s -> %s has lift %v, must exceed 1", r.Antecedents, r.Consequents, r.Lift)
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("rule %s -> %s has confidence %v outside [0,1]", r.Antecedents, r.Consequents, r.Confidence)
		}
	}
	if !found {
		t.Fatalf("bread -> butter rule missing from %v", rules)
	}
}

func TestBuildMarketBasketNoAssociations(t *testing.T) {
	var rows []domain.EventRow
	// every customer buys a single distinct product; no itemset of size
	// two ever occurs
	for i := uint64(1); i <= 25; i++ {
		rows = append(rows, row(i, fmt.Sprintf("c%d", i), fmt.Sprintf("product-%d", i), domain.EventTypePurchase, 5))
	}

	rules, reason := BuildMarketBasket(rows, DefaultMarketBasketOptions())
	if rules != nil {
		t.Fatalf("rules = %v, want nil", rules)
	}
	if reason == "" {
		t.Fatal("expected a reason for the missing result")
	}
}

func TestBuildMarketBasketCapsRuleCount(t *testing.T) {
	var rows []domain.EventRow
	// one big clique of five products bought together produces many rules
	for i := uint64(1); i <= 8; i++ {
		key := fmt.Sprintf("c%d", i)
		for _, p := range []string{"a", "b", "c", "d", "e"} {
			rows = append(rows, row(i, key, p, domain.EventTypePurchase, 1))
		}
	}
	for i := uint64(9); i <= 12; i++ {
		rows = append(rows, row(i, fmt.Sprintf("c%d", i), "z", domain.EventTypePurchase, 1))
	}

	opts := DefaultMarketBasketOptions()
	rules, reason := BuildMarketBasket(rows, opts)
	if rules == nil {
		t.Fatalf("no rules, reason: %q", reason)
	}
	if len(rules) > opts.TopN {
		t.Errorf("len(rules) = %d, want at most %d", len(rules), opts.TopN)
	}
	for i := 1; i < len(rules); i++ {
		if rules[i].Confidence > rules[i-1].Confidence {
			t.Errorf("rules not sorted by confidence at %d", i)
		}
	}
}
