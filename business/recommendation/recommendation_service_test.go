package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopRadar/domain"
)

type fakeEventRepo struct {
	productCounts map[uint64]map[string]int64
	ownerCounts   map[string]int64
}

func (f *fakeEventRepo) CountProductEvents(_ context.Context, productID uint64, eventType string, _ time.Time) (int64, error) {
	return f.productCounts[productID][eventType], nil
}

func (f *fakeEventRepo) CountOwnerEvents(_ context.Context, _ uint64, eventType string, _ time.Time) (int64, error) {
	return f.ownerCounts[eventType], nil
}

type fakeProductRepo struct {
	products map[uint64]domain.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return p, nil
}

func (f *fakeProductRepo) FindByOwner(_ context.Context, ownerID uint64) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeRecoRepo mirrors the reconcile protocol in memory so the tests can
// observe the resulting row set.
type fakeRecoRepo struct {
	rows   []domain.Recommendation
	nextID uint64
}

func (f *fakeRecoRepo) subjectRows(ownerID uint64, productID *uint64) []*domain.Recommendation {
	var out []*domain.Recommendation
	for i := range f.rows {
		r := &f.rows[i]
		if r.OwnerID != ownerID {
			continue
		}
		if (r.ProductID == nil) != (productID == nil) {
			continue
		}
		if productID != nil && *r.ProductID != *productID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeRecoRepo) ReconcileActive(_ context.Context, ownerID uint64, productID *uint64, match *RuleMatch, _ map[string]interface{}) (bool, error) {
	changed := false
	subject := f.subjectRows(ownerID, productID)

	if match == nil {
		for _, r := range subject {
			if r.IsActive && r.Reason != domain.ReasonAIGenerated {
				r.IsActive = false
				changed = true
			}
		}
		return changed, nil
	}

	var winner *domain.Recommendation
	for _, r := range subject {
		if r.Reason == match.Reason {
			winner = r
		}
	}
	if winner == nil {
		f.nextID++
		f.rows = append(f.rows, domain.Recommendation{
			ID:              f.nextID,
			OwnerID:         ownerID,
			ProductID:       productID,
			Reason:          match.Reason,
			Text:            match.Text,
			IsActive:        true,
			ConfidenceScore: match.Confidence,
		})
		changed = true
	} else if !winner.IsActive || winner.Text != match.Text || winner.ConfidenceScore != match.Confidence {
		winner.IsActive = true
		winner.Text = match.Text
		winner.ConfidenceScore = match.Confidence
		changed = true
	}

	for _, r := range f.subjectRows(ownerID, productID) {
		if r.IsActive && r.Reason != match.Reason && r.Reason != domain.ReasonAIGenerated {
			r.IsActive = false
			changed = true
		}
	}

	return changed, nil
}

func (f *fakeRecoRepo) UpsertAISuggestion(_ context.Context, ownerID uint64, productID *uint64, text string, confidence float64) error {
	for _, r := range f.subjectRows(ownerID, productID) {
		if r.Reason == domain.ReasonAIGenerated {
			r.Text = text
			r.ConfidenceScore = confidence
			r.IsActive = true
			return nil
		}
	}
	f.nextID++
	f.rows = append(f.rows, domain.Recommendation{
		ID:              f.nextID,
		OwnerID:         ownerID,
		ProductID:       productID,
		Reason:          domain.ReasonAIGenerated,
		Text:            text,
		IsActive:        true,
		ConfidenceScore: confidence,
	})
	return nil
}

func (f *fakeRecoRepo) FindActiveByOwner(_ context.Context, ownerID uint64) ([]domain.Recommendation, error) {
	var out []domain.Recommendation
	for _, r := range f.rows {
		if r.OwnerID == ownerID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecoRepo) activeReasons(ownerID uint64, productID *uint64) []string {
	var out []string
	for _, r := range f.subjectRows(ownerID, productID) {
		if r.IsActive {
			out = append(out, r.Reason)
		}
	}
	return out
}

type fakeOwnerRepo struct{}

func (fakeOwnerRepo) FindByID(_ context.Context, id uint64) (domain.Owner, error) {
	return domain.Owner{ID: id, FullName: "Shop Owner", Email: "owner@example.com"}, nil
}

type fakeNotifRepo struct {
	sent []string
}

func (f *fakeNotifRepo) SendEmail(_, _, _ string, message string) error {
	f.sent = append(f.sent, message)
	return nil
}

type fakeAdvisor struct {
	resp domain.AIAdvisorResponse
	err  error
}

func (f *fakeAdvisor) Suggest(_ context.Context, _ domain.AIAdvisorRequest) (domain.AIAdvisorResponse, error) {
	return f.resp, f.err
}

func oldProduct(id, ownerID uint64, name string, stock int) domain.Product {
	return domain.Product{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Stock:     stock,
		CreatedAt: time.Now().AddDate(0, 0, -60),
	}
}

func newTestService(events *fakeEventRepo, products *fakeProductRepo, reco *fakeRecoRepo, notif *fakeNotifRepo, advisor *fakeAdvisor) *recommendationService {
	var ai AIAdvisor
	if advisor != nil {
		ai = advisor
	}
	var nr NotificationRepository
	if notif != nil {
		nr = notif
	}
	return NewRecommendationService(DefaultConfig(), events, products, reco, fakeOwnerRepo{}, ai, nr)
}

func TestEvaluateSitePassIsIdempotent(t *testing.T) {
	events := &fakeEventRepo{
		productCounts: map[uint64]map[string]int64{
			10: {domain.EventTypeView: 80, domain.EventTypeAddToCart: 0},
		},
		ownerCounts: map[string]int64{domain.EventTypeView: 500, domain.EventTypePurchase: 2},
	}
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		10: oldProduct(10, 1, "desk lamp", 50),
	}}
	reco := &fakeRecoRepo{}
	notif := &fakeNotifRepo{}
	svc := newTestService(events, products, reco, notif, nil)

	first, err := svc.EvaluateSite(context.Background(), 1)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.RuleMatches != 1 {
		t.Fatalf("first RuleMatches = %d, want 1", first.RuleMatches)
	}
	if first.SiteMatch == nil || first.SiteMatch.Reason != domain.ReasonHighViewLowAdd {
		t.Fatalf("first SiteMatch = %+v, want site HIGH_VIEW_LOW_ADD", first.SiteMatch)
	}
	if len(notif.sent) != 1 {
		t.Fatalf("notifications after first pass = %d, want 1", len(notif.sent))
	}
	rowsAfterFirst := len(reco.rows)

	second, err := svc.EvaluateSite(context.Background(), 1)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.RuleMatches != 1 {
		t.Errorf("second RuleMatches = %d, want 1", second.RuleMatches)
	}
	if len(reco.rows) != rowsAfterFirst {
		t.Errorf("row count grew from %d to %d on an unchanged rerun", rowsAfterFirst, len(reco.rows))
	}
	// nothing newly activated, so no second digest
	if len(notif.sent) != 1 {
		t.Errorf("notifications after second pass = %d, want 1", len(notif.sent))
	}
}

func TestEvaluateSiteSwitchesWinningReason(t *testing.T) {
	events := &fakeEventRepo{
		productCounts: map[uint64]map[string]int64{
			10: {domain.EventTypeView: 80, domain.EventTypeAddToCart: 0},
		},
		ownerCounts: map[string]int64{domain.EventTypeView: 500, domain.EventTypePurchase: 20},
	}
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		10: oldProduct(10, 1, "desk lamp", 50),
	}}
	reco := &fakeRecoRepo{}
	svc := newTestService(events, products, reco, nil, nil)

	if _, err := svc.EvaluateSite(context.Background(), 1); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	productID := uint64(10)
	if got := reco.activeReasons(1, &productID); len(got) != 1 || got[0] != domain.ReasonHighViewLowAdd {
		t.Fatalf("active after first pass = %v, want [HIGH_VIEW_LOW_ADD]", got)
	}

	// traffic collapses; the same product now trips LOW_VIEW instead
	events.productCounts[10] = map[string]int64{domain.EventTypeView: 3}

	if _, err := svc.EvaluateSite(context.Background(), 1); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if got := reco.activeReasons(1, &productID); len(got) != 1 || got[0] != domain.ReasonLowView {
		t.Fatalf("active after second pass = %v, want [LOW_VIEW]", got)
	}

	// the losing row is deactivated, never deleted
	subject := reco.subjectRows(1, &productID)
	if len(subject) != 2 {
		t.Fatalf("subject rows = %d, want 2 (history retained)", len(subject))
	}
}

func TestEvaluateSiteNoMatchDeactivates(t *testing.T) {
	events := &fakeEventRepo{
		productCounts: map[uint64]map[string]int64{
			10: {domain.EventTypeView: 80, domain.EventTypeAddToCart: 0},
		},
		ownerCounts: map[string]int64{domain.EventTypeView: 500, domain.EventTypePurchase: 20},
	}
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		10: oldProduct(10, 1, "desk lamp", 50),
	}}
	reco := &fakeRecoRepo{}
	svc := newTestService(events, products, reco, nil, nil)

	if _, err := svc.EvaluateSite(context.Background(), 1); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// healthy metrics: no rule applies anymore
	events.productCounts[10] = map[string]int64{
		domain.EventTypeView:      20,
		domain.EventTypeAddToCart: 1,
	}

	if _, err := svc.EvaluateSite(context.Background(), 1); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	productID := uint64(10)
	if got := reco.activeReasons(1, &productID); len(got) != 0 {
		t.Fatalf("active after second pass = %v, want none", got)
	}
	if len(reco.subjectRows(1, &productID)) == 0 {
		t.Fatal("history rows must survive deactivation")
	}
}

func TestEvaluateSiteAIFailureIsSwallowed(t *testing.T) {
	events := &fakeEventRepo{
		productCounts: map[uint64]map[string]int64{},
		ownerCounts:   map[string]int64{domain.EventTypeView: 500, domain.EventTypePurchase: 20},
	}
	products := &fakeProductRepo{products: map[uint64]domain.Product{}}
	reco := &fakeRecoRepo{}
	advisor := &fakeAdvisor{err: errors.New("advisor unreachable")}
	svc := newTestService(events, products, reco, nil, advisor)

	summary, err := svc.EvaluateSite(context.Background(), 1)
	if err != nil {
		t.Fatalf("pass must not fail on advisor error: %v", err)
	}
	if summary.AISuggestions != 0 {
		t.Errorf("AISuggestions = %d, want 0", summary.AISuggestions)
	}
}

func TestEvaluateSiteAISuggestionsCoexistWithRules(t *testing.T) {
	events := &fakeEventRepo{
		productCounts: map[uint64]map[string]int64{
			10: {domain.EventTypeView: 80, domain.EventTypeAddToCart: 0},
		},
		ownerCounts: map[string]int64{domain.EventTypeView: 500, domain.EventTypePurchase: 20},
	}
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		10: oldProduct(10, 1, "desk lamp", 50),
	}}
	reco := &fakeRecoRepo{}
	unknownProduct := uint64(999)
	knownProduct := uint64(10)
	advisor := &fakeAdvisor{resp: domain.AIAdvisorResponse{
		Recommendations: []domain.AIAdvisorSuggestion{
			{Text: "Consider bundling slow movers with bestsellers.", Confidence: 0.5},
			{ProductID: &knownProduct, Text: "Rename this product to match search terms.", Confidence: 0.4},
			{ProductID: &unknownProduct, Text: "bogus", Confidence: 0.9},
			{Text: "   ", Confidence: 0.2},
		},
	}}
	svc := newTestService(events, products, reco, nil, advisor)

	summary, err := svc.EvaluateSite(context.Background(), 1)
	if err != nil {
		t.Fatalf("pass: %v", err)
	}
	if summary.AISuggestions != 2 {
		t.Fatalf("AISuggestions = %d, want 2", summary.AISuggestions)
	}

	// the AI row coexists with the product's active rule row
	productID := uint64(10)
	got := reco.activeReasons(1, &productID)
	if len(got) != 2 {
		t.Fatalf("active reasons for product = %v, want rule + AI", got)
	}
}

func TestEvaluateProductRejectsForeignProduct(t *testing.T) {
	events := &fakeEventRepo{productCounts: map[uint64]map[string]int64{}, ownerCounts: map[string]int64{}}
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		10: oldProduct(10, 2, "someone else's lamp", 50),
	}}
	reco := &fakeRecoRepo{}
	svc := newTestService(events, products, reco, nil, nil)

	if _, err := svc.EvaluateProduct(context.Background(), 1, 10); err == nil {
		t.Fatal("expected an error for a product owned by another owner")
	}
	if len(reco.rows) != 0 {
		t.Errorf("rows = %d, want 0", len(reco.rows))
	}
}
