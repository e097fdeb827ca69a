package tracking

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"shopRadar/domain"
	"shopRadar/pkg/logger"
	"shopRadar/pkg/metrics"
)

// ProductRepository contract interface
type ProductRepository interface {
	UpsertFromTracker(ctx context.Context, product *domain.Product) error
	FindByExternalID(ctx context.Context, ownerID uint64, externalID string) (domain.Product, error)
}

// CustomerRepository contract interface
type CustomerRepository interface {
	GetOrCreate(ctx context.Context, ownerID uint64, identifier string) (domain.Customer, error)
	TouchLastSeen(ctx context.Context, customerID uint64, at time.Time) error
}

// EventRepository contract interface
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
}

// ABTestRepository contract interface
type ABTestRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.ABTest, error)
	FindActiveByProduct(ctx context.Context, productID uint64) (*domain.ABTest, error)
	CreateTestEvent(ctx context.Context, event *domain.ABTestEvent) error
}

// ProductPayload is the product block the tracker snippet reports with
// every event. Optional numeric fields stay nil when the snippet could not
// read them; a missing price is stored as 0.
type ProductPayload struct {
	ExternalID string
	Name       string
	Price      *float64
	URL        string
	Category   string
	Stock      *int
	Discount   *float64
}

type TrackPayload struct {
	EventType     string
	Product       ProductPayload
	CustomerID    string
	ABTestID      *uint64
	ABTestVariant string
	OccurredAt    time.Time
}

type trackingService struct {
	productRepo  ProductRepository
	customerRepo CustomerRepository
	eventRepo    EventRepository
	abTestRepo   ABTestRepository
}

func NewTrackingService(
	productRepo ProductRepository,
	customerRepo CustomerRepository,
	eventRepo EventRepository,
	abTestRepo ABTestRepository,
) *trackingService {
	return &trackingService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		abTestRepo:   abTestRepo,
	}
}

// Track normalizes one tracker call into Product/Customer/Event rows. The
// event log is append-only; the product row is upserted with whatever the
// snippet saw on the page.
func (s *trackingService) Track(ctx context.Context, site domain.Site, payload TrackPayload) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !domain.ValidEventType(payload.EventType) {
		return nil, errors.New("invalid event type")
	}
	if payload.Product.ExternalID == "" {
		return nil, errors.New("product id is required")
	}
	if payload.CustomerID == "" {
		return nil, errors.New("customer identifier is required")
	}

	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	product := domain.Product{
		OwnerID:    site.OwnerID,
		ExternalID: payload.Product.ExternalID,
		Name:       payload.Product.Name,
		PageURL:    payload.Product.URL,
		Category:   payload.Product.Category,
	}
	if payload.Product.Price != nil {
		product.Price = *payload.Product.Price
	}
	if payload.Product.Stock != nil {
		product.Stock = *payload.Product.Stock
	}
	if payload.Product.Discount != nil {
		product.Discount = *payload.Product.Discount
	}

	if err := s.productRepo.UpsertFromTracker(ctx, &product); err != nil {
		logger.Error("failed to upsert tracked product", "external_id", payload.Product.ExternalID, "error", err)
		return nil, fmt.Errorf("failed to upsert product: %w", err)
	}

	customer, err := s.customerRepo.GetOrCreate(ctx, site.OwnerID, payload.CustomerID)
	if err != nil {
		logger.Error("failed to resolve customer", "error", err)
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	if err := s.customerRepo.TouchLastSeen(ctx, customer.ID, occurredAt); err != nil {
		logger.Warn("failed to bump customer last_seen", "customer_id", customer.ID, "error", err)
	}

	productID := product.ID
	customerID := customer.ID
	event := domain.Event{
		OwnerID:    site.OwnerID,
		ProductID:  &productID,
		CustomerID: &customerID,
		EventType:  payload.EventType,
		OccurredAt: occurredAt,
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		logger.Error("failed to store event", "error", err)
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	metrics.TrackedEventsTotal.WithLabelValues(event.EventType).Inc()

	s.recordTestEvent(ctx, payload, customer)

	return &event, nil
}

// recordTestEvent stores the A/B exposure/conversion tied to this tracker
// call, when the snippet tagged one. An unknown or inactive test is logged
// and skipped; it never fails the tracked event.
func (s *trackingService) recordTestEvent(ctx context.Context, payload TrackPayload, customer domain.Customer) {
	if payload.ABTestID == nil || payload.ABTestVariant == "" {
		return
	}
	if payload.ABTestVariant != domain.VariantControl && payload.ABTestVariant != domain.VariantVariant {
		logger.Warn("unknown ab test variant, skipping", "variant", payload.ABTestVariant)
		return
	}

	var testEventType string
	switch payload.EventType {
	case domain.EventTypeView:
		testEventType = domain.TestEventView
	case domain.EventTypePurchase:
		testEventType = domain.TestEventConversion
	default:
		return
	}

	test, err := s.abTestRepo.FindByID(ctx, *payload.ABTestID)
	if err != nil || !test.IsActive {
		logger.Warn("ab test not found or inactive, skipping test event", "test_id", *payload.ABTestID)
		return
	}

	testEvent := domain.ABTestEvent{
		TestID:       test.ID,
		CustomerID:   customer.ID,
		VariantShown: payload.ABTestVariant,
		EventType:    testEventType,
		CreatedAt:    time.Now(),
	}
	if err := s.abTestRepo.CreateTestEvent(ctx, &testEvent); err != nil {
		logger.Warn("failed to store ab test event", "test_id", test.ID, "error", err)
	}
}

// VariantDecision tells the tracker snippet which version of a product to
// render. TestID is nil when no test applies or the customer is in the
// control group, so the page renders unchanged.
type VariantDecision struct {
	TestID   *uint64 `json:"ab_test_id"`
	Variant  string  `json:"ab_test_variant,omitempty"`
	Variable string  `json:"variable,omitempty"`
	Value    string  `json:"value,omitempty"`
}

// PickVariant resolves the active test for a product and assigns the
// customer to an arm.
func (s *trackingService) PickVariant(ctx context.Context, site domain.Site, productExternalID, customerIdentifier string) (VariantDecision, error) {
	if err := ctx.Err(); err != nil {
		return VariantDecision{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByExternalID(ctx, site.OwnerID, productExternalID)
	if err != nil {
		return VariantDecision{}, err
	}

	test, err := s.abTestRepo.FindActiveByProduct(ctx, product.ID)
	if err != nil {
		return VariantDecision{}, fmt.Errorf("failed to look up active test: %w", err)
	}
	if test == nil {
		return VariantDecision{}, nil
	}

	if AssignVariant(customerIdentifier) != domain.VariantVariant {
		return VariantDecision{}, nil
	}

	testID := test.ID
	return VariantDecision{
		TestID:   &testID,
		Variant:  domain.VariantVariant,
		Variable: test.Variable,
		Value:    test.VariantValue,
	}, nil
}

// AssignVariant deterministically maps a customer identifier to an arm.
// Hashing keeps assignment sticky across visits without storing anything.
func AssignVariant(identifier string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	if h.Sum32()%2 == 0 {
		return domain.VariantVariant
	}
	return domain.VariantControl
}
