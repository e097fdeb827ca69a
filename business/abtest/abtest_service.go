package abtest

import (
	"context"
	"errors"
	"time"

	"shopRadar/domain"
	"shopRadar/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ABTestRepository contract interface
type ABTestRepository interface {
	Create(ctx context.Context, test *domain.ABTest) error
	FindByID(ctx context.Context, id uint64) (domain.ABTest, error)
	FindByOwner(ctx context.Context, ownerID uint64) ([]domain.ABTest, error)
	FindActiveByProduct(ctx context.Context, productID uint64) (*domain.ABTest, error)
	Update(ctx context.Context, test *domain.ABTest) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

type abTestService struct {
	abTestRepo  ABTestRepository
	productRepo ProductRepository
	validate    *validator.Validate
}

func NewABTestService(abTestRepo ABTestRepository, productRepo ProductRepository, validate *validator.Validate) *abTestService {
	return &abTestService{
		abTestRepo:  abTestRepo,
		productRepo: productRepo,
		validate:    validate,
	}
}

var validVariables = map[string]bool{
	domain.TestVariablePrice: true,
	domain.TestVariableName:  true,
}

// Create starts a test on one product. A product carries at most one
// running test, so an existing active test must be stopped first.
func (s *abTestService) Create(ctx context.Context, ownerID uint64, test *domain.ABTest) (domain.ABTest, error) {
	if err := s.validate.Var(test.Name, "required"); err != nil {
		return domain.ABTest{}, errors.New("test name is required")
	}

	if !validVariables[test.Variable] {
		return domain.ABTest{}, errors.New("variable must be PRICE or NAME")
	}

	if test.VariantValue == "" {
		return domain.ABTest{}, errors.New("variant value is required")
	}

	product, err := s.productRepo.FindByID(ctx, test.ProductID)
	if err != nil {
		logger.Error("Product not found for test", err)
		return domain.ABTest{}, errors.New("product not found")
	}
	if product.OwnerID != ownerID {
		return domain.ABTest{}, errors.New("product does not belong to owner")
	}

	running, err := s.abTestRepo.FindActiveByProduct(ctx, test.ProductID)
	if err != nil {
		logger.Error("Failed to check running tests", err)
		return domain.ABTest{}, err
	}
	if running != nil {
		return domain.ABTest{}, errors.New("product already has an active test")
	}

	newTest := domain.ABTest{
		ProductID:    test.ProductID,
		Name:         test.Name,
		Variable:     test.Variable,
		ControlValue: test.ControlValue,
		VariantValue: test.VariantValue,
		IsActive:     true,
		StartDate:    time.Now(),
	}

	if err := s.abTestRepo.Create(ctx, &newTest); err != nil {
		logger.Error("Failed to create test", err)
		return domain.ABTest{}, err
	}

	return newTest, nil
}

func (s *abTestService) GetTestsByOwner(ctx context.Context, ownerID uint64) ([]domain.ABTest, error) {
	tests, err := s.abTestRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("Failed to get tests by owner", err)
		return nil, err
	}

	return tests, nil
}

// Stop ends a test. Recorded exposures and conversions are kept for the
// results report.
func (s *abTestService) Stop(ctx context.Context, ownerID, testID uint64) (domain.ABTest, error) {
	test, err := s.abTestRepo.FindByID(ctx, testID)
	if err != nil {
		return domain.ABTest{}, errors.New("test not found")
	}

	product, err := s.productRepo.FindByID(ctx, test.ProductID)
	if err != nil || product.OwnerID != ownerID {
		return domain.ABTest{}, errors.New("test not found")
	}

	if !test.IsActive {
		return test, nil
	}

	now := time.Now()
	test.IsActive = false
	test.EndDate = &now

	if err := s.abTestRepo.Update(ctx, &test); err != nil {
		logger.Error("Failed to stop test", err)
		return domain.ABTest{}, err
	}

	return test, nil
}
