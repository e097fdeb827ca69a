package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopRadar/domain"

	"gorm.io/gorm"
)

type ABTestRepository struct {
	DB *gorm.DB
}

func NewABTestRepository(db *gorm.DB) *ABTestRepository {
	return &ABTestRepository{
		DB: db,
	}
}

func (r *ABTestRepository) Create(ctx context.Context, test *domain.ABTest) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(test).Error; err != nil {
		return fmt.Errorf("failed to create ab test: %w", err)
	}

	return nil
}

func (r *ABTestRepository) FindByID(ctx context.Context, id uint64) (domain.ABTest, error) {
	if err := ctx.Err(); err != nil {
		return domain.ABTest{}, fmt.Errorf("context error: %w", err)
	}

	var test domain.ABTest

	err := r.DB.WithContext(ctx).First(&test, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ABTest{}, errors.New("ab test not found")
		}
		return domain.ABTest{}, fmt.Errorf("failed to find ab test: %w", err)
	}

	return test, nil
}

// FindByOwner lists an owner's tests by joining through products; tests do
// not carry an owner column themselves.
func (r *ABTestRepository) FindByOwner(ctx context.Context, ownerID uint64) ([]domain.ABTest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var tests []domain.ABTest
	err := r.DB.WithContext(ctx).
		Joins("JOIN products ON products.id = ab_tests.product_id").
		Where("products.owner_id = ?", ownerID).
		Order("ab_tests.id DESC").
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ab tests: %w", err)
	}

	return tests, nil
}

func (r *ABTestRepository) FindActiveByProduct(ctx context.Context, productID uint64) (*domain.ABTest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var test domain.ABTest
	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("id DESC").
		First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active ab test: %w", err)
	}

	return &test, nil
}

func (r *ABTestRepository) Update(ctx context.Context, test *domain.ABTest) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.ABTest{}).
		Where("id = ?", test.ID).
		Updates(map[string]interface{}{
			"is_active": test.IsActive,
			"end_date":  test.EndDate,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ab test: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("ab test not found")
	}

	return nil
}

func (r *ABTestRepository) CreateTestEvent(ctx context.Context, event *domain.ABTestEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create ab test event: %w", err)
	}

	return nil
}

// FindTestEvents is scoped through products so one owner can never read
// another owner's experiment data.
func (r *ABTestRepository) FindTestEvents(ctx context.Context, ownerID, testID uint64) ([]domain.ABTestEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.ABTestEvent
	err := r.DB.WithContext(ctx).
		Table("ab_test_events").
		Select("ab_test_events.*").
		Joins("JOIN ab_tests ON ab_tests.id = ab_test_events.test_id").
		Joins("JOIN products ON products.id = ab_tests.product_id").
		Where("products.owner_id = ? AND ab_test_events.test_id = ?", ownerID, testID).
		Order("ab_test_events.id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ab test events: %w", err)
	}

	return events, nil
}
