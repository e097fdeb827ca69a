package postgres

import (
	"context"
	"fmt"
	"time"

	"shopRadar/domain"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		DB: db,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

const eventRowSelect = `events.customer_id,
	customers.identifier AS customer_key,
	events.product_id,
	products.name AS product_name,
	products.price,
	events.event_type,
	events.occurred_at`

// FindRowsInRange returns the joined event projection for one owner in
// [start, end). Events with no resolvable product or customer are excluded;
// the analyzers cannot use them.
func (r *EventRepository) FindRowsInRange(ctx context.Context, ownerID uint64, start, end time.Time) ([]domain.EventRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.EventRow
	err := r.DB.WithContext(ctx).
		Table("events").
		Select(eventRowSelect).
		Joins("JOIN customers ON customers.id = events.customer_id").
		Joins("JOIN products ON products.id = events.product_id").
		Where("events.owner_id = ? AND events.occurred_at >= ? AND events.occurred_at < ?", ownerID, start, end).
		Order("events.occurred_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find event rows: %w", err)
	}

	return rows, nil
}

func (r *EventRepository) FindProductRowsInRange(ctx context.Context, ownerID, productID uint64, start, end time.Time) ([]domain.EventRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.EventRow
	err := r.DB.WithContext(ctx).
		Table("events").
		Select(eventRowSelect).
		Joins("JOIN customers ON customers.id = events.customer_id").
		Joins("JOIN products ON products.id = events.product_id").
		Where("events.owner_id = ? AND events.product_id = ? AND events.occurred_at >= ? AND events.occurred_at < ?", ownerID, productID, start, end).
		Order("events.occurred_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find product event rows: %w", err)
	}

	return rows, nil
}

// FindPurchaseRows returns every purchase an owner has ever recorded; the
// basket analysis needs the full history to find co-purchase patterns.
func (r *EventRepository) FindPurchaseRows(ctx context.Context, ownerID uint64) ([]domain.EventRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.EventRow
	err := r.DB.WithContext(ctx).
		Table("events").
		Select(eventRowSelect).
		Joins("JOIN customers ON customers.id = events.customer_id").
		Joins("JOIN products ON products.id = events.product_id").
		Where("events.owner_id = ? AND events.event_type = ?", ownerID, domain.EventTypePurchase).
		Order("events.occurred_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase rows: %w", err)
	}

	return rows, nil
}

func (r *EventRepository) FindDailySales(ctx context.Context, ownerID, productID uint64, since, until time.Time) ([]domain.DailySales, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var sales []domain.DailySales
	err := r.DB.WithContext(ctx).
		Table("events").
		Select("DATE_TRUNC('day', occurred_at) AS day, COUNT(*) AS count").
		Where("owner_id = ? AND product_id = ? AND event_type = ? AND occurred_at >= ? AND occurred_at < ?",
			ownerID, productID, domain.EventTypePurchase, since, until).
		Group("DATE_TRUNC('day', occurred_at)").
		Order("day ASC").
		Scan(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find daily sales: %w", err)
	}

	return sales, nil
}

func (r *EventRepository) FindCustomerCohorts(ctx context.Context, ownerID uint64) ([]domain.CustomerCohort, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var cohorts []domain.CustomerCohort
	err := r.DB.WithContext(ctx).
		Table("customers").
		Select("id AS customer_id, first_seen").
		Where("owner_id = ?", ownerID).
		Scan(&cohorts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find customer cohorts: %w", err)
	}

	return cohorts, nil
}

// FindActivityMonths returns the distinct (customer, month) pairs an owner's
// event log contains, used to fill the retention matrix.
func (r *EventRepository) FindActivityMonths(ctx context.Context, ownerID uint64) ([]domain.CustomerMonth, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var months []domain.CustomerMonth
	err := r.DB.WithContext(ctx).
		Table("events").
		Select("DISTINCT customer_id, DATE_TRUNC('month', occurred_at) AS month").
		Where("owner_id = ? AND customer_id IS NOT NULL", ownerID).
		Scan(&months).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find activity months: %w", err)
	}

	return months, nil
}

func (r *EventRepository) CountProductEvents(ctx context.Context, productID uint64, eventType string, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Event{}).
		Where("product_id = ? AND event_type = ? AND occurred_at >= ?", productID, eventType, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count product events: %w", err)
	}

	return count, nil
}

func (r *EventRepository) CountOwnerEvents(ctx context.Context, ownerID uint64, eventType string, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Event{}).
		Where("owner_id = ? AND event_type = ? AND occurred_at >= ?", ownerID, eventType, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count owner events: %w", err)
	}

	return count, nil
}
