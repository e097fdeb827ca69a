package domain

import "time"

const (
	EventTypeView      = "VIEW"
	EventTypeAddToCart = "ADD_TO_CART"
	EventTypePurchase  = "PURCHASE"
)

func ValidEventType(t string) bool {
	switch t {
	case EventTypeView, EventTypeAddToCart, EventTypePurchase:
		return true
	}
	return false
}

// Event is one row of the append-only interaction log. Rows are never
// updated; owner_id is denormalized onto the event so every analytics query
// can scope by owner without joining through products.
type Event struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID    uint64    `gorm:"column:owner_id;index" json:"owner_id"`
	ProductID  *uint64   `gorm:"column:product_id;index" json:"product_id"`
	CustomerID *uint64   `gorm:"column:customer_id;index" json:"customer_id"`
	EventType  string    `gorm:"column:event_type;type:text" json:"event_type"`
	OccurredAt time.Time `gorm:"column:occurred_at;index" json:"occurred_at"`
}

func (Event) TableName() string {
	return "events"
}

// EventRow is the flattened projection the analyzers consume: one event
// joined with the customer identifier and the product name/price it refers
// to. Produced by EventRepository.FindRowsInRange and friends.
type EventRow struct {
	CustomerID  uint64    `gorm:"column:customer_id"`
	CustomerKey string    `gorm:"column:customer_key"`
	ProductID   uint64    `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name"`
	Price       float64   `gorm:"column:price"`
	EventType   string    `gorm:"column:event_type"`
	OccurredAt  time.Time `gorm:"column:occurred_at"`
}

// DailySales is one day of aggregated purchase counts for a product.
type DailySales struct {
	Day   time.Time `gorm:"column:day"`
	Count int       `gorm:"column:count"`
}

// CustomerCohort pairs a customer with its first-seen timestamp.
type CustomerCohort struct {
	CustomerID uint64    `gorm:"column:customer_id"`
	FirstSeen  time.Time `gorm:"column:first_seen"`
}

// CustomerMonth is one distinct (customer, activity month) pair.
type CustomerMonth struct {
	CustomerID uint64    `gorm:"column:customer_id"`
	Month      time.Time `gorm:"column:month"`
}
