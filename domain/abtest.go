package domain

import "time"

const (
	TestVariablePrice = "PRICE"
	TestVariableName  = "NAME"

	VariantControl = "CONTROL"
	VariantVariant = "VARIANT"

	TestEventView       = "VIEW"
	TestEventConversion = "CONVERSION"
)

// ABTest tests one variable (price or title) of exactly one product against
// a single alternative value.
type ABTest struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    uint64     `gorm:"column:product_id;index" json:"product_id"`
	Name         string     `gorm:"column:name;type:text" json:"name"`
	Variable     string     `gorm:"column:variable;type:text" json:"variable"`
	ControlValue string     `gorm:"column:control_value;type:text" json:"control_value"`
	VariantValue string     `gorm:"column:variant_value;type:text" json:"variant_value"`
	IsActive     bool       `gorm:"column:is_active;default:true" json:"is_active"`
	StartDate    time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date"`
}

func (ABTest) TableName() string {
	return "ab_tests"
}

// ABTestEvent tags one exposure or conversion with the arm the customer saw.
type ABTestEvent struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TestID       uint64    `gorm:"column:test_id;index" json:"test_id"`
	CustomerID   uint64    `gorm:"column:customer_id" json:"customer_id"`
	VariantShown string    `gorm:"column:variant_shown;type:text" json:"variant_shown"`
	EventType    string    `gorm:"column:event_type;type:text" json:"event_type"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ABTestEvent) TableName() string {
	return "ab_test_events"
}
