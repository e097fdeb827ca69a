package domain

import "time"

// Customer is one shopper seen on an owner's site. Identifier is whatever
// the storefront provides (its own customer id, or the remote IP as a
// fallback) and is opaque to us. FirstSeen never changes after creation;
// cohort membership depends on it.
type Customer struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID    uint64    `gorm:"column:owner_id;uniqueIndex:idx_customers_owner_identifier" json:"owner_id"`
	Identifier string    `gorm:"column:identifier;type:text;uniqueIndex:idx_customers_owner_identifier" json:"identifier"`
	FirstSeen  time.Time `gorm:"column:first_seen" json:"first_seen"`
	LastSeen   time.Time `gorm:"column:last_seen" json:"last_seen"`
}

func (Customer) TableName() string {
	return "customers"
}
