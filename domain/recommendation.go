package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ReasonPopularItem     = "POPULAR_ITEM"
	ReasonHighViewLowAdd  = "HIGH_VIEW_LOW_ADD"
	ReasonLowView         = "LOW_VIEW"
	ReasonLowStock        = "LOW_STOCK"
	ReasonHighDiscount    = "HIGH_DISCOUNT"
	ReasonAIGenerated     = "AI_GENERATED"
)

// Recommendation is one suggestion shown on the dashboard. ProductID nil
// means the suggestion applies to the whole site. For every subject at most
// one non-AI row is active at a time; the engine enforces this during its
// reconcile pass rather than through a uniqueness constraint, because the
// winning reason for a subject can change between passes while the old rows
// are kept (inactive) as history. Rows are never hard-deleted.
type Recommendation struct {
	ID              uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID         uint64            `gorm:"column:owner_id;index" json:"owner_id"`
	ProductID       *uint64           `gorm:"column:product_id;index" json:"product_id"`
	Reason          string            `gorm:"column:reason;type:text" json:"reason"`
	Text            string            `gorm:"column:text;type:text" json:"text"`
	IsActive        bool              `gorm:"column:is_active;default:true" json:"is_active"`
	ConfidenceScore float64           `gorm:"column:confidence_score;default:0" json:"confidence_score"`
	Details         datatypes.JSONMap `gorm:"column:details" json:"details"`
	CreatedAt       time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
