package domain

import "time"

// Site is a connected storefront reporting events through the tracker
// snippet. The API key authenticates tracking calls.
type Site struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   uint64    `gorm:"column:owner_id;index" json:"owner_id"`
	SiteURL   string    `gorm:"column:site_url;type:text" json:"site_url"`
	APIKey    string    `gorm:"column:api_key;type:text;uniqueIndex" json:"api_key"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Site) TableName() string {
	return "sites"
}
