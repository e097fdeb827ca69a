package domain

import "time"

// Owner is a site owner account using the dashboard.
type Owner struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName   string    `gorm:"column:full_name;type:text" json:"full_name"`
	Email      string    `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	Password   string    `gorm:"column:password;type:text" json:"-"`
	IsVerified bool      `gorm:"column:is_verified;default:false" json:"is_verified"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Owner) TableName() string {
	return "owners"
}
