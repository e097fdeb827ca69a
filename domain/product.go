package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     owner_id    BIGINT NOT NULL,
//     external_id TEXT NOT NULL,
//     name        TEXT,
//     price       NUMERIC,
//     page_url    TEXT,
//     stock       INTEGER,
//     category    TEXT,
//     discount    NUMERIC,
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (owner_id, external_id)
// );

// Product mirrors one product page on the owner's storefront. ExternalID is
// the product id assigned by the storefront itself; the tracker reports it
// with every event so the row is upserted on ingestion.
type Product struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID    uint64    `gorm:"column:owner_id;uniqueIndex:idx_products_owner_external" json:"owner_id"`
	ExternalID string    `gorm:"column:external_id;type:text;uniqueIndex:idx_products_owner_external" json:"external_id"`
	Name       string    `gorm:"column:name;type:text" json:"name"`
	Price      float64   `gorm:"column:price;type:numeric" json:"price"`
	PageURL    string    `gorm:"column:page_url;type:text" json:"page_url"`
	Stock      int       `gorm:"column:stock;default:0" json:"stock"`
	Category   string    `gorm:"column:category;type:text" json:"category"`
	Discount   float64   `gorm:"column:discount;type:numeric;default:0" json:"discount"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
