package domain

import (
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// TimeFormat is the canonical timestamp layout used across the schema.
// It matches STRFTIME('%Y-%m-%dT%H:%M:%fZ','now') so stored values compare
// lexicographically in chronological order.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// GoodCategory, Brand and PetCategory are taxonomy tables: small reference
// data referenced by catalog rows via NOT NULL foreign keys.
type GoodCategory struct {
	ID          int64  `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	DisplayName string `db:"display_name" json:"displayName"`
}

type Brand struct {
	ID          int64  `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	DisplayName string `db:"display_name" json:"displayName"`
}

type PetCategory struct {
	ID          int64  `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	DisplayName string `db:"display_name" json:"displayName"`
}

// Catalog is a sellable product definition. It always references exactly one
// good category, brand and pet category.
type Catalog struct {
	ID                  int64   `db:"id" json:"id"`
	GoodCategoryID      int64   `db:"good_category_id" json:"goodCategoryId"`
	BrandID             int64   `db:"brand_id" json:"brandId"`
	PetCategoryID       int64   `db:"pet_category_id" json:"petCategoryId"`
	DisplayName         string  `db:"display_name" json:"displayName"`
	Description         string  `db:"description" json:"description"`
	Rating              float64 `db:"rating" json:"rating"`
	ManufacturerCountry string  `db:"manufacturer_country" json:"manufacturerCountry"`
	CreatedAt           string  `db:"created_at" json:"createdAt"`
	UpdatedAt           string  `db:"updated_at" json:"updatedAt"`
}

// CatalogItem is a concrete sellable variant of a catalog entry.
// PublicID is the only identifier exposed outside the system; the sequential
// id never leaves it.
type CatalogItem struct {
	ID        int64               `db:"id" json:"-"`
	PublicID  string              `db:"public_id" json:"publicId"`
	CatalogID int64               `db:"catalog_id" json:"catalogId"`
	PhotoUrls types.JSONText      `db:"photo_urls" json:"photoUrls"`
	WeightKg  decimal.NullDecimal `db:"weight_kg" json:"weightKg"`
	CreatedAt string              `db:"created_at" json:"createdAt"`
	UpdatedAt string              `db:"updated_at" json:"updatedAt"`
}

// Storage holds current stock and price for a catalog item, one row per item.
type Storage struct {
	ID            int64           `db:"id" json:"id"`
	CatalogItemID int64           `db:"catalog_item_id" json:"catalogItemId"`
	Cost          decimal.Decimal `db:"cost" json:"cost"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	CreatedAt     string          `db:"created_at" json:"createdAt"`
	UpdatedAt     string          `db:"updated_at" json:"updatedAt"`
}

// Availability buckets storage quantity for the public catalog API.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int64  `json:"qty"`
}
