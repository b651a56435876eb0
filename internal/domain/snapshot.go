package domain

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// PositionSnapshot is the immutable point-in-time copy embedded into
// order_position.data. It is assembled from freshly read rows at order time
// and never re-derived from the live catalog afterwards, so order history
// survives later price changes, renames and deletes.
type PositionSnapshot struct {
	Storage     StorageSnapshot     `json:"storage"`
	Catalog     CatalogSnapshot     `json:"catalog"`
	CatalogItem CatalogItemSnapshot `json:"catalogItem"`
}

type StorageSnapshot struct {
	ID        int64           `json:"id"`
	Cost      decimal.Decimal `json:"cost"`
	Quantity  int64           `json:"quantity"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

type TaxonSnapshot struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CatalogSnapshot struct {
	ID                  int64         `json:"id"`
	DisplayName         string        `json:"displayName"`
	Description         string        `json:"description"`
	Rating              float64       `json:"rating"`
	ManufacturerCountry string        `json:"manufacturerCountry"`
	Brand               TaxonSnapshot `json:"brand"`
	Pet                 TaxonSnapshot `json:"pet"`
	Good                TaxonSnapshot `json:"good"`
	CreatedAt           string        `json:"createdAt"`
	UpdatedAt           string        `json:"updatedAt"`
}

type CatalogItemSnapshot struct {
	ID        int64               `json:"id"`
	PublicID  string              `json:"publicId"`
	PhotoUrls types.JSONText      `json:"photoUrls"`
	WeightKg  decimal.NullDecimal `json:"weightKg"`
	CreatedAt string              `json:"createdAt"`
	UpdatedAt string              `json:"updatedAt"`
}

// NewPositionSnapshot freezes the given rows into a snapshot value.
// Callers must pass rows read in the same transaction as the order insert.
func NewPositionSnapshot(st Storage, cat Catalog, item CatalogItem, brand Brand, pet PetCategory, good GoodCategory) PositionSnapshot {
	return PositionSnapshot{
		Storage: StorageSnapshot{
			ID:        st.ID,
			Cost:      st.Cost,
			Quantity:  st.Quantity,
			CreatedAt: st.CreatedAt,
			UpdatedAt: st.UpdatedAt,
		},
		Catalog: CatalogSnapshot{
			ID:                  cat.ID,
			DisplayName:         cat.DisplayName,
			Description:         cat.Description,
			Rating:              cat.Rating,
			ManufacturerCountry: cat.ManufacturerCountry,
			Brand:               TaxonSnapshot{Code: brand.Code, Name: brand.DisplayName},
			Pet:                 TaxonSnapshot{Code: pet.Code, Name: pet.DisplayName},
			Good:                TaxonSnapshot{Code: good.Code, Name: good.DisplayName},
			CreatedAt:           cat.CreatedAt,
			UpdatedAt:           cat.UpdatedAt,
		},
		CatalogItem: CatalogItemSnapshot{
			ID:        item.ID,
			PublicID:  item.PublicID,
			PhotoUrls: item.PhotoUrls,
			WeightKg:  item.WeightKg,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		},
	}
}

// Marshal renders the snapshot as the JSON blob stored in order_position.data.
func (s PositionSnapshot) Marshal() (json.RawMessage, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
