package repos

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petstore/internal/domain"
)

// CatalogRepo manages catalog rows and their sellable catalog_item variants.
type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const catalogCols = `
  id, good_category_id, brand_id, pet_category_id,
  COALESCE(display_name,'') AS display_name,
  COALESCE(description,'') AS description,
  rating,
  COALESCE(manufacturer_country,'') AS manufacturer_country,
  created_at, updated_at`

const catalogItemCols = `
  id, public_id, catalog_id, photo_urls, weight_kg, created_at, updated_at`

type CreateCatalogParams struct {
	GoodCategoryID      int64
	BrandID             int64
	PetCategoryID       int64
	DisplayName         string
	Description         string
	Rating              float64
	ManufacturerCountry string
}

func getCatalog(q queryer, id int64) (domain.Catalog, error) {
	var c domain.Catalog
	err := q.Get(&c, `SELECT `+catalogCols+` FROM catalog WHERE id = ?`, id)
	return c, mapErr(err)
}

func getCatalogItem(q queryer, id int64) (domain.CatalogItem, error) {
	var it domain.CatalogItem
	err := q.Get(&it, `SELECT `+catalogItemCols+` FROM catalog_item WHERE id = ?`, id)
	return it, mapErr(err)
}

func getCatalogItemByPublicID(q queryer, publicID string) (domain.CatalogItem, error) {
	var it domain.CatalogItem
	err := q.Get(&it, `SELECT `+catalogItemCols+` FROM catalog_item WHERE public_id = ?`, publicID)
	return it, mapErr(err)
}

// Create persists a catalog row and returns the materialized record with
// engine defaults (id, rating fallback, timestamps) filled in. All three
// taxonomy references must exist or the insert fails.
func (r *CatalogRepo) Create(p CreateCatalogParams) (domain.Catalog, error) {
	res, err := r.db.Exec(`
	  INSERT INTO catalog
	    (good_category_id, brand_id, pet_category_id, display_name, description, rating, manufacturer_country)
	  VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.GoodCategoryID, p.BrandID, p.PetCategoryID, p.DisplayName, p.Description, p.Rating, p.ManufacturerCountry)
	if err != nil {
		return domain.Catalog{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Catalog{}, err
	}
	return getCatalog(r.db, id)
}

func (r *CatalogRepo) Get(id int64) (domain.Catalog, error) {
	return getCatalog(r.db, id)
}

// List returns catalog rows filtered by optional taxonomy ids, newest first.
func (r *CatalogRepo) List(goodCategoryID, brandID, petCategoryID int64, limit, offset int) ([]domain.Catalog, error) {
	where := `1=1`
	args := []any{}
	if goodCategoryID > 0 {
		where += ` AND good_category_id = ?`
		args = append(args, goodCategoryID)
	}
	if brandID > 0 {
		where += ` AND brand_id = ?`
		args = append(args, brandID)
	}
	if petCategoryID > 0 {
		where += ` AND pet_category_id = ?`
		args = append(args, petCategoryID)
	}
	args = append(args, limit, offset)

	var out []domain.Catalog
	err := r.db.Select(&out, `
	  SELECT `+catalogCols+`
	  FROM catalog
	  WHERE `+where+`
	  ORDER BY created_at DESC, id DESC
	  LIMIT ? OFFSET ?
	`, args...)
	return out, mapErr(err)
}

// UpdateDisplayName renames a catalog entry. updated_at is advanced by the
// schema trigger, never by this method.
func (r *CatalogRepo) UpdateDisplayName(id int64, displayName string) error {
	_, err := r.db.Exec(`UPDATE catalog SET display_name = ? WHERE id = ?`, displayName, id)
	return mapErr(err)
}

func (r *CatalogRepo) UpdateRating(id int64, rating float64) error {
	_, err := r.db.Exec(`UPDATE catalog SET rating = ? WHERE id = ?`, rating, id)
	return mapErr(err)
}

type CreateCatalogItemParams struct {
	CatalogID int64
	// PublicID may be left empty; a time-ordered UUID is generated then.
	PublicID  string
	PhotoUrls []string
	WeightKg  decimal.NullDecimal
}

// CreateItem persists a catalog item. public_id defaults to a server-side
// time-ordered UUID (v7) and is immutable afterwards.
func (r *CatalogRepo) CreateItem(p CreateCatalogItemParams) (domain.CatalogItem, error) {
	publicID := p.PublicID
	if publicID == "" {
		v7, err := uuid.NewV7()
		if err != nil {
			return domain.CatalogItem{}, err
		}
		publicID = v7.String()
	}

	if p.WeightKg.Valid {
		w, err := fixedPoint(p.WeightKg.Decimal, 9, 3)
		if err != nil {
			return domain.CatalogItem{}, err
		}
		p.WeightKg.Decimal = w
	}

	photos := p.PhotoUrls
	if photos == nil {
		photos = []string{}
	}
	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return domain.CatalogItem{}, err
	}

	res, err := r.db.Exec(`
	  INSERT INTO catalog_item (public_id, catalog_id, photo_urls, weight_kg)
	  VALUES (?, ?, ?, ?)
	`, publicID, p.CatalogID, string(photosJSON), p.WeightKg)
	if err != nil {
		return domain.CatalogItem{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.CatalogItem{}, err
	}
	return getCatalogItem(r.db, id)
}

func (r *CatalogRepo) GetItem(id int64) (domain.CatalogItem, error) {
	return getCatalogItem(r.db, id)
}

func (r *CatalogRepo) GetItemByPublicID(publicID string) (domain.CatalogItem, error) {
	return getCatalogItemByPublicID(r.db, publicID)
}

func (r *CatalogRepo) ListItems(catalogID int64) ([]domain.CatalogItem, error) {
	var out []domain.CatalogItem
	err := r.db.Select(&out, `
	  SELECT `+catalogItemCols+`
	  FROM catalog_item
	  WHERE catalog_id = ?
	  ORDER BY id
	`, catalogID)
	return out, mapErr(err)
}

func (r *CatalogRepo) UpdateItemWeight(id int64, weight decimal.NullDecimal) error {
	if weight.Valid {
		w, err := fixedPoint(weight.Decimal, 9, 3)
		if err != nil {
			return err
		}
		weight.Decimal = w
	}
	_, err := r.db.Exec(`UPDATE catalog_item SET weight_kg = ? WHERE id = ?`, weight, id)
	return mapErr(err)
}

func (r *CatalogRepo) UpdateItemPhotoUrls(id int64, photoUrls []string) error {
	if photoUrls == nil {
		photoUrls = []string{}
	}
	photosJSON, err := json.Marshal(photoUrls)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE catalog_item SET photo_urls = ? WHERE id = ?`, string(photosJSON), id)
	return mapErr(err)
}
