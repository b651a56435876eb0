package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"petstore/internal/domain"
)

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx so fetch helpers can be
// reused inside transactions.
type queryer interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// TaxonomyRepo manages the three reference tables: good_category, brand and
// pet_category. They share one shape, so the SQL is generated per table from
// a fixed whitelist.
type TaxonomyRepo struct{ db *sqlx.DB }

func NewTaxonomyRepo(db *sqlx.DB) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

const (
	tableGoodCategory = "good_category"
	tableBrand        = "brand"
	tablePetCategory  = "pet_category"
)

func insertTaxon(q queryer, table, code, displayName string) (int64, error) {
	res, err := q.Exec(`INSERT INTO `+table+`(code, display_name) VALUES(?, ?)`, code, displayName)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func getBrand(q queryer, id int64) (domain.Brand, error) {
	var b domain.Brand
	err := q.Get(&b, `SELECT id, code, display_name FROM brand WHERE id = ?`, id)
	return b, mapErr(err)
}

func getPetCategory(q queryer, id int64) (domain.PetCategory, error) {
	var p domain.PetCategory
	err := q.Get(&p, `SELECT id, code, display_name FROM pet_category WHERE id = ?`, id)
	return p, mapErr(err)
}

func getGoodCategory(q queryer, id int64) (domain.GoodCategory, error) {
	var g domain.GoodCategory
	err := q.Get(&g, `SELECT id, code, display_name FROM good_category WHERE id = ?`, id)
	return g, mapErr(err)
}

// CreateBrand persists a brand and re-reads it so the caller gets the
// engine-assigned id back, never the pre-insert value.
func (r *TaxonomyRepo) CreateBrand(code, displayName string) (domain.Brand, error) {
	id, err := insertTaxon(r.db, tableBrand, code, displayName)
	if err != nil {
		return domain.Brand{}, err
	}
	return getBrand(r.db, id)
}

func (r *TaxonomyRepo) CreatePetCategory(code, displayName string) (domain.PetCategory, error) {
	id, err := insertTaxon(r.db, tablePetCategory, code, displayName)
	if err != nil {
		return domain.PetCategory{}, err
	}
	return getPetCategory(r.db, id)
}

func (r *TaxonomyRepo) CreateGoodCategory(code, displayName string) (domain.GoodCategory, error) {
	id, err := insertTaxon(r.db, tableGoodCategory, code, displayName)
	if err != nil {
		return domain.GoodCategory{}, err
	}
	return getGoodCategory(r.db, id)
}

func (r *TaxonomyRepo) ListBrands() ([]domain.Brand, error) {
	var out []domain.Brand
	err := r.db.Select(&out, `SELECT id, code, display_name FROM brand ORDER BY id`)
	return out, mapErr(err)
}

func (r *TaxonomyRepo) ListPetCategories() ([]domain.PetCategory, error) {
	var out []domain.PetCategory
	err := r.db.Select(&out, `SELECT id, code, display_name FROM pet_category ORDER BY id`)
	return out, mapErr(err)
}

func (r *TaxonomyRepo) ListGoodCategories() ([]domain.GoodCategory, error) {
	var out []domain.GoodCategory
	err := r.db.Select(&out, `SELECT id, code, display_name FROM good_category ORDER BY id`)
	return out, mapErr(err)
}

// DeleteBrand removes a brand. While any catalog row still references it the
// engine rejects the delete and ErrReferentialIntegrity is returned.
func (r *TaxonomyRepo) DeleteBrand(id int64) error {
	_, err := r.db.Exec(`DELETE FROM brand WHERE id = ?`, id)
	return mapErr(err)
}

func (r *TaxonomyRepo) DeletePetCategory(id int64) error {
	_, err := r.db.Exec(`DELETE FROM pet_category WHERE id = ?`, id)
	return mapErr(err)
}

func (r *TaxonomyRepo) DeleteGoodCategory(id int64) error {
	_, err := r.db.Exec(`DELETE FROM good_category WHERE id = ?`, id)
	return mapErr(err)
}
