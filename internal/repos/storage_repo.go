package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petstore/internal/domain"
)

// StorageRepo manages current stock and price per catalog item. The unique
// constraint on catalog_item_id keeps this a 1:1 "current state" table, not
// a history log.
type StorageRepo struct{ db *sqlx.DB }

func NewStorageRepo(db *sqlx.DB) *StorageRepo { return &StorageRepo{db: db} }

const storageCols = `id, catalog_item_id, cost, quantity, created_at, updated_at`

type CreateStorageParams struct {
	CatalogItemID int64
	Cost          decimal.Decimal
	Quantity      int64
}

func getStorage(q queryer, id int64) (domain.Storage, error) {
	var s domain.Storage
	err := q.Get(&s, `SELECT `+storageCols+` FROM storage WHERE id = ?`, id)
	return s, mapErr(err)
}

func getStorageByItem(q queryer, catalogItemID int64) (domain.Storage, error) {
	var s domain.Storage
	err := q.Get(&s, `SELECT `+storageCols+` FROM storage WHERE catalog_item_id = ?`, catalogItemID)
	return s, mapErr(err)
}

// decrementStorage atomically reserves qty units, failing with
// ErrInsufficientStock when the conditional update matches no row. Run it
// inside the order transaction so a later failure releases the reservation.
func decrementStorage(q queryer, catalogItemID, qty int64) error {
	res, err := q.Exec(`
	  UPDATE storage
	  SET quantity = quantity - ?
	  WHERE catalog_item_id = ? AND quantity >= ?
	`, qty, catalogItemID, qty)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Create persists the stock row for a catalog item and returns the
// materialized record. Cost is normalized to NUMERIC(9,2) before insert.
func (r *StorageRepo) Create(p CreateStorageParams) (domain.Storage, error) {
	cost, err := fixedPoint(p.Cost, 9, 2)
	if err != nil {
		return domain.Storage{}, err
	}
	res, err := r.db.Exec(`
	  INSERT INTO storage (catalog_item_id, cost, quantity)
	  VALUES (?, ?, ?)
	`, p.CatalogItemID, cost, p.Quantity)
	if err != nil {
		return domain.Storage{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Storage{}, err
	}
	return getStorage(r.db, id)
}

func (r *StorageRepo) Get(id int64) (domain.Storage, error) {
	return getStorage(r.db, id)
}

func (r *StorageRepo) GetByItem(catalogItemID int64) (domain.Storage, error) {
	return getStorageByItem(r.db, catalogItemID)
}

func (r *StorageRepo) ListAll() ([]domain.Storage, error) {
	var out []domain.Storage
	err := r.db.Select(&out, `SELECT `+storageCols+` FROM storage ORDER BY id`)
	return out, mapErr(err)
}

func (r *StorageRepo) SetQuantity(id, quantity int64) error {
	_, err := r.db.Exec(`UPDATE storage SET quantity = ? WHERE id = ?`, quantity, id)
	return mapErr(err)
}

func (r *StorageRepo) SetCost(id int64, cost decimal.Decimal) error {
	c, err := fixedPoint(cost, 9, 2)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE storage SET cost = ? WHERE id = ?`, c, id)
	return mapErr(err)
}
