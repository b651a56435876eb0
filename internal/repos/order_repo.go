package repos

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petstore/internal/domain"
)

// OrderRepo manages orders and their line positions.
type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, client_phone,
  COALESCE(delivery_address,'') AS delivery_address,
  COALESCE(delivery_comment,'') AS delivery_comment,
  COALESCE(delivery_date,'') AS delivery_date,
  status,
  COALESCE(resolution,'') AS resolution,
  data, created_at, updated_at`

const positionCols = `id, order_id, cost, quantity, data, created_at, updated_at`

type CreateOrderParams struct {
	ClientPhone     string
	DeliveryAddress string
	DeliveryComment string
	DeliveryDate    string
	Status          domain.OrderStatus
	Resolution      domain.OrderResolution
	Data            json.RawMessage
}

type CreateOrderPositionParams struct {
	OrderID  int64
	Cost     decimal.Decimal
	Quantity int64
	Data     json.RawMessage
}

func getOrder(q queryer, id int64) (domain.Order, error) {
	var o domain.Order
	err := q.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	return o, mapErr(err)
}

func getOrderPosition(q queryer, id int64) (domain.OrderPosition, error) {
	var p domain.OrderPosition
	err := q.Get(&p, `SELECT `+positionCols+` FROM order_position WHERE id = ?`, id)
	return p, mapErr(err)
}

func insertOrder(q queryer, p CreateOrderParams) (int64, error) {
	if p.Status == "" {
		p.Status = domain.OrderStatusCreated
	}
	if p.Data == nil {
		p.Data = json.RawMessage(`{}`)
	}
	var resolution any
	if p.Resolution != "" {
		resolution = string(p.Resolution)
	}
	res, err := q.Exec(`
	  INSERT INTO orders
	    (client_phone, delivery_address, delivery_comment, delivery_date, status, resolution, data)
	  VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ClientPhone, p.DeliveryAddress, p.DeliveryComment, p.DeliveryDate, p.Status, resolution, string(p.Data))
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func insertOrderPosition(q queryer, p CreateOrderPositionParams) (int64, error) {
	cost, err := fixedPoint(p.Cost, 9, 2)
	if err != nil {
		return 0, err
	}
	if p.Data == nil {
		return 0, fmt.Errorf("order position requires a snapshot")
	}
	res, err := q.Exec(`
	  INSERT INTO order_position (order_id, cost, quantity, data)
	  VALUES (?, ?, ?, ?)
	`, p.OrderID, cost, p.Quantity, string(p.Data))
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

// Create persists an order header and returns the materialized row.
func (r *OrderRepo) Create(p CreateOrderParams) (domain.Order, error) {
	id, err := insertOrder(r.db, p)
	if err != nil {
		return domain.Order{}, err
	}
	return getOrder(r.db, id)
}

// CreatePosition persists one line item. Data must already be a frozen
// snapshot assembled from freshly read rows; it is stored verbatim and never
// rewritten afterwards.
func (r *OrderRepo) CreatePosition(p CreateOrderPositionParams) (domain.OrderPosition, error) {
	id, err := insertOrderPosition(r.db, p)
	if err != nil {
		return domain.OrderPosition{}, err
	}
	return getOrderPosition(r.db, id)
}

func (r *OrderRepo) Get(id int64) (domain.Order, error) {
	return getOrder(r.db, id)
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `SELECT `+orderCols+` FROM orders ORDER BY id`)
	return out, mapErr(err)
}

func (r *OrderRepo) ListPositions(orderID int64) ([]domain.OrderPosition, error) {
	var out []domain.OrderPosition
	err := r.db.Select(&out, `SELECT `+positionCols+` FROM order_position WHERE order_id = ? ORDER BY id`, orderID)
	return out, mapErr(err)
}

// UpdateStatus transitions status and resolution, the only mutable order
// fields after creation.
func (r *OrderRepo) UpdateStatus(id int64, status domain.OrderStatus, resolution domain.OrderResolution) error {
	var res any
	if resolution != "" {
		res = string(resolution)
	}
	_, err := r.db.Exec(`UPDATE orders SET status = ?, resolution = ? WHERE id = ?`, status, res, id)
	return mapErr(err)
}

type OrderLine struct {
	PublicID string
	Quantity int64
}

type PlaceOrderParams struct {
	ClientPhone     string
	DeliveryAddress string
	DeliveryComment string
	DeliveryDate    string
	Lines           []OrderLine
}

// Place runs the whole checkout in one transaction: for every line it reads
// the catalog state, freezes it into a snapshot, reserves stock with a
// conditional decrement and inserts the position. Any failure rolls the
// entire order back, including already reserved lines.
func (r *OrderRepo) Place(p PlaceOrderParams) (domain.Order, []domain.OrderPosition, error) {
	if len(p.Lines) == 0 {
		return domain.Order{}, nil, fmt.Errorf("order has no positions")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Order{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	orderID, err := insertOrder(tx, CreateOrderParams{
		ClientPhone:     p.ClientPhone,
		DeliveryAddress: p.DeliveryAddress,
		DeliveryComment: p.DeliveryComment,
		DeliveryDate:    p.DeliveryDate,
	})
	if err != nil {
		return domain.Order{}, nil, err
	}

	positionIDs := make([]int64, 0, len(p.Lines))
	for _, line := range p.Lines {
		if line.Quantity < 1 {
			return domain.Order{}, nil, fmt.Errorf("position %s: quantity must be positive", line.PublicID)
		}

		item, err := getCatalogItemByPublicID(tx, line.PublicID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		cat, err := getCatalog(tx, item.CatalogID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		brand, err := getBrand(tx, cat.BrandID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		pet, err := getPetCategory(tx, cat.PetCategoryID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		good, err := getGoodCategory(tx, cat.GoodCategoryID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		st, err := getStorageByItem(tx, item.ID)
		if err != nil {
			return domain.Order{}, nil, err
		}

		// Snapshot before the decrement so the blob records the shelf state
		// the customer bought against.
		data, err := domain.NewPositionSnapshot(st, cat, item, brand, pet, good).Marshal()
		if err != nil {
			return domain.Order{}, nil, err
		}

		if err := decrementStorage(tx, item.ID, line.Quantity); err != nil {
			return domain.Order{}, nil, fmt.Errorf("position %s: %w", line.PublicID, err)
		}

		posID, err := insertOrderPosition(tx, CreateOrderPositionParams{
			OrderID:  orderID,
			Cost:     st.Cost,
			Quantity: line.Quantity,
			Data:     data,
		})
		if err != nil {
			return domain.Order{}, nil, err
		}
		positionIDs = append(positionIDs, posID)
	}

	order, err := getOrder(tx, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	positions := make([]domain.OrderPosition, 0, len(positionIDs))
	for _, id := range positionIDs {
		pos, err := getOrderPosition(tx, id)
		if err != nil {
			return domain.Order{}, nil, err
		}
		positions = append(positions, pos)
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, nil, err
	}
	return order, positions, nil
}
