package services

import (
	"errors"

	"petstore/internal/domain"
	"petstore/internal/repos"
	"petstore/internal/validate"
)

// OrderService turns checkout requests into persisted orders. Stock
// reservation and snapshot assembly happen inside one repo transaction; this
// layer only shapes and validates the request.
type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

type PlaceRequest struct {
	ClientPhone     string
	DeliveryAddress string
	DeliveryComment string
	DeliveryDate    string
	Positions       []repos.OrderLine
}

func (s *OrderService) Place(req PlaceRequest) (domain.Order, []domain.OrderPosition, error) {
	if len(req.Positions) == 0 {
		return domain.Order{}, nil, errors.New("order has no positions")
	}
	for i := range req.Positions {
		req.Positions[i].Quantity = validate.Qty(req.Positions[i].Quantity)
	}

	return s.Orders.Place(repos.PlaceOrderParams{
		ClientPhone:     req.ClientPhone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryComment: req.DeliveryComment,
		DeliveryDate:    req.DeliveryDate,
		Lines:           req.Positions,
	})
}

func (s *OrderService) Get(id int64) (domain.Order, []domain.OrderPosition, error) {
	order, err := s.Orders.Get(id)
	if err != nil {
		return domain.Order{}, nil, err
	}
	positions, err := s.Orders.ListPositions(id)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return order, positions, nil
}

var allowedStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusCreated:    true,
	domain.OrderStatusProcessing: true,
	domain.OrderStatusDelivered:  true,
	domain.OrderStatusCancelled:  true,
}

var allowedResolutions = map[domain.OrderResolution]bool{
	"":                            true,
	domain.OrderResolutionSuccess: true,
	domain.OrderResolutionRefund:  true,
	domain.OrderResolutionRefusal: true,
}

// UpdateStatus transitions the only mutable order fields.
func (s *OrderService) UpdateStatus(id int64, status domain.OrderStatus, resolution domain.OrderResolution) error {
	if !allowedStatuses[status] {
		return errors.New("unknown order status")
	}
	if !allowedResolutions[resolution] {
		return errors.New("unknown order resolution")
	}
	return s.Orders.UpdateStatus(id, status, resolution)
}
