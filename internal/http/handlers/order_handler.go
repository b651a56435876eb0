package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petstore/internal/domain"
	applog "petstore/internal/log"
	"petstore/internal/repos"
	"petstore/internal/services"
	"petstore/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderBody struct {
	ClientPhone     string `json:"clientPhone"`
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryComment string `json:"deliveryComment"`
	DeliveryDate    string `json:"deliveryDate"`
	Positions       []struct {
		PublicID string `json:"publicId"`
		Quantity int64  `json:"quantity"`
	} `json:"positions"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var body placeOrderBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}

	phone, ok := validate.Phone(body.ClientPhone)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone")
	}
	if len(body.Positions) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "order has no positions")
	}

	lines := make([]repos.OrderLine, 0, len(body.Positions))
	for _, p := range body.Positions {
		publicID, ok := validate.PublicID(p.PublicID)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid position public id")
		}
		lines = append(lines, repos.OrderLine{PublicID: publicID, Quantity: p.Quantity})
	}

	order, positions, err := h.Orders.Place(services.PlaceRequest{
		ClientPhone:     phone,
		DeliveryAddress: body.DeliveryAddress,
		DeliveryComment: body.DeliveryComment,
		DeliveryDate:    body.DeliveryDate,
		Positions:       lines,
	})
	if err != nil {
		applog.Error(c, "order.place.fail", err, map[string]any{"phone": phone})
		return storeError(c, err)
	}

	applog.Audit(c, "order.place", map[string]any{"order_id": order.ID, "positions": len(positions)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order, "positions": positions})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}

	order, positions, err := h.Orders.Get(int64(id))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"order": order, "positions": positions})
}

type orderStatusBody struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}

	var body orderStatusBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}

	if err := h.Orders.UpdateStatus(int64(id), domain.OrderStatus(body.Status), domain.OrderResolution(body.Resolution)); err != nil {
		return storeError(c, err)
	}

	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": body.Status})
	return c.JSON(fiber.Map{"ok": true})
}
