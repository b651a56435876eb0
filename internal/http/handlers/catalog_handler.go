package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petstore/internal/services"
	"petstore/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Brands(c *fiber.Ctx) error {
	brands, err := h.Catalog.Brands()
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"brands": brands})
}

func (h *CatalogHandler) PetCategories(c *fiber.Ctx) error {
	pets, err := h.Catalog.PetCategories()
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"petCategories": pets})
}

func (h *CatalogHandler) GoodCategories(c *fiber.Ctx) error {
	goods, err := h.Catalog.GoodCategories()
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"goodCategories": goods})
}

func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	rows, err := h.Catalog.Browse(services.BrowseFilter{
		GoodCategoryID: validate.ID(c.Query("goodCategoryId")),
		BrandID:        validate.ID(c.Query("brandId")),
		PetCategoryID:  validate.ID(c.Query("petCategoryId")),
		Limit:          validate.Limit(c.Query("limit")),
		Offset:         validate.Offset(c.Query("offset")),
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{"catalog": rows})
}

func (h *CatalogHandler) ItemDetail(c *fiber.Ctx) error {
	publicID, ok := validate.PublicID(c.Params("publicId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid public id")
	}

	detail, err := h.Catalog.ItemByPublicID(publicID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(fiber.Map{
		"item":         detail.Item,
		"catalog":      detail.Catalog,
		"cost":         detail.Cost,
		"availability": detail.Availability,
	})
}
