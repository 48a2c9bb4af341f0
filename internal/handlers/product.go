package handlers

import (
	"errors"
	"log"

	"splitbuy/internal/repositories"
	"splitbuy/internal/services/product"
	"splitbuy/internal/utils"
	"splitbuy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService product.Service
	productRepo    repositories.ProductRepository
}

func NewProductHandler(productService product.Service, productRepo repositories.ProductRepository) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		productRepo:    productRepo,
	}
}

// CreateProduct lists a product and opens its initial group in one step.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req product.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(req); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created, initialGroup, err := h.productService.Create(c.Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, product.ErrInvalidProduct) {
			return utils.BadRequest(c, err.Error())
		}
		log.Printf("Product creation failed for vendor %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to create product")
	}

	return utils.Created(c, fiber.Map{
		"product": created,
		"group":   initialGroup,
	})
}

// GetProduct returns a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid product id")
	}

	p, err := h.productService.Get(c.Context(), productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return utils.NotFound(c, "Product not found")
		}
		return utils.InternalError(c, "Failed to get product")
	}

	return utils.Success(c, fiber.Map{"product": p})
}

// PatchProduct applies a partial update to a product the caller owns.
func (h *ProductHandler) PatchProduct(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	productID, err := paramUint(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid product id")
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if len(fields) == 0 {
		return utils.BadRequest(c, "No fields to update")
	}

	if err := h.productService.Patch(c.Context(), productID, claims.UserID, fields); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			return utils.NotFound(c, "Product not found")
		case errors.Is(err, product.ErrNotOwner):
			return utils.Forbidden(c, "Product belongs to another vendor")
		}
		return utils.InternalError(c, "Failed to update product")
	}

	return utils.Success(c, fiber.Map{"message": "Product updated"})
}

// ListLiveProducts returns the public catalog.
func (h *ProductHandler) ListLiveProducts(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	products, err := h.productService.ListLive(c.Context(), limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list products")
	}

	return utils.Success(c, fiber.Map{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListMyProducts returns the caller's own listings regardless of status.
func (h *ProductHandler) ListMyProducts(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	products, err := h.productRepo.ListByVendor(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list products")
	}

	return utils.Success(c, fiber.Map{"products": products})
}
