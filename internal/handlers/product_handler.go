package handlers

import (
	"errors"
	"log"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
}

// HandleCreateProduct creates a new product and returns its profile view.
// Validation and duplicate-SKU failures are client errors with field/message
// pairs; anything else is a server error.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var request models.CreateProductRequest
	if err := c.BodyParser(&request); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	profile, err := h.service.CreateProduct(c.UserContext(), &request)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Product validation failed",
				"errors":  validationErr.Failures,
			})
		}

		var duplicateErr *services.DuplicateSKUError
		if errors.As(err, &duplicateErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Product validation failed",
				"errors": []models.ValidationFailure{
					{Field: "sku", Message: duplicateErr.Error()},
				},
			})
		}

		log.Printf("Error creating product with SKU %s: %v", request.SKU, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}
