package handlers

import (
	"log"

	"robokart/internal/middleware"
	"robokart/internal/models"
	"robokart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders: checkout, order history and
// the admin status transitions.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOwnOrders)
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Get("/all", middleware.AdminRequired(), h.HandleGetAllOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", middleware.AdminRequired(), h.HandleUpdateOrderStatus)
}

// CheckoutRequest is the request body for creating an order from the cart.
type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
}

// UpdateOrderStatusRequest is the request body for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered"`
}

// HandleGetOwnOrders retrieves the caller's orders, newest first.
func (h *OrderHandler) HandleGetOwnOrders(c *fiber.Ctx) error {
	caller := middleware.CallerIdentity(c)
	orders, err := h.orderService.GetOrdersForUser(caller.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetAllOrders retrieves all orders. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order, owner or admin only.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	caller := middleware.CallerIdentity(c)
	order, err := h.orderService.GetOrder(c.Params("id"), caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCheckout converts the caller's cart into an order. On any failure
// the cart and all product stock are left exactly as they were.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	caller := middleware.CallerIdentity(c)

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.checkoutService.Checkout(caller.UserID, req.ShippingAddress)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus moves an order to a new status. Admin only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.orderService.UpdateStatus(orderID, req.Status); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order " + orderID + " status updated to " + req.Status,
	})
}
