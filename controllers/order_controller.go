package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	applog "github.com/kendall-kelly/car-rent-api/logger"
	"github.com/kendall-kelly/car-rent-api/middleware"
	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/services"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CarID         uint       `json:"car_id" binding:"required"`
	DesiredStart  *time.Time `json:"desired_start" binding:"required"`
	DesiredFinish *time.Time `json:"desired_finish" binding:"required"`
}

// UpdateOrderRequest represents the request body for changing the desired window
type UpdateOrderRequest struct {
	DesiredStart  *time.Time `json:"desired_start"`
	DesiredFinish *time.Time `json:"desired_finish"`
}

// OrderController serves the /orders routes
type OrderController struct {
	orders *services.OrderService
	logger *zap.Logger
}

// NewOrderController creates an order controller
func NewOrderController(orders *services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: applog.OrNop(logger)}
}

// CreateOrder handles POST /api/v1/orders - a renter requests a car for a window
func (oc *OrderController) CreateOrder(c *gin.Context) {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	order, err := oc.orders.Create(c.Request.Context(), caller, services.CreateOrderInput{
		CarID:         req.CarID,
		DesiredStart:  *req.DesiredStart,
		DesiredFinish: *req.DesiredFinish,
	})
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	success(c, http.StatusCreated, order)
}

// UpdateOrder handles PATCH /api/v1/orders/:id - the renter edits the desired window
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	caller, id, ok := oc.callerAndID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	order, err := oc.orders.UpdateWindow(c.Request.Context(), caller, id, services.UpdateWindowInput{
		DesiredStart:  req.DesiredStart,
		DesiredFinish: req.DesiredFinish,
	})
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	success(c, http.StatusOK, order)
}

// AcceptOrder handles POST /api/v1/orders/:id/accept
func (oc *OrderController) AcceptOrder(c *gin.Context) {
	oc.transition(c, oc.orders.Accept)
}

// RejectOrder handles POST /api/v1/orders/:id/reject
func (oc *OrderController) RejectOrder(c *gin.Context) {
	oc.transition(c, oc.orders.Reject)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func (oc *OrderController) CancelOrder(c *gin.Context) {
	oc.transition(c, oc.orders.Cancel)
}

// StartRent handles POST /api/v1/orders/:id/start - renter or owner confirms the start
func (oc *OrderController) StartRent(c *gin.Context) {
	oc.transition(c, oc.orders.ConfirmStart)
}

// FinishRent handles POST /api/v1/orders/:id/finish
func (oc *OrderController) FinishRent(c *gin.Context) {
	oc.transition(c, oc.orders.Finish)
}

type transitionFunc func(ctx context.Context, caller services.Caller, id uint) (*models.Order, error)

func (oc *OrderController) transition(c *gin.Context, apply transitionFunc) {
	caller, id, ok := oc.callerAndID(c)
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	success(c, http.StatusOK, order)
}

// ListLessorOrders handles GET /api/v1/orders/lessor?car_id= - orders on the caller's cars
func (oc *OrderController) ListLessorOrders(c *gin.Context) {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	var carID *uint
	if raw := c.Query("car_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			errorJSON(c, http.StatusBadRequest, "INVALID_CAR_ID", "car_id must be a positive integer", nil)
			return
		}
		id := uint(parsed)
		carID = &id
	}

	orders, err := oc.orders.ListForLessor(c.Request.Context(), caller, carID)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	success(c, http.StatusOK, orders)
}

// ListRenterOrders handles GET /api/v1/orders/renter - orders the caller placed
func (oc *OrderController) ListRenterOrders(c *gin.Context) {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	orders, err := oc.orders.ListForRenter(c.Request.Context(), caller)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	success(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id - order details with the car
func (oc *OrderController) GetOrder(c *gin.Context) {
	caller, id, ok := oc.callerAndID(c)
	if !ok {
		return
	}

	details, err := oc.orders.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	success(c, http.StatusOK, details)
}

func (oc *OrderController) callerAndID(c *gin.Context) (services.Caller, uint, bool) {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		respondError(c, oc.logger, err)
		return services.Caller{}, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		errorJSON(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Order ID must be a positive integer", nil)
		return services.Caller{}, 0, false
	}

	return caller, uint(id), true
}
