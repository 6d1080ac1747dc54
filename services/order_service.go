package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	applog "github.com/kendall-kelly/car-rent-api/logger"
	"github.com/kendall-kelly/car-rent-api/metrics"
	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/repository"
	"go.uber.org/zap"
)

// Caller is the authenticated user on whose behalf an operation runs
type Caller struct {
	UserID  uint
	IsAdmin bool
}

// OrderRepository persists orders. Calls made with the context passed to
// WithTx's callback share its transaction.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Order, error)
	Update(ctx context.Context, order *models.Order, expected models.OrderStatus) error
	ListByRenter(ctx context.Context, renterID uint) ([]models.Order, error)
	ListByOwner(ctx context.Context, ownerID uint, carID *uint) ([]models.Order, error)
}

// CatalogStore reads cars from the catalog
type CatalogStore interface {
	GetCar(ctx context.Context, id uint) (*models.Car, error)
	GetCarDetails(ctx context.Context, id uint) (*models.Car, error)
}

// PhotoURLSigner turns a stored photo key into a temporary download URL
type PhotoURLSigner interface {
	GetPresignedURL(ctx context.Context, key string) (string, error)
}

// CreateOrderInput is a renter's request for a car over a desired window
type CreateOrderInput struct {
	CarID         uint
	DesiredStart  time.Time
	DesiredFinish time.Time
}

// UpdateWindowInput changes one or both ends of the desired window
type UpdateWindowInput struct {
	DesiredStart  *time.Time
	DesiredFinish *time.Time
}

// OrderDetails is an order together with the car it refers to.
// It serialises as the order object with an extra "car" field.
type OrderDetails struct {
	Order models.Order
	Car   *models.Car
}

func (d OrderDetails) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(d.Order)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	car, err := json.Marshal(d.Car)
	if err != nil {
		return nil, err
	}
	fields["car"] = car
	return json.Marshal(fields)
}

// OrderService implements the rental order use cases
type OrderService struct {
	orders  OrderRepository
	catalog CatalogStore
	signer  PhotoURLSigner
	logger  *zap.Logger
	now     func() time.Time
}

// OrderServiceOption customises an OrderService
type OrderServiceOption func(*OrderService)

// WithPhotoSigner enables presigned photo URLs in order details
func WithPhotoSigner(signer PhotoURLSigner) OrderServiceOption {
	return func(s *OrderService) { s.signer = signer }
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) OrderServiceOption {
	return func(s *OrderService) {
		s.logger = applog.OrNop(logger)
	}
}

// WithClock replaces the time source used to stamp rental start and finish
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewOrderService creates an order service
func NewOrderService(orders OrderRepository, catalog CatalogStore, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		orders:  orders,
		catalog: catalog,
		logger:  zap.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create places a new order in UNDER_CONSIDERATION for the caller
func (s *OrderService) Create(ctx context.Context, caller Caller, in CreateOrderInput) (*models.Order, error) {
	order, err := s.create(ctx, caller, in)
	if err != nil {
		return nil, s.reject("create", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("car_id", order.CarID),
		zap.Uint("renter_id", order.RenterID),
	)
	return order, nil
}

func (s *OrderService) create(ctx context.Context, caller Caller, in CreateOrderInput) (*models.Order, error) {
	if err := validateWindow(in.DesiredStart, in.DesiredFinish); err != nil {
		return nil, err
	}

	car, err := s.catalog.GetCar(ctx, in.CarID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if car.OwnerID == caller.UserID {
		return nil, forbiddenError("OWN_CAR", "cannot order your own car")
	}
	if !car.IsOrderable() {
		return nil, conflictError("CAR_NOT_ORDERABLE", fmt.Sprintf("car %d is not available for orders", car.ID))
	}

	order := &models.Order{
		CarID:         car.ID,
		RenterID:      caller.UserID,
		DesiredStart:  in.DesiredStart,
		DesiredFinish: in.DesiredFinish,
		Status:        models.OrderStatusUnderConsideration,
	}
	// the unique (renter, car) index decides duplicates, including concurrent ones
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, translateRepoError(err)
	}
	return order, nil
}

// UpdateWindow changes the desired window of an order still under consideration
func (s *OrderService) UpdateWindow(ctx context.Context, caller Caller, id uint, in UpdateWindowInput) (*models.Order, error) {
	if in.DesiredStart == nil && in.DesiredFinish == nil {
		return nil, s.reject("update_window", validationError("VALIDATION_ERROR",
			"at least one of desired_start or desired_finish must be provided", nil))
	}

	var updated *models.Order
	err := s.orders.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return translateRepoError(err)
		}
		if order.RenterID != caller.UserID {
			return forbiddenError("FORBIDDEN", "only the renter can modify the order")
		}
		if err := EnsureWindowEditable(order.Status); err != nil {
			return err
		}

		next := *order
		if in.DesiredStart != nil {
			next.DesiredStart = *in.DesiredStart
		}
		if in.DesiredFinish != nil {
			next.DesiredFinish = *in.DesiredFinish
		}
		if err := validateWindow(next.DesiredStart, next.DesiredFinish); err != nil {
			return err
		}

		if err := s.orders.Update(ctx, &next, order.Status); err != nil {
			return translateRepoError(err)
		}
		updated, err = s.orders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.reject("update_window", err)
	}

	s.logger.Info("order window updated", zap.Uint("order_id", id))
	return updated, nil
}

// Accept approves an order; only the car owner may do it
func (s *OrderService) Accept(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	return s.transition(ctx, caller, id, EventAccept)
}

// Reject declines an order; only the car owner may do it
func (s *OrderService) Reject(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	return s.transition(ctx, caller, id, EventReject)
}

// Cancel withdraws an order; only the renter may do it
func (s *OrderService) Cancel(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	return s.transition(ctx, caller, id, EventCancel)
}

// ConfirmStart records the caller's start confirmation. The rent starts
// once both the renter and the car owner have confirmed.
func (s *OrderService) ConfirmStart(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	return s.transition(ctx, caller, id, EventConfirmStart)
}

// Finish completes a rental in progress; only the car owner may do it
func (s *OrderService) Finish(ctx context.Context, caller Caller, id uint) (*models.Order, error) {
	return s.transition(ctx, caller, id, EventFinish)
}

// transition locks the order row, applies event and writes the result with a
// compare-and-swap on the status it read.
func (s *OrderService) transition(ctx context.Context, caller Caller, id uint, event OrderEvent) (*models.Order, error) {
	var (
		from    models.OrderStatus
		updated *models.Order
	)
	err := s.orders.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return translateRepoError(err)
		}
		car, err := s.catalog.GetCar(ctx, order.CarID)
		if err != nil {
			return translateRepoError(err)
		}

		actor := ActorFor(order, car.OwnerID, caller.UserID)
		if actor == ActorNone {
			return forbiddenError("FORBIDDEN", "you are not a party to this order")
		}

		next, err := Apply(*order, event, actor, s.now())
		if err != nil {
			return err
		}

		from = order.Status
		if err := s.orders.Update(ctx, &next, order.Status); err != nil {
			return translateRepoError(err)
		}
		updated, err = s.orders.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.reject(event.String(), err)
	}

	metrics.OrderTransitionsTotal.WithLabelValues(event.String()).Inc()
	s.logger.Info("order transition applied",
		zap.Uint("order_id", id),
		zap.Stringer("event", event),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
	)
	return updated, nil
}

// ListForLessor returns the orders on the caller's cars, optionally for one car
func (s *OrderService) ListForLessor(ctx context.Context, caller Caller, carID *uint) ([]models.Order, error) {
	orders, err := s.orders.ListByOwner(ctx, caller.UserID, carID)
	if err != nil {
		return nil, s.reject("list_for_lessor", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ListForRenter returns the orders the caller placed
func (s *OrderService) ListForRenter(ctx context.Context, caller Caller) ([]models.Order, error) {
	orders, err := s.orders.ListByRenter(ctx, caller.UserID)
	if err != nil {
		return nil, s.reject("list_for_renter", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Get returns an order with its car. Only the renter, the car owner and
// admins may read it; anyone else gets a Forbidden error.
func (s *OrderService) Get(ctx context.Context, caller Caller, id uint) (*OrderDetails, error) {
	details, err := s.get(ctx, caller, id)
	if err != nil {
		return nil, s.reject("get", err)
	}
	return details, nil
}

func (s *OrderService) get(ctx context.Context, caller Caller, id uint) (*OrderDetails, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	car, err := s.catalog.GetCarDetails(ctx, order.CarID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if !caller.IsAdmin && ActorFor(order, car.OwnerID, caller.UserID) == ActorNone {
		return nil, forbiddenError("FORBIDDEN", "you do not have access to this order")
	}

	s.signPhotos(ctx, car)
	return &OrderDetails{Order: *order, Car: car}, nil
}

func (s *OrderService) signPhotos(ctx context.Context, car *models.Car) {
	if s.signer == nil {
		return
	}
	for i := range car.Photos {
		url, err := s.signer.GetPresignedURL(ctx, car.Photos[i].S3Key)
		if err != nil {
			s.logger.Warn("failed to sign car photo",
				zap.Uint("car_id", car.ID),
				zap.String("s3_key", car.Photos[i].S3Key),
				zap.Error(err),
			)
			continue
		}
		if url != "" {
			car.Photos[i].URL = &url
		}
	}
}

// reject records a refused operation and logs storage failures
func (s *OrderService) reject(op string, err error) error {
	kind := KindOf(err)
	metrics.OrderRejectionsTotal.WithLabelValues(op, kind.String()).Inc()
	if kind == KindInternal && !errors.Is(err, context.Canceled) {
		s.logger.Error("order operation failed", zap.String("operation", op), zap.Error(err))
	}
	return err
}

func validateWindow(start, finish time.Time) error {
	if start.IsZero() || finish.IsZero() {
		return validationError("VALIDATION_ERROR", "desired_start and desired_finish are required", nil)
	}
	if !start.Before(finish) {
		return validationError("INVALID_WINDOW", "desired_start must be before desired_finish", map[string]string{
			"desired_start":  start.Format(time.RFC3339),
			"desired_finish": finish.Format(time.RFC3339),
		})
	}
	return nil
}

// translateRepoError maps repository sentinels to service errors; anything
// else is a storage failure and is returned unchanged
func translateRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return notFoundError("ORDER_NOT_FOUND", "order not found")
	case errors.Is(err, repository.ErrCarNotFound):
		return notFoundError("CAR_NOT_FOUND", "car not found")
	case errors.Is(err, repository.ErrDuplicateOrder):
		return conflictError("DUPLICATE_ORDER", "an order for this car already exists")
	case errors.Is(err, repository.ErrOrderChanged):
		return conflictError("ORDER_CHANGED", "order was modified by another request, retry")
	default:
		return err
	}
}
