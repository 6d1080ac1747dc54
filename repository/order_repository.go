package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/car-rent-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository persists rental orders
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository on top of db
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx runs fn in a transaction shared by every repository call made with its context
func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.db, fn)
}

// Create inserts a new order. The (renter, car) unique index is the
// authoritative duplicate check and is reported as ErrDuplicateOrder.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := conn(ctx, r.db).Create(order).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetByID loads an order without locking it
func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return r.first(conn(ctx, r.db), id)
}

// GetByIDForUpdate loads an order and locks its row until the surrounding
// transaction ends. SQLite ignores the locking clause.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Order, error) {
	return r.first(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *OrderRepository) first(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// Update writes the mutable fields of order only if the stored status still
// equals expected. A lost race is reported as ErrOrderChanged.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order, expected models.OrderStatus) error {
	res := conn(ctx, r.db).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, expected).
		Updates(map[string]interface{}{
			"status":                    order.Status,
			"desired_start":             order.DesiredStart,
			"desired_finish":            order.DesiredFinish,
			"start_rent_time":           order.StartRentTime,
			"finish_datetime":           order.FinishDatetime,
			"is_renter_confirmed_start": order.IsRenterConfirmedStart,
			"is_lessor_confirmed_start": order.IsLessorConfirmedStart,
		})
	if res.Error != nil {
		return fmt.Errorf("update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderChanged
	}
	return nil
}

// ListByRenter returns the orders placed by renterID, oldest first
func (r *OrderRepository) ListByRenter(ctx context.Context, renterID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := conn(ctx, r.db).
		Where("renter_id = ?", renterID).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list renter orders: %w", err)
	}
	return orders, nil
}

// ListByOwner returns the orders on cars owned by ownerID, optionally
// restricted to a single car, oldest first
func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID uint, carID *uint) ([]models.Order, error) {
	query := conn(ctx, r.db).
		Joins("JOIN cars ON cars.id = orders.car_id").
		Where("cars.owner_id = ?", ownerID)
	if carID != nil {
		query = query.Where("orders.car_id = ?", *carID)
	}

	var orders []models.Order
	if err := query.Order("orders.id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list lessor orders: %w", err)
	}
	return orders, nil
}
