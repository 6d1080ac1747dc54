package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/car-rent-api/models"
	"gorm.io/gorm"
)

// CatalogStore gives access to brands, car models and cars.
// Brands and car models cannot be deleted while something references them.
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a catalog store on top of db
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// GetCar loads the car row only (owner and status)
func (s *CatalogStore) GetCar(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := conn(ctx, s.db).First(&car, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("get car: %w", err)
	}
	return &car, nil
}

// GetCarDetails loads the car with its model, brand, photos and options
func (s *CatalogStore) GetCarDetails(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	err := conn(ctx, s.db).
		Preload("CarModel.Brand").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&car, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("get car details: %w", err)
	}
	return &car, nil
}

// CreateBrand inserts a brand
func (s *CatalogStore) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if err := conn(ctx, s.db).Create(brand).Error; err != nil {
		return fmt.Errorf("create brand: %w", err)
	}
	return nil
}

// CreateCarModel inserts a car model
func (s *CatalogStore) CreateCarModel(ctx context.Context, model *models.CarModel) error {
	if err := conn(ctx, s.db).Omit("Brand").Create(model).Error; err != nil {
		return fmt.Errorf("create car model: %w", err)
	}
	return nil
}

// CreateCar inserts a car together with its photos and options
func (s *CatalogStore) CreateCar(ctx context.Context, car *models.Car) error {
	if err := conn(ctx, s.db).Omit("CarModel", "Owner").Create(car).Error; err != nil {
		return fmt.Errorf("create car: %w", err)
	}
	return nil
}

// DeleteBrand removes a brand that no car model uses
func (s *CatalogStore) DeleteBrand(ctx context.Context, id uint) error {
	return s.deleteUnreferenced(ctx, &models.Brand{}, id, &models.CarModel{}, "brand_id")
}

// DeleteCarModel removes a car model that no car uses, including
// soft-deleted cars since their rows still hold the foreign key
func (s *CatalogStore) DeleteCarModel(ctx context.Context, id uint) error {
	return s.deleteUnreferenced(ctx, &models.CarModel{}, id, &models.Car{}, "car_model_id")
}

func (s *CatalogStore) deleteUnreferenced(ctx context.Context, target interface{}, id uint, referrer interface{}, column string) error {
	return WithTx(ctx, s.db, func(ctx context.Context) error {
		tx := conn(ctx, s.db)

		var refs int64
		if err := tx.Unscoped().Model(referrer).Where(column+" = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count references: %w", err)
		}
		if refs > 0 {
			return ErrRecordReferenced
		}

		res := tx.Delete(target, id)
		if res.Error != nil {
			return fmt.Errorf("delete catalog record: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}
