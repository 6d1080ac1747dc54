package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kendall-kelly/car-rent-api/config"
	"github.com/kendall-kelly/car-rent-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixtureSeq atomic.Int64

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// NewTestDB opens a migrated in-memory SQLite database.
// The pool is pinned to one connection so every query sees the same
// in-memory database; concurrent callers queue on it.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user profile bound to auth0ID
func CreateUser(t *testing.T, db *gorm.DB, auth0ID string, role models.Role) *models.User {
	t.Helper()

	n := fixtureSeq.Add(1)
	user := &models.User{
		Auth0ID: auth0ID,
		Name:    fmt.Sprintf("User %d", n),
		Email:   fmt.Sprintf("user%d@example.com", n),
		Role:    role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateCar inserts a car owned by ownerID, along with a fresh brand and model
func CreateCar(t *testing.T, db *gorm.DB, ownerID uint, status models.CarStatus) *models.Car {
	t.Helper()

	brand := &models.Brand{Title: "Lada"}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("Failed to create brand: %v", err)
	}

	model := &models.CarModel{
		Title:           "Vesta",
		Drive:           models.DriveFWD,
		Gearbox:         models.GearboxManual,
		BodyType:        models.BodySedan,
		FuelType:        models.FuelAI95,
		FuelConsumption: 7.5,
		HP:              106,
		BrandID:         brand.ID,
	}
	if err := db.Create(model).Error; err != nil {
		t.Fatalf("Failed to create car model: %v", err)
	}

	car := &models.Car{
		CarModelID: model.ID,
		Color:      "white",
		Score:      5,
		Price:      3000,
		OwnerID:    ownerID,
		Status:     status,
	}
	if err := db.Create(car).Error; err != nil {
		t.Fatalf("Failed to create car: %v", err)
	}
	return car
}

// Window returns a one hour desired window starting at the given hour of a fixed day
func Window(hour int) (time.Time, time.Time) {
	start := time.Date(2030, time.June, 1, hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

// CreateOrder inserts an order directly, bypassing the lifecycle rules
func CreateOrder(t *testing.T, db *gorm.DB, renterID, carID uint, status models.OrderStatus) *models.Order {
	t.Helper()

	start, finish := Window(10)
	order := &models.Order{
		CarID:         carID,
		RenterID:      renterID,
		DesiredStart:  start,
		DesiredFinish: finish,
		Status:        status,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	return order
}

// ReloadOrder reads the stored state of an order
func ReloadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()

	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		t.Fatalf("Failed to reload order %d: %v", id, err)
	}
	return order
}
