package models

import (
	"time"

	"gorm.io/gorm"
)

// Brand represents a car manufacturer
type Brand struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:50;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`
}

// TableName specifies the table name for the Brand model
func (Brand) TableName() string {
	return "brands"
}

// CarModel is a catalog template shared by every car of that model
type CarModel struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Title           string   `gorm:"size:100;not null" json:"title"`
	EngineCapacity  *float64 `json:"engine_capacity"` // nullable for electric cars
	Drive           Drive    `gorm:"size:3;not null" json:"drive"`
	Gearbox         Gearbox  `gorm:"size:2;not null" json:"gearbox"`
	BodyType        BodyType `gorm:"size:2;not null" json:"body_type"`
	FuelType        FuelType `gorm:"size:3;not null" json:"fuel_type"`
	FuelConsumption float64  `gorm:"not null" json:"fuel_consumption"`
	HP              int      `gorm:"not null;check:hp > 0" json:"hp"`
	BrandID         uint     `gorm:"not null;index" json:"brand_id"`
	Brand           *Brand   `gorm:"foreignKey:BrandID;constraint:OnDelete:RESTRICT" json:"brand,omitempty"`
}

// TableName specifies the table name for the CarModel model
func (CarModel) TableName() string {
	return "car_models"
}

// Car is a user's vehicle offered for rent
type Car struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CarModelID uint           `gorm:"not null;index" json:"car_model_id"`
	CarModel   *CarModel      `gorm:"foreignKey:CarModelID;constraint:OnDelete:RESTRICT" json:"car_model,omitempty"`
	Color      string         `gorm:"size:25;not null" json:"color"`
	Score      float64        `gorm:"not null;default:5" json:"score"`
	Price      uint           `gorm:"not null" json:"price"`
	OwnerID    uint           `gorm:"not null;index" json:"owner_id"` // foreign key to users table
	Owner      *User          `gorm:"foreignKey:OwnerID" json:"-"`
	Status     CarStatus      `gorm:"not null;default:100" json:"status"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Photos     []CarPhoto     `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Options    []CarOption    `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Car model
func (Car) TableName() string {
	return "cars"
}

// IsOrderable reports whether renters may place orders on the car
func (c Car) IsOrderable() bool {
	return c.Status == CarStatusVerified
}

// CarPhoto references a stored photo of a car
type CarPhoto struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	CarID uint    `gorm:"not null;index" json:"car_id"`
	S3Key string  `gorm:"not null" json:"s3_key"`
	URL   *string `gorm:"-" json:"url,omitempty"` // computed field, presigned URL for the photo
}

// TableName specifies the table name for the CarPhoto model
func (CarPhoto) TableName() string {
	return "car_photos"
}

// CarOption is a free-form feature of a car (child seat, roof rack, ...)
type CarOption struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	CarID  uint   `gorm:"not null;index" json:"car_id"`
	Option string `gorm:"size:200;not null" json:"option"`
}

// TableName specifies the table name for the CarOption model
func (CarOption) TableName() string {
	return "car_options"
}
