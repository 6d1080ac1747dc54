package models

import (
	"encoding/json"
	"time"
)

// OrderStatus is the lifecycle state of a rental order
type OrderStatus string

const (
	OrderStatusUnderConsideration OrderStatus = "UNDER_CONSIDERATION"
	OrderStatusAccepted           OrderStatus = "ACCEPTED"
	OrderStatusInProgress         OrderStatus = "IN_PROGRESS"
	OrderStatusCanceled           OrderStatus = "CANCELED"
	OrderStatusRejected           OrderStatus = "REJECTED"
	OrderStatusFinished           OrderStatus = "FINISHED"
)

// OrderStatuses lists every status in lifecycle order
var OrderStatuses = []OrderStatus{
	OrderStatusUnderConsideration,
	OrderStatusAccepted,
	OrderStatusInProgress,
	OrderStatusCanceled,
	OrderStatusRejected,
	OrderStatusFinished,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusUnderConsideration: "Under consideration",
	OrderStatusAccepted:           "Accepted",
	OrderStatusInProgress:         "In progress",
	OrderStatusCanceled:           "Canceled",
	OrderStatusRejected:           "Rejected",
	OrderStatusFinished:           "Finished",
}

// Label returns the display name of the status
func (s OrderStatus) Label() string {
	return orderStatusLabels[s]
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Order is a renter's request to rent a car over a desired window
type Order struct {
	ID                     uint        `gorm:"primaryKey" json:"id"`
	CarID                  uint        `gorm:"not null;uniqueIndex:idx_orders_renter_car,priority:2;index" json:"car_id"`
	Car                    *Car        `gorm:"foreignKey:CarID" json:"-"`
	RenterID               uint        `gorm:"not null;uniqueIndex:idx_orders_renter_car,priority:1" json:"renter_id"`
	Renter                 *User       `gorm:"foreignKey:RenterID" json:"-"`
	DesiredStart           time.Time   `gorm:"not null" json:"desired_start"`
	DesiredFinish          time.Time   `gorm:"not null" json:"desired_finish"`
	StartRentTime          *time.Time  `json:"start_rent_time"` // set when both parties confirm the start
	FinishDatetime         *time.Time  `json:"finish_datetime"` // set when the rental is finished
	Status                 OrderStatus `gorm:"type:varchar(32);not null;default:'UNDER_CONSIDERATION';index" json:"status"`
	IsRenterConfirmedStart bool        `gorm:"not null;default:false" json:"is_renter_confirmed_start"`
	IsLessorConfirmedStart bool        `gorm:"not null;default:false" json:"is_lessor_confirmed_start"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// MarshalJSON adds the display label of the status
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		StatusLabel string `json:"status_label"`
	}{plain: plain(o), StatusLabel: o.Status.Label()})
}
