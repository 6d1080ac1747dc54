package repository

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateOrder   = errors.New("order already exists for this renter and car")
	ErrOrderChanged     = errors.New("order was modified concurrently")
	ErrCarNotFound      = errors.New("car not found")
	ErrRecordNotFound   = errors.New("catalog record not found")
	ErrRecordReferenced = errors.New("catalog record is still referenced")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateUser    = errors.New("user already exists")
)
