package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicatePhoneNumber = errors.New("phone number already registered")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*Customer, error)

	UpdateCurrentDebt(ctx context.Context, customerID int64, currentDebt float64) error
}
