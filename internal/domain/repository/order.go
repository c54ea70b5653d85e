package repository

import (
	"context"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

// OrderGateway is the backend collaborator's order contract.
type OrderGateway interface {
	MakeOrder(ctx context.Context, form OrderForm) (*model.Order, error)
	GetOrders(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error)
}

// AccountGateway is the backend collaborator's account contract.
type AccountGateway interface {
	Login(ctx context.Context, email, password string) (model.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyOtpResetPassword(ctx context.Context, email, otp, newPassword string) error
}
