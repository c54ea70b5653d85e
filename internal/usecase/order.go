package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

// OrderUseCase submits, lists and updates translation orders.
type OrderUseCase struct {
	orders repository.OrderGateway
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderGateway, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, logger: logger}
}

// CreateOrder submits form. A missing file or an empty service list fails
// locally without touching the network.
func (u *OrderUseCase) CreateOrder(ctx context.Context, form repository.OrderForm) (*model.Order, error) {
	if form.File == nil || form.File.Content == nil {
		return nil, domainErrors.NewValidationError("a file is required")
	}
	if len(nonBlank(form.Services)) == 0 {
		return nil, domainErrors.NewValidationError("at least one service is required")
	}
	form.Services = nonBlank(form.Services)

	order, err := u.orders.MakeOrder(ctx, form)
	if err != nil {
		var failure backendFailure
		if errors.As(err, &failure) {
			if fields, ok := failure.FieldErrors(); ok {
				msg := failure.BackendMessage()
				if msg == "" {
					msg = "the order was rejected"
				}
				return nil, &domainErrors.ValidationError{Message: msg, Fields: fields}
			}
		}
		return nil, requestError("create order", err, "Failed to make order")
	}

	u.logger.Info("order submitted", slog.Int64("order_id", order.ID), slog.String("status", string(order.Status)))
	return order, nil
}

// ListOrders returns every order.
func (u *OrderUseCase) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.GetOrders(ctx)
	if err != nil {
		return nil, requestError("list orders", err, "Failed to load orders")
	}
	return orders, nil
}

// UpdateStatus asks the backend to move order id to status and returns the
// backend's copy. When that copy carries a different status, it is
// returned together with an error wrapping ErrStatusNotApplied.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	status, err := model.ParseOrderStatus(string(status))
	if err != nil {
		return nil, err
	}

	order, err := u.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, requestError("update order status", err, "Failed to update order status")
	}
	if order.Status != status {
		u.logger.Warn("status change not applied",
			slog.Int64("order_id", id),
			slog.String("requested", string(status)),
			slog.String("actual", string(order.Status)),
		)
		return order, fmt.Errorf("order %d is %s: %w", id, order.Status, domainErrors.ErrStatusNotApplied)
	}
	return order, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
