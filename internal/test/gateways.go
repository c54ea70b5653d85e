package test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

// AccountGatewayStub implements repository.AccountGateway with overridable behaviour.
type AccountGatewayStub struct {
	LoginFn  func(ctx context.Context, email, password string) (model.TokenPair, error)
	ForgotFn func(ctx context.Context, email string) error
	ResetFn  func(ctx context.Context, email, otp, newPassword string) error
}

func (s *AccountGatewayStub) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	if s.LoginFn == nil {
		return model.TokenPair{}, nil
	}
	return s.LoginFn(ctx, email, password)
}

func (s *AccountGatewayStub) ForgotPassword(ctx context.Context, email string) error {
	if s.ForgotFn == nil {
		return nil
	}
	return s.ForgotFn(ctx, email)
}

func (s *AccountGatewayStub) VerifyOtpResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if s.ResetFn == nil {
		return nil
	}
	return s.ResetFn(ctx, email, otp, newPassword)
}

// OrderGatewayStub implements repository.OrderGateway and records calls.
type OrderGatewayStub struct {
	MakeFn   func(ctx context.Context, form repository.OrderForm) (*model.Order, error)
	ListFn   func(ctx context.Context) ([]model.Order, error)
	UpdateFn func(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)

	mu        sync.Mutex
	MakeCalls int
	ListCalls int
}

func (s *OrderGatewayStub) MakeOrder(ctx context.Context, form repository.OrderForm) (*model.Order, error) {
	s.mu.Lock()
	s.MakeCalls++
	s.mu.Unlock()
	if s.MakeFn == nil {
		return &model.Order{ID: 1, Status: model.OrderStatusPending}, nil
	}
	return s.MakeFn(ctx, form)
}

func (s *OrderGatewayStub) GetOrders(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	s.ListCalls++
	s.mu.Unlock()
	if s.ListFn == nil {
		return []model.Order{}, nil
	}
	return s.ListFn(ctx)
}

func (s *OrderGatewayStub) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateFn == nil {
		return &model.Order{ID: id, Status: status}, nil
	}
	return s.UpdateFn(ctx, id, status)
}

// Calls returns the recorded make and list call counts.
func (s *OrderGatewayStub) Calls() (makes, lists int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.MakeCalls, s.ListCalls
}

// FailureStub mimics a failed backend envelope.
type FailureStub struct {
	Message    string
	Fields     map[string][]string
	NoResponse bool
}

func (f *FailureStub) Error() string { return "backend failure: " + f.Message }

func (f *FailureStub) BackendMessage() string { return f.Message }

func (f *FailureStub) FieldErrors() (map[string][]string, bool) {
	return f.Fields, len(f.Fields) > 0
}

func (f *FailureStub) Transport() bool { return f.NoResponse }

// Envelope renders a backend response body.
func Envelope(success bool, message string, data any) []byte {
	body, _ := json.Marshal(map[string]any{"isSuccess": success, "message": message, "data": data})
	return body
}
