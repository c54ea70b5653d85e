package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

// AuthFacade describes session capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
	IsAuthenticated() bool
	ConsumeExpired() bool
	Session() model.SessionInfo
}

// ResetFacade drives the password recovery flow.
type ResetFacade interface {
	ResetState() usecase.ResetState
	SubmitResetEmail(ctx context.Context, email string) (usecase.ResetState, error)
	SubmitResetOtp(otp string) (usecase.ResetState, error)
	SubmitResetPassword(ctx context.Context, newPassword, confirmation string) (usecase.ResetState, error)
	RestartReset() usecase.ResetState
}

// BoardFacade exposes the admin order list.
type BoardFacade interface {
	LoadBoard(ctx context.Context) error
	RefreshBoard(ctx context.Context) error
	Board(query string, status model.OrderStatus, now time.Time) usecase.BoardView
	ChangeStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
	DismissBoardBanner()
}

// QuoteFacade exposes the public quote form.
type QuoteFacade interface {
	Catalog() usecase.Catalog
	Quote() usecase.QuoteState
	EditQuote(edit usecase.QuoteEdit) usecase.QuoteState
	SubmitQuote(ctx context.Context, file *repository.Attachment) (*model.Order, error)
	DismissQuoteBanner()
	MaxUploadBytes() int64
}

// ConsoleFacade aggregates the full set of operations used across handlers.
type ConsoleFacade interface {
	AuthFacade
	ResetFacade
	BoardFacade
	QuoteFacade
}
