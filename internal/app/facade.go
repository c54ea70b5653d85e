package app

import (
	"context"
	"time"

	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	"github.com/polkiloo/ashconsole/internal/session"
	"github.com/polkiloo/ashconsole/internal/usecase"
)

// ConsoleFacade joins the use cases behind the HTTP handlers.
type ConsoleFacade struct {
	auth       *usecase.AuthUseCase
	reset      *usecase.ResetFlow
	board      *usecase.Board
	quote      *usecase.QuoteForm
	redirector *session.Redirector
}

func NewConsoleFacade(auth *usecase.AuthUseCase, reset *usecase.ResetFlow, board *usecase.Board, quote *usecase.QuoteForm, redirector *session.Redirector) *ConsoleFacade {
	return &ConsoleFacade{auth: auth, reset: reset, board: board, quote: quote, redirector: redirector}
}

func (f *ConsoleFacade) Login(ctx context.Context, email, password string) error {
	return f.auth.Login(ctx, email, password)
}

func (f *ConsoleFacade) Logout(ctx context.Context) {
	f.auth.Logout(ctx)
}

func (f *ConsoleFacade) IsAuthenticated() bool {
	return f.auth.IsAuthenticated()
}

func (f *ConsoleFacade) ConsumeExpired() bool {
	return f.redirector.ConsumeExpired()
}

func (f *ConsoleFacade) Session() model.SessionInfo {
	return f.auth.Session()
}

func (f *ConsoleFacade) ResetState() usecase.ResetState {
	return f.reset.State()
}

func (f *ConsoleFacade) SubmitResetEmail(ctx context.Context, email string) (usecase.ResetState, error) {
	return f.reset.SubmitEmail(ctx, email)
}

func (f *ConsoleFacade) SubmitResetOtp(otp string) (usecase.ResetState, error) {
	return f.reset.SubmitOtp(otp)
}

func (f *ConsoleFacade) SubmitResetPassword(ctx context.Context, newPassword, confirmation string) (usecase.ResetState, error) {
	return f.reset.SubmitPassword(ctx, newPassword, confirmation)
}

// RestartReset drops any progress and returns to the email step.
func (f *ConsoleFacade) RestartReset() usecase.ResetState {
	f.reset.Reset()
	return f.reset.State()
}

func (f *ConsoleFacade) LoadBoard(ctx context.Context) error {
	return f.board.Load(ctx)
}

func (f *ConsoleFacade) RefreshBoard(ctx context.Context) error {
	return f.board.Refresh(ctx)
}

func (f *ConsoleFacade) Board(query string, status model.OrderStatus, now time.Time) usecase.BoardView {
	return f.board.View(query, status, now)
}

func (f *ConsoleFacade) ChangeStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	return f.board.ChangeStatus(ctx, id, status)
}

func (f *ConsoleFacade) DismissBoardBanner() {
	f.board.DismissBanner()
}

func (f *ConsoleFacade) Catalog() usecase.Catalog {
	return f.quote.Catalog()
}

func (f *ConsoleFacade) Quote() usecase.QuoteState {
	return f.quote.State()
}

func (f *ConsoleFacade) EditQuote(edit usecase.QuoteEdit) usecase.QuoteState {
	return f.quote.Edit(edit)
}

func (f *ConsoleFacade) SubmitQuote(ctx context.Context, file *repository.Attachment) (*model.Order, error) {
	return f.quote.Submit(ctx, file)
}

func (f *ConsoleFacade) DismissQuoteBanner() {
	f.quote.DismissBanner()
}

func (f *ConsoleFacade) MaxUploadBytes() int64 {
	return f.quote.MaxUploadBytes()
}
