package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
)

// BoardRow is one order as shown in the admin list.
type BoardRow struct {
	Order   model.Order
	Urgency model.Urgency
	Busy    bool
	Next    []model.OrderStatus
}

// BoardView is the filtered list plus the list-level banner.
type BoardView struct {
	Rows   []BoardRow
	Total  int
	Loaded bool
	Error  string
}

// Board keeps the admin's loaded order list. Rows are fetched once and
// re-fetched only on Refresh.
type Board struct {
	orders *OrderUseCase
	logger *slog.Logger

	mu       sync.Mutex
	rows     []model.Order
	loaded   bool
	inFlight map[int64]struct{}
	banner   string

	// refreshing counts fetches in progress; confirmed holds server copies
	// accepted meanwhile, which a finishing fetch may predate.
	refreshing int
	confirmed  map[int64]model.Order
}

// NewBoard creates an empty board.
func NewBoard(orders *OrderUseCase, logger *slog.Logger) *Board {
	return &Board{
		orders:    orders,
		logger:    logger,
		inFlight:  make(map[int64]struct{}),
		confirmed: make(map[int64]model.Order),
	}
}

// Load fetches the list the first time the board is viewed.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	loaded := b.loaded
	b.mu.Unlock()
	if loaded {
		return nil
	}
	return b.Refresh(ctx)
}

// Refresh re-fetches the list. On failure already loaded rows are kept and
// the banner is set. Status changes confirmed while the fetch was running
// are applied on top of the fetched rows.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.refreshing++
	b.mu.Unlock()

	orders, err := b.orders.ListOrders(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshing--
	defer func() {
		if b.refreshing == 0 {
			clear(b.confirmed)
		}
	}()
	if err != nil {
		b.banner = userMessage(err, "Failed to load orders")
		return err
	}
	b.rows = orders
	for id, order := range b.confirmed {
		if b.replace(order) {
			b.logger.Debug("kept status confirmed during refresh", slog.Int64("order_id", id))
		}
	}
	b.loaded = true
	b.banner = ""
	return nil
}

// View filters the rows. query matches customer name, email or the decimal
// id case-insensitively; an empty status matches every status.
func (b *Board) View(query string, status model.OrderStatus, now time.Time) BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	view := BoardView{Rows: []BoardRow{}, Total: len(b.rows), Loaded: b.loaded, Error: b.banner}
	for _, o := range b.rows {
		if status != "" && o.Status != status {
			continue
		}
		if needle != "" && !matchesQuery(o, needle) {
			continue
		}
		_, busy := b.inFlight[o.ID]
		view.Rows = append(view.Rows, BoardRow{
			Order:   o,
			Urgency: model.ClassifyUrgency(o, now),
			Busy:    busy,
			Next:    nextStatuses(o.Status),
		})
	}
	return view
}

// ChangeStatus moves one row to status. While a change is in flight for a
// row, further changes to it fail with ErrRowBusy; other rows are free.
func (b *Board) ChangeStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	b.mu.Lock()
	if _, busy := b.inFlight[id]; busy {
		b.mu.Unlock()
		return nil, domainErrors.ErrRowBusy
	}
	b.inFlight[id] = struct{}{}
	b.mu.Unlock()

	order, err := b.orders.UpdateStatus(ctx, id, status)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, id)
	if order != nil {
		b.replace(*order)
		if b.refreshing > 0 {
			b.confirmed[order.ID] = *order
		}
	}
	if err != nil {
		b.banner = userMessage(err, "Failed to update order status")
		return order, err
	}
	return order, nil
}

// DismissBanner clears the list-level banner.
func (b *Board) DismissBanner() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banner = ""
}

// Reset forgets every loaded row. Called when the session ends.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = nil
	b.loaded = false
	b.banner = ""
	b.inFlight = make(map[int64]struct{})
	clear(b.confirmed)
}

func (b *Board) replace(order model.Order) bool {
	for i := range b.rows {
		if b.rows[i].ID == order.ID {
			b.rows[i] = order
			return true
		}
	}
	return false
}

func matchesQuery(o model.Order, needle string) bool {
	return strings.Contains(strings.ToLower(o.CustomerName), needle) ||
		strings.Contains(strings.ToLower(o.CustomerEmail), needle) ||
		strings.Contains(strconv.FormatInt(o.ID, 10), needle)
}

func nextStatuses(current model.OrderStatus) []model.OrderStatus {
	next := make([]model.OrderStatus, 0, 2)
	for _, s := range model.OrderStatuses {
		if current.CanTransition(s) {
			next = append(next, s)
		}
	}
	return next
}

// userMessage turns err into banner text. Errors without a backend message
// get fallback.
func userMessage(err error, fallback string) string {
	var validation *domainErrors.ValidationError
	var auth *domainErrors.AuthError
	var request *domainErrors.RequestError
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &auth):
		return auth.Message
	case transportFailure(err):
		return "Unable to reach the server. Please try again."
	case errors.As(err, &request):
		return request.Message
	case errors.Is(err, domainErrors.ErrStatusNotApplied):
		return "The server did not apply the requested status."
	case errors.Is(err, domainErrors.ErrUnknownStatus):
		return "Unknown order status."
	default:
		return fallback
	}
}
