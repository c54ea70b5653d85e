package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

const (
	quoteSuccessMessage = "Your request submitted successfully! We'll contact you shortly."
	quoteFailureMessage = "Failed to submit your request. Please try again."
)

// QuoteSettings are the agency rules the quote form enforces.
type QuoteSettings struct {
	WorkingLanguage string
	MaxUploadBytes  int64
}

// QuoteDraft holds the raw form inputs.
type QuoteDraft struct {
	FullName         string
	Email            string
	Phone            string
	ServiceType      string
	LanguageFrom     string
	LanguageTo       string
	WordCount        string
	PageCount        string
	Deadline         string
	Notes            string
	PreferredContact string
}

func emptyDraft() QuoteDraft {
	return QuoteDraft{PreferredContact: string(model.ContactEmail)}
}

// QuoteEdit changes the fields that are non-nil. Languages are applied
// last, From before To.
type QuoteEdit struct {
	FullName         *string
	Email            *string
	Phone            *string
	ServiceType      *string
	WordCount        *string
	PageCount        *string
	Deadline         *string
	Notes            *string
	PreferredContact *string
	LanguageFrom     *string
	LanguageTo       *string
}

// BannerKind tells a success banner from an error banner.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is the single message shown above the form.
type Banner struct {
	Kind BannerKind
	Text string
}

// QuoteState is a snapshot of the form.
type QuoteState struct {
	Draft      QuoteDraft
	Banner     *Banner
	Submitting bool
}

// QuoteForm is the public quote request form.
type QuoteForm struct {
	orders   *OrderUseCase
	settings QuoteSettings
	logger   *slog.Logger

	mu       sync.Mutex
	draft    QuoteDraft
	banner   *Banner
	inFlight atomic.Bool
}

// NewQuoteForm creates an empty form.
func NewQuoteForm(orders *OrderUseCase, settings QuoteSettings, logger *slog.Logger) *QuoteForm {
	if settings.WorkingLanguage == "" {
		settings.WorkingLanguage = "English"
	}
	return &QuoteForm{orders: orders, settings: settings, logger: logger, draft: emptyDraft()}
}

// State returns the current snapshot.
func (f *QuoteForm) State() QuoteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *QuoteForm) snapshot() QuoteState {
	state := QuoteState{Draft: f.draft, Submitting: f.inFlight.Load()}
	if f.banner != nil {
		b := *f.banner
		state.Banner = &b
	}
	return state
}

// Edit applies e to the draft.
func (f *QuoteForm) Edit(e QuoteEdit) QuoteState {
	f.mu.Lock()
	defer f.mu.Unlock()

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.draft.FullName, e.FullName)
	set(&f.draft.Email, e.Email)
	set(&f.draft.Phone, e.Phone)
	set(&f.draft.ServiceType, e.ServiceType)
	set(&f.draft.WordCount, e.WordCount)
	set(&f.draft.PageCount, e.PageCount)
	set(&f.draft.Deadline, e.Deadline)
	set(&f.draft.Notes, e.Notes)
	set(&f.draft.PreferredContact, e.PreferredContact)
	if e.LanguageFrom != nil {
		f.setLanguage(&f.draft.LanguageFrom, &f.draft.LanguageTo, *e.LanguageFrom)
	}
	if e.LanguageTo != nil {
		f.setLanguage(&f.draft.LanguageTo, &f.draft.LanguageFrom, *e.LanguageTo)
	}
	return f.snapshot()
}

// setLanguage writes value to side. A language other than the working one
// forces the opposite side to the working language.
func (f *QuoteForm) setLanguage(side, opposite *string, value string) {
	value = strings.TrimSpace(value)
	if c, ok := canonical(Languages, value); ok {
		value = c
	}
	*side = value
	if value != "" && !strings.EqualFold(value, f.settings.WorkingLanguage) {
		*opposite = f.settings.WorkingLanguage
	}
}

// DismissBanner hides whichever banner is shown.
func (f *QuoteForm) DismissBanner() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = nil
}

// Validate checks the current draft together with file.
func (f *QuoteForm) Validate(file *repository.Attachment) (repository.OrderForm, error) {
	f.mu.Lock()
	draft := f.draft
	f.mu.Unlock()
	return validateQuote(draft, file, f.settings)
}

// Submit validates and sends the draft. Only one submission runs at a time;
// a second call while one is in flight fails with ErrSubmitInFlight.
func (f *QuoteForm) Submit(ctx context.Context, file *repository.Attachment) (*model.Order, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, domainErrors.ErrSubmitInFlight
	}
	defer f.inFlight.Store(false)

	form, err := f.Validate(file)
	if err != nil {
		f.showError(err)
		return nil, err
	}

	order, err := f.orders.CreateOrder(ctx, form)
	if err != nil {
		f.logger.Warn("quote submission failed", slog.String("error", err.Error()))
		f.showError(err)
		return nil, err
	}

	f.mu.Lock()
	f.draft = emptyDraft()
	f.banner = &Banner{Kind: BannerSuccess, Text: quoteSuccessMessage}
	f.mu.Unlock()
	return order, nil
}

func (f *QuoteForm) showError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banner = &Banner{Kind: BannerError, Text: userMessage(err, quoteFailureMessage)}
}

// Catalog lists the form's choices.
func (f *QuoteForm) Catalog() Catalog {
	return Catalog{
		Services:        append([]string(nil), ServiceTypes...),
		Languages:       append([]string(nil), Languages...),
		WorkingLanguage: f.settings.WorkingLanguage,
		Contacts:        []string{string(model.ContactEmail), string(model.ContactWhatsApp), string(model.ContactPhone)},
	}
}

// MaxUploadBytes is the largest accepted attachment, 0 for no limit.
func (f *QuoteForm) MaxUploadBytes() int64 {
	return f.settings.MaxUploadBytes
}
