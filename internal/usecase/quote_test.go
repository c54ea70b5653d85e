package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
	testhelpers "github.com/polkiloo/ashconsole/internal/test"
)

func str(s string) *string { return &s }

func newQuoteForm(gateway *testhelpers.OrderGatewayStub) *QuoteForm {
	return NewQuoteForm(NewOrderUseCase(gateway, testLogger()), QuoteSettings{WorkingLanguage: "English", MaxUploadBytes: 1024}, testLogger())
}

func validEdit() QuoteEdit {
	return QuoteEdit{
		FullName:         str("Lea Martin"),
		Email:            str("lea@example.com"),
		Phone:            str("+33 6 12 34 56 78"),
		ServiceType:      str("Translation"),
		PageCount:        str("0"),
		Deadline:         str("2020-01-01"),
		PreferredContact: str("whatsapp"),
		LanguageFrom:     str("French"),
	}
}

func attachment() *repository.Attachment {
	return &repository.Attachment{Name: "contract.pdf", Size: 5, Content: strings.NewReader("hello")}
}

func TestQuoteFormLanguageEnforcement(t *testing.T) {
	cases := []struct {
		name     string
		edits    []QuoteEdit
		wantFrom string
		wantTo   string
	}{
		{"from forces to", []QuoteEdit{{LanguageFrom: str("French")}}, "French", "English"},
		{"to forces from", []QuoteEdit{{LanguageTo: str("german")}}, "English", "German"},
		{"working language forces nothing", []QuoteEdit{{LanguageFrom: str("English")}}, "English", ""},
		{"last edit wins", []QuoteEdit{{LanguageFrom: str("French")}, {LanguageTo: str("German")}}, "English", "German"},
		{"one edit, from then to", []QuoteEdit{{LanguageFrom: str("French"), LanguageTo: str("German")}}, "English", "German"},
		{"back to working keeps other side", []QuoteEdit{{LanguageFrom: str("French")}, {LanguageFrom: str("English")}}, "English", "English"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := newQuoteForm(&testhelpers.OrderGatewayStub{})
			var state QuoteState
			for _, e := range tc.edits {
				state = form.Edit(e)
			}
			if state.Draft.LanguageFrom != tc.wantFrom || state.Draft.LanguageTo != tc.wantTo {
				t.Fatalf("expected %s -> %s, got %s -> %s", tc.wantFrom, tc.wantTo, state.Draft.LanguageFrom, state.Draft.LanguageTo)
			}
		})
	}
}

func TestQuoteFormValidate(t *testing.T) {
	form := newQuoteForm(&testhelpers.OrderGatewayStub{})
	form.Edit(validEdit())

	order, err := form.Validate(attachment())
	if err != nil {
		t.Fatalf("expected zero page count and past deadline to be accepted, got %v", err)
	}
	if order.PageCount != 0 || order.Deadline.Year() != 2020 {
		t.Fatalf("unexpected form %+v", order)
	}
	if order.SourceLanguage != "French" || order.TargetLanguage != "English" {
		t.Fatalf("unexpected language pair %s -> %s", order.SourceLanguage, order.TargetLanguage)
	}
	if order.PreferredContact != model.ContactWhatsApp || len(order.Services) != 1 || order.Services[0] != "Translation" {
		t.Fatalf("unexpected form %+v", order)
	}
	if order.WordCount != nil {
		t.Fatal("expected word count to stay optional")
	}
}

func TestQuoteFormValidateReportsFields(t *testing.T) {
	cases := []struct {
		name  string
		edit  QuoteEdit
		file  *repository.Attachment
		field string
	}{
		{"missing name", QuoteEdit{FullName: str(" ")}, attachment(), "fullName"},
		{"bad email", QuoteEdit{Email: str("not-an-email")}, attachment(), "email"},
		{"missing phone", QuoteEdit{Phone: str("")}, attachment(), "phone"},
		{"missing service", QuoteEdit{ServiceType: str("")}, attachment(), "serviceType"},
		{"unknown service", QuoteEdit{ServiceType: str("Juggling")}, attachment(), "serviceType"},
		{"missing page count", QuoteEdit{PageCount: str("")}, attachment(), "pageCount"},
		{"negative page count", QuoteEdit{PageCount: str("-1")}, attachment(), "pageCount"},
		{"bad word count", QuoteEdit{WordCount: str("many")}, attachment(), "wordCount"},
		{"missing deadline", QuoteEdit{Deadline: str("")}, attachment(), "deadline"},
		{"bad deadline", QuoteEdit{Deadline: str("tomorrow")}, attachment(), "deadline"},
		{"bad contact", QuoteEdit{PreferredContact: str("fax")}, attachment(), "preferredContact"},
		{"missing file", QuoteEdit{}, nil, "file"},
		{"file too large", QuoteEdit{}, &repository.Attachment{Name: "big.bin", Size: 4096, Content: strings.NewReader("x")}, "file"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := newQuoteForm(&testhelpers.OrderGatewayStub{})
			form.Edit(validEdit())
			form.Edit(tc.edit)

			_, err := form.Validate(tc.file)
			var validation *domainErrors.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := validation.Fields[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %+v", tc.field, validation.Fields)
			}
		})
	}
}

func TestQuoteFormTranslationNeedsBothLanguages(t *testing.T) {
	form := newQuoteForm(&testhelpers.OrderGatewayStub{})
	edit := validEdit()
	edit.LanguageFrom = nil
	form.Edit(edit)

	_, err := form.Validate(attachment())
	var validation *domainErrors.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := validation.Fields["languagePairFrom"]; !ok {
		t.Fatalf("expected source language error, got %+v", validation.Fields)
	}

	form.Edit(QuoteEdit{ServiceType: str("Editing")})
	if _, err := form.Validate(attachment()); err != nil {
		t.Fatalf("languages are optional for other services, got %v", err)
	}
}

func TestQuoteFormSubmitSuccessResetsDraft(t *testing.T) {
	gateway := &testhelpers.OrderGatewayStub{}
	form := newQuoteForm(gateway)
	form.Edit(validEdit())

	if _, err := form.Submit(context.Background(), attachment()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	state := form.State()
	if state.Draft != emptyDraft() {
		t.Fatalf("expected draft reset, got %+v", state.Draft)
	}
	if state.Banner == nil || state.Banner.Kind != BannerSuccess {
		t.Fatalf("expected success banner, got %+v", state.Banner)
	}
	if makes, _ := gateway.Calls(); makes != 1 {
		t.Fatalf("expected one submission, got %d", makes)
	}
}

func TestQuoteFormSubmitFailureBanners(t *testing.T) {
	cases := []struct {
		name    string
		failure error
		want    string
	}{
		{"backend message verbatim", &testhelpers.FailureStub{Message: "Deadline must be in the future"}, "Deadline must be in the future"},
		{"generic when silent", &testhelpers.FailureStub{}, "Failed to make order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := &testhelpers.OrderGatewayStub{MakeFn: func(context.Context, repository.OrderForm) (*model.Order, error) {
				return nil, tc.failure
			}}
			form := newQuoteForm(gateway)
			form.Edit(validEdit())

			if _, err := form.Submit(context.Background(), attachment()); err == nil {
				t.Fatal("expected error")
			}
			state := form.State()
			if state.Banner == nil || state.Banner.Kind != BannerError || state.Banner.Text != tc.want {
				t.Fatalf("expected error banner %q, got %+v", tc.want, state.Banner)
			}
			if state.Draft.FullName != "Lea Martin" {
				t.Fatal("expected draft to survive a failed submission")
			}
		})
	}
}

func TestQuoteFormBannersAreExclusiveAndDismissible(t *testing.T) {
	fail := true
	gateway := &testhelpers.OrderGatewayStub{MakeFn: func(context.Context, repository.OrderForm) (*model.Order, error) {
		if fail {
			return nil, &testhelpers.FailureStub{Message: "nope"}
		}
		return &model.Order{ID: 1}, nil
	}}
	form := newQuoteForm(gateway)
	form.Edit(validEdit())

	_, _ = form.Submit(context.Background(), attachment())
	fail = false
	if _, err := form.Submit(context.Background(), attachment()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b := form.State().Banner; b == nil || b.Kind != BannerSuccess {
		t.Fatalf("expected success banner to replace the error, got %+v", b)
	}

	form.DismissBanner()
	if b := form.State().Banner; b != nil {
		t.Fatalf("expected no banner, got %+v", b)
	}
}

func TestQuoteFormRejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gateway := &testhelpers.OrderGatewayStub{MakeFn: func(context.Context, repository.OrderForm) (*model.Order, error) {
		close(entered)
		<-release
		return &model.Order{ID: 1}, nil
	}}
	form := newQuoteForm(gateway)
	form.Edit(validEdit())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := form.Submit(context.Background(), attachment()); err != nil {
			t.Errorf("first submit: %v", err)
		}
	}()
	<-entered

	if !form.State().Submitting {
		t.Fatal("expected form to report submitting")
	}
	if _, err := form.Submit(context.Background(), attachment()); !errors.Is(err, domainErrors.ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	close(release)
	wg.Wait()

	if makes, _ := gateway.Calls(); makes != 1 {
		t.Fatalf("expected exactly one submission, got %d", makes)
	}
}
