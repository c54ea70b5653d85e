package usecase

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

// deadlineLayouts are the accepted deadline inputs: a date picker value or
// a full timestamp.
var deadlineLayouts = []string{"2006-01-02", time.RFC3339}

type fieldErrorSet map[string][]string

func (s fieldErrorSet) add(field, msg string) {
	s[field] = append(s[field], msg)
}

// validateQuote checks draft and file and builds the order form. Page count
// 0 and past deadlines are accepted.
func validateQuote(draft QuoteDraft, file *repository.Attachment, settings QuoteSettings) (repository.OrderForm, error) {
	errs := fieldErrorSet{}
	form := repository.OrderForm{
		CustomerName:        strings.TrimSpace(draft.FullName),
		CustomerEmail:       strings.TrimSpace(draft.Email),
		CustomerPhoneNumber: strings.TrimSpace(draft.Phone),
		Notes:               strings.TrimSpace(draft.Notes),
		File:                file,
	}

	if form.CustomerName == "" {
		errs.add("fullName", "Full name is required")
	}
	if form.CustomerEmail == "" {
		errs.add("email", "Email is required")
	} else if _, err := mail.ParseAddress(form.CustomerEmail); err != nil {
		errs.add("email", "Email is not valid")
	}
	if form.CustomerPhoneNumber == "" {
		errs.add("phone", "Phone number is required")
	}

	service, ok := canonical(ServiceTypes, draft.ServiceType)
	switch {
	case strings.TrimSpace(draft.ServiceType) == "":
		errs.add("serviceType", "Service type is required")
	case !ok:
		errs.add("serviceType", "Unknown service type")
	default:
		form.Services = []string{service}
	}

	contact, ok := model.ParseContactChannel(draft.PreferredContact)
	if !ok {
		errs.add("preferredContact", "Preferred contact must be email, whatsapp or phone")
	}
	form.PreferredContact = contact

	if pages, present, err := parseCount(draft.PageCount); !present {
		errs.add("pageCount", "Page count is required")
	} else if err != nil {
		errs.add("pageCount", "Page count must be a non-negative number")
	} else {
		form.PageCount = pages
	}

	if words, present, err := parseCount(draft.WordCount); err != nil {
		errs.add("wordCount", "Word count must be a non-negative number")
	} else if present {
		form.WordCount = &words
	}

	if deadline, present, err := parseDeadline(draft.Deadline); !present {
		errs.add("deadline", "Deadline is required")
	} else if err != nil {
		errs.add("deadline", "Deadline must be a date")
	} else {
		form.Deadline = deadline
	}

	form.SourceLanguage = validateLanguage(errs, "languagePairFrom", draft.LanguageFrom)
	form.TargetLanguage = validateLanguage(errs, "languagePairTo", draft.LanguageTo)
	if service == model.ServiceTranslation {
		if form.SourceLanguage == "" {
			errs.add("languagePairFrom", "Source language is required for translation")
		}
		if form.TargetLanguage == "" {
			errs.add("languagePairTo", "Target language is required for translation")
		}
		if form.SourceLanguage != "" && form.TargetLanguage != "" &&
			!strings.EqualFold(form.SourceLanguage, settings.WorkingLanguage) &&
			!strings.EqualFold(form.TargetLanguage, settings.WorkingLanguage) {
			errs.add("languagePairTo", "One side of the pair must be "+settings.WorkingLanguage)
		}
	}

	switch {
	case file == nil || file.Content == nil:
		errs.add("file", "Exactly one file is required")
	case settings.MaxUploadBytes > 0 && file.Size > settings.MaxUploadBytes:
		errs.add("file", "File exceeds the "+strconv.FormatInt(settings.MaxUploadBytes/(1024*1024), 10)+" MB upload limit")
	}

	if len(errs) > 0 {
		return repository.OrderForm{}, &domainErrors.ValidationError{Message: "Please correct the highlighted fields", Fields: errs}
	}
	return form, nil
}

func validateLanguage(errs fieldErrorSet, field, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	lang, ok := canonical(Languages, raw)
	if !ok {
		errs.add(field, "Unknown language")
		return ""
	}
	return lang
}

// parseCount reads an optional non-negative integer input.
func parseCount(raw string) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, err
	}
	if n < 0 {
		return 0, true, strconv.ErrRange
	}
	return n, true, nil
}

func parseDeadline(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), true, nil
		}
		lastErr = err
	}
	return time.Time{}, true, lastErr
}
