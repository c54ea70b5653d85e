package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/ashconsole/internal/domain/errors"
)

// OrderStatus describes the order pipeline.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "InProgress"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the canonical values in pipeline order. The index
// matches the integer encoding used by the backend enum.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// legacy vocabulary still emitted by older backend builds
var statusAliases = map[string]OrderStatus{
	"workingon": OrderStatusInProgress,
	"done":      OrderStatusCompleted,
}

// ParseOrderStatus maps a backend or user supplied value onto the canonical
// enumeration. Unknown values are rejected with ErrUnknownStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	value := strings.TrimSpace(raw)
	for _, s := range OrderStatuses {
		if strings.EqualFold(value, string(s)) {
			return s, nil
		}
	}
	if alias, ok := statusAliases[strings.ToLower(value)]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("%w: %q", domainErrors.ErrUnknownStatus, raw)
}

// Terminal reports whether no further transitions are expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransition reports whether the pipeline allows moving from s to next.
// The backend stays the authority; this only drives which choices are offered.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusInProgress || next == OrderStatusCancelled
	case OrderStatusInProgress:
		return next == OrderStatusCompleted || next == OrderStatusCancelled
	default:
		return false
	}
}

// UnmarshalJSON accepts canonical names, legacy aliases and integer enum values.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := ParseOrderStatus(raw)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("%w: %s", domainErrors.ErrUnknownStatus, string(data))
	}
	if idx < 0 || idx >= len(OrderStatuses) {
		return fmt.Errorf("%w: %d", domainErrors.ErrUnknownStatus, idx)
	}
	*s = OrderStatuses[idx]
	return nil
}

// ContactChannel is the customer's preferred way of being reached.
type ContactChannel string

const (
	ContactEmail    ContactChannel = "email"
	ContactWhatsApp ContactChannel = "whatsapp"
	ContactPhone    ContactChannel = "phone"
)

// ParseContactChannel validates a preferred contact value.
func ParseContactChannel(raw string) (ContactChannel, bool) {
	switch ContactChannel(strings.ToLower(strings.TrimSpace(raw))) {
	case ContactEmail:
		return ContactEmail, true
	case ContactWhatsApp:
		return ContactWhatsApp, true
	case ContactPhone:
		return ContactPhone, true
	}
	return "", false
}

// ServiceTranslation is the service that requires a language pair.
const ServiceTranslation = "Translation"

// Order is a customer's translation request as returned by the backend.
type Order struct {
	ID                  int64          `json:"id"`
	CustomerName        string         `json:"customerName"`
	CustomerEmail       string         `json:"customerEmail"`
	CustomerPhoneNumber string         `json:"customerPhoneNumber"`
	Deadline            time.Time      `json:"deadLine"`
	Notes               string         `json:"notes"`
	PageCount           int            `json:"pageCount"`
	WordCount           *int           `json:"wordCount,omitempty"`
	PreferredContact    ContactChannel `json:"preferredContact"`
	Services            []string       `json:"services"`
	SourceLanguage      string         `json:"sourceLanguage,omitempty"`
	TargetLanguage      string         `json:"targetLanguage,omitempty"`
	Status              OrderStatus    `json:"orderStatus"`
	UploadedFilePath    string         `json:"uploadedFilePath,omitempty"`
	CreatedAt           *time.Time     `json:"createdAt,omitempty"`
}

// HasService reports whether the order requests the named service.
func (o Order) HasService(name string) bool {
	for _, s := range o.Services {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
