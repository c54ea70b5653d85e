package repository

import (
	"io"
	"time"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

// Attachment is the single file uploaded with a quote request.
type Attachment struct {
	Name    string
	Size    int64
	Content io.Reader
}

// OrderForm is the validated payload of a makeOrder call.
type OrderForm struct {
	CustomerName        string
	CustomerEmail       string
	CustomerPhoneNumber string
	Deadline            time.Time
	Notes               string
	PageCount           int
	WordCount           *int
	PreferredContact    model.ContactChannel
	Services            []string
	SourceLanguage      string
	TargetLanguage      string
	File                *Attachment
}
