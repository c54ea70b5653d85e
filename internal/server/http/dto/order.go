package dto

import "time"

// OrderResponse is one order row.
type OrderResponse struct {
	ID                  int64     `json:"id"`
	CustomerName        string    `json:"customerName"`
	CustomerEmail       string    `json:"customerEmail"`
	CustomerPhoneNumber string    `json:"customerPhoneNumber"`
	Deadline            time.Time `json:"deadLine"`
	Notes               string    `json:"notes,omitempty"`
	PageCount           int       `json:"pageCount"`
	WordCount           *int      `json:"wordCount,omitempty"`
	PreferredContact    string    `json:"preferredContact"`
	Services            []string  `json:"services"`
	SourceLanguage      string    `json:"sourceLanguage,omitempty"`
	TargetLanguage      string    `json:"targetLanguage,omitempty"`
	Status              string    `json:"orderStatus"`
	UploadedFilePath    string    `json:"uploadedFilePath,omitempty"`
	Urgency             string    `json:"urgency,omitempty"`
	Busy                bool      `json:"busy,omitempty"`
	NextStatuses        []string  `json:"nextStatuses,omitempty"`
}

// BoardResponse is the filtered admin list.
type BoardResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Error  string          `json:"error,omitempty"`
}

// StatusRequest asks for a status change.
type StatusRequest struct {
	Status string `json:"status"`
}
