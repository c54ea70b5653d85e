package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}
