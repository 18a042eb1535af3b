package dto

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Error         string            `json:"error"`
	CurrentStatus string            `json:"current_status,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}
