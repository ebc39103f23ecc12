package dto

// WebhookResponse is the acknowledgement returned to the upstream
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
