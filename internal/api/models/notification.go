package models

// NotificationRequest asks for a route summary to be pushed to a recipient.
// Message overrides the default summary text when set.
type NotificationRequest struct {
	RouteID     string `json:"routeId"`
	RecipientID string `json:"recipientId"`
	Message     string `json:"message,omitempty"`
}

// NotificationResult reports the outcome of a push.
type NotificationResult struct {
	Success bool `json:"success"`
}

// Recipient is a configured push recipient.
type Recipient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LineUserID string `json:"lineUserId"`
}

// RecipientList is the recipient listing response.
type RecipientList struct {
	Items []Recipient `json:"items"`
}

// WebhookStatus is the webhook health acknowledgement body.
type WebhookStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
