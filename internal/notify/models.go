// Package notify pushes planned-route summaries to configured LINE
// recipients.
package notify

import "errors"

// Repository and service errors.
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrPushFailed        = errors.New("notification push failed")
)

// Recipient is a configured LINE push target.
type Recipient struct {
	ID         string
	Name       string
	LineUserID string
}
