package notify

import "context"

// RecipientRepository defines the interface for recipient persistence.
type RecipientRepository interface {
	// Get retrieves a recipient by ID.
	// Returns ErrRecipientNotFound if the recipient doesn't exist.
	Get(ctx context.Context, id string) (*Recipient, error)

	// List retrieves all recipients in insertion order.
	List(ctx context.Context) ([]*Recipient, error)

	// Create persists a new recipient.
	Create(ctx context.Context, recipient *Recipient) error
}
