package notify

import (
	"context"
	"sync"
)

// InMemoryRecipientRepository is an in-memory implementation of
// RecipientRepository. Seed recipients, typically loaded from configuration,
// are available immediately.
type InMemoryRecipientRepository struct {
	mu         sync.RWMutex
	recipients map[string]*Recipient
	order      []string
}

// NewInMemoryRecipientRepository creates a recipient repository pre-populated
// with the given seed recipients.
func NewInMemoryRecipientRepository(seed []Recipient) *InMemoryRecipientRepository {
	r := &InMemoryRecipientRepository{
		recipients: make(map[string]*Recipient),
	}
	for i := range seed {
		cpy := seed[i]
		r.recipients[cpy.ID] = &cpy
		r.order = append(r.order, cpy.ID)
	}
	return r
}

// Get retrieves a recipient by ID.
func (r *InMemoryRecipientRepository) Get(_ context.Context, id string) (*Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipient, ok := r.recipients[id]
	if !ok {
		return nil, ErrRecipientNotFound
	}

	cpy := *recipient
	return &cpy, nil
}

// List retrieves all recipients in insertion order.
func (r *InMemoryRecipientRepository) List(_ context.Context) ([]*Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipients := make([]*Recipient, 0, len(r.order))
	for _, id := range r.order {
		cpy := *r.recipients[id]
		recipients = append(recipients, &cpy)
	}
	return recipients, nil
}

// Create persists a new recipient.
func (r *InMemoryRecipientRepository) Create(_ context.Context, recipient *Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *recipient
	r.recipients[cpy.ID] = &cpy
	r.order = append(r.order, cpy.ID)
	return nil
}

// Ensure InMemoryRecipientRepository implements RecipientRepository interface.
var _ RecipientRepository = (*InMemoryRecipientRepository)(nil)
