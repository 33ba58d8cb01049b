package notify

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecipientRepository is a PostgreSQL implementation of
// RecipientRepository.
type PostgresRecipientRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecipientRepository creates a new PostgreSQL recipient
// repository.
func NewPostgresRecipientRepository(pool *pgxpool.Pool) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{pool: pool}
}

// Get retrieves a recipient by ID.
func (r *PostgresRecipientRepository) Get(ctx context.Context, id string) (*Recipient, error) {
	query := `
		SELECT id, name, line_user_id
		FROM recipients
		WHERE id = $1
	`

	var recipient Recipient
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&recipient.ID,
		&recipient.Name,
		&recipient.LineUserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	return &recipient, nil
}

// List retrieves all recipients in insertion order.
func (r *PostgresRecipientRepository) List(ctx context.Context) ([]*Recipient, error) {
	query := `
		SELECT id, name, line_user_id
		FROM recipients
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*Recipient
	for rows.Next() {
		var recipient Recipient
		err := rows.Scan(
			&recipient.ID,
			&recipient.Name,
			&recipient.LineUserID,
		)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, &recipient)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recipients, nil
}

// Create persists a new recipient.
func (r *PostgresRecipientRepository) Create(ctx context.Context, recipient *Recipient) error {
	query := `
		INSERT INTO recipients (id, name, line_user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		recipient.ID,
		recipient.Name,
		recipient.LineUserID,
	)
	return err
}

// Ensure PostgresRecipientRepository implements RecipientRepository interface.
var _ RecipientRepository = (*PostgresRecipientRepository)(nil)
