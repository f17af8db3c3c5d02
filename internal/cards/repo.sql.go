package cards

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casavia/casavia/internal/shared"
)

// Repository defines persistence operations for cards.
type Repository interface {
	Find(ctx context.Context, id int64) (*Card, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Card, error)
	Save(ctx context.Context, card *Card) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const cardColumns = `id, user_id, name, card_number, expiration_month, expiration_year, created_at, updated_at`

// Find fetches a card by ID.
func (r *PGRepository) Find(ctx context.Context, id int64) (*Card, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)
	var c Card
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CardNumber,
		&c.ExpirationMonth, &c.ExpirationYear, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewNotFound("Card not found")
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns all cards owned by the user, newest first.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CardNumber,
			&c.ExpirationMonth, &c.ExpirationYear, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Save inserts the card when it has no identity yet, otherwise updates it.
// The owning user never changes on update.
func (r *PGRepository) Save(ctx context.Context, card *Card) error {
	if card.ID == 0 {
		return r.pool.QueryRow(ctx, `
			INSERT INTO cards (user_id, name, card_number, expiration_month, expiration_year)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			card.UserID, card.Name, card.CardNumber, card.ExpirationMonth, card.ExpirationYear,
		).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	}
	err := r.pool.QueryRow(ctx, `
		UPDATE cards SET name = $2, card_number = $3, expiration_month = $4,
			expiration_year = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		card.ID, card.Name, card.CardNumber, card.ExpirationMonth, card.ExpirationYear,
	).Scan(&card.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.NewNotFound("Card not found")
	}
	return err
}

// Delete removes a card.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
