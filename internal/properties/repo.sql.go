package properties

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casavia/casavia/internal/shared"
)

// Repository defines persistence operations for properties.
type Repository interface {
	Find(ctx context.Context, id int64) (*Property, error)
	FindBySlug(ctx context.Context, slug string) (*Property, error)
	List(ctx context.Context) ([]Property, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Property, error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL. Gallery and
// other_features are jsonb columns.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const propertyColumns = `id, user_id, title, description, price, address, city, state,
	bedrooms, bathrooms, area, type, status,
	COALESCE(other_features, '[]'::jsonb), COALESCE(gallery, '[]'::jsonb),
	slug, created_at, updated_at`

// Find fetches a property by ID.
func (r *PGRepository) Find(ctx context.Context, id int64) (*Property, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	return scanProperty(row)
}

// FindBySlug fetches a property by its slug.
func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*Property, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE slug = $1`, slug)
	return scanProperty(row)
}

// List returns all properties, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Property, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

// ListByOwner returns all properties owned by the user, newest first.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Property, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE user_id = $1 ORDER BY id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

// Save inserts the property when it has no identity yet, otherwise
// updates it. A slug collision surfaces as a conflict.
func (r *PGRepository) Save(ctx context.Context, p *Property) error {
	var err error
	if p.ID == 0 {
		err = r.pool.QueryRow(ctx, `
			INSERT INTO properties (user_id, title, description, price, address, city, state,
				bedrooms, bathrooms, area, type, status, other_features, gallery, slug)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at, updated_at`,
			p.UserID, p.Title, p.Description, p.Price, p.Address, p.City, p.State,
			p.Bedrooms, p.Bathrooms, p.Area, p.Type, p.Status, p.OtherFeatures,
			p.Gallery, p.Slug,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	} else {
		err = r.pool.QueryRow(ctx, `
			UPDATE properties SET title = $2, description = $3, price = $4, address = $5,
				city = $6, state = $7, bedrooms = $8, bathrooms = $9, area = $10,
				type = $11, status = $12, other_features = $13, gallery = $14,
				updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			p.ID, p.Title, p.Description, p.Price, p.Address, p.City, p.State,
			p.Bedrooms, p.Bathrooms, p.Area, p.Type, p.Status, p.OtherFeatures,
			p.Gallery,
		).Scan(&p.UpdatedAt)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.NewConflict("Property slug already in use")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.NewNotFound("Property not found")
		}
		return err
	}
	return nil
}

// Delete removes a property.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}

func scanProperty(row pgx.Row) (*Property, error) {
	var p Property
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Price,
		&p.Address, &p.City, &p.State, &p.Bedrooms, &p.Bathrooms, &p.Area,
		&p.Type, &p.Status, &p.OtherFeatures, &p.Gallery, &p.Slug,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewNotFound("Property not found")
		}
		return nil, err
	}
	return &p, nil
}

func collectProperties(rows pgx.Rows) ([]Property, error) {
	defer rows.Close()
	var out []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
