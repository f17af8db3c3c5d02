package users

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casavia/casavia/internal/shared"
)

// Repository defines persistence operations for users.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, name, title, email, password, phone_number, address,
	COALESCE(address_2, ''), city, state, country, zip_code, about,
	COALESCE(profile_photo, ''), COALESCE(landline, ''), COALESCE(facebook, ''),
	COALESCE(twitter, ''), COALESCE(linkedin, ''), COALESCE(google_plus, ''),
	COALESCE(instagram, ''), COALESCE(tumbler, ''), created_at, updated_at`

// FindByID fetches a user by ID.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail fetches a user by email, matched case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

// EmailExists checks for an account with the same email, case-insensitively.
func (r *PGRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	return exists, err
}

// Save inserts the user when it has no identity yet, otherwise updates it.
// Empty optional columns are stored as NULL so the schema default applies.
func (r *PGRepository) Save(ctx context.Context, user *User) error {
	var err error
	if user.ID == 0 {
		err = r.pool.QueryRow(ctx, `
			INSERT INTO users (name, title, email, password, phone_number, address, address_2,
				city, state, country, zip_code, about, profile_photo, landline, facebook,
				twitter, linkedin, google_plus, instagram, tumbler)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12,
				NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''), NULLIF($16, ''),
				NULLIF($17, ''), NULLIF($18, ''), NULLIF($19, ''), NULLIF($20, ''))
			RETURNING id, created_at, updated_at`,
			user.Name, user.Title, user.Email, user.PasswordHash, user.PhoneNumber,
			user.Address, user.Address2, user.City, user.State, user.Country,
			user.ZipCode, user.About, user.ProfilePhoto, user.Landline, user.Facebook,
			user.Twitter, user.LinkedIn, user.GooglePlus, user.Instagram, user.Tumbler,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	} else {
		err = r.pool.QueryRow(ctx, `
			UPDATE users SET name = $2, title = $3, email = $4, password = $5,
				phone_number = $6, address = $7, address_2 = NULLIF($8, ''), city = $9,
				state = $10, country = $11, zip_code = $12, about = $13,
				profile_photo = NULLIF($14, ''), landline = NULLIF($15, ''),
				facebook = NULLIF($16, ''), twitter = NULLIF($17, ''),
				linkedin = NULLIF($18, ''), google_plus = NULLIF($19, ''),
				instagram = NULLIF($20, ''), tumbler = NULLIF($21, ''), updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			user.ID, user.Name, user.Title, user.Email, user.PasswordHash,
			user.PhoneNumber, user.Address, user.Address2, user.City, user.State,
			user.Country, user.ZipCode, user.About, user.ProfilePhoto, user.Landline,
			user.Facebook, user.Twitter, user.LinkedIn, user.GooglePlus,
			user.Instagram, user.Tumbler,
		).Scan(&user.UpdatedAt)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.NewConflict("Email already in use")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.NewNotFound("User not found")
		}
		return err
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Title, &u.Email, &u.PasswordHash,
		&u.PhoneNumber, &u.Address, &u.Address2, &u.City, &u.State, &u.Country,
		&u.ZipCode, &u.About, &u.ProfilePhoto, &u.Landline, &u.Facebook,
		&u.Twitter, &u.LinkedIn, &u.GooglePlus, &u.Instagram, &u.Tumbler,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewNotFound("User not found")
		}
		return nil, err
	}
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
