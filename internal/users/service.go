package users

import (
	"context"
	"log/slog"

	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"

	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

// ProfilePhotoBucket is where profile photos are stored.
const ProfilePhotoBucket = "profile_photos"

// Service builds and persists users. Every operation takes its subject as
// an explicit argument; the service itself holds no per-request state.
type Service struct {
	repo   Repository
	blobs  storage.Store
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, blobs storage.Store, logger *slog.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// UpdateOrCreate projects input onto the user (a nil user starts a new
// one) and runs the excluded-column hooks: the password is hashed before
// assignment, and a supplied photo replaces the stored blob. The result
// is not persisted; call Save.
func (s *Service) UpdateOrCreate(ctx context.Context, user *User, input record.Values, photo *storage.Upload, exclude ...string) (*User, error) {
	if user == nil {
		user = &User{}
	}

	record.Apply(user, Schema, input, exclude...)

	if input.Has("password") {
		hash, err := bcrypt.GenerateFromPassword([]byte(cast.ToString(input["password"])), bcrypt.DefaultCost)
		if err != nil {
			return nil, shared.WrapUpstream(err, "password hashing failed")
		}
		user.PasswordHash = string(hash)
	}

	if photo != nil {
		path, err := s.replaceProfilePhoto(ctx, user.ProfilePhoto, *photo)
		if err != nil {
			return nil, err
		}
		user.ProfilePhoto = path
	}

	return user, nil
}

// Save persists the user unconditionally.
func (s *Service) Save(ctx context.Context, user *User) (*User, error) {
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID fetches a user by ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByEmail fetches a user by email, matched case-insensitively.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// EmailExists reports whether an account already uses the email,
// case-insensitively.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

// replaceProfilePhoto stores the new photo first, then deletes the
// previous blob. A failed delete is logged, not surfaced; the new photo
// is already safe.
func (s *Service) replaceProfilePhoto(ctx context.Context, previous string, photo storage.Upload) (string, error) {
	path, err := s.blobs.Put(ctx, ProfilePhotoBucket, photo)
	if err != nil {
		return "", shared.WrapUpstream(err, "profile photo upload failed")
	}
	if previous != "" {
		if err := s.blobs.Delete(ctx, previous); err != nil && s.logger != nil {
			s.logger.Warn("delete previous profile photo", slog.String("path", previous), slog.Any("error", err))
		}
	}
	return path, nil
}
