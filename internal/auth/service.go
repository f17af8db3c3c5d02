package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"

	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/rbac"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
	"github.com/casavia/casavia/internal/users"
)

// Auditor records account events. A nil auditor disables the trail.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates registration, login, logout and the authenticated
// profile. It composes the user entity service with the session issuer
// and the permission resolver.
type Service struct {
	users    *users.Service
	rbac     *rbac.Service
	sessions *shared.SessionManager
	repo     Repository
	audit    Auditor
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(users *users.Service, rbac *rbac.Service, sessions *shared.SessionManager, repo Repository, audit Auditor, logger *slog.Logger) *Service {
	return &Service{users: users, rbac: rbac, sessions: sessions, repo: repo, audit: audit, logger: logger}
}

// Register creates a new account. A case-insensitive duplicate email is
// rejected with a conflict before any entity is built. The `_role` input
// field is accepted by validation but intentionally ignored: role
// attachment at registration was never implemented.
func (s *Service) Register(ctx context.Context, input record.Values, photo *storage.Upload) (*users.User, error) {
	email := cast.ToString(input["email"])
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, shared.WrapUpstream(err, "email lookup failed")
	}
	if exists {
		return nil, shared.NewConflict("Email already in use")
	}

	user, err := s.users.UpdateOrCreate(ctx, nil, input, photo)
	if err != nil {
		return nil, err
	}
	user, err = s.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  user.ID,
			Action:   "user.registered",
			Entity:   "user",
			EntityID: cast.ToString(user.ID),
		})
		if err != nil && s.logger != nil {
			s.logger.Warn("record audit log", slog.String("action", "user.registered"), slog.Any("error", err))
		}
	}
	return user, nil
}

// Login checks the credentials and issues an opaque bearer token. The
// session is also recorded in PostgreSQL for auditing; a failed record
// is logged, not surfaced.
func (s *Service) Login(ctx context.Context, email, password, ip, ua string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return "", shared.NewUnauthenticated("Email/Password combination not correct")
		}
		return "", shared.WrapUpstream(err, "user lookup failed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", shared.NewUnauthenticated("Email/Password combination not correct")
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return "", shared.WrapUpstream(err, "session issuance failed")
	}
	if s.repo != nil {
		expiresAt := time.Now().Add(s.sessions.TTL())
		if err := s.repo.CreateSession(ctx, token, user.ID, expiresAt, ip, ua); err != nil && s.logger != nil {
			s.logger.Warn("record session", slog.Any("error", err))
		}
	}
	return token, nil
}

// Logout invalidates the presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return shared.WrapUpstream(err, "session invalidation failed")
	}
	if s.repo != nil {
		if err := s.repo.DeleteSession(ctx, token); err != nil && s.logger != nil {
			s.logger.Warn("remove session record", slog.Any("error", err))
		}
	}
	return nil
}

// Me fetches the authenticated user together with the freshly resolved
// permission and role sets.
func (s *Service) Me(ctx context.Context, userID int64) (*users.User, rbac.Grants, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, rbac.Grants{}, err
	}
	grants, err := s.rbac.Resolve(ctx, userID)
	if err != nil {
		return nil, rbac.Grants{}, shared.WrapUpstream(err, "permission resolution failed")
	}
	return user, grants, nil
}
