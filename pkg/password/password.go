package password

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexsuite/authcore/pkg/authflow"
)

// dummyHash is compared against when the user does not exist so the
// failure path costs the same as a real comparison.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UserStorage defines the lookups required for password login.
type UserStorage interface {
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

// User is the stored account record.
type User struct {
	ID       uuid.UUID
	Username string
}

// Service verifies username/password credentials against stored bcrypt
// hashes. It issues no session itself; the caller hands the resulting
// identity to the session manager.
type Service struct {
	storage UserStorage
	cost    int
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithCost sets the bcrypt cost used by HashPassword.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a password login service.
func New(storage UserStorage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		cost:    bcrypt.DefaultCost,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies the credentials and returns the account's
// identity. Every failure maps to ErrInvalidCredentials so responses
// cannot be used to enumerate accounts, and the bcrypt comparison runs
// whether or not the user exists.
func (s *Service) Authenticate(ctx context.Context, username, password string) (authflow.Identity, error) {
	user, lookupErr := s.storage.GetUserByUsername(ctx, username)

	hash := dummyHash
	if lookupErr == nil {
		stored, err := s.storage.GetPasswordHash(ctx, user.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "password hash lookup failed", slog.Any("error", err))
			lookupErr = err
		} else {
			hash = stored
		}
	}

	compareErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if lookupErr != nil || compareErr != nil {
		return authflow.Identity{}, ErrInvalidCredentials
	}

	return authflow.Identity{UserID: user.ID, Username: user.Username}, nil
}

// HashPassword produces a bcrypt hash for storage at registration or
// password-change time.
func (s *Service) HashPassword(password string) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("password: hashing failed: %w", err)
	}
	return hash, nil
}
