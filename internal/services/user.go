package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"github.com/medilearn/apiserver/internal/store"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate checks an email/password pair. A bcrypt comparison runs whether
// or not the email exists. Legacy plain-text credentials are replaced with a
// bcrypt hash after a successful match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if _, costErr := bcrypt.Cost([]byte(user.PasswordHash)); costErr == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return types.User{}, ErrInvalidCredentials
		}
		return user, nil
	}

	_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
	if user.PasswordHash == "" || subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(password)) != 1 {
		return types.User{}, ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err == nil {
		err = s.repo.UpdatePasswordHash(ctx, user.ID, string(hashed))
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("failed to upgrade legacy credential")
	} else {
		user.PasswordHash = string(hashed)
	}
	return user, nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email, name, password string) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return types.User{}, err
	}
	return s.repo.Create(ctx, types.User{
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
	})
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("medilearn-dummy-password"), s.cost)
	})
	return s.dummyHash
}

// NormalizeEmail trims and lower-cases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
