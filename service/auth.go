package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/repository"
	"golang.org/x/crypto/bcrypt"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *entity.AdminUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TokenIssuer signs an access token for an admin.
type TokenIssuer func(userID uuid.UUID, email, role string) (string, time.Time, error)

type LoginResult struct {
	AccessToken string            `json:"access_token"`
	ExpiresAt   time.Time         `json:"expires_at"`
	User        *entity.AdminUser `json:"user"`
}

type AdminInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

const minPasswordLength = 8

// dummyHash is compared against for unknown emails so both paths cost one bcrypt round.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("charcoal-cms-dummy-password"), bcrypt.DefaultCost)
	return hash
})

type AuthService struct {
	users  AdminUserRepository
	issue  TokenIssuer
	logger Logger
	now    func() time.Time
	cost   int
}

func NewAuthService(users AdminUserRepository, issue TokenIssuer, logger Logger) *AuthService {
	return &AuthService{users: users, issue: issue, logger: logger, now: time.Now, cost: bcrypt.DefaultCost}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, BadRequest("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal("failed to load user", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, Unauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, Unauthorized("invalid email or password")
	}

	token, expiresAt, err := s.issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, Internal("failed to issue token", err)
	}
	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.WarningWithContextf(ctx, "[Auth] Failed to record login for %s: %v", user.ID, err)
	}
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, caller Caller) (*entity.AdminUser, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("account no longer exists")
		}
		return nil, Internal("failed to load user", err)
	}
	return user, nil
}

// CreateAdmin provisions an account. It is used by the admin CLI, not the HTTP API.
func (s *AuthService) CreateAdmin(ctx context.Context, in AdminInput) (*entity.AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, BadRequest("email is invalid")
	}
	name, err := requireText("name", in.Name, 255)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, BadRequest("password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = entity.AdminRoleEditor
	}
	if role != entity.AdminRoleOwner && role != entity.AdminRoleEditor {
		return nil, BadRequest("role must be owner or editor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, Internal("failed to hash password", err)
	}
	user := &entity.AdminUser{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nameTaken("email", email)
		}
		return nil, Internal("failed to create admin", err)
	}
	return user, nil
}
