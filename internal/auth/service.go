package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

const minPasswordLen = 8

type Service struct {
	users  UserStore
	guard  *Guard
	tokens *TokenIssuer
	events tenant.EventRecorder
}

func NewService(users UserStore, guard *Guard, tokens *TokenIssuer, events tenant.EventRecorder) *Service {
	return &Service{users: users, guard: guard, tokens: tokens, events: events}
}

type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register creates an account. A plain registration inside a restaurant app
// binds the customer to that restaurant; role overrides are reserved to
// platform admins and never bind.
func (s *Service) Register(ctx context.Context, in RegisterInput, caller *models.User, t *models.Tenant) (*Session, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ErrInvalidRequest.WithMessage("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperror.ErrInvalidRequest.WithMessage(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	role := models.RoleCustomer
	if in.Role != "" {
		if caller == nil || caller.Role != models.RolePlatformAdmin {
			return nil, apperror.ErrForbidden.WithDetails("role override requires a platform admin")
		}
		if !in.Role.Valid() {
			return nil, apperror.ErrInvalidRequest.WithMessage("unknown role")
		}
		role = in.Role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		Role:         role,
	}
	if in.Role == "" && t != nil {
		id := t.ID
		u.DefaultTenantID = &id
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, apperror.ErrEmailTaken
		}
		return nil, err
	}

	return s.session(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput, t *models.Tenant, ip string) (*Session, error) {
	email := normalizeEmail(in.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		s.recordInvalidCredentials(email, t, ip)
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.guard.CheckLogin(ctx, LoginAttempt{User: u, Tenant: t, IP: ip}); err != nil {
		return nil, err
	}

	return s.session(u)
}

// SetDefaultTenant is the platform-admin correction path for a customer's
// restaurant binding.
func (s *Service) SetDefaultTenant(ctx context.Context, caller *models.User, userID int64, tenantID *int64) (*models.User, error) {
	if caller == nil || caller.Role != models.RolePlatformAdmin {
		return nil, apperror.ErrForbidden
	}
	u, err := s.users.SetDefaultTenant(ctx, userID, tenantID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperror.ErrUserNotFound
	}
	return u, err
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *Service) recordInvalidCredentials(email string, t *models.Tenant, ip string) {
	if s.events == nil {
		return
	}
	evt := models.SecurityEvent{
		Action: models.ActionInvalidCredentials,
		Email:  email,
		Reason: "invalid email or password",
		IP:     ip,
		At:     time.Now(),
	}
	if t != nil {
		id := t.ID
		evt.TenantID = &id
	}
	s.events.Record(evt)
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
