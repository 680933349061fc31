package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudcorenow/backend/internal/config"
	"github.com/cloudcorenow/backend/internal/db"
	"github.com/cloudcorenow/backend/internal/model"
	"github.com/cloudcorenow/backend/internal/password"
	"github.com/cloudcorenow/backend/internal/token"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserExists         = errors.New("user already exists")
	ErrStore              = errors.New("store unavailable")
	ErrMisconfigured      = errors.New("auth config invalid")
)

// UserStore is the slice of the credential store the auth flow needs.
type UserStore interface {
	GetActiveUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetActiveUserByID(ctx context.Context, userID string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	TouchLastLogin(ctx context.Context, userID string) error
	InsertAuditLog(ctx context.Context, entry *model.AuditLog) error
}

type AuthService struct {
	store  UserStore
	secret []byte
	log    *slog.Logger
}

func NewAuthService(store UserStore, cfg config.AuthConfig, log *slog.Logger) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	return &AuthService{
		store:  store,
		secret: []byte(cfg.JWTSecret),
		log:    log,
	}, nil
}

// Login verifies the credentials and issues a bearer token. A wrong password
// and an unknown or deactivated email return the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, pw string) (*model.User, string, error) {
	if email == "" || pw == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.store.GetActiveUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			s.audit(ctx, nil, "login_failed", email)
			return nil, "", ErrInvalidCredentials
		}
		s.log.Error("user lookup failed", "error", err)
		return nil, "", ErrStore
	}

	ok, err := password.Verify(pw, user.PasswordHash)
	if err != nil {
		s.log.Error("stored credential unusable", "userId", user.ID, "error", err)
		return nil, "", ErrStore
	}
	if !ok {
		s.audit(ctx, &user.ID, "login_failed", email)
		return nil, "", ErrInvalidCredentials
	}

	// Best-effort; a failed timestamp update must not fail the login.
	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to update last login", "userId", user.ID, "error", err)
	}

	tok, err := token.Issue(user, s.secret)
	if err != nil {
		s.log.Error("token issue failed", "userId", user.ID, "error", err)
		return nil, "", ErrStore
	}

	s.audit(ctx, &user.ID, "login", email)
	return user, tok, nil
}

// Register creates a user with a Scheme-B password hash. Role defaults to
// viewer. The caller never sees the hash.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleViewer
	}
	if !role.Valid() {
		return nil, ErrInvalidInput
	}

	_, err := s.store.GetActiveUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !db.IsNoRows(err) {
		s.log.Error("user lookup failed", "error", err)
		return nil, ErrStore
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, ErrInvalidInput
	}

	user, err := s.store.CreateUser(ctx, &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		s.log.Error("user insert failed", "error", err)
		return nil, ErrStore
	}

	s.audit(ctx, &user.ID, "register", user.Email)
	return user, nil
}

// Authenticate resolves a bearer token to its user, re-checking active
// status against the store rather than trusting the embedded role alone.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*model.User, error) {
	claims, err := token.Verify(tokenStr, s.secret)
	if err != nil {
		// The variants stay in the logs; clients only ever see a
		// uniform rejection.
		s.log.Warn("token rejected", "reason", err)
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetActiveUserByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		s.log.Error("user lookup failed", "error", err)
		return nil, ErrStore
	}
	return user, nil
}

// EnsureBootstrap creates the demo admin account with the fixed bootstrap
// credential if it does not exist yet. A no-op when no email is configured.
func (s *AuthService) EnsureBootstrap(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}

	_, err := s.store.GetActiveUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	_, err = s.store.CreateUser(ctx, &model.User{
		Email:        email,
		PasswordHash: password.BootstrapHash,
		FirstName:    "Bootstrap",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	if err != nil && !db.IsUniqueViolation(err) {
		return err
	}
	return nil
}

func (s *AuthService) audit(ctx context.Context, userID *string, action, detail string) {
	entry := &model.AuditLog{UserID: userID, Action: action, Detail: detail}
	if err := s.store.InsertAuditLog(ctx, entry); err != nil {
		s.log.Warn("audit write failed", "action", action, "error", err)
	}
}
