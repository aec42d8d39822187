package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"workaccess/internal/platform/config"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/requestcontext"
)

// User is the authenticated account view returned from login.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId"`
}

// Service handles password login against the env-seeded admin account.
// Swapping in a real user store means replacing the lookup, not the flow.
type Service struct {
	tokens           *TokenService
	lockouts         LockoutStore
	lockoutThreshold int
	logger           *slog.Logger

	adminUser    User
	adminPwdHash []byte
}

func NewService(cfg config.Config, tokens *TokenService, lockouts LockoutStore, logger *slog.Logger) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		tokens:           tokens,
		lockouts:         lockouts,
		lockoutThreshold: cfg.LockoutThreshold,
		logger:           logger,
		adminUser: User{
			ID:        "admin-1",
			Email:     strings.ToLower(cfg.Admin.Email),
			Role:      cfg.Admin.Role,
			CompanyID: cfg.Admin.CompanyID,
		},
		adminPwdHash: hash,
	}, nil
}

// Login verifies credentials and issues a token. Too many recent failures
// for the same email+IP lock the attempt out before the password is even
// checked, and failed attempts never reveal whether the account exists.
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, "", apperrors.New(apperrors.CodeValidation, "email and password are required")
	}

	key := email + "|" + clientIP
	if count, err := s.lockouts.Count(ctx, key); err != nil {
		s.logger.Error("lockout check failed", "error", err)
	} else if count >= s.lockoutThreshold {
		return User{}, "", apperrors.New(apperrors.CodeRateLimited, "too many failed login attempts, try again later")
	}

	fail := func() (User, string, error) {
		if _, err := s.lockouts.Fail(ctx, key); err != nil {
			s.logger.Error("lockout record failed", "error", err)
		}
		return User{}, "", apperrors.New(apperrors.CodeInvalidCredentials, "invalid credentials")
	}

	if email != s.adminUser.Email {
		return fail()
	}
	if err := bcrypt.CompareHashAndPassword(s.adminPwdHash, []byte(password)); err != nil {
		return fail()
	}

	if err := s.lockouts.Reset(ctx, key); err != nil {
		s.logger.Error("lockout reset failed", "error", err)
	}

	token, err := s.tokens.Issue(s.adminUser.ID, s.adminUser.Email, s.adminUser.Role, s.adminUser.CompanyID, requestcontext.Now(ctx))
	if err != nil {
		return User{}, "", err
	}
	return s.adminUser, token, nil
}
