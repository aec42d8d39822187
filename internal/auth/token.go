// Package auth implements identity resolution: bearer token issuing and
// verification, the request identity middleware, and password login with
// lockout.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"workaccess/pkg/apperrors"
)

// Claims are the stateless credential contents. CompanyID is mandatory for
// a token to be usable; verification enforces it.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewTokenService(signingKey string, ttl time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     "workaccess",
		ttl:        ttl,
	}
}

// Issue signs a token for the given identity, valid from now for the
// configured TTL.
func (s *TokenService) Issue(userID, email, role, companyID string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:     email,
		Role:      role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Verify parses and validates a token. Every failure mode collapses to
// TOKEN_INVALID except a structurally valid token lacking a tenant claim,
// which is TOKEN_TENANT_MISSING: such a token can never be scoped to a data
// partition and is unusable.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.New(apperrors.CodeTokenInvalid, "token has expired")
		}
		return nil, apperrors.New(apperrors.CodeTokenInvalid, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.New(apperrors.CodeTokenInvalid, "invalid token claims")
	}
	if claims.CompanyID == "" {
		return nil, apperrors.New(apperrors.CodeTokenTenantMissing, "token carries no company scope")
	}
	return claims, nil
}
