package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workaccess/internal/platform/config"
	"workaccess/pkg/apperrors"
)

func testConfig() config.Config {
	return config.Config{
		LockoutThreshold: 3,
		LockoutWindow:    time.Minute,
		Admin: config.AdminUser{
			Email:     "admin@workaccess.local",
			Password:  "s3cret",
			Role:      "hr",
			CompanyID: "demo-company",
		},
	}
}

func newLoginService(t *testing.T) *Service {
	t.Helper()
	cfg := testConfig()
	tokens := NewTokenService("unit-test-signing-key", time.Hour)
	svc, err := NewService(cfg, tokens, NewInMemoryLockoutStore(cfg.LockoutWindow), testLogger())
	require.NoError(t, err)
	return svc
}

func TestLoginSuccess(t *testing.T) {
	svc := newLoginService(t)

	user, token, err := svc.Login(context.Background(), "Admin@WorkAccess.local", "s3cret", "1.2.3.4")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin@workaccess.local", user.Email)
	assert.Equal(t, "demo-company", user.CompanyID)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	svc := newLoginService(t)

	_, _, err := svc.Login(context.Background(), "", "pw", "1.2.3.4")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := newLoginService(t)

	for _, c := range []struct{ email, password string }{
		{"nobody@example.com", "s3cret"},
		{"admin@workaccess.local", "wrong"},
	} {
		_, _, err := svc.Login(context.Background(), c.email, c.password, "1.2.3.4")
		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
	}
}

func TestLoginLockoutAfterThreshold(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login(ctx, "admin@workaccess.local", "wrong", "1.2.3.4")
		require.Error(t, err)
	}

	// Even correct credentials are refused while locked out.
	_, _, err := svc.Login(ctx, "admin@workaccess.local", "s3cret", "1.2.3.4")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeRateLimited, appErr.Code)

	// A different client IP is unaffected.
	_, _, err = svc.Login(ctx, "admin@workaccess.local", "s3cret", "5.6.7.8")
	require.NoError(t, err)
}

func TestLoginResetsLockoutOnSuccess(t *testing.T) {
	svc := newLoginService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := svc.Login(ctx, "admin@workaccess.local", "wrong", "1.2.3.4")
		require.Error(t, err)
	}
	_, _, err := svc.Login(ctx, "admin@workaccess.local", "s3cret", "1.2.3.4")
	require.NoError(t, err)

	// Counter is back to zero: two more failures stay below the threshold.
	for i := 0; i < 2; i++ {
		_, _, err := svc.Login(ctx, "admin@workaccess.local", "wrong", "1.2.3.4")
		require.Error(t, err)
	}
	_, _, err = svc.Login(ctx, "admin@workaccess.local", "s3cret", "1.2.3.4")
	require.NoError(t, err)
}
