package tenant

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workaccess/pkg/apperrors"
	"workaccess/pkg/domain"
	"workaccess/pkg/requestcontext"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantCode apperrors.Code
	}{
		{name: "valid", raw: "acme", want: "acme"},
		{name: "valid with dash and underscore", raw: "globex-1_x", want: "globex-1_x"},
		{name: "trims whitespace", raw: "  acme  ", want: "acme"},
		{name: "empty", raw: "", wantCode: apperrors.CodeTenantMissing},
		{name: "whitespace only", raw: "   ", wantCode: apperrors.CodeTenantMissing},
		{name: "too short", raw: "a", wantCode: apperrors.CodeTenantInvalid},
		{name: "too long", raw: strings.Repeat("a", 65), wantCode: apperrors.CodeTenantInvalid},
		{name: "illegal chars", raw: "../etc", wantCode: apperrors.CodeTenantInvalid},
		{name: "spaces inside", raw: "ac me", wantCode: apperrors.CodeTenantInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, appErr := Sanitize(tt.raw)
			if tt.wantCode != "" {
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}
			require.Nil(t, appErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-corp", Slugify("Acme Corp!"))
	assert.Equal(t, "globex-1", Slugify("  Globex__1  "))
	assert.Equal(t, "", Slugify("***"))
}

func TestRequireMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	run := func(companyID string) (*httptest.ResponseRecorder, domain.AuthContext) {
		var seen domain.AuthContext
		handler := Require(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.Auth(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		ctx := requestcontext.WithAuth(req.Context(), domain.AuthContext{Role: domain.RoleHR, CompanyID: companyID})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		return rec, seen
	}

	t.Run("missing tenant", func(t *testing.T) {
		rec, _ := run("")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "TENANT_MISSING", body["code"])
	})

	t.Run("invalid tenant", func(t *testing.T) {
		rec, _ := run("a")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "TENANT_INVALID", body["code"])
	})

	t.Run("valid tenant normalized into context", func(t *testing.T) {
		rec, seen := run("  acme  ")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", seen.CompanyID)
	})
}
