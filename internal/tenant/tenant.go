// Package tenant enforces the tenant boundary. Every storage access
// downstream is keyed by the company id validated here, so this check is the
// whole system's isolation guarantee.
package tenant

import (
	"regexp"
	"strings"

	"workaccess/pkg/apperrors"
)

// idPattern is the only shape a tenant id may take: safe for directory and
// file names.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,64}$`)

// Sanitize validates and normalizes a raw company id. Empty input yields
// TENANT_MISSING, a pattern mismatch TENANT_INVALID; no silent defaults.
func Sanitize(raw string) (string, *apperrors.Error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", apperrors.New(apperrors.CodeTenantMissing, "missing companyId (tenant context is required)")
	}
	if !idPattern.MatchString(s) {
		return "", apperrors.New(apperrors.CodeTenantInvalid, "invalid companyId, allowed: 2-64 chars [A-Za-z0-9_-]")
	}
	return s, nil
}

// Slugify derives a tenant id from free-form input (registration): lowercase,
// non-alphanumerics collapsed to single dashes, edges trimmed. May return ""
// when nothing usable remains.
func Slugify(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
