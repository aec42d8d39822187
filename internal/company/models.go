// Package company owns the per-tenant profile singleton: identity fields,
// trial window, and subscription state. The subscription/trial gate and the
// billing endpoints both read and mutate it through this package.
package company

import (
	"strings"
	"time"

	"workaccess/internal/ledger"
)

// Subscription status values. Anything else is treated as "none".
const (
	SubscriptionNone     = "none"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Profile is the tenant's singleton document. Date fields are ISO-8601
// strings; empty means unset.
type Profile struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	ICO       string `json:"ico"`
	DIC       string `json:"dic"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	// ContactName is derived from the admin email at registration and can be
	// overwritten by a later profile update.
	ContactName string `json:"contactName,omitempty"`

	TrialStart string `json:"trialStart"`
	TrialEnd   string `json:"trialEnd"`

	SubscriptionStatus string `json:"subscriptionStatus"`
	Plan               string `json:"plan"`
	PaymentProvider    string `json:"paymentProvider"`
	SubscriptionStart  string `json:"subscriptionStart"`
	SubscriptionEnd    string `json:"subscriptionEnd"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func defaultProfile(companyID string, now time.Time) Profile {
	ts := ledger.Timestamp(now)
	return Profile{
		CompanyID:          companyID,
		Country:            "CZ",
		SubscriptionStatus: SubscriptionNone,
		Plan:               "free",
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
}

// parseISO is deliberately permissive: a date that does not parse behaves
// as unset, because a malformed profile must never lock a tenant out.
func parseISO(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SubscriptionActiveAt reports whether a paid subscription covers the given
// instant: status active and an end date in the future. A missing end date
// counts as inactive so billing state is always explicit.
func (p Profile) SubscriptionActiveAt(now time.Time) bool {
	if strings.ToLower(strings.TrimSpace(p.SubscriptionStatus)) != SubscriptionActive {
		return false
	}
	end, ok := parseISO(p.SubscriptionEnd)
	return ok && end.After(now)
}

// TrialExpiredAt reports whether the trial window has lapsed. An unset or
// unparseable trial end means no trial is configured and nothing expires.
func (p Profile) TrialExpiredAt(now time.Time) bool {
	end, ok := parseISO(p.TrialEnd)
	return ok && end.Before(now)
}

// LockedAt is the compound billing state surfaced by GET /billing/status.
func (p Profile) LockedAt(now time.Time) bool {
	return p.TrialExpiredAt(now) && !p.SubscriptionActiveAt(now)
}
