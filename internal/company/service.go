package company

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"workaccess/internal/ledger"
	"workaccess/internal/storage"
	"workaccess/internal/tenant"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/email"
	"workaccess/pkg/requestcontext"
)

const entityName = "company"

// TrialDays is the evaluation window granted at registration.
const TrialDays = 14

type Service struct {
	store  storage.TenantStore
	logger *slog.Logger
}

func NewService(store storage.TenantStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Profile loads the tenant's profile, returning a default (unsaved) one when
// none exists yet.
func (s *Service) Profile(ctx context.Context, companyID string) (Profile, error) {
	if strings.TrimSpace(companyID) == "" {
		return Profile{}, apperrors.New(apperrors.CodeTenantMissing, "missing companyId")
	}
	raw, err := s.store.Read(ctx, companyID, entityName)
	if err != nil {
		return Profile{}, err
	}
	if len(raw) == 0 {
		return defaultProfile(companyID, requestcontext.Now(ctx)), nil
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("company: decode profile for %s: %w", companyID, err)
	}
	if p.CompanyID == "" {
		p.CompanyID = companyID
	}
	return p, nil
}

// Mutate applies fn to the profile under the storage key lock and persists
// the result. Returns the before and after snapshots for audit trails.
func (s *Service) Mutate(ctx context.Context, companyID string, fn func(*Profile)) (before, after Profile, err error) {
	if strings.TrimSpace(companyID) == "" {
		return Profile{}, Profile{}, apperrors.New(apperrors.CodeTenantMissing, "missing companyId")
	}
	now := requestcontext.Now(ctx)
	err = s.store.Update(ctx, companyID, entityName, func(current []byte) ([]byte, error) {
		p := defaultProfile(companyID, now)
		if len(current) > 0 {
			if err := json.Unmarshal(current, &p); err != nil {
				return nil, fmt.Errorf("company: decode profile for %s: %w", companyID, err)
			}
		}
		before = p
		fn(&p)
		p.CompanyID = companyID
		p.UpdatedAt = ledger.Timestamp(now)
		after = p
		return json.Marshal(p)
	})
	if err != nil {
		return Profile{}, Profile{}, err
	}
	return before, after, nil
}

// RegisterRequest is the public self-service registration payload.
type RegisterRequest struct {
	Name          string `json:"name"`
	CompanyID     string `json:"companyId"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

// RegisterResult reports the created tenant and its trial window.
type RegisterResult struct {
	OK         bool   `json:"ok"`
	CompanyID  string `json:"companyId"`
	TrialStart string `json:"trialStart"`
	TrialEnd   string `json:"trialEnd"`
}

// Register creates a new tenant partition with a fresh trial window. The
// requested company id is slugified first; an existing tenant is a conflict,
// never an overwrite.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return RegisterResult{}, apperrors.New(apperrors.CodeValidation, "missing field: name")
	}
	if strings.TrimSpace(req.CompanyID) == "" {
		return RegisterResult{}, apperrors.New(apperrors.CodeValidation, "missing field: companyId")
	}
	if strings.TrimSpace(req.AdminEmail) == "" {
		return RegisterResult{}, apperrors.New(apperrors.CodeValidation, "missing field: adminEmail")
	}
	if strings.TrimSpace(req.AdminPassword) == "" {
		return RegisterResult{}, apperrors.New(apperrors.CodeValidation, "missing field: adminPassword")
	}

	slug := tenant.Slugify(req.CompanyID)
	companyID, appErr := tenant.Sanitize(slug)
	if appErr != nil {
		return RegisterResult{}, apperrors.New(apperrors.CodeValidation, "invalid companyId")
	}

	exists, err := s.store.TenantExists(ctx, companyID)
	if err != nil {
		return RegisterResult{}, err
	}
	if exists {
		return RegisterResult{}, apperrors.New(apperrors.CodeConflict, "company already exists")
	}
	if err := s.store.EnsureTenant(ctx, companyID); err != nil {
		return RegisterResult{}, err
	}

	now := requestcontext.Now(ctx)
	trialStart := ledger.Timestamp(now)
	trialEnd := ledger.Timestamp(now.Add(TrialDays * 24 * time.Hour))

	if _, _, err := s.Mutate(ctx, companyID, func(p *Profile) {
		p.Name = strings.TrimSpace(req.Name)
		p.Email = strings.ToLower(strings.TrimSpace(req.AdminEmail))
		p.ContactName = email.DisplayName(p.Email)
		p.TrialStart = trialStart
		p.TrialEnd = trialEnd
	}); err != nil {
		return RegisterResult{}, err
	}

	s.logger.Info("company registered", "company_id", companyID, "trial_end", trialEnd)
	return RegisterResult{OK: true, CompanyID: companyID, TrialStart: trialStart, TrialEnd: trialEnd}, nil
}
