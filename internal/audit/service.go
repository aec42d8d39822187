package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"workaccess/internal/ids"
	"workaccess/internal/ledger"
	"workaccess/internal/platform/metrics"
	"workaccess/internal/storage"
	"workaccess/pkg/requestcontext"
)

const entityName = "audit"

// Service owns the audit ledger for all tenants.
type Service struct {
	ledger  *ledger.Ledger[Entry]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store storage.TenantStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		ledger:  ledger.New[Entry](store, entityName),
		logger:  logger,
		metrics: m,
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

// Append assigns id and timestamp and appends the entry to the company's
// ledger. The company id must be non-empty; everything else defaults
// permissively so a sloppy caller still leaves a trace.
func (s *Service) Append(ctx context.Context, rec Record) (Entry, error) {
	now := requestcontext.Now(ctx)
	entry := Entry{
		ID:         ids.NewAt("aud", now),
		TS:         ledger.Timestamp(now),
		CompanyID:  strings.TrimSpace(rec.CompanyID),
		ActorRole:  orUnknown(rec.ActorRole),
		Action:     orUnknown(rec.Action),
		EntityType: orUnknown(rec.EntityType),
		EntityID:   rec.EntityID,
		Meta:       rec.Meta,
		Before:     rec.Before,
		After:      rec.After,
	}
	if err := s.ledger.Append(ctx, entry.CompanyID, entry); err != nil {
		return Entry{}, err
	}
	if s.metrics != nil {
		s.metrics.AuditAppends.Inc()
	}
	s.logger.Debug("audit entry appended",
		"company_id", entry.CompanyID,
		"action", entry.Action,
		"entity_type", entry.EntityType,
	)
	return entry, nil
}

// ListQuery narrows an audit listing. All filters are conjunctive; zero
// values mean "no filter". From and To bound the entry timestamp inclusively.
type ListQuery struct {
	Limit        int
	Cursor       string
	ActorRole    string
	ActionPrefix string
	EntityType   string
	EntityID     string
	From         *time.Time
	To           *time.Time
}

// Page is one newest-first page of audit entries.
type Page struct {
	Items      []Entry `json:"items"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// List returns a filtered, cursor-paginated page of the company's trail.
func (s *Service) List(ctx context.Context, companyID string, q ListQuery) (Page, error) {
	var fromTS, toTS string
	if q.From != nil {
		fromTS = ledger.Timestamp(*q.From)
	}
	if q.To != nil {
		toTS = ledger.Timestamp(*q.To)
	}

	page, err := s.ledger.List(ctx, companyID, ledger.Query[Entry]{
		Limit:  q.Limit,
		Cursor: q.Cursor,
		Match: func(e Entry) bool {
			if q.ActorRole != "" && e.ActorRole != q.ActorRole {
				return false
			}
			if q.ActionPrefix != "" && !strings.HasPrefix(e.Action, q.ActionPrefix) {
				return false
			}
			if q.EntityType != "" && e.EntityType != q.EntityType {
				return false
			}
			if q.EntityID != "" && e.EntityID != q.EntityID {
				return false
			}
			if fromTS != "" && e.TS < fromTS {
				return false
			}
			if toTS != "" && e.TS > toTS {
				return false
			}
			return true
		},
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Items: page.Items, NextCursor: page.NextCursor}, nil
}
