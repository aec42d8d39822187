// Package outbox keeps the per-tenant log of sent messages. It shares the
// capped-ledger machinery with the audit trail; delivery itself happens
// elsewhere, this is only the record of it.
package outbox

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"workaccess/internal/ids"
	"workaccess/internal/ledger"
	"workaccess/internal/storage"
	"workaccess/pkg/requestcontext"
)

const entityName = "outbox"

// Entry records one outbound message.
type Entry struct {
	ID             string `json:"id"`
	TS             string `json:"ts"`
	CompanyID      string `json:"companyId"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	MessagePreview string `json:"messagePreview"`
	DocumentID     string `json:"documentId"`
	Filename       string `json:"filename"`
	Transport      string `json:"transport"`
	MessageID      string `json:"messageId"`
}

func (e Entry) RecordTS() string { return e.TS }
func (e Entry) RecordID() string { return e.ID }

// Record carries the caller-supplied fields; id and timestamp are assigned
// on append.
type Record struct {
	CompanyID      string
	To             string
	Subject        string
	MessagePreview string
	DocumentID     string
	Filename       string
	Transport      string
	MessageID      string
}

type Service struct {
	ledger *ledger.Ledger[Entry]
	logger *slog.Logger
}

func NewService(store storage.TenantStore, logger *slog.Logger) *Service {
	return &Service{ledger: ledger.New[Entry](store, entityName), logger: logger}
}

// Append records a sent message in the company's outbox.
func (s *Service) Append(ctx context.Context, rec Record) (Entry, error) {
	now := requestcontext.Now(ctx)
	entry := Entry{
		ID:             ids.NewAt("out", now),
		TS:             ledger.Timestamp(now),
		CompanyID:      strings.TrimSpace(rec.CompanyID),
		To:             rec.To,
		Subject:        rec.Subject,
		MessagePreview: rec.MessagePreview,
		DocumentID:     rec.DocumentID,
		Filename:       rec.Filename,
		Transport:      rec.Transport,
		MessageID:      rec.MessageID,
	}
	if err := s.ledger.Append(ctx, entry.CompanyID, entry); err != nil {
		return Entry{}, err
	}
	s.logger.Debug("outbox entry appended", "company_id", entry.CompanyID, "to", entry.To)
	return entry, nil
}

// ListQuery narrows an outbox listing. To matches case-insensitively as a
// substring; DocumentID matches exactly; From/To bound the timestamp.
type ListQuery struct {
	Limit      int
	Cursor     string
	To         string
	DocumentID string
	From       *time.Time
	ToDate     *time.Time
}

type Page struct {
	Items      []Entry `json:"items"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

func (s *Service) List(ctx context.Context, companyID string, q ListQuery) (Page, error) {
	toFilter := strings.ToLower(q.To)
	var fromTS, toTS string
	if q.From != nil {
		fromTS = ledger.Timestamp(*q.From)
	}
	if q.ToDate != nil {
		toTS = ledger.Timestamp(*q.ToDate)
	}

	page, err := s.ledger.List(ctx, companyID, ledger.Query[Entry]{
		Limit:  q.Limit,
		Cursor: q.Cursor,
		Match: func(e Entry) bool {
			if toFilter != "" && !strings.Contains(strings.ToLower(e.To), toFilter) {
				return false
			}
			if q.DocumentID != "" && e.DocumentID != q.DocumentID {
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
