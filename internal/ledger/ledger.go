// Package ledger implements the append-only, per-tenant, capped log shared
// by the audit trail and the outbox: whole-document JSON arrays ordered by
// (timestamp, id) ascending on disk, read newest-first with cursor
// pagination.
package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"workaccess/internal/storage"
	"workaccess/pkg/apperrors"
)

const (
	// Cap bounds each tenant ledger. Overflow drops the oldest entries; this
	// is a deliberate retention policy, not archival. Ledgers are flat files
	// and every append rewrites the whole document, so unbounded growth
	// would make appends progressively slower.
	Cap = 5000

	DefaultLimit = 50
	MaxLimit     = 200
)

// Record is an entry that can live in a ledger. TS must be a fixed-width
// ISO-8601 UTC string so lexicographic comparison equals time order.
type Record interface {
	RecordTS() string
	RecordID() string
}

// Timestamp renders t in the ledger's canonical form: UTC, millisecond
// precision, fixed width.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Ledger persists records of type T for many tenants under one entity name.
type Ledger[T Record] struct {
	store  storage.TenantStore
	entity string
}

func New[T Record](store storage.TenantStore, entity string) *Ledger[T] {
	return &Ledger[T]{store: store, entity: entity}
}

// Append adds a record to the tenant's ledger, trimming the oldest entries
// beyond Cap. The tenant id must be non-empty; a ledger without a tenant
// scope has nowhere safe to live.
func (l *Ledger[T]) Append(ctx context.Context, tenantID string, rec T) error {
	if strings.TrimSpace(tenantID) == "" {
		return apperrors.New(apperrors.CodeTenantMissing, "missing companyId for ledger append")
	}
	return l.store.Update(ctx, tenantID, l.entity, func(current []byte) ([]byte, error) {
		var entries []T
		if len(current) > 0 {
			if err := json.Unmarshal(current, &entries); err != nil {
				// A corrupt ledger must not block new appends; start over
				// rather than wedging every mutation for the tenant.
				entries = nil
			}
		}
		entries = append(entries, rec)
		if len(entries) > Cap {
			entries = entries[len(entries)-Cap:]
		}
		return json.Marshal(entries)
	})
}

// Query narrows a List scan. Match is applied conjunctively after the cursor
// exclusion; a nil Match keeps everything.
type Query[T Record] struct {
	Limit  int
	Cursor string
	Match  func(T) bool
}

// Page is one newest-first slice of the ledger. NextCursor is set only when
// the page is full; a short page is an unambiguous end-of-data signal.
type Page[T Record] struct {
	Items      []T
	NextCursor string
}

// List reads the tenant's ledger newest-first, resumes after the cursor if
// one is given, applies the filter, and truncates to the clamped limit.
func (l *Ledger[T]) List(ctx context.Context, tenantID string, q Query[T]) (Page[T], error) {
	if strings.TrimSpace(tenantID) == "" {
		return Page[T]{}, apperrors.New(apperrors.CodeTenantMissing, "missing companyId for ledger list")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	raw, err := l.store.Read(ctx, tenantID, l.entity)
	if err != nil {
		return Page[T]{}, err
	}
	var entries []T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return Page[T]{}, fmt.Errorf("ledger: decode %s for %s: %w", l.entity, tenantID, err)
		}
	}

	cursorTS, cursorID, hasCursor := decodeCursor(q.Cursor)

	items := make([]T, 0, limit)
	for i := len(entries) - 1; i >= 0; i-- {
		rec := entries[i]
		if hasCursor && !beforeCursor(rec.RecordTS(), rec.RecordID(), cursorTS, cursorID) {
			continue
		}
		if q.Match != nil && !q.Match(rec) {
			continue
		}
		items = append(items, rec)
		if len(items) == limit {
			break
		}
	}

	page := Page[T]{Items: items}
	if len(items) == limit {
		last := items[len(items)-1]
		page.NextCursor = EncodeCursor(last.RecordTS(), last.RecordID())
	}
	return page, nil
}

// beforeCursor reports whether (ts, id) is strictly older than the cursor
// position. ISO-8601 timestamps sort lexicographically in time order, so
// plain string comparison is safe here.
func beforeCursor(ts, id, cursorTS, cursorID string) bool {
	if ts < cursorTS {
		return true
	}
	return ts == cursorTS && id < cursorID
}

// EncodeCursor packs a (timestamp, id) resume point into an opaque string so
// the storage encoding can change without breaking clients.
func EncodeCursor(ts, id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(ts + "|" + id))
}

// decodeCursor unpacks a cursor. Malformed cursors are treated permissively
// as "no cursor": listing must never be the reason a tenant cannot see
// their own history.
func decodeCursor(cursor string) (ts, id string, ok bool) {
	if cursor == "" {
		return "", "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
