package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workaccess/internal/storage"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/requestcontext"
)

func newService() *Service {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewService(storage.NewInMemoryStore(), logger, nil)
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	svc := newService()
	now := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	entry, err := svc.Append(ctx, Record{
		CompanyID:  "acme",
		ActorRole:  "hr",
		Action:     "employee.create",
		EntityType: "employee",
		EntityID:   "emp-1",
	})
	require.NoError(t, err)
	assert.Contains(t, entry.ID, "aud_")
	assert.Equal(t, "2026-04-02T09:30:00.000Z", entry.TS)
}

func TestAppendRequiresCompanyID(t *testing.T) {
	svc := newService()
	_, err := svc.Append(context.Background(), Record{ActorRole: "hr", Action: "x"})
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeTenantMissing, appErr.Code)
}

func TestAppendDefaultsBlankFields(t *testing.T) {
	svc := newService()
	entry, err := svc.Append(context.Background(), Record{CompanyID: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "unknown", entry.ActorRole)
	assert.Equal(t, "unknown", entry.Action)
	assert.Equal(t, "unknown", entry.EntityType)
}

func TestListNewestFirstDistinctIDs(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	e1, err := svc.Append(requestcontext.WithTime(ctx, time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)),
		Record{CompanyID: "acme", ActorRole: "hr", Action: "employee.create"})
	require.NoError(t, err)
	e2, err := svc.Append(requestcontext.WithTime(ctx, time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)),
		Record{CompanyID: "acme", ActorRole: "hr", Action: "employee.update"})
	require.NoError(t, err)

	page, err := svc.List(ctx, "acme", ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, e2.ID, page.Items[0].ID, "newest first")
	assert.Equal(t, e1.ID, page.Items[1].ID)
	assert.NotEqual(t, e1.ID, e2.ID)
}

func seedEntries(t *testing.T, svc *Service) {
	t.Helper()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{CompanyID: "acme", ActorRole: "hr", Action: "employee.create", EntityType: "employee", EntityID: "e1"},
		{CompanyID: "acme", ActorRole: "hr", Action: "employee.update", EntityType: "employee", EntityID: "e1"},
		{CompanyID: "acme", ActorRole: "manager", Action: "billing.activate", EntityType: "company", EntityID: "acme"},
		{CompanyID: "acme", ActorRole: "manager", Action: "item.create", EntityType: "item", EntityID: "i1"},
		{CompanyID: "acme", ActorRole: "security", Action: "item.delete", EntityType: "item", EntityID: "i2"},
	}
	for i, rec := range records {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Hour))
		_, err := svc.Append(ctx, rec)
		require.NoError(t, err)
	}
}

func TestListFiltersAreConjunctive(t *testing.T) {
	svc := newService()
	seedEntries(t, svc)
	ctx := context.Background()

	page, err := svc.List(ctx, "acme", ListQuery{Limit: 10, ActorRole: "hr"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, "acme", ListQuery{Limit: 10, ActionPrefix: "employee."})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, "acme", ListQuery{Limit: 10, EntityType: "item"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = svc.List(ctx, "acme", ListQuery{Limit: 10, EntityType: "item", ActorRole: "security"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "item.delete", page.Items[0].Action)

	page, err = svc.List(ctx, "acme", ListQuery{Limit: 10, EntityID: "e1"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestListDateRange(t *testing.T) {
	svc := newService()
	seedEntries(t, svc)

	from := time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC)
	page, err := svc.List(context.Background(), "acme", ListQuery{Limit: 10, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "item.create", page.Items[0].Action)
	assert.Equal(t, "billing.activate", page.Items[1].Action)
}

func TestListPaginationWithFilters(t *testing.T) {
	svc := newService()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Minute))
		_, err := svc.Append(ctx, Record{CompanyID: "acme", ActorRole: "hr", Action: "employee.update", EntityType: "employee"})
		require.NoError(t, err)
	}

	var total int
	cursor := ""
	for {
		page, err := svc.List(context.Background(), "acme", ListQuery{Limit: 5, Cursor: cursor, ActionPrefix: "employee."})
		require.NoError(t, err)
		total += len(page.Items)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, 12, total)
}
