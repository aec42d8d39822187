// Package storage provides the tenant-scoped entity store: one isolated data
// partition per tenant, one JSON document per entity name within it.
// Collections are bare arrays, singleton profiles are objects; callers own
// the JSON shape, the store owns isolation and write ordering.
package storage

import "context"

// TenantStore persists whole entity documents keyed by (tenant, entity).
// Implementations must serialize Update calls per key so concurrent
// read-modify-write cycles on the same tenant+entity never lose updates,
// while operations on different tenants share no locks.
type TenantStore interface {
	// Read returns the raw document, or nil if the entity does not exist yet.
	Read(ctx context.Context, tenantID, entity string) ([]byte, error)

	// Write replaces the document.
	Write(ctx context.Context, tenantID, entity string, data []byte) error

	// Update applies fn to the current document (nil if absent) and persists
	// the result atomically with respect to other Updates on the same key.
	// Returning an error from fn aborts without writing.
	Update(ctx context.Context, tenantID, entity string, fn func(current []byte) ([]byte, error)) error

	// TenantExists reports whether the tenant partition has been created.
	TenantExists(ctx context.Context, tenantID string) (bool, error)

	// EnsureTenant creates the tenant partition if missing.
	EnsureTenant(ctx context.Context, tenantID string) error
}
