// Package audit implements the append-only per-tenant trail of
// business-mutating actions, with filtered cursor pagination and a CSV
// projection.
package audit

// Entry is one audited action. ID and TS are assigned at append time and
// never change; the ledger keeps entries ordered by (TS, ID) ascending.
type Entry struct {
	ID         string         `json:"id"`
	TS         string         `json:"ts"`
	CompanyID  string         `json:"companyId"`
	ActorRole  string         `json:"actorRole"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Meta       map[string]any `json:"meta,omitempty"`
	Before     any            `json:"before,omitempty"`
	After      any            `json:"after,omitempty"`
}

func (e Entry) RecordTS() string { return e.TS }
func (e Entry) RecordID() string { return e.ID }

// Record carries the caller-supplied fields of an audit entry; the service
// fills in id and timestamp.
type Record struct {
	CompanyID  string
	ActorRole  string
	Action     string
	EntityType string
	EntityID   string
	Meta       map[string]any
	Before     any
	After      any
}
