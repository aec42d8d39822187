package audit

import (
	"encoding/csv"
	"strings"
)

// ToCSV projects entries for export: header ts,id,actorRole,action,
// entityType,entityId with standard double-quote escaping. Pure function,
// independent of how the items were paginated.
func ToCSV(items []Entry) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"ts", "id", "actorRole", "action", "entityType", "entityId"})
	for _, e := range items {
		_ = w.Write([]string{e.TS, e.ID, e.ActorRole, e.Action, e.EntityType, e.EntityID})
	}
	w.Flush()
	return b.String()
}
