package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewAt returns "<prefix>_<ULID>" for the given instant. ULIDs are
// timestamp-derived with a random suffix and sort lexicographically in time
// order, so ledger ids double as tie-breakers within one millisecond.
func NewAt(prefix string, t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return prefix + "_" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// New returns a prefixed id for the current time.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}
