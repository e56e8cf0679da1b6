// Package idx generates the ULIDs used as request correlation ids.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a new lexicographically sortable ID for the current UTC time.
// IDs from one process are strictly increasing.
func New() ID {
	mu.Lock()
	defer mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String())
}

// String returns the canonical string form.
func (id ID) String() string { return string(id) }
