package core

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a server-assigned id for records created through the API.
func NewID() string {
	return uuid.NewString()
}

// RowID derives a deterministic id from a record's sheet cells so that the
// same row maps to the same id across fetches. Index-based ids go stale on
// every reload; content-hash ids survive as long as the row does.
func RowID(kind string, cells ...string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind))
	for _, c := range cells {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(strings.TrimSpace(c)))
	}
	return fmt.Sprintf("%s-%016x", kind, h.Sum64())
}
