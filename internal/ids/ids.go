package ids

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// New returns a row id of the form "<unix-millis>-<6 hex chars>", e.g.
// "1735689600000-a3f21c". Millisecond timestamps keep ids roughly sortable
// by creation time; the random suffix disambiguates same-millisecond inserts.
func New() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// nanosecond clock rather than panicking in a request path.
		return fmt.Sprintf("%d-%06x", time.Now().UnixMilli(), time.Now().UnixNano()&0xffffff)
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b[:]))
}
