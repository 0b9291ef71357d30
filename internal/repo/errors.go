package repo

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when an id does not resolve to an existing row.
var ErrNotFound = errors.New("not found")

// IsConstraint reports whether err is a database integrity violation
// (unique key, foreign key, etc.; pq error class 23).
func IsConstraint(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}
