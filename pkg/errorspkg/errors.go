// Package errorspkg provides common app errors.
package errorspkg

import (
	"database/sql"
	"database/sql/driver"
	"errors"
)

// ErrInternal indicates internal application error.
var ErrInternal = errors.New("internal")

// ErrStorageUnavailable indicates that the durable store cannot be reached.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Storage classifies a storage layer failure that matched no constraint or
// row condition.
func Storage(err error) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return ErrStorageUnavailable
	}

	return ErrInternal
}
