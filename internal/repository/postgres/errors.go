package postgres

import (
	stderrors "errors"
	"strings"

	"github.com/lib/pq"
)

// isUniqueViolation reports whether err is a unique constraint failure on either driver
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
