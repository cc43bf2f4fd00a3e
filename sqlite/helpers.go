package sqlite

import (
	"strings"
	"time"

	"github.com/fwojciec/legalfeed"
)

// formatTime renders t the way archive columns store it: RFC3339 in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime reads a timestamp column written by formatTime. A bad value
// means the row was written by something else, so it is an internal error.
func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, legalfeed.Errorf(legalfeed.EINTERNAL, "archive column %s holds %q: %v", column, value, err)
	}
	return t, nil
}

// appendPagination adds LIMIT and OFFSET for positive values. SQLite only
// accepts OFFSET after a LIMIT, so an offset alone gets LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
