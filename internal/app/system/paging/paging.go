// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the client does not ask for one.
const DefaultLimit = 10

// MaxLimit caps the page size regardless of what the client asks for.
const MaxLimit = 100

// Page holds validated offset pagination parameters for list endpoints.
type Page struct {
	Skip  int64
	Limit int64
}

// Parse extracts "skip" and "limit" query parameters and clamps them to
// valid bounds: skip >= 0, 1 <= limit <= MaxLimit. Missing or malformed
// values fall back to defaults rather than erroring; pagination is a hint,
// not a contract.
func Parse(r *http.Request) Page {
	return Clamp(intParam(r, "skip", 0), intParam(r, "limit", DefaultLimit))
}

// Clamp applies the pagination bounds to raw values.
func Clamp(skip, limit int) Page {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Skip: int64(skip), Limit: int64(limit)}
}

func intParam(r *http.Request, name string, def int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
