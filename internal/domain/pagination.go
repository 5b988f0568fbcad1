package domain

import (
	"encoding/base64"
	"strconv"
)

// DefaultMaxResults is the page size used when the caller does not ask for
// one.
const DefaultMaxResults = 50

// MaxMaxResults caps the page size a caller may request.
const MaxMaxResults = 500

// PageRequest carries pagination parameters for run-history listings. The
// token is an opaque base64 offset; clients must treat it as a cursor.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Offset decodes the page token. Empty or malformed tokens decode to 0, so
// a garbage cursor silently restarts the listing rather than erroring.
func (p PageRequest) Offset() int {
	decoded, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Limit clamps the requested page size to [1, MaxMaxResults].
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	default:
		return p.MaxResults
	}
}

// EncodePageToken turns an offset into an opaque cursor. Offsets <= 0 map
// to the empty token, which means "start from the beginning".
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the cursor for the page after the current one, or
// "" when the current page exhausts the result set.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}
