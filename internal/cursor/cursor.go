// Package cursor encodes and decodes the opaque page cursors used by
// offset pagination. A cursor is the decimal form of a 1-based page number.
package cursor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidCursor is returned for cursors that do not name a page.
var ErrInvalidCursor = errors.New("invalid cursor")

// FirstPage is the page used when no cursor is supplied.
const FirstPage = 1

// Encode builds the cursor for a page.
func Encode(page int) string {
	return strconv.Itoa(page)
}

// Decode parses a cursor produced by Encode. Only canonical decimal page
// numbers of at least one are accepted.
func Decode(raw string) (int, error) {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w %q: not a page number", ErrInvalidCursor, raw)
	}
	if page < FirstPage {
		return 0, fmt.Errorf("%w %q: page must be at least %d", ErrInvalidCursor, raw, FirstPage)
	}
	if strconv.Itoa(page) != raw {
		return 0, fmt.Errorf("%w %q: not in canonical form", ErrInvalidCursor, raw)
	}
	return page, nil
}

// PageFromAfter returns the page named by an optional after cursor.
func PageFromAfter(after *string) (int, error) {
	if after == nil {
		return FirstPage, nil
	}
	return Decode(*after)
}

// CheckRange rejects pages whose row offset, or whose following page number,
// does not fit in an int. pageSize must be positive.
func CheckRange(page, pageSize int) error {
	if page > (math.MaxInt-1)/pageSize {
		return fmt.Errorf("%w %q: page out of range for page size %d", ErrInvalidCursor, Encode(page), pageSize)
	}
	return nil
}
