package livebox

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when an operation flagged as requiring an
// authenticated session is invoked before a successful Login.
var ErrAuthRequired = errors.New("livebox: authentication required")

// Transport failure categories, one per failure kind.
const (
	CategoryURL     = "invalid-url"
	CategoryRequest = "request"
	CategorySend    = "send"
	CategoryDecode  = "decode"
	CategoryRead    = "read"
)

// Error is returned for any transport-level failure. Category identifies
// the failure kind so callers (and logs) can tell a bad URL from a broken
// connection or an undecodable body.
type Error struct {
	Category string
	URL      string
	Method   string
	Err      error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("livebox: %s %s: %s error: %s", e.Method, e.URL, e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(category, url, method string, err error) *Error {
	return &Error{
		Category: category,
		URL:      url,
		Method:   method,
		Err:      err,
	}
}
