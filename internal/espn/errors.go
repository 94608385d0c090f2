package espn

import (
	"errors"
	"net"

	"github.com/rotisserie/eris"
)

// ErrLookupFailure matches every *LookupError via errors.Is.
var ErrLookupFailure = eris.New("espn: lookup failed")

// LookupError describes a failed search: a network error, a timeout, a
// non-2xx status, or a body that is not the expected JSON.
type LookupError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	return "espn: lookup " + e.Query + ": " + e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrLookupFailure.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailure
}

// Timeout reports whether the lookup failed because a deadline passed.
func (e *LookupError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
