package errorutil

import "errors"

// ErrDataIntegrity is a base error type to use for failures that are due to
// unrecoverable data integrity issues.
var ErrDataIntegrity = errors.New("data integrity error")

// ErrNoResults represents situations in which a lookup found nothing, such as
// an empty sample stream or a missing snapshot.
var ErrNoResults = errors.New("no results returned")
