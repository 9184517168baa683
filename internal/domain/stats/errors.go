package stats

import "errors"

// ErrInvalidOptions indicates malformed range, ordering or cohort
// parameters. It is returned before any collector is invoked.
var ErrInvalidOptions = errors.New("invalid stats options")
