package repository

import "riskctl/internal/errors"

// ErrConflict is returned when a write loses a race on a unique constraint
// (two transactions claiming the same identifier or order key). The
// enclosing transaction must be rolled back; report callers retry the whole
// resolution a bounded number of times.
var ErrConflict = errors.New("conflicting concurrent write")
