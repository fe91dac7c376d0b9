package repository

import "errors"

// ErrNotFound is returned by row-targeting updates and deletes when
// the id does not exist.
var ErrNotFound = errors.New("record not found")
