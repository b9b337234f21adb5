package domain

import "errors"

// ErrNotFound is returned by repositories when the referenced row does not
// exist. Services translate it into operation-specific not-found errors.
var ErrNotFound = errors.New("not found")
