package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. It is a variable so
// tests can stub it with predictable values.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier as string.
func New() string { return NewFunc() }
