package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique run identifier as string. It is a
// variable so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }
