package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is fatal at startup: the process must not serve.
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrEmptyMessage  = fmt.Errorf("%w: Empty message", ErrValidation)
	// ErrInconsistentIndex reports a knowledge base that does not line up
	// with the embeddings computed for it or for a query.
	ErrInconsistentIndex = errors.New("inconsistent knowledge index")
)
