package sigflow

import (
	"errors"
	"fmt"
)

// Contract violations. These are programming errors: combinators panic with an
// error wrapping one of these sentinels, checkable with errors.Is.
var (
	// ErrUnsupportedOperation is raised when a combinator needs an algebra
	// operation the node's algebra does not carry.
	ErrUnsupportedOperation = errors.New("algebra does not support operation")

	// ErrEmptyCombination is raised when a fan-in combinator is constructed
	// with zero parent nodes.
	ErrEmptyCombination = errors.New("combination requires at least one node")
)

func unsupported(op string, alg string) error {
	return fmt.Errorf("%w: %s requires %s", ErrUnsupportedOperation, op, alg)
}
