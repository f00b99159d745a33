package bst

import (
	"errors"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

// Sentinel errors. Returned errors wrap one of these inside an
// [apperr.Error] carrying the matching code, so callers can use either
// errors.Is or apperr.Is.
var (
	// ErrInvalidInsertion reports a value that cannot be placed: an index
	// collision, a rejected duplicate, NaN, or an exceeded depth limit.
	ErrInvalidInsertion = errors.New("invalid insertion")

	// ErrEmptyInput reports that no root value was supplied.
	ErrEmptyInput = errors.New("empty input")
)

func invalidInsertion(format string, args ...any) error {
	return apperr.Wrap(apperr.ErrCodeInvalidInsertion, ErrInvalidInsertion, format, args...)
}

func emptyInput() error {
	return apperr.Wrap(apperr.ErrCodeEmptyInput, ErrEmptyInput, "no root value supplied")
}
