package scalar

import (
	"github.com/pkg/errors"
)

var (
	// ErrSyntax is returned when a token is not an integer or a fraction of
	// two integers.
	ErrSyntax = errors.New("scalar: invalid syntax")

	// ErrZeroDenominator is returned when a parsed fraction has a zero
	// denominator.
	ErrZeroDenominator = errors.New("scalar: zero denominator")

	// ErrNegativeExponent is returned when an integer is raised to a negative
	// power.
	ErrNegativeExponent = errors.New("scalar: negative exponent")

	// ErrNotInvertible is returned when zero is raised to a negative power.
	ErrNotInvertible = errors.New("scalar: cannot invert zero")
)
