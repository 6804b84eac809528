/*
   polycalc - exact polynomial arithmetic
   Copyright (C) 2025  The polycalc Authors

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published by
   the Free Software Foundation, version 3.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package scalar provides exact 32-bit integer and rational numbers, the
// coefficients and sample points of polycalc polynomials.
package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the representation of a Scalar.
type Kind uint8

const (
	Integer Kind = iota
	Rational
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Rational:
		return "rational"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Scalar is an exact number: either an integer, or a fraction num/den with a
// strictly positive denominator. Scalars are immutable values; every
// operation returns a new Scalar.
//
// A rational is not reduced when it is constructed, so Rat(6, 8) holds 6/8.
// Comparison and sign work on unreduced values, while arithmetic results are
// always in lowest terms.
//
// The zero value is the integer 0.
type Scalar struct {
	kind Kind
	num  int32
	den  int32
}

// Int returns the integer n.
func Int(n int32) Scalar {
	return Scalar{kind: Integer, num: n}
}

// Rat returns the fraction num/den. The sign of den is moved into the
// numerator. Rat panics if den is zero.
func Rat(num, den int32) Scalar {
	if den == 0 {
		panic("scalar: zero denominator")
	}
	return normalize(num, den)
}

// Kind returns the representation of the scalar.
func (a Scalar) Kind() Kind { return a.kind }

// Num returns the integer value or the numerator.
func (a Scalar) Num() int32 { return a.num }

// Den returns the denominator, which is 1 for integers.
func (a Scalar) Den() int32 {
	if a.kind == Integer {
		return 1
	}
	return a.den
}

// IsZero returns whether the scalar is zero.
func (a Scalar) IsZero() bool {
	return a.num == 0
}

type kindPair uint8

const (
	intInt kindPair = iota
	intRat
	ratInt
	ratRat
)

func pair(a, b Scalar) kindPair {
	return kindPair(a.kind)<<1 | kindPair(b.kind)
}

// Add returns a + b. The sum of two integers is an integer and wraps on
// overflow; any other sum is a reduced rational.
func (a Scalar) Add(b Scalar) Scalar {
	switch pair(a, b) {
	case intInt:
		return Int(a.num + b.num)
	case intRat:
		return ratio(int64(b.den)*int64(a.num)+int64(b.num), int64(b.den))
	case ratInt:
		return ratio(int64(a.num)+int64(b.num)*int64(a.den), int64(a.den))
	default:
		return ratio(int64(a.num)*int64(b.den)+int64(b.num)*int64(a.den), int64(a.den)*int64(b.den))
	}
}

// Sub returns a - b.
func (a Scalar) Sub(b Scalar) Scalar {
	return a.Add(b.Neg())
}

// Mul returns a * b. The product of two integers is an integer and wraps on
// overflow; any other product is a reduced rational.
func (a Scalar) Mul(b Scalar) Scalar {
	switch pair(a, b) {
	case intInt:
		return Int(a.num * b.num)
	case intRat:
		return ratio(int64(a.num)*int64(b.num), int64(b.den))
	case ratInt:
		return ratio(int64(a.num)*int64(b.num), int64(a.den))
	default:
		return ratio(int64(a.num)*int64(b.num), int64(a.den)*int64(b.den))
	}
}

// Neg returns -a. The denominator of a rational stays positive.
func (a Scalar) Neg() Scalar {
	if a.kind == Integer {
		return Int(-a.num)
	}
	return Scalar{kind: Rational, num: -a.num, den: a.den}
}

// Pow returns a raised to the power e. Any scalar, zero included, raised to
// the power 0 is the integer 1.
//
// Integers cannot be raised to a negative power. A rational raised to a
// negative power is inverted first, which fails for zero.
func (a Scalar) Pow(e int) (Scalar, error) {
	if e == 0 {
		return Int(1), nil
	}
	if e < 0 {
		if a.kind == Integer {
			return Scalar{}, errors.Wrapf(ErrNegativeExponent, "%v^%d", a, e)
		}
		if a.num == 0 {
			return Scalar{}, errors.Wrapf(ErrNotInvertible, "%v^%d", a, e)
		}
		a = Rat(a.den, a.num)
	}
	n := magnitude(e)
	if a.kind == Integer {
		return Int(ipow(a.num, n)), nil
	}
	return ratio(int64(ipow(a.num, n)), int64(ipow(a.den, n))), nil
}

// magnitude returns |e|, which does not fit in an int for math.MinInt.
func magnitude(e int) uint {
	if e < 0 {
		return uint(-(e + 1)) + 1
	}
	return uint(e)
}

// ipow computes base**e by repeated squaring in 32-bit arithmetic.
func ipow(base int32, e uint) int32 {
	result := int32(1)
	for e > 0 {
		if e&1 == 1 {
			result *= base
		}
		base *= base
		e >>= 1
	}
	return result
}

// Sign returns -1, 0 or 1 according to the sign of a.
func (a Scalar) Sign() int {
	if a.num == 0 {
		return 0
	}
	sign := 1
	if a.num < 0 {
		sign = -sign
	}
	if a.Den() < 0 {
		sign = -sign
	}
	return sign
}

// Equal returns whether a and b are the same number, regardless of their
// representation: Int(3), Rat(3, 1) and Rat(6, 2) are all equal.
func (a Scalar) Equal(b Scalar) bool {
	return int64(a.num)*int64(b.Den()) == int64(b.num)*int64(a.Den())
}

// Reduce returns a rational in lowest terms. Integers are returned as is.
func (a Scalar) Reduce() Scalar {
	if a.kind == Integer {
		return a
	}
	g := gcd(abs(int64(a.num)), abs(int64(a.den)))
	return Scalar{kind: Rational, num: int32(int64(a.num) / g), den: int32(int64(a.den) / g)}
}

// ratio returns the reduced rational n/d. The reduced parts wrap to 32 bits
// before the sign is normalized.
func ratio(n, d int64) Scalar {
	g := gcd(abs(n), abs(d))
	return normalize(int32(n/g), int32(d/g))
}

// normalize moves the sign of den into num so the denominator is positive.
//
// Overflowed parts are kept well formed rather than exact: a denominator that
// wrapped to zero makes the value zero, and a denominator of -2^31, whose
// negation does not fit, is halved along with the numerator.
func normalize(num, den int32) Scalar {
	switch {
	case den == 0:
		return Scalar{kind: Rational, num: 0, den: 1}
	case den == math.MinInt32:
		num, den = num/2, den/2
	}
	if den < 0 {
		num, den = -num, -den
	}
	return Scalar{kind: Rational, num: num, den: den}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// String renders an integer in decimal, and a rational in lowest terms as
// "num/den", or as a bare integer when the denominator reduces to 1.
func (a Scalar) String() string {
	if a.kind == Integer {
		return strconv.Itoa(int(a.num))
	}
	r := a.Reduce()
	if r.den == 1 {
		return strconv.Itoa(int(r.num))
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

// ParseScalar parses a decimal integer such as "-7", or a fraction of two
// decimal integers such as "3/-4".
func ParseScalar(token string) (Scalar, error) {
	parts := strings.Split(token, "/")
	switch len(parts) {
	case 1:
		n, err := parseInt32(parts[0])
		if err != nil {
			return Scalar{}, err
		}
		return Int(n), nil
	case 2:
		num, err := parseInt32(parts[0])
		if err != nil {
			return Scalar{}, err
		}
		den, err := parseInt32(parts[1])
		if err != nil {
			return Scalar{}, err
		}
		if den == 0 {
			return Scalar{}, errors.Wrapf(ErrZeroDenominator, "%q", token)
		}
		return Rat(num, den), nil
	}
	return Scalar{}, errors.Wrapf(ErrSyntax, "malformed fraction %q", token)
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrSyntax, "invalid integer %q", s)
	}
	return int32(n), nil
}
