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

package poly

import (
	"fmt"
	"strconv"

	"polycalc/scalar"
)

var (
	one      = scalar.Int(1)
	minusOne = scalar.Int(-1)
)

// Monomial is a single term c·x^n.
type Monomial struct {
	exp   int
	coeff scalar.Scalar
}

// NewMonomial returns the term coeff·x^exp. It panics if exp is negative.
func NewMonomial(exp int, coeff scalar.Scalar) Monomial {
	if exp < 0 {
		panic(fmt.Sprintf("negative exponent %d", exp))
	}
	return Monomial{exp: exp, coeff: coeff}
}

// Exponent returns the power of x.
func (m Monomial) Exponent() int { return m.exp }

// Coeff returns the coefficient.
func (m Monomial) Coeff() scalar.Scalar { return m.coeff }

// Add returns the sum of two terms with the same exponent. ok is false, and
// the sum undefined, when the exponents differ.
func (m Monomial) Add(n Monomial) (sum Monomial, ok bool) {
	if m.exp != n.exp {
		return Monomial{}, false
	}
	return Monomial{exp: m.exp, coeff: m.coeff.Add(n.coeff)}, true
}

// Mul returns the product of two terms.
func (m Monomial) Mul(n Monomial) Monomial {
	return Monomial{exp: m.exp + n.exp, coeff: m.coeff.Mul(n.coeff)}
}

// Eval returns the value of the term at x.
func (m Monomial) Eval(x scalar.Scalar) scalar.Scalar {
	xn, err := x.Pow(m.exp)
	if err != nil {
		// Only negative exponents fail, and m.exp is never negative.
		panic(err)
	}
	return m.coeff.Mul(xn)
}

// Derivative returns d/dx of the term. The derivative of a constant is the
// zero term 0·x^0.
func (m Monomial) Derivative() Monomial {
	if m.exp == 0 {
		return Monomial{exp: 0, coeff: scalar.Int(0)}
	}
	return Monomial{exp: m.exp - 1, coeff: m.coeff.Mul(scalar.Int(int32(m.exp)))}
}

// Sign returns the sign of the coefficient.
func (m Monomial) Sign() int {
	return m.coeff.Sign()
}

// Equal returns whether two terms have equal coefficients and equal
// exponents. All zero terms are equal, whatever their exponent.
func (m Monomial) Equal(n Monomial) bool {
	if !m.coeff.Equal(n.coeff) {
		return false
	}
	return m.exp == n.exp || m.coeff.IsZero()
}

// String renders the term, such as "3x^2", "-x", "x^4", "1/2x" or "5".
func (m Monomial) String() string {
	if m.coeff.Sign() == 0 {
		return "0"
	}
	c := m.coeff.String()
	if m.exp == 0 {
		return c
	}
	if m.coeff.Equal(one) {
		c = ""
	} else if m.coeff.Equal(minusOne) {
		c = "-"
	}
	if m.exp == 1 {
		return c + "x"
	}
	return c + "x^" + strconv.Itoa(m.exp)
}
