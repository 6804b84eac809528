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

// Package poly provides sparse single-variable polynomials with exact
// integer and rational coefficients.
package poly

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"polycalc/scalar"
)

// Poly represents a polynomial in x.
//
// A Poly is never modified once constructed; every operation returns a new
// Poly, so a Poly may be shared freely between goroutines.
type Poly struct {

	// terms is sorted by strictly ascending exponent, holds at most one term
	// per exponent and no zero terms, except for the single zero term that
	// Parse and Derivative use to represent the zero polynomial.
	terms []Monomial
}

// NewPoly creates a polynomial with the given coefficients, in ascending
// degree order.
//
// For example, NewPoly(Int(1), Int(-2), Int(3)) represents 1 - 2x + 3x^2.
func NewPoly(coeff ...scalar.Scalar) *Poly {
	p := &Poly{}
	for i, c := range coeff {
		p.insert(NewMonomial(i, c))
	}
	return p
}

// PolyTerm creates a polynomial with the single term c·x^degree.
func PolyTerm(degree int, c scalar.Scalar) *Poly {
	p := &Poly{}
	p.insert(NewMonomial(degree, c))
	return p
}

// insert merges m into the terms, keeping them sorted with unique exponents.
// Zero terms are never inserted, and a merge that cancels out removes the
// existing term.
func (p *Poly) insert(m Monomial) {
	if m.Sign() == 0 {
		return
	}
	i := sort.Search(len(p.terms), func(i int) bool {
		return p.terms[i].exp >= m.exp
	})
	if i < len(p.terms) && p.terms[i].exp == m.exp {
		sum, _ := p.terms[i].Add(m)
		if sum.Sign() == 0 {
			p.terms = append(p.terms[:i], p.terms[i+1:]...)
		} else {
			p.terms[i] = sum
		}
		return
	}
	p.terms = append(p.terms, Monomial{})
	copy(p.terms[i+1:], p.terms[i:])
	p.terms[i] = m
}

// withZeroTerm gives an empty polynomial its explicit zero term.
func (p *Poly) withZeroTerm() *Poly {
	if len(p.terms) == 0 {
		p.terms = append(p.terms, NewMonomial(0, scalar.Int(0)))
	}
	return p
}

// Terms returns a copy of the polynomial's terms in ascending exponent order.
func (p *Poly) Terms() []Monomial {
	result := make([]Monomial, len(p.terms))
	copy(result, p.terms)
	return result
}

// nonZero returns the terms without the explicit zero term, if any.
func (p *Poly) nonZero() []Monomial {
	if len(p.terms) == 1 && p.terms[0].Sign() == 0 {
		return nil
	}
	return p.terms
}

// IsZero returns whether p is the zero polynomial.
func (p *Poly) IsZero() bool {
	return len(p.nonZero()) == 0
}

// Degree returns the highest exponent that appears in the polynomial, or -1
// for the zero polynomial.
func (p *Poly) Degree() int {
	terms := p.nonZero()
	if len(terms) == 0 {
		return -1
	}
	return terms[len(terms)-1].exp
}

// Coeffs returns the dense coefficients of the polynomial in ascending degree
// order. The zero polynomial has the single coefficient 0.
func (p *Poly) Coeffs() []scalar.Scalar {
	result := make([]scalar.Scalar, p.Degree()+1)
	for i := range result {
		result[i] = scalar.Int(0)
	}
	for _, t := range p.nonZero() {
		result[t.exp] = t.coeff
	}
	if len(result) == 0 {
		result = append(result, scalar.Int(0))
	}
	return result
}

// Encode returns the polynomial's dense coefficients as text that Parse
// reads back into an equal polynomial, such as "1 0 -1/2".
func (p *Poly) Encode() string {
	coeffs := p.Coeffs()
	tokens := make([]string, len(coeffs))
	for i, c := range coeffs {
		tokens[i] = c.String()
	}
	return strings.Join(tokens, " ")
}

// Add returns p + q.
func (p *Poly) Add(q *Poly) *Poly {
	result := &Poly{}
	for _, m := range p.terms {
		result.insert(m)
	}
	for _, m := range q.terms {
		result.insert(m)
	}
	return result
}

// Neg returns -p.
func (p *Poly) Neg() *Poly {
	result := &Poly{terms: make([]Monomial, 0, len(p.terms))}
	for _, m := range p.terms {
		result.insert(Monomial{exp: m.exp, coeff: m.coeff.Neg()})
	}
	return result
}

// Sub returns p - q.
func (p *Poly) Sub(q *Poly) *Poly {
	return p.Add(q.Neg())
}

// Mul returns p * q.
func (p *Poly) Mul(q *Poly) *Poly {
	result := &Poly{}
	for _, m := range p.terms {
		for _, n := range q.terms {
			result.insert(m.Mul(n))
		}
	}
	return result
}

// Eval returns the value of the polynomial at x.
func (p *Poly) Eval(x scalar.Scalar) scalar.Scalar {
	sum := scalar.Int(0)
	for _, m := range p.terms {
		sum = sum.Add(m.Eval(x))
	}
	return sum
}

// Derivative returns d/dx of the polynomial. The derivative of a constant is
// the zero polynomial with its explicit zero term.
func (p *Poly) Derivative() *Poly {
	result := &Poly{}
	for _, m := range p.terms {
		result.insert(m.Derivative())
	}
	return result.withZeroTerm()
}

// Equal compares with another polynomial for equality. Polynomials are equal
// when they have the same terms; every representation of zero is equal to
// every other.
func (p *Poly) Equal(q *Poly) bool {
	a, b := p.nonZero(), q.nonZero()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String represents a polynomial in ascending degree order, such as
// "1 - 2x + 3x^2".
func (p *Poly) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	result := bytes.NewBuffer(nil)
	for i, m := range p.terms {
		term := m.String()
		switch {
		case i == 0:
			result.WriteString(term)
		case m.Sign() < 0:
			fmt.Fprintf(result, " - %s", strings.TrimPrefix(term, "-"))
		default:
			fmt.Fprintf(result, " + %s", term)
		}
	}
	return result.String()
}
