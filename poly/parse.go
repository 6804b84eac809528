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
	"strings"

	"github.com/pkg/errors"

	"polycalc/scalar"
)

// ErrEmpty is returned when there are no coefficients to parse.
var ErrEmpty = errors.New("poly: no coefficients")

// ParseError describes a coefficient that could not be parsed.
type ParseError struct {
	// Index is the position of the coefficient, which is also its exponent.
	Index int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("poly: coefficient %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a polynomial from whitespace-separated coefficients in
// ascending degree order: the i-th token is the coefficient of x^i. Each
// token is an integer such as "-3" or a fraction such as "1/2".
//
// For example, Parse("1 0 -2 1/3") returns 1 - 2x^2 + 1/3x^3.
//
// A polynomial whose coefficients are all zero is returned with a single
// explicit zero term.
func Parse(text string) (*Poly, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, errors.WithStack(ErrEmpty)
	}
	p := &Poly{}
	for i, token := range tokens {
		c, err := scalar.ParseScalar(token)
		if err != nil {
			return nil, &ParseError{Index: i, Token: token, Err: err}
		}
		p.insert(NewMonomial(i, c))
	}
	return p.withZeroTerm(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Poly {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}
