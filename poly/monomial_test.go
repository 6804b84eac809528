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
	gc "gopkg.in/check.v1"

	"polycalc/scalar"
)

type MonomialSuite struct{}

var _ = gc.Suite(&MonomialSuite{})

func term(exp int, n int32) Monomial {
	return NewMonomial(exp, scalar.Int(n))
}

func (s *MonomialSuite) TestAddSameExponent(c *gc.C) {
	sum, ok := term(2, 3).Add(term(2, 5))
	c.Assert(ok, gc.Equals, true)
	c.Assert(sum.Exponent(), gc.Equals, 2)
	c.Assert(sum.Coeff().Equal(scalar.Int(8)), gc.Equals, true)
}

func (s *MonomialSuite) TestAddDifferentExponent(c *gc.C) {
	_, ok := term(2, 3).Add(term(3, 5))
	c.Assert(ok, gc.Equals, false)
}

func (s *MonomialSuite) TestMul(c *gc.C) {
	product := term(2, 3).Mul(term(3, 4))
	c.Assert(product.Exponent(), gc.Equals, 5)
	c.Assert(product.Coeff().Equal(scalar.Int(12)), gc.Equals, true)
}

func (s *MonomialSuite) TestEval(c *gc.C) {
	// 2x^3 at 3
	c.Assert(term(3, 2).Eval(scalar.Int(3)).Equal(scalar.Int(54)), gc.Equals, true)
	// 2x^2 at 2/3
	c.Assert(term(2, 2).Eval(scalar.Rat(2, 3)).Equal(scalar.Rat(8, 9)), gc.Equals, true)
	// 0^0 is 1
	c.Assert(term(0, 7).Eval(scalar.Int(0)).Equal(scalar.Int(7)), gc.Equals, true)
}

func (s *MonomialSuite) TestDerivative(c *gc.C) {
	d := term(4, 3).Derivative()
	c.Assert(d.Exponent(), gc.Equals, 3)
	c.Assert(d.Coeff().Equal(scalar.Int(12)), gc.Equals, true)

	d = NewMonomial(3, scalar.Rat(1, 6)).Derivative()
	c.Assert(d.Exponent(), gc.Equals, 2)
	c.Assert(d.Coeff().String(), gc.Equals, "1/2")

	d = term(0, 5).Derivative()
	c.Assert(d.Exponent(), gc.Equals, 0)
	c.Assert(d.Coeff().IsZero(), gc.Equals, true)
}

func (s *MonomialSuite) TestSign(c *gc.C) {
	c.Assert(term(1, 5).Sign(), gc.Equals, 1)
	c.Assert(term(1, -3).Sign(), gc.Equals, -1)
	c.Assert(term(2, 0).Sign(), gc.Equals, 0)
	c.Assert(NewMonomial(2, scalar.Rat(-1, 2)).Sign(), gc.Equals, -1)
}

func (s *MonomialSuite) TestEqual(c *gc.C) {
	c.Assert(term(3, 7).Equal(term(3, 7)), gc.Equals, true)
	c.Assert(term(3, 7).Equal(term(3, 8)), gc.Equals, false)
	c.Assert(term(3, 7).Equal(term(2, 7)), gc.Equals, false)
	c.Assert(term(3, 7).Equal(NewMonomial(3, scalar.Rat(14, 2))), gc.Equals, true)
	// Zero terms are equal regardless of exponent.
	c.Assert(term(3, 0).Equal(term(9, 0)), gc.Equals, true)
	c.Assert(term(3, 0).Equal(NewMonomial(0, scalar.Rat(0, 4))), gc.Equals, true)
}

func (s *MonomialSuite) TestNegativeExponent(c *gc.C) {
	c.Assert(func() { term(-1, 1) }, gc.PanicMatches, "negative exponent -1")
}

func (s *MonomialSuite) TestString(c *gc.C) {
	testCases := []struct {
		desc   string
		m      Monomial
		expect string
	}{
		{"zero coefficient", term(5, 0), "0"},
		{"constant", term(0, 4), "4"},
		{"constant one", term(0, 1), "1"},
		{"constant minus one", term(0, -1), "-1"},
		{"unit coefficient", term(3, 1), "x^3"},
		{"negative unit coefficient", term(7, -1), "-x^7"},
		{"linear", term(1, 4), "4x"},
		{"unit linear", term(1, 1), "x"},
		{"general", term(2, -5), "-5x^2"},
		{"rational", NewMonomial(1, scalar.Rat(1, 2)), "1/2x"},
		{"unreduced unit rational", NewMonomial(2, scalar.Rat(3, 3)), "x^2"},
		{"negative rational", NewMonomial(3, scalar.Rat(5, -3)), "-5/3x^3"},
	}
	for i, tc := range testCases {
		c.Check(tc.m.String(), gc.Equals, tc.expect, gc.Commentf("#%d %s", i, tc.desc))
	}
}
