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

package calc

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnknownCommand is returned for a statement that does not start with
	// a known operation or an assignment.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when an operation is given the wrong number or
	// kind of arguments.
	ErrUsage = errors.New("invalid usage")
)

func usageError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUsage, format, args...)
}
