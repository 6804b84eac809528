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

// Package storage defines the API for keeping named polynomials.
package storage

import (
	"fmt"
	"io"
	"regexp"

	"github.com/pkg/errors"

	"polycalc/poly"
)

var ErrNotFound = errors.New("polynomial not found")

var ErrInvalidName = errors.New("invalid polynomial name")

// ErrCorrupt matches errors reporting a stored value that can no longer be
// decoded.
var ErrCorrupt = errors.New("corrupt polynomial")

// CorruptError reports the stored value of Name that failed to decode with
// Err. It matches ErrCorrupt and unwraps to Err.
type CorruptError struct {
	Name string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt polynomial %q: %v", e.Name, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName returns whether name may be used to store a polynomial.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Storage defines the API that is needed to implement a storage backend for
// named polynomials.
//
// Polynomials are immutable, so implementations may hand out the same *Poly
// to several callers.
type Storage interface {
	io.Closer

	// Get returns the polynomial stored under name, or an error satisfying
	// IsNotFound.
	Get(name string) (*poly.Poly, error)

	// Put stores p under name, replacing any previous polynomial.
	Put(name string, p *poly.Poly) error

	// Delete removes the polynomial stored under name. Deleting a name that
	// is not stored returns an error satisfying IsNotFound.
	Delete(name string) error

	// Names returns the stored names in sorted order.
	Names() ([]string, error)
}
