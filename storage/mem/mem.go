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

// Package mem provides an in-memory implementation of storage.Storage.
package mem

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"polycalc/poly"
	"polycalc/storage"
)

type Storage struct {
	mu    sync.RWMutex
	polys map[string]*poly.Poly
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{polys: make(map[string]*poly.Poly)}
}

func (st *Storage) Close() error { return nil }

func (st *Storage) Get(name string) (*poly.Poly, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	p, ok := st.polys[name]
	if !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "%q", name)
	}
	return p, nil
}

func (st *Storage) Put(name string, p *poly.Poly) error {
	if !storage.ValidName(name) {
		return errors.Wrapf(storage.ErrInvalidName, "%q", name)
	}
	st.mu.Lock()
	st.polys[name] = p
	st.mu.Unlock()
	return nil
}

func (st *Storage) Delete(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.polys[name]; !ok {
		return errors.Wrapf(storage.ErrNotFound, "%q", name)
	}
	delete(st.polys, name)
	return nil
}

func (st *Storage) Names() ([]string, error) {
	st.mu.RLock()
	names := make([]string, 0, len(st.polys))
	for name := range st.polys {
		names = append(names, name)
	}
	st.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}
