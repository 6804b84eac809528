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

// Package leveldb provides a key-value storage implementation of the
// storage.Storage interface.
//
// Each polynomial is kept under the key "poly:<name>" as its dense
// coefficient text, and decoded polynomials are kept in an LRU cache.
package leveldb

import (
	"bytes"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"polycalc/poly"
	"polycalc/storage"
)

const DefaultCacheSize = 1024

var keyPrefix = []byte("poly:")

type Config struct {
	Path      string `toml:"path"`
	CacheSize int    `toml:"cacheSize"`
}

type Storage struct {
	path string
	db   *leveldb.DB

	// mu orders cache fills after database reads against the writes that
	// invalidate them.
	mu    sync.RWMutex
	cache *lru.Cache
}

var _ storage.Storage = (*Storage)(nil)

// New opens or creates the database at config.Path.
func New(config Config) (*Storage, error) {
	cacheSize := config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	db, err := leveldb.OpenFile(config.Path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open leveldb %q", config.Path)
	}
	log.WithFields(log.Fields{
		"path":      config.Path,
		"cacheSize": cacheSize,
	}).Debug("leveldb storage opened")
	return &Storage{path: config.Path, db: db, cache: cache}, nil
}

func dbKey(name string) []byte {
	return append(append([]byte(nil), keyPrefix...), name...)
}

func (st *Storage) Close() error {
	st.cache.Purge()
	err := st.db.Close()
	if err != nil {
		return errors.Wrapf(err, "failed to close leveldb %q", st.path)
	}
	return nil
}

func (st *Storage) Get(name string) (*poly.Poly, error) {
	if v, ok := st.cache.Get(name); ok {
		return v.(*poly.Poly), nil
	}

	st.mu.RLock()
	defer st.mu.RUnlock()
	value, err := st.db.Get(dbKey(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(storage.ErrNotFound, "%q", name)
	} else if err != nil {
		return nil, errors.WithStack(err)
	}
	p, err := poly.Parse(string(value))
	if err != nil {
		return nil, errors.WithStack(&storage.CorruptError{Name: name, Err: err})
	}
	st.cache.Add(name, p)
	return p, nil
}

func (st *Storage) Put(name string, p *poly.Poly) error {
	if !storage.ValidName(name) {
		return errors.Wrapf(storage.ErrInvalidName, "%q", name)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	err := st.db.Put(dbKey(name), []byte(p.Encode()), nil)
	if err != nil {
		st.cache.Remove(name)
		return errors.WithStack(err)
	}
	st.cache.Add(name, p)
	return nil
}

func (st *Storage) Delete(name string) error {
	key := dbKey(name)
	st.mu.Lock()
	defer st.mu.Unlock()
	has, err := st.db.Has(key, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	if !has {
		return errors.Wrapf(storage.ErrNotFound, "%q", name)
	}
	st.cache.Remove(name)
	return errors.WithStack(st.db.Delete(key, nil))
}

// Names returns the stored names. LevelDB iterates keys in byte order, so
// they are already sorted.
func (st *Storage) Names() ([]string, error) {
	iter := st.db.NewIterator(util.BytesPrefix(keyPrefix), nil)
	defer iter.Release()
	var names []string
	for iter.Next() {
		names = append(names, string(bytes.TrimPrefix(iter.Key(), keyPrefix)))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.WithStack(err)
	}
	return names, nil
}
