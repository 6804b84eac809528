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

package leveldb

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	gc "gopkg.in/check.v1"

	"polycalc/poly"
	"polycalc/scalar"
	"polycalc/storage"
	"polycalc/storage/storagetest"
)

func Test(t *testing.T) { gc.TestingT(t) }

type LevelDBSuite struct {
	storagetest.Suite
	path string
}

var _ = gc.Suite(&LevelDBSuite{})

func (s *LevelDBSuite) SetUpTest(c *gc.C) {
	s.path = filepath.Join(c.MkDir(), "polys.db")
	s.New = func(c *gc.C) storage.Storage {
		st, err := New(Config{Path: s.path, CacheSize: 4})
		c.Assert(err, gc.IsNil)
		return st
	}
	s.Suite.SetUpTest(c)
}

func (s *LevelDBSuite) reopen(c *gc.C) *Storage {
	c.Assert(s.Storage.Close(), gc.IsNil)
	st, err := New(Config{Path: s.path})
	c.Assert(err, gc.IsNil)
	s.Storage = st
	return st
}

func (s *LevelDBSuite) TestPersists(c *gc.C) {
	c.Assert(s.Storage.Put("p", poly.MustParse("1 0 -1/2")), gc.IsNil)
	c.Assert(s.Storage.Put("q", poly.MustParse("0 0 0 3")), gc.IsNil)
	st := s.reopen(c)

	p, err := st.Get("p")
	c.Assert(err, gc.IsNil)
	c.Assert(p.String(), gc.Equals, "1 - 1/2x^2")
	q, err := st.Get("q")
	c.Assert(err, gc.IsNil)
	c.Assert(q.Equal(poly.PolyTerm(3, scalar.Int(3))), gc.Equals, true)

	names, err := st.Names()
	c.Assert(err, gc.IsNil)
	c.Assert(names, gc.DeepEquals, []string{"p", "q"})
}

func (s *LevelDBSuite) TestCacheInvalidatedOnDelete(c *gc.C) {
	c.Assert(s.Storage.Put("p", poly.MustParse("1 1")), gc.IsNil)
	_, err := s.Storage.Get("p")
	c.Assert(err, gc.IsNil)
	c.Assert(s.Storage.Delete("p"), gc.IsNil)
	_, err = s.Storage.Get("p")
	c.Assert(storage.IsNotFound(err), gc.Equals, true)
}

func (s *LevelDBSuite) TestCorruptValue(c *gc.C) {
	st := s.Storage.(*Storage)
	c.Assert(st.db.Put(dbKey("bad"), []byte("1 banana"), nil), gc.IsNil)
	_, err := st.Get("bad")
	c.Assert(err, gc.ErrorMatches, `corrupt polynomial "bad": .*`)
	c.Assert(errors.Is(err, scalar.ErrSyntax), gc.Equals, true)
	c.Assert(errors.Is(err, storage.ErrCorrupt), gc.Equals, true)
	var cerr *storage.CorruptError
	c.Assert(errors.As(err, &cerr), gc.Equals, true)
	c.Assert(cerr.Name, gc.Equals, "bad")
}

func (s *LevelDBSuite) TestIgnoresForeignKeys(c *gc.C) {
	st := s.Storage.(*Storage)
	c.Assert(st.db.Put([]byte("other:x"), []byte("1"), nil), gc.IsNil)
	c.Assert(st.Put("x", poly.MustParse("2")), gc.IsNil)
	names, err := st.Names()
	c.Assert(err, gc.IsNil)
	c.Assert(names, gc.DeepEquals, []string{"x"})
}

// The cached entry for a name always agrees with the database once
// concurrent writers and readers have finished.
func (s *LevelDBSuite) TestCacheMatchesDatabase(c *gc.C) {
	st := s.Storage.(*Storage)
	values := []*poly.Poly{poly.MustParse("1"), poly.MustParse("0 1")}
	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				st.Put("p", values[i%2])
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				st.Delete("p")
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				st.Get("p")
			}
		}()
		wg.Wait()

		cached, inCache := st.cache.Peek("p")
		value, err := st.db.Get(dbKey("p"), nil)
		if err == leveldb.ErrNotFound {
			c.Assert(inCache, gc.Equals, false, gc.Commentf("round %d: deleted value still cached", round))
			continue
		}
		c.Assert(err, gc.IsNil)
		if inCache {
			c.Assert(cached.(*poly.Poly).Encode(), gc.Equals, string(value), gc.Commentf("round %d", round))
		}
	}
}
