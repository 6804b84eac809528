// Package storagetest provides a gocheck suite that every storage.Storage
// implementation is expected to pass.
package storagetest

import (
	"sort"
	"sync"

	gc "gopkg.in/check.v1"

	"polycalc/poly"
	"polycalc/scalar"
	"polycalc/storage"
)

// Suite runs the storage.Storage contract against the implementation
// returned by New, which is called before each test.
type Suite struct {
	New func(c *gc.C) storage.Storage

	Storage storage.Storage
}

func (s *Suite) SetUpTest(c *gc.C) {
	s.Storage = s.New(c)
}

func (s *Suite) TearDownTest(c *gc.C) {
	c.Assert(s.Storage.Close(), gc.IsNil)
}

func (s *Suite) TestPutGet(c *gc.C) {
	p := poly.MustParse("1 -2 1/3")
	c.Assert(s.Storage.Put("p", p), gc.IsNil)
	q, err := s.Storage.Get("p")
	c.Assert(err, gc.IsNil)
	c.Assert(q.Equal(p), gc.Equals, true)
	c.Assert(q.String(), gc.Equals, "1 - 2x + 1/3x^2")
}

func (s *Suite) TestPutReplaces(c *gc.C) {
	c.Assert(s.Storage.Put("p", poly.MustParse("1")), gc.IsNil)
	c.Assert(s.Storage.Put("p", poly.MustParse("0 1")), gc.IsNil)
	q, err := s.Storage.Get("p")
	c.Assert(err, gc.IsNil)
	c.Assert(q.String(), gc.Equals, "x")
}

func (s *Suite) TestPutZero(c *gc.C) {
	zero := poly.MustParse("1").Sub(poly.MustParse("1"))
	c.Assert(s.Storage.Put("z", zero), gc.IsNil)
	q, err := s.Storage.Get("z")
	c.Assert(err, gc.IsNil)
	c.Assert(q.IsZero(), gc.Equals, true)
	c.Assert(q.String(), gc.Equals, "0")
}

func (s *Suite) TestGetNotFound(c *gc.C) {
	_, err := s.Storage.Get("missing")
	c.Assert(storage.IsNotFound(err), gc.Equals, true, gc.Commentf("%v", err))
}

func (s *Suite) TestInvalidName(c *gc.C) {
	for _, name := range []string{"", "1p", "a b", "p-q", "[p]"} {
		err := s.Storage.Put(name, poly.MustParse("1"))
		c.Check(err, gc.ErrorMatches, ".*invalid polynomial name", gc.Commentf("%q", name))
	}
}

func (s *Suite) TestDelete(c *gc.C) {
	c.Assert(s.Storage.Put("p", poly.MustParse("1 1")), gc.IsNil)
	c.Assert(s.Storage.Delete("p"), gc.IsNil)
	_, err := s.Storage.Get("p")
	c.Assert(storage.IsNotFound(err), gc.Equals, true)
	err = s.Storage.Delete("p")
	c.Assert(storage.IsNotFound(err), gc.Equals, true)
}

func (s *Suite) TestNames(c *gc.C) {
	names, err := s.Storage.Names()
	c.Assert(err, gc.IsNil)
	c.Assert(names, gc.HasLen, 0)

	for _, name := range []string{"q", "p", "r_2", "A"} {
		c.Assert(s.Storage.Put(name, poly.MustParse("1")), gc.IsNil)
	}
	names, err = s.Storage.Names()
	c.Assert(err, gc.IsNil)
	c.Assert(names, gc.DeepEquals, []string{"A", "p", "q", "r_2"})
}

func (s *Suite) TestConcurrent(c *gc.C) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			p := poly.PolyTerm(i, scalar.Int(1))
			if err := s.Storage.Put(name, p); err != nil {
				c.Error(err)
				return
			}
			if _, err := s.Storage.Get(name); err != nil {
				c.Error(err)
			}
		}(i, name)
	}
	wg.Wait()
	stored, err := s.Storage.Names()
	c.Assert(err, gc.IsNil)
	sort.Strings(names)
	c.Assert(stored, gc.DeepEquals, names)
	for i, name := range names {
		p, err := s.Storage.Get(name)
		c.Assert(err, gc.IsNil)
		c.Assert(p.Degree(), gc.Equals, i)
	}
}

func (s *Suite) TestConcurrentSameName(c *gc.C) {
	values := []*poly.Poly{
		poly.MustParse("1"),
		poly.MustParse("0 1"),
		poly.MustParse("0 0 1"),
	}
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if (i+w)%3 == 0 {
					err := s.Storage.Delete("p")
					if err != nil && !storage.IsNotFound(err) {
						c.Error(err)
					}
					continue
				}
				if err := s.Storage.Put("p", values[i%len(values)]); err != nil {
					c.Error(err)
				}
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := s.Storage.Get("p")
				if err != nil && !storage.IsNotFound(err) {
					c.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	want := poly.MustParse("7 7")
	c.Assert(s.Storage.Put("p", want), gc.IsNil)
	p, err := s.Storage.Get("p")
	c.Assert(err, gc.IsNil)
	c.Assert(p.Equal(want), gc.Equals, true)
	c.Assert(s.Storage.Delete("p"), gc.IsNil)
	_, err = s.Storage.Get("p")
	c.Assert(storage.IsNotFound(err), gc.Equals, true, gc.Commentf("%v", err))
}
