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

package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	gc "gopkg.in/check.v1"

	"polycalc/api"
	"polycalc/poly"
)

type ServerSuite struct {
	srv *Server
	url string
}

var _ = gc.Suite(&ServerSuite{})

func (s *ServerSuite) start(c *gc.C, settings *Settings) {
	srv, err := NewServer(settings)
	c.Assert(err, gc.IsNil)
	c.Assert(srv.Start(), gc.IsNil)
	s.srv = srv
	s.url = "http://" + srv.Addr().String()
}

func testSettings() *Settings {
	settings := DefaultSettings()
	settings.HTTP.Bind = "127.0.0.1:0"
	settings.Metrics = nil
	settings.LogLevel = "error"
	return &settings
}

func (s *ServerSuite) TearDownTest(c *gc.C) {
	if s.srv != nil {
		s.srv.Stop()
		s.srv = nil
	}
}

func (s *ServerSuite) getResult(c *gc.C, path string) api.Result {
	res, err := http.Get(s.url + path)
	c.Assert(err, gc.IsNil)
	defer res.Body.Close()
	c.Assert(res.StatusCode, gc.Equals, http.StatusOK)
	var result api.Result
	c.Assert(json.NewDecoder(res.Body).Decode(&result), gc.IsNil)
	return result
}

func (s *ServerSuite) TestServeMemory(c *gc.C) {
	s.start(c, testSettings())

	result := s.getResult(c, "/poly/mul?"+url.Values{"a": {"1 1"}, "b": {"1 -1"}}.Encode())
	c.Assert(result.Result, gc.Equals, "1 - x^2")

	res, err := http.Get(s.url + "/version")
	c.Assert(err, gc.IsNil)
	body, err := ioutil.ReadAll(res.Body)
	res.Body.Close()
	c.Assert(err, gc.IsNil)
	c.Assert(string(body), gc.Equals, "polycalc ~unreleased\n")

	res, err = http.Get(s.url + "/nope")
	c.Assert(err, gc.IsNil)
	res.Body.Close()
	c.Assert(res.StatusCode, gc.Equals, http.StatusNotFound)
}

func (s *ServerSuite) TestServeLevelDB(c *gc.C) {
	settings := testSettings()
	settings.Storage.Driver = DriverLevelDB
	settings.Storage.Path = filepath.Join(c.MkDir(), "polys.db")
	s.start(c, settings)

	req, err := http.NewRequest("PUT", s.url+"/vars/p", strings.NewReader("1 2 1"))
	c.Assert(err, gc.IsNil)
	res, err := http.DefaultClient.Do(req)
	c.Assert(err, gc.IsNil)
	res.Body.Close()
	c.Assert(res.StatusCode, gc.Equals, http.StatusOK)
	s.srv.Stop()
	s.srv = nil

	// The polynomial survives a restart.
	s.start(c, settings)
	result := s.getResult(c, "/vars/p")
	c.Assert(result.Result, gc.Equals, "1 + 2x + x^2")
	p, err := s.srv.Storage().Get("p")
	c.Assert(err, gc.IsNil)
	c.Assert(p.Equal(poly.MustParse("1 2 1")), gc.Equals, true)
}

func (s *ServerSuite) TestDialStorageUnsupported(c *gc.C) {
	settings := testSettings()
	settings.Storage.Driver = "mongo"
	_, err := DialStorage(settings)
	c.Assert(err, gc.ErrorMatches, `storage driver "mongo" not supported`)
}

func (s *ServerSuite) TestLogFile(c *gc.C) {
	settings := testSettings()
	settings.LogFile = filepath.Join(c.MkDir(), "polycalc.log")
	settings.LogLevel = "info"
	s.start(c, settings)

	s.getResult(c, "/poly/render?p=1")
	s.srv.LogRotate()
	s.getResult(c, "/poly/render?p=2")

	// Requests are logged after the response is written.
	var n int
	for i := 0; i < 100 && n < 2; i++ {
		data, err := ioutil.ReadFile(settings.LogFile)
		c.Assert(err, gc.IsNil)
		n = strings.Count(string(data), "/poly/render")
		time.Sleep(20 * time.Millisecond)
	}
	c.Assert(n, gc.Equals, 2)
}
