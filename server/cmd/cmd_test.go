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

package cmd

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	gc "gopkg.in/check.v1"

	"polycalc/server"
)

func Test(t *testing.T) { gc.TestingT(t) }

type CmdSuite struct{}

var _ = gc.Suite(&CmdSuite{})

func (s *CmdSuite) TestLoadSettingsDefault(c *gc.C) {
	settings, err := LoadSettings("")
	c.Assert(err, gc.IsNil)
	c.Assert(*settings, gc.DeepEquals, server.DefaultSettings())
}

func (s *CmdSuite) TestLoadSettingsFile(c *gc.C) {
	path := filepath.Join(c.MkDir(), "polycalc.conf")
	err := ioutil.WriteFile(path, []byte(`
[polycalc]
prompt="$ "
[polycalc.storage]
driver="leveldb"
`), 0644)
	c.Assert(err, gc.IsNil)
	settings, err := LoadSettings(path)
	c.Assert(err, gc.IsNil)
	c.Assert(settings.Prompt, gc.Equals, "$ ")
	c.Assert(settings.Storage.Driver, gc.Equals, server.DriverLevelDB)
	c.Assert(settings.Storage.Path, gc.Equals, server.DefaultLevelDBPath)
}

func (s *CmdSuite) TestLoadSettingsErrors(c *gc.C) {
	dir := c.MkDir()
	_, err := LoadSettings(filepath.Join(dir, "missing.conf"))
	c.Assert(err, gc.ErrorMatches, ".*no such file or directory")

	path := filepath.Join(dir, "bad.conf")
	c.Assert(ioutil.WriteFile(path, []byte("[polycalc.storage]\ndriver=\"mongo\"\n"), 0644), gc.IsNil)
	_, err = LoadSettings(path)
	c.Assert(err, gc.ErrorMatches, `invalid config file ".*bad.conf": storage driver "mongo" not supported`)
}
