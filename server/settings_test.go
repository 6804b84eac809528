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
	"testing"

	gc "gopkg.in/check.v1"

	"polycalc/metrics"
	"polycalc/storage/leveldb"
)

func Test(t *testing.T) { gc.TestingT(t) }

type SettingsSuite struct{}

var _ = gc.Suite(&SettingsSuite{})

func (s *SettingsSuite) TestParse(c *gc.C) {
	defaults := DefaultSettings()
	testCases := []struct {
		desc     string
		toml     string
		settings *Settings
		err      string
	}{{
		"empty string",
		``,
		&defaults,
		"",
	}, {
		"leveldb storage",
		`
[polycalc]
loglevel="debug"
prompt="poly> "

[polycalc.http]
bind="127.0.0.1:9000"
maxBodyLength=1024

[polycalc.storage]
driver="leveldb"
path="/var/lib/polycalc/polys.db"
cacheSize=32

[polycalc.metrics]
metricsAddr=":9999"
metricsPath="/m"
`,
		&Settings{
			HTTP: HTTPConfig{
				Bind:          "127.0.0.1:9000",
				MaxBodyLength: 1024,
			},
			Storage: StorageConfig{
				Driver: DriverLevelDB,
				Config: leveldb.Config{
					Path:      "/var/lib/polycalc/polys.db",
					CacheSize: 32,
				},
			},
			Metrics: &metrics.Settings{
				MetricsAddr: ":9999",
				MetricsPath: "/m",
			},
			Prompt:   "poly> ",
			LogLevel: "debug",
			Software: "polycalc",
			Version:  "~unreleased",
		},
		"",
	}, {
		"unsupported driver",
		`
[polycalc.storage]
driver="postgres"
`,
		nil,
		`storage driver "postgres" not supported`,
	}, {
		"bad toml",
		`[polycalc`,
		nil,
		".*",
	}}
	for i, tc := range testCases {
		c.Logf("test#%d: %s", i, tc.desc)
		settings, err := ParseSettings(tc.toml)
		if tc.err != "" {
			c.Assert(err, gc.ErrorMatches, tc.err)
			continue
		}
		c.Assert(err, gc.IsNil)
		c.Assert(settings, gc.DeepEquals, tc.settings)
	}
}
