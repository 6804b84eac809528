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
	"github.com/BurntSushi/toml"
	"gopkg.in/errgo.v1"

	"polycalc/metrics"
	"polycalc/storage/leveldb"
)

const (
	DefaultHTTPBind = ":8642"
)

type HTTPConfig struct {
	Bind string `toml:"bind"`

	// MaxBodyLength limits request bodies; zero means the API default.
	MaxBodyLength int64 `toml:"maxBodyLength"`
}

const (
	DriverMemory  = "memory"
	DriverLevelDB = "leveldb"

	DefaultStorageDriver = DriverMemory
	DefaultLevelDBPath   = "polycalc.db"
)

type StorageConfig struct {
	Driver string `toml:"driver"`
	leveldb.Config
}

type Settings struct {
	HTTP HTTPConfig `toml:"http"`

	Storage StorageConfig `toml:"storage"`

	Metrics *metrics.Settings `toml:"metrics"`

	Prompt string `toml:"prompt"`

	LogFile  string `toml:"logfile"`
	LogLevel string `toml:"loglevel"`

	Software string `toml:"software"`
	Version  string `toml:"version"`
}

const (
	DefaultLogLevel = "INFO"
	DefaultPrompt   = "> "
)

func DefaultSettings() Settings {
	return Settings{
		HTTP: HTTPConfig{
			Bind: DefaultHTTPBind,
		},
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
			Config: leveldb.Config{
				Path:      DefaultLevelDBPath,
				CacheSize: leveldb.DefaultCacheSize,
			},
		},
		Metrics:  metrics.DefaultSettings(),
		Prompt:   DefaultPrompt,
		LogLevel: DefaultLogLevel,
		Software: "polycalc",
		Version:  "~unreleased",
	}
}

func ParseSettings(data string) (*Settings, error) {
	var doc struct {
		Polycalc Settings `toml:"polycalc"`
	}
	doc.Polycalc = DefaultSettings()
	_, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, errgo.Mask(err)
	}

	switch doc.Polycalc.Storage.Driver {
	case DriverMemory, DriverLevelDB:
	default:
		return nil, errgo.Newf("storage driver %q not supported", doc.Polycalc.Storage.Driver)
	}

	return &doc.Polycalc, nil
}
