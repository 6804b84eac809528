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
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"polycalc/server"
)

func Die(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// LoadSettings reads settings from configFile, or returns the defaults if
// configFile is empty.
func LoadSettings(configFile string) (*server.Settings, error) {
	if configFile == "" {
		settings := server.DefaultSettings()
		return &settings, nil
	}
	conf, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, errgo.Mask(err)
	}
	settings, err := server.ParseSettings(string(conf))
	if err != nil {
		return nil, errgo.Notef(err, "invalid config file %q", configFile)
	}
	return settings, nil
}

func StartCPUProf(cpuProf bool, prior *os.File) *os.File {
	if prior != nil {
		pprof.StopCPUProfile()
		log.Infof("CPU profile written to %q", prior.Name())
		prior.Close()
		os.Rename(filepath.Join(os.TempDir(), "polycalc-cpu.prof.part"),
			filepath.Join(os.TempDir(), "polycalc-cpu.prof"))
	}
	if cpuProf {
		profName := filepath.Join(os.TempDir(), "polycalc-cpu.prof.part")
		f, err := os.Create(profName)
		if err != nil {
			Die(errors.WithStack(err))
		}
		pprof.StartCPUProfile(f)
		return f
	}
	return nil
}

func WriteMemProf(memProf bool) {
	if memProf {
		tmpName := filepath.Join(os.TempDir(), fmt.Sprintf("polycalc-mem.prof.%d", time.Now().Unix()))
		profName := filepath.Join(os.TempDir(), "polycalc-mem.prof")
		f, err := os.Create(tmpName)
		if err != nil {
			Die(errors.WithStack(err))
		}
		err = pprof.WriteHeapProfile(f)
		f.Close()
		if err != nil {
			log.Warningf("failed to write heap profile: %v", err)
			return
		}
		log.Infof("Heap profile written to %q", f.Name())
		os.Rename(tmpName, profName)
	}
}
