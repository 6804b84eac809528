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

package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"polycalc/server"
	"polycalc/server/cmd"
)

var (
	configFile = flag.String("config", "", "config file")
	cpuProf    = flag.Bool("cpuprof", false, "enable CPU profiling")
	memProf    = flag.Bool("memprof", false, "enable mem profiling")
)

func main() {
	flag.Parse()

	settings, err := cmd.LoadSettings(*configFile)
	if err != nil {
		cmd.Die(err)
	}

	cpuFile := cmd.StartCPUProf(*cpuProf, nil)

	srv, err := server.NewServer(settings)
	if err != nil {
		cmd.Die(err)
	}

	err = srv.Start()
	if err != nil {
		srv.Stop()
		cmd.Die(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for sig := range c {
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				srv.Stop()
			case syscall.SIGUSR1:
				srv.LogRotate()
			case syscall.SIGUSR2:
				cpuFile = cmd.StartCPUProf(*cpuProf, cpuFile)
				cmd.WriteMemProf(*memProf)
			}
		}
	}()

	err = srv.Wait()
	cmd.Die(err)
}
