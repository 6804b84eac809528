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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"
	"gopkg.in/tomb.v2"

	"polycalc/calc"
	"polycalc/server"
	"polycalc/server/cmd"
)

var (
	configFile = flag.String("config", "", "config file")
	stmt       = flag.String("e", "", "execute one statement and exit")
	noPrompt   = flag.Bool("q", false, "do not print a prompt")
)

func main() {
	flag.Parse()

	settings, err := cmd.LoadSettings(*configFile)
	if err != nil {
		cmd.Die(err)
	}
	server.OpenLog(settings)

	st, err := server.DialStorage(settings)
	if err != nil {
		cmd.Die(errgo.Mask(err))
	}
	sess := calc.NewSession(st)

	if *stmt != "" {
		out, err := sess.Exec(*stmt)
		st.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if out != "" {
			fmt.Println(out)
		}
		cmd.Die(nil)
	}

	prompt := settings.Prompt
	if *noPrompt {
		prompt = ""
	}

	var t tomb.Tomb
	t.Go(func() error {
		return sess.Serve(t.Dying(), os.Stdin, os.Stdout, prompt)
	})

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-c:
		t.Kill(nil)
	case <-t.Dying():
	}
	err = t.Wait()

	if err := st.Close(); err != nil {
		log.Errorf("failed to close storage: %+v", err)
	}
	cmd.Die(err)
}
