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

// Package metrics serves the Prometheus exposition endpoint.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"
	"gopkg.in/tomb.v2"
)

const shutdownTimeout = 5 * time.Second

type Metrics struct {
	s   *Settings
	mux *http.ServeMux
	srv *http.Server
	t   tomb.Tomb

	started bool
	addr    chan net.Addr
}

func NewMetrics(s *Settings) *Metrics {
	if s == nil {
		s = DefaultSettings()
	}

	m := &Metrics{
		s:    s,
		mux:  http.NewServeMux(),
		addr: make(chan net.Addr, 1),
	}
	m.mux.Handle(m.s.MetricsPath, promhttp.Handler())
	m.srv = &http.Server{Handler: m.mux}

	return m
}

// Start listens on the configured address and serves metrics until Stop is
// called.
func (m *Metrics) Start() error {
	ln, err := net.Listen("tcp", m.s.MetricsAddr)
	if err != nil {
		return errgo.Notef(err, "cannot listen on metrics address %q", m.s.MetricsAddr)
	}
	m.started = true
	m.addr <- ln.Addr()
	m.t.Go(func() error {
		log.Infof("metrics: serving %s on %s", m.s.MetricsPath, ln.Addr())
		err := m.srv.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("failed to serve metrics: %v", err)
			return errgo.Mask(err)
		}
		return nil
	})
	m.t.Go(func() error {
		<-m.t.Dying()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errgo.Mask(m.srv.Shutdown(ctx))
	})
	return nil
}

// Addr returns the address the listener is bound to. It blocks until Start
// has been called successfully.
func (m *Metrics) Addr() net.Addr {
	addr := <-m.addr
	m.addr <- addr
	return addr
}

func (m *Metrics) Stop() {
	if !m.started {
		return
	}
	log.Info("metrics: stopping")
	m.t.Kill(nil)
	if err := m.t.Wait(); err != nil {
		log.Error(errgo.Details(err))
	}
	log.Info("metrics: stopped")
}
