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
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/carbocation/interpose"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"polycalc/api"
	"polycalc/metrics"
	"polycalc/storage"
	"polycalc/storage/leveldb"
	"polycalc/storage/mem"
)

type Server struct {
	settings        *Settings
	st              storage.Storage
	middle          *interpose.Middleware
	r               *httprouter.Router
	logWriter       io.WriteCloser
	metricsListener *metrics.Metrics

	t tomb.Tomb

	mu       sync.Mutex
	httpAddr net.Addr
	ready    chan struct{}
}

type statusCodeResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func NewStatusCodeResponseWriter(w http.ResponseWriter) *statusCodeResponseWriter {
	// WriteHeader is not called if our response implicitly
	// returns 200 OK, so we default to that status code.
	return &statusCodeResponseWriter{w, http.StatusOK}
}

func (scrw *statusCodeResponseWriter) WriteHeader(code int) {
	scrw.statusCode = code
	scrw.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		start := time.Now()
		scrw := NewStatusCodeResponseWriter(rw)
		next.ServeHTTP(scrw, req)
		duration := time.Since(start)
		fields := log.Fields{
			req.Method:    req.URL.String(),
			"duration":    duration.String(),
			"from":        req.RemoteAddr,
			"host":        req.Host,
			"status-code": scrw.statusCode,
			"user-agent":  req.UserAgent(),
		}
		for _, ph := range []string{"x-forwarded-for", "x-forwarded-host"} {
			if v := req.Header.Get(ph); v != "" {
				fields[ph] = v
			}
		}
		log.WithFields(fields).Info()
		recordHTTPRequestDuration(req.Method, scrw.statusCode, duration)
	})
}

// NewServer creates a server from settings, opening its storage. Nil
// settings means DefaultSettings.
func NewServer(settings *Settings) (*Server, error) {
	if settings == nil {
		defaults := DefaultSettings()
		settings = &defaults
	}
	s := &Server{
		settings: settings,
		r:        httprouter.New(),
		ready:    make(chan struct{}),
	}

	var err error
	s.st, err = DialStorage(settings)
	if err != nil {
		return nil, err
	}

	s.middle = interpose.New()
	s.middle.Use(logRequests)
	s.middle.UseHandler(s.r)

	if settings.Metrics != nil {
		s.metricsListener = metrics.NewMetrics(settings.Metrics)
	}

	var options []api.HandlerOption
	if settings.HTTP.MaxBodyLength > 0 {
		options = append(options, api.MaxBodyLength(settings.HTTP.MaxBodyLength))
	}
	h, err := api.NewHandler(s.st, options...)
	if err != nil {
		s.st.Close()
		return nil, errors.WithStack(err)
	}
	h.Register(s.r)
	s.r.GET("/version", s.version)

	registerMetrics()
	return s, nil
}

// DialStorage opens the storage backend named by the settings.
func DialStorage(settings *Settings) (storage.Storage, error) {
	switch settings.Storage.Driver {
	case DriverMemory, "":
		return mem.NewStorage(), nil
	case DriverLevelDB:
		st, err := leveldb.New(settings.Storage.Config)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, errors.Errorf("storage driver %q not supported", settings.Storage.Driver)
}

// Storage returns the storage the server was created with.
func (s *Server) Storage() storage.Storage {
	return s.st
}

func (s *Server) version(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, s.settings.Software+" "+s.settings.Version+"\n")
}

func (s *Server) Start() error {
	s.openLog()

	ln, err := s.newListener(s.settings.HTTP.Bind)
	if err != nil {
		return errors.WithStack(err)
	}
	s.mu.Lock()
	s.httpAddr = ln.Addr()
	s.mu.Unlock()
	close(s.ready)
	log.Infof("serving HTTP on %s", ln.Addr())
	s.t.Go(func() error {
		err := http.Serve(ln, s.middle)
		select {
		case <-s.t.Dying():
			return nil
		default:
		}
		return errors.WithStack(err)
	})

	if s.metricsListener != nil {
		if err := s.metricsListener.Start(); err != nil {
			s.t.Kill(err)
			return errors.WithStack(err)
		}
	}
	return nil
}

// Addr returns the address the HTTP listener is bound to, waiting for Start
// if necessary.
func (s *Server) Addr() net.Addr {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpAddr
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func (s *Server) openLog() {
	s.logWriter = OpenLog(s.settings)
}

// OpenLog directs logging to the configured log file, or stderr if there is
// none, at the configured level. The returned writer is closed to release
// the file.
func OpenLog(settings *Settings) io.WriteCloser {
	defer func() {
		level, err := log.ParseLevel(strings.ToLower(settings.LogLevel))
		if err != nil {
			log.Warningf("invalid LogLevel=%q: %v", settings.LogLevel, err)
			return
		}
		log.SetLevel(level)
	}()

	var w io.WriteCloser = nopCloser{os.Stderr}
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("failed to open LogFile=%q: %v", settings.LogFile, err)
		} else {
			w = f
		}
	}
	log.SetOutput(w)
	log.Debug("log opened")
	return w
}

func (s *Server) closeLog() {
	log.SetOutput(os.Stderr)
	if s.logWriter != nil {
		s.logWriter.Close()
	}
}

func (s *Server) LogRotate() {
	w := s.logWriter
	s.openLog()
	if w != nil {
		w.Close()
	}
}

func (s *Server) Wait() error {
	return s.t.Wait()
}

func (s *Server) Stop() {
	defer s.closeLog()

	if s.metricsListener != nil {
		s.metricsListener.Stop()
	}
	select {
	case <-s.ready:
		s.t.Kill(nil)
		s.t.Wait()
	default:
	}
	if err := s.st.Close(); err != nil {
		log.Errorf("failed to close storage: %+v", err)
	}
}

// tcpKeepAliveListener sets TCP keep-alive timeouts on accepted
// connections so dead TCP connections eventually go away.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept implements net.Listener.
func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}

func (s *Server) newListener(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	s.t.Go(func() error {
		<-s.t.Dying()
		return ln.Close()
	})
	return tcpKeepAliveListener{ln.(*net.TCPListener)}, nil
}
