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

// Package api serves polynomial operations and named polynomials as JSON
// over HTTP.
package api

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"polycalc/calc"
	"polycalc/poly"
	"polycalc/scalar"
	"polycalc/storage"
)

const DefaultMaxBodyLength = 64 * 1024

var (
	errMissingParam = errors.New("missing parameter")
	errBodyTooLarge = errors.New("request body too large")
)

// Result is the JSON response to a successful request. Result holds the
// canonical text of a polynomial or scalar; Value holds the dense
// coefficient list of a polynomial result.
type Result struct {
	Name   string `json:"name,omitempty"`
	Result string `json:"result"`
	Value  string `json:"value,omitempty"`
}

type varsResponse struct {
	Vars []Result `json:"vars"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func polyResult(name string, p *poly.Poly) Result {
	return Result{Name: name, Result: p.String(), Value: p.Encode()}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		return http.StatusInternalServerError
	case storage.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, scalar.ErrSyntax),
		errors.Is(err, scalar.ErrZeroDenominator),
		errors.Is(err, poly.ErrEmpty),
		errors.Is(err, calc.ErrUsage),
		errors.Is(err, calc.ErrUnknownCommand),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, errMissingParam):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func httpError(w http.ResponseWriter, err error) {
	statusCode := statusOf(err)
	if statusCode == http.StatusInternalServerError {
		log.Errorf("HTTP %d: %+v", statusCode, err)
	} else {
		log.Debugf("HTTP %d: %v", statusCode, err)
	}
	writeJSON(w, statusCode, errorResponse{Error: err.Error()})
}

type Handler struct {
	storage storage.Storage
	session *calc.Session

	maxBodyLength int64
}

type HandlerOption func(h *Handler) error

// MaxBodyLength limits the size of request bodies.
func MaxBodyLength(n int64) HandlerOption {
	return func(h *Handler) error {
		if n <= 0 {
			return errors.Errorf("invalid max body length %d", n)
		}
		h.maxBodyLength = n
		return nil
	}
}

func NewHandler(storage storage.Storage, options ...HandlerOption) (*Handler, error) {
	h := &Handler{
		storage:       storage,
		session:       calc.NewSession(storage),
		maxBodyLength: DefaultMaxBodyLength,
	}
	for _, option := range options {
		err := option(h)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return h, nil
}

func (h *Handler) Register(r *httprouter.Router) {
	r.GET("/poly/render", h.Render)
	r.GET("/poly/add", h.binary(func(p, q *poly.Poly) *poly.Poly { return p.Add(q) }))
	r.GET("/poly/sub", h.binary(func(p, q *poly.Poly) *poly.Poly { return p.Sub(q) }))
	r.GET("/poly/mul", h.binary(func(p, q *poly.Poly) *poly.Poly { return p.Mul(q) }))
	r.GET("/poly/deriv", h.Deriv)
	r.GET("/poly/eval", h.Eval)
	r.GET("/poly/equal", h.Equal)

	r.GET("/vars", h.Vars)
	r.GET("/vars/:name", h.GetVar)
	r.PUT("/vars/:name", h.PutVar)
	r.DELETE("/vars/:name", h.DeleteVar)

	r.POST("/calc", h.Calc)
}

func param(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", errors.Wrapf(errMissingParam, "%q", name)
	}
	return v, nil
}

// operand resolves the query parameter name to a polynomial. The value is
// either a stored name or a coefficient list.
func (h *Handler) operand(r *http.Request, name string) (*poly.Poly, error) {
	v, err := param(r, name)
	if err != nil {
		return nil, err
	}
	return h.session.Operand(v)
}

func (h *Handler) readBody(r *http.Request) (string, error) {
	defer r.Body.Close()
	body, err := ioutil.ReadAll(io.LimitReader(r.Body, h.maxBodyLength+1))
	if err != nil {
		return "", errors.WithStack(err)
	}
	if int64(len(body)) > h.maxBodyLength {
		return "", errors.WithStack(errBodyTooLarge)
	}
	return string(body), nil
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, err := h.operand(r, "p")
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polyResult("", p))
}

func (h *Handler) binary(f func(p, q *poly.Poly) *poly.Poly) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		a, err := h.operand(r, "a")
		if err != nil {
			httpError(w, err)
			return
		}
		b, err := h.operand(r, "b")
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, polyResult("", f(a, b)))
	}
}

func (h *Handler) Deriv(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, err := h.operand(r, "p")
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polyResult("", p.Derivative()))
}

func (h *Handler) Eval(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, err := h.operand(r, "p")
	if err != nil {
		httpError(w, err)
		return
	}
	xs, err := param(r, "x")
	if err != nil {
		httpError(w, err)
		return
	}
	x, err := scalar.ParseScalar(xs)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Result{Result: p.Eval(x).String()})
}

func (h *Handler) Equal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a, err := h.operand(r, "a")
	if err != nil {
		httpError(w, err)
		return
	}
	b, err := h.operand(r, "b")
	if err != nil {
		httpError(w, err)
		return
	}
	result := "false"
	if a.Equal(b) {
		result = "true"
	}
	writeJSON(w, http.StatusOK, Result{Result: result})
}

func (h *Handler) Vars(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	names, err := h.storage.Names()
	if err != nil {
		httpError(w, err)
		return
	}
	resp := varsResponse{Vars: []Result{}}
	for _, name := range names {
		p, err := h.storage.Get(name)
		if storage.IsNotFound(err) {
			continue
		} else if err != nil {
			httpError(w, err)
			return
		}
		resp.Vars = append(resp.Vars, polyResult(name, p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetVar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	p, err := h.storage.Get(name)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polyResult(name, p))
}

func (h *Handler) PutVar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	body, err := h.readBody(r)
	if err != nil {
		httpError(w, err)
		return
	}
	p, err := poly.Parse(body)
	if err != nil {
		httpError(w, err)
		return
	}
	err = h.storage.Put(name, p)
	if err != nil {
		httpError(w, err)
		return
	}
	log.WithFields(log.Fields{"name": name, "poly": p.String()}).Debug("stored")
	writeJSON(w, http.StatusOK, polyResult(name, p))
}

func (h *Handler) DeleteVar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	err := h.storage.Delete(name)
	if err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calc executes the single calculator statement in the request body.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := h.readBody(r)
	if err != nil {
		httpError(w, err)
		return
	}
	stmt := strings.TrimSpace(body)
	if strings.ContainsAny(stmt, "\r\n") {
		httpError(w, errors.Wrap(calc.ErrUsage, "one statement per request"))
		return
	}
	out, err := h.session.Exec(stmt)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Result{Result: out})
}
