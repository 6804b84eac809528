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

// Package calc implements a line-oriented calculator over named
// polynomials.
//
// Each statement is one line. A statement either assigns a polynomial to a
// name or applies an operation and prints its result:
//
//	p = 1 0 -1          p is 1 - x^2
//	q = deriv p         q is -2x
//	mul p [1 1]         prints 1 + x - x^2 - x^3
//	eval p 1/2          prints 3/4
//
// An operand is either a stored name, a bracketed coefficient list such as
// [1 0 -1], or a single coefficient such as 5 or -1/2.
package calc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"polycalc/poly"
	"polycalc/scalar"
	"polycalc/storage"
)

const HelpText = `statements:
  NAME = c0 c1 ...    define NAME from coefficients in ascending degree order
  NAME = OP ARGS      assign the result of add, sub, mul or deriv to NAME
  add A B             print A + B
  sub A B             print A - B
  mul A B             print A * B
  deriv A             print the derivative of A
  eval A X            print A evaluated at the scalar X
  equal A B           print whether A and B are equal
  show A              print A
  del NAME            forget NAME
  list                print every stored polynomial
  help                print this text
operands are stored names, bracketed coefficient lists like [1 0 -1/2],
or single coefficients like 3 or -1/2.`

type polyOp struct {
	usage string
	nargs int
	apply func(args []*poly.Poly) *poly.Poly
}

var polyOps = map[string]polyOp{
	"add": {"add A B", 2, func(args []*poly.Poly) *poly.Poly {
		return args[0].Add(args[1])
	}},
	"sub": {"sub A B", 2, func(args []*poly.Poly) *poly.Poly {
		return args[0].Sub(args[1])
	}},
	"mul": {"mul A B", 2, func(args []*poly.Poly) *poly.Poly {
		return args[0].Mul(args[1])
	}},
	"deriv": {"deriv A", 1, func(args []*poly.Poly) *poly.Poly {
		return args[0].Derivative()
	}},
}

var keywords = map[string]bool{
	"add": true, "sub": true, "mul": true, "deriv": true,
	"eval": true, "equal": true, "show": true, "del": true,
	"list": true, "help": true, "quit": true, "exit": true,
}

// IsKeyword returns whether s names an operation and so cannot be used as a
// polynomial name.
func IsKeyword(s string) bool {
	return keywords[s]
}

// Session executes statements against the polynomials held in a Storage.
//
// A Session keeps no state of its own and may be used from several
// goroutines at once.
type Session struct {
	st storage.Storage
}

// NewSession returns a session that keeps its named polynomials in st.
func NewSession(st storage.Storage) *Session {
	registerMetrics()
	return &Session{st: st}
}

// Exec executes a single statement and returns the text it prints. Blank
// lines and lines starting with '#' print nothing.
func (s *Session) Exec(line string) (string, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
		return "", nil
	}

	op := tokens[0]
	if len(tokens) > 1 && tokens[1] == "=" {
		op = "assign"
	}
	start := time.Now()
	result, err := s.exec(tokens)
	duration := time.Since(start)
	recordOperation(op, err, duration)
	log.WithFields(log.Fields{
		"op":       op,
		"duration": duration,
	}).Debugf("exec %q: err=%v", line, err)
	return result, err
}

func (s *Session) exec(tokens []string) (string, error) {
	if len(tokens) > 1 && tokens[1] == "=" {
		return s.assign(tokens[0], tokens[2:])
	}

	op, args := tokens[0], tokens[1:]
	if _, ok := polyOps[op]; ok {
		p, err := s.apply(op, args)
		if err != nil {
			return "", err
		}
		return p.String(), nil
	}

	switch op {
	case "eval":
		if len(args) != 2 {
			return "", usageError(`expected "eval A X"`)
		}
		p, err := s.Operand(args[0])
		if err != nil {
			return "", err
		}
		x, err := scalar.ParseScalar(args[1])
		if err != nil {
			return "", err
		}
		return p.Eval(x).String(), nil
	case "equal":
		if len(args) != 2 {
			return "", usageError(`expected "equal A B"`)
		}
		ps, err := s.operands(args)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(ps[0].Equal(ps[1])), nil
	case "show":
		if len(args) != 1 {
			return "", usageError(`expected "show A"`)
		}
		p, err := s.Operand(args[0])
		if err != nil {
			return "", err
		}
		return p.String(), nil
	case "del":
		if len(args) != 1 {
			return "", usageError(`expected "del NAME"`)
		}
		return "", s.st.Delete(args[0])
	case "list":
		if len(args) != 0 {
			return "", usageError(`expected "list"`)
		}
		return s.list()
	case "help":
		return HelpText, nil
	}
	return "", errors.Wrapf(ErrUnknownCommand, "%q", op)
}

func (s *Session) assign(name string, rhs []string) (string, error) {
	if !storage.ValidName(name) || IsKeyword(name) {
		return "", errors.Wrapf(storage.ErrInvalidName, "%q", name)
	}
	if len(rhs) == 0 {
		return "", usageError(`expected "%s = c0 c1 ..."`, name)
	}

	var p *poly.Poly
	var err error
	switch {
	case polyOps[rhs[0]].apply != nil:
		p, err = s.apply(rhs[0], rhs[1:])
	case IsKeyword(rhs[0]):
		err = usageError("%s does not yield a polynomial", rhs[0])
	case len(rhs) == 1:
		p, err = s.Operand(rhs[0])
	default:
		p, err = poly.Parse(strings.Join(rhs, " "))
	}
	if err != nil {
		return "", err
	}
	if err := s.st.Put(name, p); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %v", name, p), nil
}

func (s *Session) apply(op string, args []string) (*poly.Poly, error) {
	pop := polyOps[op]
	if len(args) != pop.nargs {
		return nil, usageError("expected %q", pop.usage)
	}
	ps, err := s.operands(args)
	if err != nil {
		return nil, err
	}
	return pop.apply(ps), nil
}

func (s *Session) operands(args []string) ([]*poly.Poly, error) {
	ps := make([]*poly.Poly, len(args))
	for i, arg := range args {
		p, err := s.Operand(arg)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

// Operand resolves a stored name, a bracketed coefficient list or an
// unbracketed coefficient list such as "5" or "1 0 -1/2".
func (s *Session) Operand(token string) (*poly.Poly, error) {
	switch {
	case strings.HasPrefix(token, "["):
		return poly.Parse(strings.TrimSuffix(token[1:], "]"))
	case storage.ValidName(token):
		return s.st.Get(token)
	default:
		return poly.Parse(token)
	}
}

func (s *Session) list() (string, error) {
	names, err := s.st.Names()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		p, err := s.st.Get(name)
		if storage.IsNotFound(err) {
			// Deleted since listing.
			continue
		} else if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s = %v", name, p))
	}
	return strings.Join(lines, "\n"), nil
}

// Serve reads statements from r until EOF, a "quit" statement or the dying
// channel is closed, writing each result to w. Errors are written to w and
// do not stop the session. If prompt is not empty it is written before each
// statement is read. A nil dying channel never closes.
//
// A read blocked in r when dying closes is abandoned, not interrupted.
func (s *Session) Serve(dying <-chan struct{}, r io.Reader, w io.Writer, prompt string) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-dying:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		if prompt != "" {
			fmt.Fprint(w, prompt)
		}
		var line string
		select {
		case <-dying:
			return nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return errors.WithStack(err)
				default:
					return nil
				}
			}
			line = strings.TrimSpace(l)
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		out, err := s.Exec(line)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// tokenize splits a statement on whitespace. '=' is always a token of its
// own and a bracketed list is kept whole.
func tokenize(line string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(line); {
		switch ch := line[i]; {
		case isSpace(ch):
			i++
		case ch == '=':
			tokens = append(tokens, "=")
			i++
		case ch == '[':
			j := strings.IndexByte(line[i:], ']')
			if j < 0 {
				return nil, usageError("unterminated list %q", line[i:])
			}
			tokens = append(tokens, line[i:i+j+1])
			i += j + 1
		default:
			j := i
			for j < len(line) && !isSpace(line[j]) && line[j] != '=' && line[j] != '[' {
				j++
			}
			tokens = append(tokens, line[i:j])
			i = j
		}
	}
	return tokens, nil
}
