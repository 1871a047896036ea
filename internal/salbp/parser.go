package salbp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Number of header tokens skipped before each field of the instance format:
//
//	<3> n <2> C <5> n*(id time) <2> (pred,succ)...
//
// The counts are a fixed contract; a file with different headers is rejected
// or misread, never re-synchronised.
const (
	skipBeforeTaskCount  = 3
	skipBeforeCycleTime  = 2
	skipBeforeTaskTimes  = 5
	skipBeforePrecedence = 2
)

// Parse reads an instance in the fixed token format from r.
// The returned instance is structurally valid but not yet checked for cycles; see Validate.
func Parse(r io.Reader) (*Instance, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	return ParseString(string(raw))
}

// ParseString is Parse over an in-memory text.
func ParseString(text string) (*Instance, error) {
	s := &scanner{toks: strings.Fields(text)}

	if err := s.skip(skipBeforeTaskCount, "task count header"); err != nil {
		return nil, err
	}
	n, err := s.integer("task count")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, &ParseError{Offset: s.pos - 1, Token: s.toks[s.pos-1], Msg: "task count must be > 0"}
	}
	if err := s.skip(skipBeforeCycleTime, "cycle time header"); err != nil {
		return nil, err
	}
	cycleTime, err := s.integer("cycle time")
	if err != nil {
		return nil, err
	}
	if err := s.skip(skipBeforeTaskTimes, "task times header"); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, min(n, len(s.toks)/2))
	declared := make(map[int]bool, cap(tasks))
	for i := 0; i < n; i++ {
		if s.done() || !isNumeric(s.peek()) {
			return nil, s.errorf("declared %d tasks but found %d task time pairs", n, i)
		}
		id, t, err := s.pair("task time pair")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, Task{ID: id, Time: t})
		declared[id] = true
	}
	if !s.done() && isNumeric(s.peek()) {
		return nil, s.errorf("declared %d tasks but more task time pairs follow", n)
	}

	if err := s.skip(skipBeforePrecedence, "precedence header"); err != nil {
		return nil, err
	}

	var edges []Edge
	for !s.done() {
		if isMarker(s.peek()) {
			s.pos++
			continue
		}
		at := s.pos
		pred, succ, err := s.pair("precedence pair")
		if err != nil {
			return nil, err
		}
		for _, id := range [2]int{pred, succ} {
			if !declared[id] {
				return nil, &ParseError{Offset: at, Token: s.toks[at], Msg: fmt.Sprintf("precedence references undeclared task %d", id)}
			}
		}
		edges = append(edges, Edge{Pred: pred, Succ: succ})
	}

	return NewInstance(cycleTime, tasks, edges)
}

type scanner struct {
	toks []string
	pos  int
}

func (s *scanner) done() bool { return s.pos >= len(s.toks) }

func (s *scanner) peek() string { return s.toks[s.pos] }

func (s *scanner) errorf(format string, args ...any) *ParseError {
	e := &ParseError{Offset: -1, Msg: fmt.Sprintf(format, args...)}
	if !s.done() {
		e.Offset = s.pos
		e.Token = s.toks[s.pos]
	}
	return e
}

func (s *scanner) skip(n int, what string) error {
	for i := 0; i < n; i++ {
		if s.done() {
			return s.errorf("unexpected end of input in %s", what)
		}
		s.pos++
	}
	return nil
}

func (s *scanner) integer(what string) (int, error) {
	if s.done() {
		return 0, s.errorf("unexpected end of input, expected %s", what)
	}
	tok := s.peek()
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, s.errorf("%s is not an integer", what)
	}
	s.pos++
	return v, nil
}

// pair reads two integers separated by whitespace and/or a comma.
// "1,3", "1, 3", "1 ,3" and "1 3" are all accepted.
func (s *scanner) pair(what string) (int, int, error) {
	var vals [2]int
	got := 0
	for got < 2 {
		if s.done() {
			return 0, 0, s.errorf("unexpected end of input in %s", what)
		}
		tok := s.peek()
		for _, part := range strings.Split(tok, ",") {
			if part == "" {
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				return 0, 0, s.errorf("%s: %q is not an integer", what, part)
			}
			if got == 2 {
				return 0, 0, s.errorf("%s: too many values", what)
			}
			vals[got] = v
			got++
		}
		s.pos++
	}
	return vals[0], vals[1], nil
}

// isNumeric reports whether tok starts a pair: its first non-empty comma part is an integer.
func isNumeric(tok string) bool {
	first, _, _ := strings.Cut(strings.TrimLeft(tok, ","), ",")
	_, err := strconv.Atoi(first)
	return err == nil
}

// isMarker matches single-token section markers such as "<end>".
func isMarker(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">")
}
