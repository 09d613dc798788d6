// Package debugctl drives a generated test process running in debug mode.
// The process emits newline-delimited JSON events on stdout and accepts
// commands on stdin; the transport is plain io so callers can wire it to an
// exec pipe, a socket or a test buffer.
package debugctl

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/verolang/verogen/internal/domain"
)

// EventKind discriminates stepper events.
type EventKind string

const (
	EventStepBefore EventKind = "step:before"
	EventStepAfter  EventKind = "step:after"
	EventPaused     EventKind = "execution:paused"
	EventVariable   EventKind = "variable"
)

// Event is one message from the instrumented test run. Fields are populated
// per kind; unused ones stay zero.
type Event struct {
	Kind      EventKind `json:"kind"`
	Line      int       `json:"line"`
	Statement string    `json:"stmt"`
	Target    string    `json:"target"`
	Status    string    `json:"status"`
	Error     string    `json:"error"`
	Name      string    `json:"name"`
	Value     any       `json:"value"`
}

type command struct {
	Kind string `json:"kind"`
}

// breakpointsCommand always carries lines, even when empty, so the stepper
// clears its set instead of keeping the previous one.
type breakpointsCommand struct {
	Kind  string `json:"kind"`
	Lines []int  `json:"lines"`
}

// Session is one attached debug run.
type Session struct {
	ID string

	mu     sync.Mutex
	in     io.Writer
	events chan Event
}

// Attach binds a session to the process pipes and starts reading events.
// The events channel closes when the output stream ends.
func Attach(in io.Writer, out io.Reader) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		in:     in,
		events: make(chan Event, 64),
	}
	go s.read(out)
	return s
}

// Events is the stream of stepper events, in emission order.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Resume continues execution until the next breakpoint.
func (s *Session) Resume() error {
	return s.send(command{Kind: "resume"})
}

// Step continues execution by exactly one statement.
func (s *Session) Step() error {
	return s.send(command{Kind: "step"})
}

// Stop aborts the test run.
func (s *Session) Stop() error {
	return s.send(command{Kind: "stop"})
}

// SetBreakpoints replaces the active breakpoint set with the given source
// lines.
func (s *Session) SetBreakpoints(lines []int) error {
	if lines == nil {
		lines = []int{}
	}
	return s.send(breakpointsCommand{Kind: "set-breakpoints", Lines: lines})
}

func (s *Session) send(cmd any) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return domain.NewError("debug", "", 0, "failed to encode command", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.in.Write(append(data, '\n')); err != nil {
		return domain.NewError("debug", "", 0, "failed to send command", err)
	}
	return nil
}

// read scans the output stream line by line. The test process interleaves
// stepper events with regular runner output, so lines that do not decode to
// an event are passed over silently.
func (s *Session) read(out io.Reader) {
	defer close(s.events)
	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		if ev.Kind == "" {
			continue
		}
		s.events <- ev
	}
}
