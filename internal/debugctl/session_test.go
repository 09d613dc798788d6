package debugctl

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, s *Session) []Event {
	t.Helper()
	var got []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events channel to close")
		}
	}
}

func TestAttachDecodesEventStream(t *testing.T) {
	out := strings.NewReader(strings.Join([]string{
		`{"kind":"step:before","line":12,"stmt":"click","target":"loginPage.submitButton"}`,
		`Running 1 test using 1 worker`,
		`{"kind":"variable","name":"admin","value":{"email":"a@b.c"}}`,
		`{"kind":"execution:paused","line":12}`,
		`{"kind":"step:after","line":12,"status":"failed","error":"timeout"}`,
	}, "\n"))

	s := Attach(&bytes.Buffer{}, out)
	got := collectEvents(t, s)

	require.Len(t, got, 4)
	assert.Equal(t, EventStepBefore, got[0].Kind)
	assert.Equal(t, 12, got[0].Line)
	assert.Equal(t, "click", got[0].Statement)
	assert.Equal(t, "loginPage.submitButton", got[0].Target)

	assert.Equal(t, EventVariable, got[1].Kind)
	assert.Equal(t, "admin", got[1].Name)
	assert.Equal(t, map[string]any{"email": "a@b.c"}, got[1].Value)

	assert.Equal(t, EventPaused, got[2].Kind)

	assert.Equal(t, EventStepAfter, got[3].Kind)
	assert.Equal(t, "failed", got[3].Status)
	assert.Equal(t, "timeout", got[3].Error)
}

func TestAttachSkipsNonEventOutput(t *testing.T) {
	out := strings.NewReader(strings.Join([]string{
		``,
		`not json at all`,
		`{"pid":4312}`,
		`{"kind":"execution:paused","line":3}`,
	}, "\n"))

	s := Attach(&bytes.Buffer{}, out)
	got := collectEvents(t, s)

	require.Len(t, got, 1)
	assert.Equal(t, EventPaused, got[0].Kind)
	assert.Equal(t, 3, got[0].Line)
}

func TestCommandsAreNewlineDelimitedJSON(t *testing.T) {
	var in bytes.Buffer
	s := Attach(&in, strings.NewReader(""))

	require.NoError(t, s.Resume())
	require.NoError(t, s.Step())
	require.NoError(t, s.SetBreakpoints([]int{4, 17}))
	require.NoError(t, s.SetBreakpoints(nil))
	require.NoError(t, s.Stop())

	lines := strings.Split(strings.TrimRight(in.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.JSONEq(t, `{"kind":"resume"}`, lines[0])
	assert.JSONEq(t, `{"kind":"step"}`, lines[1])
	assert.JSONEq(t, `{"kind":"set-breakpoints","lines":[4,17]}`, lines[2])
	assert.JSONEq(t, `{"kind":"set-breakpoints","lines":[]}`, lines[3])
	assert.JSONEq(t, `{"kind":"stop"}`, lines[4])

	for _, line := range lines {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := Attach(&bytes.Buffer{}, strings.NewReader(""))
	b := Attach(&bytes.Buffer{}, strings.NewReader(""))
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
