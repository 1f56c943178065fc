package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"voice-calculator/internal/session"
	"voice-calculator/internal/speech"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedListener struct {
	transcripts []string
}

func (l *scriptedListener) Listen(context.Context) (string, error) {
	if len(l.transcripts) == 0 {
		return "", speech.ErrUnavailable
	}
	t := l.transcripts[0]
	l.transcripts = l.transcripts[1:]
	return t, nil
}

type recordingSpeaker struct {
	spoken []string
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return nil
}

func runREPL(t *testing.T, input string, opts ...speech.Option) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(session.New(), speech.NewVoice(opts...), strings.NewReader(input), &out, 12)
	require.NoError(t, r.run(context.Background()))
	return out.String()
}

func TestREPLExpressions(t *testing.T) {
	out := runREPL(t, "2+3*4\n5/0\n\n")
	assert.Contains(t, out, "2+3*4 = 14\n")
	assert.Contains(t, out, "5/0 = Error\n")
}

func TestREPLSay(t *testing.T) {
	out := runREPL(t, ":say square root of nine plus seven\n:say\n")
	assert.Contains(t, out, "sqrt(9+7) = 4\n")
	assert.Contains(t, out, "Sorry, I didn't catch that.")
}

func TestREPLKeys(t *testing.T) {
	out := runREPL(t, ":key 7 x^2 =\n:key AC\n:key 5 0 %\n")
	assert.Contains(t, out, "7^2 = 49\n")
	assert.Contains(t, out, "0\n")
	assert.Contains(t, out, "0.5\n")
}

func TestREPLHistory(t *testing.T) {
	out := runREPL(t, ":history\n1+1\n2+2\n:history 1\n:history x\n")
	assert.Contains(t, out, "no history")
	// Once when evaluated, once more from :history 1.
	assert.Equal(t, 2, strings.Count(out, "2+2 = 4\n"))
	assert.Equal(t, 1, strings.Count(out, "1+1 = 2\n"))
	assert.Contains(t, out, `invalid count "x"`)
}

func TestREPLQuit(t *testing.T) {
	out := runREPL(t, "1+1\n:quit\n2+2\n")
	assert.Contains(t, out, "1+1 = 2")
	assert.NotContains(t, out, "2+2")
}

func TestREPLUnknownCommand(t *testing.T) {
	out := runREPL(t, ":frobnicate\n")
	assert.Contains(t, out, "unknown command :frobnicate")
}

func TestREPLListenWithoutRecognizer(t *testing.T) {
	out := runREPL(t, ":listen\n")
	assert.Contains(t, out, "no recognizer configured")
}

func TestREPLVoice(t *testing.T) {
	listener := &scriptedListener{transcripts: []string{"six times seven"}}
	speaker := &recordingSpeaker{}

	out := runREPL(t, ":listen\n:listen\n:speak\n",
		speech.WithListener(listener),
		speech.WithSpeaker(speaker),
	)

	assert.Contains(t, out, `heard "six times seven"`)
	assert.Contains(t, out, "6*7 = 42\n")
	assert.Contains(t, out, "Sorry, I didn't catch that.")
	assert.Equal(t, []string{"42", "42"}, speaker.spoken)
}
