// Package session holds the state of one calculator: the expression being
// composed, the shown result and the history of evaluations.
package session

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voice-calculator/internal/expression"
	"voice-calculator/internal/speech"
)

// State is the display state of a Session.
type State int

const (
	Empty State = iota
	Composing
	ResultShown
	ErrorShown
)

var stateNames = [...]string{
	Empty:       "empty",
	Composing:   "composing",
	ResultShown: "result",
	ErrorShown:  "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if string(b) == name {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", b)
}

// ResultPolicy decides what typing after a shown result does.
type ResultPolicy int

const (
	// Fresh starts a new expression with the typed key.
	Fresh ResultPolicy = iota
	// Continue uses the result as the left operand when the typed key is a
	// binary operator, and starts fresh otherwise.
	Continue
)

func (p ResultPolicy) String() string {
	if p == Continue {
		return "continue"
	}
	return "fresh"
}

// ParseResultPolicy parses "fresh" or "continue". The empty string is Fresh.
func ParseResultPolicy(s string) (ResultPolicy, error) {
	switch strings.ToLower(s) {
	case "", "fresh":
		return Fresh, nil
	case "continue":
		return Continue, nil
	}
	return Fresh, fmt.Errorf("unknown result policy %q", s)
}

// Session is one user's calculator. A Session is not safe for concurrent use.
type Session struct {
	expr    string
	result  string
	state   State
	history []Entry

	ans    expression.Number
	hasAns bool

	angle  expression.AngleUnit
	policy ResultPolicy
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithAngleUnit sets the unit trigonometric functions take.
func WithAngleUnit(u expression.AngleUnit) Option {
	return func(s *Session) { s.angle = u }
}

// WithResultPolicy sets what typing after a result does.
func WithResultPolicy(p ResultPolicy) Option {
	return func(s *Session) { s.policy = p }
}

// WithLogger sets the logger transitions are reported to at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New returns an empty Session.
func New(opts ...Option) *Session {
	s := &Session{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Expression() string { return s.expr }

// Result is the shown result: "", a number, or expression.ErrorMarker.
func (s *Session) Result() string { return s.result }

func (s *Session) State() State { return s.state }

// Announcement is the text read aloud for the current display: the result if
// one is shown, else the expression, else "0".
func (s *Session) Announcement() string {
	switch {
	case s.result != "":
		return s.result
	case s.expr != "":
		return s.expr
	default:
		return "0"
	}
}

// Press applies one key and returns the new state.
func (s *Session) Press(key string) State {
	key = CanonicalKey(key)
	from := s.state
	switch key {
	case KeyClear:
		s.clear()
	case KeyBackspace:
		s.backspace()
	case KeySign:
		s.toggleSign()
	case KeyPercent:
		s.percent()
	case KeyEquals:
		s.equals()
	default:
		text, ok := insertText[key]
		if !ok {
			text = key
		}
		s.insert(text)
	}
	s.logger.Debug("key pressed",
		zap.String("key", key),
		zap.Stringer("from", from),
		zap.Stringer("to", s.state),
		zap.String("expression", s.expr),
		zap.String("result", s.result),
	)
	return s.state
}

// Submit replaces the expression with expr and evaluates it.
func (s *Session) Submit(expr string) expression.Result {
	s.setExpression(expr)
	return s.equals()
}

// ApplyTranscript replaces the expression with the translation of a speech
// transcript and returns it.
func (s *Session) ApplyTranscript(transcript string) string {
	s.setExpression(speech.Translate(transcript))
	return s.expr
}

func (s *Session) setExpression(expr string) {
	s.expr = expr
	s.result = ""
	s.state = Composing
	if s.expr == "" {
		s.state = Empty
	}
}

func (s *Session) clear() {
	s.setExpression("")
}

func (s *Session) backspace() {
	r := []rune(s.expr)
	if len(r) > 0 {
		r = r[:len(r)-1]
	}
	s.setExpression(string(r))
}

func (s *Session) toggleSign() {
	if s.expr == "" {
		return
	}
	if strings.HasPrefix(s.expr, "-") {
		s.setExpression(s.expr[1:])
		return
	}
	s.setExpression("-" + s.expr)
}

func (s *Session) insert(text string) {
	switch s.state {
	case ResultShown:
		if s.policy == Continue && isOperatorText(text) {
			s.setExpression(s.result + text)
			return
		}
		s.setExpression(text)
	case ErrorShown:
		s.setExpression(text)
	default:
		s.setExpression(s.expr + text)
	}
}

func (s *Session) evaluate() expression.Result {
	opts := []expression.Option{expression.WithAngleUnit(s.angle)}
	if s.hasAns {
		opts = append(opts, expression.SetVar("ans", s.ans))
	}
	return expression.Evaluate(s.expr, opts...)
}

func (s *Session) equals() expression.Result {
	res := s.evaluate()
	switch {
	case res.IsEmpty():
		s.clear()
	case res.OK():
		s.result = res.Display()
		s.state = ResultShown
		s.ans, s.hasAns = res.Value, true
		s.record(NewEntry(s.expr, s.result, false))
	default:
		s.fail(res.Err)
		s.record(NewEntry(s.expr, s.result, false))
	}
	return res
}

func (s *Session) percent() {
	res := s.evaluate()
	if res.IsEmpty() {
		return
	}
	if !res.OK() {
		s.fail(res.Err)
		return
	}
	v, err := expression.Percent(res.Value)
	if err != nil {
		s.fail(err)
		return
	}
	s.record(NewEntry(s.expr, v.String(), true))
	s.ans, s.hasAns = v, true
	s.expr = v.String()
	s.result = s.expr
	s.state = Composing
}

func (s *Session) fail(err error) {
	s.result = expression.ErrorMarker
	s.state = ErrorShown
	s.logger.Debug("evaluation failed", zap.String("expression", s.expr), zap.Error(err))
}
