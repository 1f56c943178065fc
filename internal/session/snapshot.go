package session

import (
	"fmt"

	"voice-calculator/internal/expression"
)

// Snapshot is the serializable form of a Session.
type Snapshot struct {
	Expression string  `json:"expression"`
	Result     string  `json:"result"`
	State      State   `json:"state"`
	History    []Entry `json:"history"`
	Ans        string  `json:"ans,omitempty"`
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Expression: s.expr,
		Result:     s.result,
		State:      s.state,
		History:    s.History(),
	}
	if s.hasAns {
		snap.Ans = s.ans.String()
	}
	return snap
}

// Restore rebuilds a Session from a snapshot.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	s := New(opts...)
	if snap.State < Empty || snap.State > ErrorShown {
		return nil, fmt.Errorf("restoring session: invalid state %d", int(snap.State))
	}
	switch {
	case snap.State == ResultShown && snap.Result == "":
		return nil, fmt.Errorf("restoring session: state %s without a result", snap.State)
	case snap.State == ErrorShown && snap.Result != expression.ErrorMarker:
		return nil, fmt.Errorf("restoring session: state %s with result %q", snap.State, snap.Result)
	}
	if snap.Ans != "" {
		v, err := expression.ParseNumber(snap.Ans)
		if err != nil {
			return nil, fmt.Errorf("restoring session: ans %q: %w", snap.Ans, err)
		}
		s.ans, s.hasAns = v, true
	}
	s.expr = snap.Expression
	s.result = snap.Result
	s.state = snap.State
	if s.expr == "" && s.result == "" {
		s.state = Empty
	}
	s.history = append([]Entry(nil), snap.History...)
	return s, nil
}
