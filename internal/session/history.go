package session

import "encoding/json"

// Entry is one line of calculator history. Entries are never modified after
// they are recorded.
type Entry struct {
	expression string
	result     string
	percent    bool
}

// NewEntry returns a history entry. Percent entries render with a trailing
// "%" after the expression.
func NewEntry(expression, result string, percent bool) Entry {
	return Entry{expression: expression, result: result, percent: percent}
}

func (e Entry) Expression() string { return e.expression }
func (e Entry) Result() string     { return e.result }

// String renders the entry as "<expression> = <result>".
func (e Entry) String() string {
	if e.percent {
		return e.expression + "% = " + e.result
	}
	return e.expression + " = " + e.result
}

type entryJSON struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Percent    bool   `json:"percent,omitempty"`
	Text       string `json:"text"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Expression: e.expression,
		Result:     e.result,
		Percent:    e.percent,
		Text:       e.String(),
	})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var j entryJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*e = NewEntry(j.Expression, j.Result, j.Percent)
	return nil
}

// History returns a copy of the recorded entries, oldest first.
func (s *Session) History() []Entry {
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// Recent returns up to n entries, newest first. A non-positive n returns all
// of them.
func (s *Session) Recent(n int) []Entry {
	if n <= 0 || n > len(s.history) {
		n = len(s.history)
	}
	out := make([]Entry, 0, n)
	for i := len(s.history) - 1; i >= len(s.history)-n; i-- {
		out = append(out, s.history[i])
	}
	return out
}

func (s *Session) record(e Entry) {
	// Full slice expression so appends never write into an array shared with
	// a snapshot.
	s.history = append(s.history[:len(s.history):len(s.history)], e)
}
