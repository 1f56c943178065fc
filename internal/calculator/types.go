package calculator

import "voice-calculator/internal/session"

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
	// AngleUnit overrides the configured unit: "radians" or "degrees".
	AngleUnit string `json:"angle_unit,omitempty"`
	// Ans binds the name "ans" to a numeric literal, usually the previous
	// result.
	Ans string `json:"ans,omitempty"`
}

// EvaluateResponse is the JSON response for an evaluation. Display is "" for
// a blank expression and "Error" when evaluation failed.
type EvaluateResponse struct {
	Expression string `json:"expression"`
	Normalized string `json:"normalized,omitempty"`
	Display    string `json:"display"`
	Exact      bool   `json:"exact,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TranslateRequest is the JSON body for POST /calculator/translate.
type TranslateRequest struct {
	Transcript string `json:"transcript"`
	// Evaluate also evaluates the translated expression.
	Evaluate  bool   `json:"evaluate,omitempty"`
	AngleUnit string `json:"angle_unit,omitempty"`
}

// TranslateResponse is the JSON response for a translation.
type TranslateResponse struct {
	Transcript string            `json:"transcript"`
	Expression string            `json:"expression"`
	Result     *EvaluateResponse `json:"result,omitempty"`
}

// KeypressRequest is the JSON body for POST /calculator/keypress. The
// session travels with every request: the server keeps no calculator state.
type KeypressRequest struct {
	Session *session.Snapshot `json:"session,omitempty"`
	// Transcript, if set, replaces the expression before Keys are pressed.
	Transcript   string   `json:"transcript,omitempty"`
	Keys         []string `json:"keys"`
	AngleUnit    string   `json:"angle_unit,omitempty"`
	ResultPolicy string   `json:"result_policy,omitempty"`
}

// KeypressResponse carries the new session and what the display shows.
type KeypressResponse struct {
	Session session.Snapshot `json:"session"`
	Display string           `json:"display"`
	// Recent lists the newest history lines first.
	Recent []string `json:"recent"`
}
