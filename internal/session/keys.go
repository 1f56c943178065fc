package session

import "strings"

// Calculator keys with behavior beyond appending their label.
const (
	KeyClear     = "AC"
	KeyBackspace = "⌫"
	KeySign      = "+/-"
	KeyPercent   = "%"
	KeyEquals    = "="
	KeyPlus      = "➕"
	KeyPower     = "x^y"
	KeySquare    = "x^2"
	KeyPi        = "π"
	KeyE         = "e"
)

// keyAliases lets terminals and API clients press keys by name.
var keyAliases = map[string]string{
	"c":         KeyClear,
	"ac":        KeyClear,
	"clear":     KeyClear,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"del":       KeyBackspace,
	"±":         KeySign,
	"sign":      KeySign,
	"negate":    KeySign,
	"percent":   KeyPercent,
	"equals":    KeyEquals,
	"enter":     KeyEquals,
	"pi":        KeyPi,
}

// insertText maps keys to the text they append to the expression.
var insertText = map[string]string{
	KeyPlus:   "+",
	KeyPower:  "^",
	KeySquare: "^2",
	KeyPi:     "π",
	KeyE:      "e",
}

// CanonicalKey resolves a key alias to its calculator label. Unknown keys are
// returned unchanged.
func CanonicalKey(key string) string {
	if k, ok := keyAliases[strings.ToLower(key)]; ok {
		return k
	}
	return key
}

// isOperatorText reports whether text begins with a binary operator, so that
// it can extend a shown result.
func isOperatorText(text string) bool {
	if text == "" {
		return false
	}
	r := []rune(text)[0]
	return strings.ContainsRune("+-*/^%×÷−–➕", r)
}
