package speech_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voice-calculator/internal/expression"
	"voice-calculator/internal/speech"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		want       string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"addition", "five plus three", "5+3"},
		{"mixed-case", "Five PLUS Three", "5+3"},
		{"symbols", "5 + 3", "5+3"},
		{"question", "What is 7 divided by 2?", "7/2"},
		{"square-root", "square root of nine", "sqrt(9)"},
		{"whole-words", "six times two", "6*2"},
		{"glued-x", "5x3", "5*3"},
		{"times-glyph", "12 × 3", "12*3"},
		{"divide-glyph", "12÷4", "12/4"},
		{"power-phrase", "two to the power of ten", "2^10"},
		{"raised", "two raised to the power of three", "2^3"},
		{"python-power", "2**3", "2^3"},
		{"squared", "five squared", "5^2"},
		{"cubed", "three cubed", "3^3"},
		{"percent-of", "10 percent of 50", "10/100*50"},
		{"percent", "fifty 20 percent", "20/100"},
		{"sine", "sine of 30", "sin(30)"},
		{"cosine", "cosine of zero", "cos(0)"},
		{"misheard", "for plus ate", "4+8"},
		{"decimal", "two point five times four", "2.5*4"},
		{"negative", "negative five plus two", "-5+2"},
		{"groups-close-at-end", "square root of nine plus seven", "sqrt(9+7)"},
		{"typed-call", "sqrt(9)", "sqrt(9)"},
		{"contraction-dropped", "what's 2 plus 2", "2+2"},
		{"unrecognized", "hello world", "helloworld"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, speech.Translate(c.transcript))
		})
	}
}

func TestTranslateEvaluates(t *testing.T) {
	cases := map[string]string{
		"five plus three":                "8",
		"square root of nine":            "3",
		"10 percent of 50":               "5",
		"two to the power of ten":        "1024",
		"square root of nine plus seven": "4",
		"seven divided by two":           "3.5",
	}
	for transcript, want := range cases {
		r := expression.Evaluate(speech.Translate(transcript))
		assert.NoError(t, r.Err, transcript)
		assert.Equal(t, want, r.Display(), transcript)
	}
}
