// Package speech turns spoken calculator phrases into expressions and wraps
// the optional microphone and speaker collaborators.
package speech

import (
	"strings"
	"unicode"
)

// phrase maps a sequence of spoken words to replacement tokens.
type phrase struct {
	words []string
	subst []string
}

// phraseTable lists the spoken forms the translator understands. Matching is
// done on whole words, longest phrase first.
var phraseTable = buildPhrases([][2]string{
	// Division
	{"divided by", "/"},
	{"divide by", "/"},
	{"over", "/"},
	{"÷", "/"},

	// Multiplication
	{"multiplied by", "*"},
	{"times", "*"},
	{"x", "*"},
	{"×", "*"},

	// Powers
	{"raised to the power of", "^"},
	{"to the power of", "^"},
	{"power of", "^"},
	{"raised to", "^"},
	{"**", "^"},

	// Roots
	{"square root of", "sqrt"},
	{"square root", "sqrt"},
	{"root of", "sqrt"},

	// Trigonometric functions
	{"sine of", "sin"},
	{"sin of", "sin"},
	{"cosine of", "cos"},
	{"cos of", "cos"},
	{"tangent of", "tan"},
	{"tan of", "tan"},

	// Percent
	{"percent of", "/ 100 *"},
	{"percentage of", "/ 100 *"},
	{"percent", "/ 100"},
	{"percentage", "/ 100"},
	{"%", "/ 100"},

	// Addition and subtraction
	{"plus", "+"},
	{"add", "+"},
	{"minus", "-"},
	{"subtract", "-"},
	{"negative", "-"},
	{"−", "-"},

	// Decimal point
	{"point", "."},
})

func buildPhrases(pairs [][2]string) []phrase {
	out := make([]phrase, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, phrase{words: strings.Fields(p[0]), subst: strings.Fields(p[1])})
	}
	// Stable insertion sort by descending word count keeps declaration order
	// among phrases of the same length.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && len(out[j].words) > len(out[j-1].words); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// numberWords maps spoken numbers to digits, including common
// misrecognitions.
var numberWords = map[string]string{
	"zero":  "0",
	"one":   "1",
	"two":   "2",
	"three": "3",
	"four":  "4",
	"for":   "4",
	"five":  "5",
	"six":   "6",
	"seven": "7",
	"eight": "8",
	"ate":   "8",
	"nine":  "9",
	"ten":   "10",
}

var (
	operatorTokens = map[string]bool{"+": true, "-": true, "*": true, "/": true, "^": true, ".": true}
	functionTokens = map[string]bool{"sqrt": true, "sin": true, "cos": true, "tan": true}
	powerTokens    = map[string]string{"squared": "^2", "square": "^2", "cubed": "^3", "cube": "^3"}
)

// Translate converts a speech transcript such as "square root of nine" into a
// calculator expression such as "sqrt(9)". Unrecognized words are dropped.
// Every function opened by the transcript is closed at the end of the
// expression. If nothing is recognized, the transcript is returned with its
// whitespace removed so the user's input never silently vanishes.
func Translate(transcript string) string {
	words := substitute(split(strings.ToLower(strings.TrimSpace(transcript))))

	var b strings.Builder
	open := 0
	for _, w := range words {
		switch {
		case numberWords[w] != "":
			b.WriteString(numberWords[w])
		case operatorTokens[w]:
			b.WriteString(w)
		case functionTokens[w]:
			b.WriteString(w + "(")
			open++
		case powerTokens[w] != "":
			b.WriteString(powerTokens[w])
		case isNumeral(w):
			b.WriteString(w)
		}
	}
	b.WriteString(strings.Repeat(")", open))

	if b.Len() == 0 {
		return strings.Join(strings.Fields(transcript), "")
	}
	return b.String()
}

type runeClass int

const (
	classNone runeClass = iota
	classDigit
	classLetter
	classSymbol
)

func classify(r rune) runeClass {
	switch {
	case '0' <= r && r <= '9', r == '.':
		return classDigit
	case unicode.IsLetter(r), r == '\'':
		return classLetter
	case strings.ContainsRune("+-*/^%×÷−", r):
		return classSymbol
	default:
		return classNone
	}
}

// split breaks text into words at whitespace and punctuation and between runs
// of digits, letters and operator symbols, so "5x3" reads as "5 x 3". Symbols
// are single-rune words except for "**".
func split(text string) []string {
	var words []string
	var cur []rune
	prev := classNone
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		c := classify(r)
		switch c {
		case classNone:
			flush()
		case classSymbol:
			flush()
			if r == '*' && i+1 < len(runes) && runes[i+1] == '*' {
				words = append(words, "**")
				i++
			} else {
				words = append(words, string(r))
			}
			c = classNone
		default:
			if c != prev {
				flush()
			}
			cur = append(cur, r)
		}
		prev = c
	}
	flush()
	return words
}

// substitute replaces spoken phrases with symbol tokens, trying the longest
// phrases first at each position.
func substitute(words []string) []string {
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		p, ok := matchPhrase(words[i:])
		if !ok {
			out = append(out, words[i])
			i++
			continue
		}
		out = append(out, p.subst...)
		i += len(p.words)
	}
	return out
}

func matchPhrase(words []string) (phrase, bool) {
	for _, p := range phraseTable {
		if len(p.words) > len(words) {
			continue
		}
		match := true
		for k, w := range p.words {
			if words[k] != w {
				match = false
				break
			}
		}
		if match {
			return p, true
		}
	}
	return phrase{}, false
}

// isNumeral reports whether w is digits with at most one decimal point.
func isNumeral(w string) bool {
	digits, dots := 0, 0
	for _, r := range w {
		switch {
		case '0' <= r && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
