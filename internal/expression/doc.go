// Package expression evaluates calculator display expressions.
//
// A display expression is what a user types on the keypad or what the speech
// translator produces: "2×π", "sqrt(16)", "0.1+0.2", "5÷0". Glyphs such as ×,
// ÷ and π are recognized by the lexer in a single pass, so the text is never
// rewritten before it is parsed. The grammar is closed: numbers, the binary
// operators + - * / % ^, brackets, the unary functions sin, cos, tan, sqrt,
// log, ln and exp, and the constants pi and e.
//
// Integer arithmetic is exact. Division, functions and anything involving a
// fractional operand produce doubles, which Evaluate canonicalizes to twelve
// significant digits so that 0.1+0.2 displays as 0.3.
package expression
