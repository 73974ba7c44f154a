// Package kcmdline tokenizes an untrusted kernel command line and checks
// every token against the allow-list.
//
// Tokens are maximal runs of non-space bytes. There is no quoting, escaping
// or globbing: a command line is a literal list of words.
package kcmdline

import (
	"github.com/ppiankov/stubguard/internal/allowlist"
)

// MaxTokens is the hard cap on tokens in one validated command line.
const MaxTokens = 128

// Printable byte range accepted in a command line, inclusive.
const (
	MinByte = 0x20
	MaxByte = 0x7e
)

// Token is a half-open byte range [Start, End) into the scanned line.
type Token struct {
	Start int
	End   int
}

// In returns the token's bytes as a view into line.
func (t Token) In(line []byte) []byte {
	return line[t.Start:t.End]
}

// Tokenize splits line on spaces. It fails on the first byte outside the
// printable range, and as soon as the number of tokens seen would exceed
// MaxTokens. line is never modified.
func Tokenize(line []byte) ([]Token, error) {
	tokens := make([]Token, 0, 16)
	start := -1

	for i, c := range line {
		if c < MinByte || c > MaxByte {
			return nil, Violationf(MalformedInput,
				"bad character 0x%02x in position %d: %q", c, i, line)
		}

		if c == ' ' {
			if start >= 0 {
				tokens = append(tokens, Token{Start: start, End: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}

		seen := len(tokens)
		if start >= 0 {
			seen++
		}
		if seen > MaxTokens {
			return nil, Violationf(MalformedInput,
				"too many tokens in cmdline (max %d)", MaxTokens)
		}
	}

	if start >= 0 {
		tokens = append(tokens, Token{Start: start, End: len(line)})
	}
	return tokens, nil
}

// Validator checks command lines against an allow-list table.
type Validator struct {
	Table allowlist.Table
}

// NewValidator returns a Validator for the compiled-in allow-list.
func NewValidator() *Validator {
	return &Validator{Table: allowlist.Default}
}

// Check returns nil when every token of line is allowed. Otherwise it
// returns the first *Violation found.
func (v *Validator) Check(line []byte) error {
	tokens, err := Tokenize(line)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		tok := t.In(line)
		if !v.Table.IsAllowed(tok) {
			return Violationf(PolicyViolation, "token not allowed: %s", tok)
		}
	}
	return nil
}

// Check validates line against the compiled-in allow-list.
func Check(line []byte) error {
	return NewValidator().Check(line)
}
