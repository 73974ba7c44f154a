package kcmdline

import (
	"errors"
	"fmt"
)

// MaxDiagnosticLen bounds the length of a violation message.
const MaxDiagnosticLen = 255

// Category classifies why a command line was refused.
type Category int

const (
	// None is the zero category; it never appears on a returned violation.
	None Category = iota
	// MalformedInput is a non-printable byte or a token count over MaxTokens.
	MalformedInput
	// PolicyViolation is a token that is not on the allow-list.
	PolicyViolation
	// StructuralViolation is a missing, duplicated or partial marker.
	StructuralViolation
	// NamespaceViolation is the reserved namespace found in builtin or runtime text.
	NamespaceViolation
	// ResourceExhausted is a composed line over the configured size limit.
	ResourceExhausted
)

var categoryNames = map[Category]string{
	None:                "none",
	MalformedInput:      "malformed_input",
	PolicyViolation:     "policy_violation",
	StructuralViolation: "structural_violation",
	NamespaceViolation:  "namespace_violation",
	ResourceExhausted:   "resource_exhausted",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Violation is the first problem found in a command line.
type Violation struct {
	Category Category
	Message  string
}

func (v *Violation) Error() string {
	return v.Message
}

// Is matches any *Violation of the same category, so callers can write
// errors.Is(err, kcmdline.ErrPolicy).
func (v *Violation) Is(target error) bool {
	t, ok := target.(*Violation)
	if !ok {
		return false
	}
	return t.Category == v.Category && (t.Message == "" || t.Message == v.Message)
}

// Category targets for errors.Is.
var (
	ErrMalformed = &Violation{Category: MalformedInput}
	ErrPolicy    = &Violation{Category: PolicyViolation}
	ErrStructure = &Violation{Category: StructuralViolation}
	ErrNamespace = &Violation{Category: NamespaceViolation}
	ErrResource  = &Violation{Category: ResourceExhausted}
)

// Violationf builds a violation with a message bounded to MaxDiagnosticLen.
func Violationf(c Category, format string, args ...any) *Violation {
	return &Violation{Category: c, Message: Truncate(fmt.Sprintf(format, args...))}
}

// CategoryOf returns the category of err, or None if err is not a violation.
func CategoryOf(err error) Category {
	var v *Violation
	if errors.As(err, &v) {
		return v.Category
	}
	return None
}

// Truncate bounds s to MaxDiagnosticLen bytes.
func Truncate(s string) string {
	if len(s) <= MaxDiagnosticLen {
		return s
	}
	return s[:MaxDiagnosticLen-3] + "..."
}
