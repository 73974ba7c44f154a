// Package boot turns a composed command line into a boot decision,
// applying the secure or insecure mode policy.
package boot

import (
	"fmt"
	"io"

	"github.com/ppiankov/stubguard/internal/compose"
	"github.com/ppiankov/stubguard/internal/kcmdline"
)

// Outcome is the terminal state of one boot decision.
type Outcome string

const (
	Proceed            Outcome = "proceed"
	ProceedWithWarning Outcome = "proceed_with_warning"
	Reject             Outcome = "reject"
)

// Console messages the stub prints after a violation.
const (
	RejectedMessage = "Custom kernel command line rejected"
	WarningMessage  = "Custom kernel would be rejected in secure mode"
)

// Decision is the result of deciding whether to boot.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Secure  bool    `json:"secure"`
	// Cmdline is empty on Reject.
	Cmdline    string            `json:"cmdline"`
	Category   kcmdline.Category `json:"-"`
	Diagnostic string            `json:"diagnostic,omitempty"`

	line *compose.Cmdline
}

// Line returns the composed command line, or nil on Reject.
func (d Decision) Line() *compose.Cmdline {
	return d.line
}

// Booted reports whether the kernel may be started.
func (d Decision) Booted() bool {
	return d.Outcome != Reject
}

// Downgradable reports whether a violation of category c may be booted
// anyway in insecure mode. Only allow-list failures qualify.
func Downgradable(c kcmdline.Category) bool {
	return c == kcmdline.PolicyViolation
}

// Status returns the firmware status name reported for a category.
func Status(c kcmdline.Category) string {
	switch c {
	case kcmdline.None:
		return "Success"
	case kcmdline.MalformedInput, kcmdline.PolicyViolation:
		return "Security Violation"
	case kcmdline.StructuralViolation, kcmdline.NamespaceViolation:
		return "Invalid Parameter"
	case kcmdline.ResourceExhausted:
		return "Out of Resources"
	default:
		return "Unknown Error"
	}
}

// Decider runs the composer and reports on a console.
type Decider struct {
	Composer *compose.Composer
	// Console receives operator-facing messages. Nil discards them.
	Console io.Writer
}

// NewDecider returns a Decider with the default composer writing to console.
func NewDecider(console io.Writer) *Decider {
	return &Decider{Composer: compose.New(), Console: console}
}

// Decide composes the command line and applies the mode policy.
func (d *Decider) Decide(secure bool, builtin, runtime []byte) Decision {
	composer := d.Composer
	if composer == nil {
		composer = compose.New()
	}

	line, err := composer.Compose(secure, builtin, runtime)
	if err == nil {
		return Decision{Outcome: Proceed, Secure: secure, Cmdline: line.String(), line: line}
	}

	cat := kcmdline.CategoryOf(err)
	dec := Decision{
		Outcome:    Reject,
		Secure:     secure,
		Category:   cat,
		Diagnostic: err.Error(),
	}
	d.printf("%s: %s\n", Status(cat), dec.Diagnostic)

	if secure || !Downgradable(cat) {
		if cat != kcmdline.ResourceExhausted {
			d.printf("%s\n", RejectedMessage)
		}
		return dec
	}

	d.printf("%s\n", WarningMessage)
	dec.Outcome = ProceedWithWarning
	dec.Cmdline = line.String()
	dec.line = line
	return dec
}

func (d *Decider) printf(format string, args ...any) {
	if d.Console == nil {
		return
	}
	fmt.Fprintf(d.Console, format, args...)
}

// Decide uses a default Decider with no console.
func Decide(secure bool, builtin, runtime []byte) Decision {
	return NewDecider(nil).Decide(secure, builtin, runtime)
}
