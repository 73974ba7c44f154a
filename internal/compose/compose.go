// Package compose builds the final kernel command line from a builtin
// template and a runtime command line.
//
// The builtin line may carry the Marker token exactly once; the runtime line
// is spliced in at that position. The reserved Namespace must not appear in
// either input outside the marker itself.
package compose

import (
	"bytes"

	"github.com/ppiankov/stubguard/internal/kcmdline"
)

// Reserved literals.
const (
	Marker    = "STUBBY_RT_CLI1"
	Namespace = "STUBBY_RT"
)

// Cmdline is a composed kernel command line. It owns its buffer.
type Cmdline struct {
	buf          []byte
	runtimeStart int
	runtimeEnd   int
}

// String returns the command line text.
func (c *Cmdline) String() string {
	return string(c.buf)
}

// Len returns the length of the command line, without terminator.
func (c *Cmdline) Len() int {
	return len(c.buf)
}

// Bytes returns a copy of the command line.
func (c *Cmdline) Bytes() []byte {
	return bytes.Clone(c.buf)
}

// CString returns a NUL-terminated copy for consumers that expect one.
func (c *Cmdline) CString() []byte {
	out := make([]byte, len(c.buf)+1)
	copy(out, c.buf)
	return out
}

// Runtime returns the segment of the command line taken from the runtime input.
func (c *Cmdline) Runtime() string {
	return string(c.buf[c.runtimeStart:c.runtimeEnd])
}

// Composer splices runtime command lines into builtin ones.
type Composer struct {
	Validator *kcmdline.Validator
	// MaxLength caps the composed line length. Zero means no limit.
	MaxLength int
}

// New returns a Composer using the compiled-in allow-list and no length limit.
func New() *Composer {
	return &Composer{Validator: kcmdline.NewValidator()}
}

// Compose splits builtin at the marker, guards the reserved namespace,
// validates runtime and returns prefix + runtime + suffix.
//
// A runtime allow-list failure is returned as a PolicyViolation together with
// the composed line, so the caller may still boot it in insecure mode. Every
// other violation returns a nil line.
func (c *Composer) Compose(secure bool, builtin, runtime []byte) (*Cmdline, error) {
	var prefix, suffix []byte

	if len(builtin) != 0 {
		p, s, found, err := Split(builtin)
		if err != nil {
			return nil, err
		}
		switch {
		case found:
			prefix, suffix = p, s
		case len(runtime) == 0:
			prefix = builtin
		case secure:
			return nil, kcmdline.Violationf(kcmdline.StructuralViolation,
				"runtime arguments cannot be given to non-empty builtin without marker")
		default:
			// Insecure and no marker: act as if the marker was at the end.
			prefix = append(bytes.Clone(builtin), ' ')
		}
	}

	if bytes.Contains(prefix, []byte(Namespace)) || bytes.Contains(suffix, []byte(Namespace)) {
		return nil, kcmdline.Violationf(kcmdline.NamespaceViolation,
			"%s appears in builtin cmdline", Namespace)
	}
	if bytes.Contains(runtime, []byte(Namespace)) {
		return nil, kcmdline.Violationf(kcmdline.NamespaceViolation,
			"%s appears in runtime cmdline", Namespace)
	}

	checkErr := c.validator().Check(runtime)
	if checkErr != nil && kcmdline.CategoryOf(checkErr) != kcmdline.PolicyViolation {
		return nil, checkErr
	}

	n := len(prefix) + len(runtime) + len(suffix)
	if c.MaxLength > 0 && n > c.MaxLength {
		// A secure-mode policy failure is final; the cap only applies to a
		// line that could still boot.
		if checkErr != nil && secure {
			return nil, checkErr
		}
		return nil, kcmdline.Violationf(kcmdline.ResourceExhausted,
			"composed cmdline is %d bytes, limit is %d", n, c.MaxLength)
	}

	buf := make([]byte, 0, n)
	buf = append(buf, prefix...)
	buf = append(buf, runtime...)
	buf = append(buf, suffix...)

	cl := &Cmdline{
		buf:          buf,
		runtimeStart: len(prefix),
		runtimeEnd:   len(prefix) + len(runtime),
	}
	return cl, checkErr
}

func (c *Composer) validator() *kcmdline.Validator {
	if c.Validator == nil {
		return kcmdline.NewValidator()
	}
	return c.Validator
}

// Split locates the marker in builtin and returns the text before and after
// it. found is false when builtin holds no marker. A duplicated marker or one
// that is not a whole token is a StructuralViolation.
func Split(builtin []byte) (prefix, suffix []byte, found bool, err error) {
	idx := bytes.Index(builtin, []byte(Marker))
	if idx < 0 {
		return nil, nil, false, nil
	}
	end := idx + len(Marker)

	if bytes.Contains(builtin[end:], []byte(Marker)) {
		return nil, nil, false, kcmdline.Violationf(kcmdline.StructuralViolation,
			"%s appears more than once in builtin cmdline", Marker)
	}

	startOK := idx == 0 || builtin[idx-1] == ' '
	endOK := end == len(builtin) || builtin[end] == ' '
	if !startOK || !endOK {
		return nil, nil, false, kcmdline.Violationf(kcmdline.StructuralViolation,
			"%s is not a full token", Marker)
	}

	return builtin[:idx], builtin[end:], true, nil
}

// Compose uses a default Composer.
func Compose(secure bool, builtin, runtime []byte) (*Cmdline, error) {
	return New().Compose(secure, builtin, runtime)
}
