// Package scenario runs the YAML boot corpus: each case is booted and then
// graded by scanning the boot console for the stub's literal markers.
package scenario

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/stubguard/internal/boot"
	"github.com/ppiankov/stubguard/internal/compose"
)

// KernelLinePrefix is printed by the booted test kernel before its command line.
const KernelLinePrefix = "KERNEL COMMAND LINE: "

// Booter boots one case and returns everything written to its console.
// A VM driver implements this out of tree; StubBooter runs in-process.
type Booter interface {
	Boot(ctx context.Context, c Case) (string, error)
}

// StubBooter runs the boot decision in-process and prints the kernel line
// the way the test kernel would if the stub hands over control.
type StubBooter struct {
	Composer *compose.Composer
}

// Boot implements Booter.
func (b StubBooter) Boot(ctx context.Context, c Case) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var console strings.Builder
	fmt.Fprintf(&console, "stubby: secureboot=%t shim=%t\n", c.SB, c.Shim)

	composer := b.Composer
	if composer == nil {
		composer = compose.New()
	}
	d := (&boot.Decider{Composer: composer, Console: &console}).
		Decide(c.SB, []byte(c.Builtin), []byte(c.Runtime))
	if d.Booted() {
		fmt.Fprintf(&console, "%s%s\n", KernelLinePrefix, d.Cmdline)
	}
	return console.String(), nil
}

// Run boots every case of the corpus and grades it. Cases are independent.
func Run(ctx context.Context, c *Corpus, booter Booter) (*RunResult, error) {
	result := &RunResult{File: c.File, Total: len(c.Cases)}

	for i, tc := range c.Cases {
		console, err := booter.Boot(ctx, tc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("boot case %q: %w", tc.Name, err)
		}

		failures := Grade(tc, console)
		cr := CaseResult{
			Index:    i + 1,
			Name:     tc.Name,
			Secure:   tc.SB,
			Passed:   len(failures) == 0,
			Failures: failures,
		}
		if cr.Passed {
			result.Passed++
		} else {
			cr.Console = console
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result, nil
}

// Grade checks every assertion of c against console output and returns a
// description of each one that failed.
func Grade(c Case, console string) []string {
	var failures []string
	for _, a := range c.Assert {
		switch a {
		case BootedRuntime:
			if !hasKernelLine(console, c.Runtime) {
				failures = append(failures, fmt.Sprintf("%s: kernel did not boot with %q", a, c.Runtime))
			}
		case BootedExpected:
			if !hasKernelLine(console, c.Expected) {
				failures = append(failures, fmt.Sprintf("%s: kernel did not boot with %q", a, c.Expected))
			}
		case DeniedBoot:
			if !strings.Contains(console, boot.RejectedMessage) {
				failures = append(failures, fmt.Sprintf("%s: console lacks %q", a, boot.RejectedMessage))
			}
		case WarnedCmdline:
			if !strings.Contains(console, boot.WarningMessage) {
				failures = append(failures, fmt.Sprintf("%s: console lacks %q", a, boot.WarningMessage))
			}
		default:
			failures = append(failures, fmt.Sprintf("unknown assertion %q", a))
		}
	}
	return failures
}

func hasKernelLine(console, want string) bool {
	scanner := bufio.NewScanner(strings.NewReader(console))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if v, ok := strings.CutPrefix(line, KernelLinePrefix); ok && v == want {
			return true
		}
	}
	return false
}

// LoadAndRun loads a corpus file and runs it with booter.
func LoadAndRun(ctx context.Context, path string, booter Booter) (*RunResult, error) {
	c, err := LoadCorpus(path)
	if err != nil {
		return nil, err
	}
	return Run(ctx, c, booter)
}
