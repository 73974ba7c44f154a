package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Assertion names a console check made after a boot.
type Assertion string

const (
	// BootedRuntime expects the kernel to report the runtime line verbatim.
	BootedRuntime Assertion = "booted-runtime-cli"
	// BootedExpected expects the kernel to report the case's expected line.
	BootedExpected Assertion = "booted-expected-cli"
	// DeniedBoot expects the stub to reject the command line.
	DeniedBoot Assertion = "denied-boot"
	// WarnedCmdline expects the insecure-mode warning.
	WarnedCmdline Assertion = "warned-cmdline"
)

var knownAssertions = map[Assertion]bool{
	BootedRuntime:  true,
	BootedExpected: true,
	DeniedBoot:     true,
	WarnedCmdline:  true,
}

// Assertions accepts either a single string or a list in YAML.
type Assertions []Assertion

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Assertions) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*a = Assertions{Assertion(value.Value)}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		out := make(Assertions, 0, len(list))
		for _, s := range list {
			out = append(out, Assertion(s))
		}
		*a = out
		return nil
	default:
		return fmt.Errorf("line %d: assert must be a string or a list", value.Line)
	}
}

// Case is one boot test case.
type Case struct {
	Name     string     `yaml:"name"`
	SB       bool       `yaml:"sb"`
	Shim     bool       `yaml:"shim"`
	Runtime  string     `yaml:"runtime"`
	Builtin  string     `yaml:"builtin"`
	Expected string     `yaml:"expected"`
	Assert   Assertions `yaml:"assert"`
}

// Corpus is the set of cases loaded from one file.
type Corpus struct {
	File  string
	Cases []Case
}

// CaseResult is the outcome of booting one case.
type CaseResult struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Secure   bool     `json:"sb"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
	Console  string   `json:"console,omitempty"`
}

// RunResult is the outcome of running one corpus file.
type RunResult struct {
	File   string       `json:"file"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
