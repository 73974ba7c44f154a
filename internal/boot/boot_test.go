package boot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/stubguard/internal/compose"
	"github.com/ppiankov/stubguard/internal/kcmdline"
)

func decide(t *testing.T, secure bool, builtin, runtime string) (Decision, string) {
	t.Helper()
	var console bytes.Buffer
	d := NewDecider(&console).Decide(secure, []byte(builtin), []byte(runtime))
	return d, console.String()
}

func TestProceedSecure(t *testing.T) {
	d, out := decide(t, true, "root=atomix STUBBY_RT_CLI1 console=ttyS0", "ro verbose console=tty0")
	if d.Outcome != Proceed {
		t.Fatalf("expected proceed, got %s (%s)", d.Outcome, d.Diagnostic)
	}
	if d.Cmdline != "root=atomix ro verbose console=tty0 console=ttyS0" {
		t.Errorf("got %q", d.Cmdline)
	}
	if d.Line() == nil || d.Line().String() != d.Cmdline {
		t.Error("Line() must match Cmdline")
	}
	if out != "" {
		t.Errorf("expected quiet console, got %q", out)
	}
	if d.Category != kcmdline.None || d.Diagnostic != "" {
		t.Errorf("unexpected diagnostic %v %q", d.Category, d.Diagnostic)
	}
}

func TestPolicyViolationSecureRejects(t *testing.T) {
	d, out := decide(t, true, "", "root=atomix console=ttyS0 rootkit=yes")
	if d.Outcome != Reject {
		t.Fatalf("expected reject, got %s", d.Outcome)
	}
	if d.Booted() {
		t.Error("Booted() must be false on reject")
	}
	if d.Cmdline != "" || d.Line() != nil {
		t.Error("rejected decision must carry no command line")
	}
	if d.Category != kcmdline.PolicyViolation {
		t.Errorf("category = %v", d.Category)
	}
	if !strings.Contains(out, "Security Violation: token not allowed: rootkit=yes") {
		t.Errorf("missing status line in %q", out)
	}
	if !strings.Contains(out, RejectedMessage) {
		t.Errorf("missing reject message in %q", out)
	}
	if strings.Contains(out, WarningMessage) {
		t.Errorf("unexpected warning in %q", out)
	}
}

func TestPolicyViolationInsecureWarns(t *testing.T) {
	d, out := decide(t, false, "", "root=atomix console=ttyS0 rootkit=yes")
	if d.Outcome != ProceedWithWarning {
		t.Fatalf("expected proceed_with_warning, got %s", d.Outcome)
	}
	if !d.Booted() {
		t.Error("Booted() must be true on warning")
	}
	if d.Cmdline != "root=atomix console=ttyS0 rootkit=yes" {
		t.Errorf("got %q", d.Cmdline)
	}
	if !strings.Contains(out, WarningMessage) {
		t.Errorf("missing warning in %q", out)
	}
	if strings.Contains(out, RejectedMessage) {
		t.Errorf("unexpected reject message in %q", out)
	}
}

func TestStructuralAndNamespaceAlwaysReject(t *testing.T) {
	cases := []struct {
		name     string
		builtin  string
		runtime  string
		category kcmdline.Category
	}{
		{"duplicate marker", "STUBBY_RT_CLI1 STUBBY_RT_CLI1", "ro", kcmdline.StructuralViolation},
		{"partial marker", "xSTUBBY_RT_CLI1", "ro", kcmdline.StructuralViolation},
		{"namespace in builtin", "STUBBY_RT_CLI1 STUBBY_RT_X", "ro", kcmdline.NamespaceViolation},
		{"namespace in runtime", "STUBBY_RT_CLI1", "STUBBY_RT_CLI1", kcmdline.NamespaceViolation},
	}
	for _, tc := range cases {
		for _, secure := range []bool{true, false} {
			d, out := decide(t, secure, tc.builtin, tc.runtime)
			if d.Outcome != Reject {
				t.Errorf("%s secure=%v: expected reject, got %s", tc.name, secure, d.Outcome)
				continue
			}
			if d.Category != tc.category {
				t.Errorf("%s secure=%v: category %v, want %v", tc.name, secure, d.Category, tc.category)
			}
			if !strings.HasPrefix(out, "Invalid Parameter: ") {
				t.Errorf("%s secure=%v: unexpected console %q", tc.name, secure, out)
			}
			if strings.Contains(out, WarningMessage) {
				t.Errorf("%s secure=%v: must not warn", tc.name, secure)
			}
			if !strings.Contains(out, RejectedMessage) {
				t.Errorf("%s secure=%v: missing reject message", tc.name, secure)
			}
		}
	}
}

func TestNoMarkerSecureRejectsInsecureAppends(t *testing.T) {
	d, _ := decide(t, true, "root=atomix", "ro")
	if d.Outcome != Reject || d.Category != kcmdline.StructuralViolation {
		t.Errorf("secure: got %s %v", d.Outcome, d.Category)
	}

	d, out := decide(t, false, "root=atomix", "ro")
	if d.Outcome != Proceed {
		t.Fatalf("insecure: got %s (%s)", d.Outcome, d.Diagnostic)
	}
	if d.Cmdline != "root=atomix ro" {
		t.Errorf("insecure: got %q", d.Cmdline)
	}
	if out != "" {
		t.Errorf("insecure: unexpected console %q", out)
	}
}

func TestMalformedInputIsNotDowngraded(t *testing.T) {
	for _, secure := range []bool{true, false} {
		d, out := decide(t, secure, "", "ro\x1b[2J")
		if d.Outcome != Reject {
			t.Errorf("secure=%v: expected reject, got %s", secure, d.Outcome)
		}
		if d.Category != kcmdline.MalformedInput {
			t.Errorf("secure=%v: category %v", secure, d.Category)
		}
		if !strings.Contains(out, RejectedMessage) {
			t.Errorf("secure=%v: missing reject message in %q", secure, out)
		}
	}
}

func TestTooManyTokensRejectsBothModes(t *testing.T) {
	runtime := strings.TrimSpace(strings.Repeat("ro ", kcmdline.MaxTokens+1))
	for _, secure := range []bool{true, false} {
		d, _ := decide(t, secure, "", runtime)
		if d.Outcome != Reject || d.Category != kcmdline.MalformedInput {
			t.Errorf("secure=%v: got %s %v", secure, d.Outcome, d.Category)
		}
	}
}

func TestResourceExhaustedStatus(t *testing.T) {
	var console bytes.Buffer
	c := compose.New()
	c.MaxLength = 4
	d := (&Decider{Composer: c, Console: &console}).Decide(false, nil, []byte("verbose"))
	if d.Outcome != Reject || d.Category != kcmdline.ResourceExhausted {
		t.Fatalf("got %s %v", d.Outcome, d.Category)
	}
	if !strings.HasPrefix(console.String(), "Out of Resources: ") {
		t.Errorf("unexpected console %q", console.String())
	}
	if strings.Contains(console.String(), RejectedMessage) {
		t.Error("resource exhaustion must not be reported as a rejected command line")
	}
}

func TestDowngradable(t *testing.T) {
	for c := kcmdline.None; c <= kcmdline.ResourceExhausted; c++ {
		want := c == kcmdline.PolicyViolation
		if Downgradable(c) != want {
			t.Errorf("Downgradable(%v) = %v", c, !want)
		}
	}
}

func TestPackageDecideHasNoConsole(t *testing.T) {
	d := Decide(false, nil, []byte("rootkit=yes"))
	if d.Outcome != ProceedWithWarning {
		t.Errorf("got %s", d.Outcome)
	}
}
