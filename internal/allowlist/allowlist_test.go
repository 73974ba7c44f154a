package allowlist

import (
	"strings"
	"testing"
)

func TestDefaultExactEntries(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"ro", true},
		{"quiet", true},
		{"verbose", true},
		{"root=atomix", true},
		{"crashkernel=256M", true},
		{"rw", false},
		{"r", false},
		{"roo", false},
		{"quiet2", false},
		{"root=atomix2", false},
		{"crashkernel=512M", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAllowed([]byte(tt.token)); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestDefaultPrefixEntries(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"console=", true},
		{"console=ttyS0", true},
		{"console=tty0,115200n8", true},
		{"root=soci:", true},
		{"root=soci:name=rootfs,dev=LABEL=data", true},
		{"console", false},
		{"xconsole=ttyS0", false},
		{"root=soc", false},
		{"root=/dev/sda1", false},
	}
	for _, tt := range tests {
		if got := IsAllowed([]byte(tt.token)); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestMatchingIsCaseSensitive(t *testing.T) {
	for _, tok := range []string{"RO", "Quiet", "CONSOLE=ttyS0", "Root=atomix"} {
		if IsAllowed([]byte(tok)) {
			t.Errorf("expected %q to be rejected", tok)
		}
	}
}

func TestMatchReturnsFirstEntry(t *testing.T) {
	table := Table{Prefix("a"), Exact("abc")}

	e, ok := table.Match([]byte("abc"))
	if !ok {
		t.Fatal("expected match")
	}
	if e.Kind != KindPrefix || e.Value != "a" {
		t.Errorf("expected first entry to win, got %+v", e)
	}
}

func TestEmptyTableAllowsNothing(t *testing.T) {
	var table Table
	if table.IsAllowed([]byte("ro")) {
		t.Error("empty table must not admit tokens")
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		in      string
		want    Entry
		wantErr bool
	}{
		{"^console=", Prefix("console="), false},
		{"ro", Exact("ro"), false},
		{"crashkernel=256M", Exact("crashkernel=256M"), false},
		{"", Entry{}, true},
		{"^", Entry{}, true},
	}
	for _, tt := range tests {
		got, err := ParseEntry(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEntry(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEntry(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestEntryStringRoundTripsCompactNotation(t *testing.T) {
	for _, e := range Default {
		parsed, err := ParseEntry(e.String())
		if err != nil {
			t.Fatalf("ParseEntry(%q): %v", e.String(), err)
		}
		if parsed != e {
			t.Errorf("round trip of %+v gave %+v", e, parsed)
		}
	}
}

func TestTableString(t *testing.T) {
	out := Default.String()
	if !strings.HasPrefix(out, "^console=\n^root=soci:\nroot=atomix\n") {
		t.Errorf("unexpected table rendering:\n%s", out)
	}
}

func TestHashStableAndSensitive(t *testing.T) {
	h1 := Default.Hash()
	h2 := Default.Hash()
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if !strings.HasPrefix(h1, "sha256:") || len(h1) != len("sha256:")+64 {
		t.Errorf("unexpected hash format %q", h1)
	}

	changed := append(Table{}, Default...)
	changed[3] = Exact("rw")
	if changed.Hash() == h1 {
		t.Error("hash must change when an entry changes")
	}

	kindOnly := append(Table{}, Default...)
	kindOnly[3] = Prefix("ro")
	if kindOnly.Hash() == h1 {
		t.Error("hash must change when only the match kind changes")
	}
}

func TestKindString(t *testing.T) {
	if KindExact.String() != "exact" || KindPrefix.String() != "prefix" {
		t.Error("unexpected kind names")
	}
	if Kind(9).String() != "kind(9)" {
		t.Errorf("unexpected unknown kind name %q", Kind(9).String())
	}
}
