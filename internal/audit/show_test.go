package audit

import (
	"strings"
	"testing"
	"time"
)

func TestReadFiltersByOutcome(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(testEntry("proceed"))
	l.Record(testEntry("reject"))
	l.Record(testEntry("proceed_with_warning"))
	l.Record(testEntry("reject"))
	l.Close()

	r, err := Read(path, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Summary.Total != 4 || r.Summary.Proceed != 1 || r.Summary.Warned != 1 || r.Summary.Rejected != 2 {
		t.Errorf("unexpected summary %+v", r.Summary)
	}

	r, err = Read(path, Filter{Outcome: "reject"})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Entries) != 2 {
		t.Errorf("expected 2 rejects, got %d", len(r.Entries))
	}
}

func TestReadFiltersByTime(t *testing.T) {
	l, path := newTestLog(t)
	old := testEntry("proceed")
	old.Timestamp = "2020-01-01T00:00:00.000Z"
	l.Record(old)
	l.Record(testEntry("proceed"))
	l.Close()

	r, err := Read(path, Filter{From: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Entries) != 1 {
		t.Errorf("expected 1 recent entry, got %d", len(r.Entries))
	}

	r, _ = Read(path, Filter{To: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)})
	if len(r.Entries) != 1 || r.Entries[0].Timestamp != old.Timestamp {
		t.Errorf("expected only the old entry, got %+v", r.Entries)
	}
}

func TestFormatText(t *testing.T) {
	r := &Report{}
	if FormatText(r) != "No decisions recorded.\n" {
		t.Errorf("unexpected empty rendering %q", FormatText(r))
	}

	e := testEntry("reject")
	e.Diagnostic = "token not allowed: rootkit=yes"
	r.Entries = append(r.Entries, e)
	r.Summary.add(e)

	out := FormatText(r)
	if !strings.Contains(out, "REJECT") || !strings.Contains(out, "rootkit=yes") {
		t.Errorf("unexpected rendering:\n%s", out)
	}
	if !strings.Contains(out, "1 decisions: 0 proceed, 0 warned, 1 rejected") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(&Report{Entries: []Entry{testEntry("proceed")}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"outcome": "proceed"`) {
		t.Errorf("unexpected json:\n%s", out)
	}
}
