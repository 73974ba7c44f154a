package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Filter selects entries when reading a log back.
type Filter struct {
	Outcome string    // empty = any
	From    time.Time // zero = no lower bound
	To      time.Time // zero = no upper bound
}

// Summary counts outcomes over a set of entries.
type Summary struct {
	Total          int    `json:"total"`
	Proceed        int    `json:"proceed"`
	Warned         int    `json:"warned"`
	Rejected       int    `json:"rejected"`
	FirstTimestamp string `json:"first_timestamp,omitempty"`
	LastTimestamp  string `json:"last_timestamp,omitempty"`
}

// Report holds filtered entries and their summary.
type Report struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Read returns the entries of the log matching filter. Malformed lines are
// skipped; use Verify to detect them.
func Read(path string, filter Filter) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	r := &Report{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if filter.Outcome != "" && e.Outcome != filter.Outcome {
			continue
		}
		if !filter.From.IsZero() || !filter.To.IsZero() {
			ts, err := time.Parse(TimestampFormat, e.Timestamp)
			if err != nil {
				continue
			}
			if !filter.From.IsZero() && ts.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && ts.After(filter.To) {
				continue
			}
		}
		r.Entries = append(r.Entries, e)
		r.Summary.add(e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return r, nil
}

func (s *Summary) add(e Entry) {
	s.Total++
	switch e.Outcome {
	case "proceed":
		s.Proceed++
	case "proceed_with_warning":
		s.Warned++
	case "reject":
		s.Rejected++
	}
	if s.FirstTimestamp == "" {
		s.FirstTimestamp = e.Timestamp
	}
	s.LastTimestamp = e.Timestamp
}

// FormatText renders a report as one line per decision plus a summary.
func FormatText(r *Report) string {
	if len(r.Entries) == 0 {
		return "No decisions recorded.\n"
	}

	var b strings.Builder
	for _, e := range r.Entries {
		mode := "insecure"
		if e.Secure {
			mode = "secure"
		}
		detail := e.Cmdline
		if e.Outcome == "reject" {
			detail = e.Diagnostic
		}
		fmt.Fprintf(&b, "%-24s %-8s %-20s %s\n", e.Timestamp, mode, strings.ToUpper(e.Outcome), truncate(detail, 60))
	}
	fmt.Fprintf(&b, "\n%d decisions: %d proceed, %d warned, %d rejected\n",
		r.Summary.Total, r.Summary.Proceed, r.Summary.Warned, r.Summary.Rejected)
	return b.String()
}

// FormatJSON renders a report as indented JSON.
func FormatJSON(r *Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal audit report: %w", err)
	}
	return string(data), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
