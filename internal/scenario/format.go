package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders run results as human-readable text.
func FormatText(results []*RunResult) string {
	var b strings.Builder

	totalFiles := len(results)
	fmt.Fprintf(&b, "Checking %d corpus file", totalFiles)
	if totalFiles != 1 {
		b.WriteString("s")
	}
	b.WriteString("...\n\n")

	totalCases := 0
	totalPassed := 0
	failedFiles := 0

	for _, r := range results {
		totalCases += r.Total
		totalPassed += r.Passed

		status := "PASS"
		if r.Failed > 0 {
			status = "FAIL"
			failedFiles++
		}
		fmt.Fprintf(&b, "  %s  %s (%d/%d)\n", status, r.File, r.Passed, r.Total)

		for _, c := range r.Cases {
			if c.Passed {
				continue
			}
			mode := "insecure"
			if c.Secure {
				mode = "secure"
			}
			fmt.Fprintf(&b, "    FAIL  case %d: %s [%s]\n", c.Index, c.Name, mode)
			for _, f := range c.Failures {
				fmt.Fprintf(&b, "          %s\n", f)
			}
		}
	}

	fmt.Fprintf(&b, "\n%d of %d cases passed.", totalPassed, totalCases)
	if failedFiles > 0 {
		fmt.Fprintf(&b, " %d of %d corpus files failed.", failedFiles, totalFiles)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatJSON renders run results as JSON.
func FormatJSON(results []*RunResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	return string(data), nil
}
