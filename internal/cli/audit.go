package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/audit"
)

var (
	showOutcome string
	showSince   time.Duration
	showFormat  string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditShowCmd)
	auditShowCmd.Flags().StringVar(&showOutcome, "outcome", "", "Only show decisions with this outcome (proceed|proceed_with_warning|reject)")
	auditShowCmd.Flags().DurationVar(&showSince, "since", 0, "Only show decisions newer than this duration")
	auditShowCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format (text|json)")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Decision log operations",
	Long:  "Commands for verifying and inspecting the hash-chained decision log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of a decision log",
	Long:  "Walks the JSONL decision log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show recorded boot decisions",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditShow,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d entries verified\n", result.Lines)
		return nil
	}
	return &exitError{code: 1, err: fmt.Errorf("FAILED at line %d: %s", result.ErrorLine, result.Error)}
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	filter := audit.Filter{Outcome: showOutcome}
	if showSince > 0 {
		filter.From = time.Now().Add(-showSince)
	}

	r, err := audit.Read(args[0], filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch showFormat {
	case "json":
		s, err := audit.FormatJSON(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	default:
		fmt.Fprint(out, audit.FormatText(r))
	}
	return nil
}
