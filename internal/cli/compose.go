package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/allowlist"
	"github.com/ppiankov/stubguard/internal/audit"
	"github.com/ppiankov/stubguard/internal/boot"
	"github.com/ppiankov/stubguard/internal/compose"
)

// Exit codes for compose and check.
const (
	exitReject  = 1
	exitWarning = 2
)

var (
	composeBuiltin     string
	composeBuiltinFile string
	composeRuntime     string
	composeSecure      bool
	composeAuditLog    string
	composeMaxLength   int
	composeFormat      string
)

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().StringVar(&composeBuiltin, "builtin", "", "Builtin command line baked into the image")
	composeCmd.Flags().StringVar(&composeBuiltinFile, "builtin-file", "", "Read the builtin command line from a file (e.g. an extracted .cmdline section)")
	composeCmd.Flags().StringVar(&composeRuntime, "runtime", "", "Runtime command line from the load options")
	composeCmd.Flags().BoolVar(&composeSecure, "secure", false, "Decide as if secure boot is enabled")
	composeCmd.Flags().StringVar(&composeAuditLog, "audit-log", "", "Append the decision to this hash-chained log (overrides config)")
	composeCmd.Flags().IntVar(&composeMaxLength, "max-length", -1, "Maximum composed length, 0 for no limit (overrides config)")
	composeCmd.Flags().StringVarP(&composeFormat, "format", "f", "text", "Output format (text|json)")
	composeCmd.MarkFlagsMutuallyExclusive("builtin", "builtin-file")
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose and decide the final kernel command line",
	Long: "Splices the runtime command line into the builtin one at the\n" +
		"STUBBY_RT_CLI1 marker and applies the boot policy.\n\n" +
		"Exit code 0 to boot, 2 to boot with a warning (insecure mode only),\n" +
		"1 if the stub would refuse to boot.",
	Args: cobra.NoArgs,
	RunE: runCompose,
}

func runCompose(cmd *cobra.Command, args []string) error {
	builtin := []byte(composeBuiltin)
	if composeBuiltinFile != "" {
		data, err := os.ReadFile(composeBuiltinFile)
		if err != nil {
			return fmt.Errorf("read builtin: %w", err)
		}
		builtin = trimSectionPadding(data)
	}
	runtime := []byte(composeRuntime)

	composer := compose.New()
	composer.MaxLength = cfg.MaxLength
	if composeMaxLength >= 0 {
		composer.MaxLength = composeMaxLength
	}

	decider := &boot.Decider{Composer: composer, Console: cmd.ErrOrStderr()}
	d := decider.Decide(composeSecure, builtin, runtime)
	logger.Info("decision", "secure", composeSecure, "outcome", d.Outcome, "category", d.Category)

	if err := recordDecision(d, builtin, runtime); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch composeFormat {
	case "json":
		data, err := json.MarshalIndent(decisionView(d), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	default:
		if d.Booted() {
			fmt.Fprintln(out, d.Cmdline)
		}
	}

	switch d.Outcome {
	case boot.Reject:
		return &exitError{code: exitReject}
	case boot.ProceedWithWarning:
		return &exitError{code: exitWarning}
	}
	return nil
}

// trimSectionPadding drops the NUL terminator and trailing newline that
// section payloads usually carry.
func trimSectionPadding(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case 0, '\n':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}

type decisionJSON struct {
	boot.Decision
	Category string `json:"category,omitempty"`
}

func decisionView(d boot.Decision) decisionJSON {
	v := decisionJSON{Decision: d}
	if d.Diagnostic != "" {
		v.Category = d.Category.String()
	}
	return v
}

func recordDecision(d boot.Decision, builtin, runtime []byte) error {
	path := cfg.AuditLog
	if composeAuditLog != "" {
		path = composeAuditLog
	}
	if path == "" {
		return nil
	}

	l, err := audit.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.Record(audit.EntryFromDecision(d, builtin, runtime, allowlist.Default.Hash())); err != nil {
		return err
	}
	logger.Debug("decision recorded", "path", path)
	return nil
}
