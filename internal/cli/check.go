package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/kcmdline"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <runtime cmdline>...",
	Short: "Check a runtime command line against the allow-list",
	Long: "Tokenizes the runtime command line and checks every token against\n" +
		"the compiled-in allow-list. Arguments are joined with single spaces.\n\n" +
		"Exit code 0 if every token is allowed, 1 otherwise.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	line := []byte(strings.Join(args, " "))
	out := cmd.OutOrStdout()

	if err := kcmdline.Check(line); err != nil {
		fmt.Fprintf(out, "REJECT (%s): %v\n", kcmdline.CategoryOf(err), err)
		return &exitError{code: exitReject}
	}

	tokens, _ := kcmdline.Tokenize(line)
	fmt.Fprintf(out, "OK: %d token", len(tokens))
	if len(tokens) != 1 {
		fmt.Fprint(out, "s")
	}
	fmt.Fprintln(out, " allowed")
	return nil
}
