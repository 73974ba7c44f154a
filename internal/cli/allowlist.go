package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/allowlist"
)

var allowlistFormat string

func init() {
	rootCmd.AddCommand(allowlistCmd)
	allowlistCmd.Flags().StringVarP(&allowlistFormat, "format", "f", "text", "Output format (text|json)")
}

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Print the compiled-in allow-list",
	Long: "Prints every allow-list entry with its match kind, and the policy\n" +
		"hash recorded in audit entries.",
	Args: cobra.NoArgs,
	RunE: runAllowlist,
}

type allowlistEntryJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func runAllowlist(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	table := allowlist.Default

	if allowlistFormat == "json" {
		entries := make([]allowlistEntryJSON, 0, len(table))
		for _, e := range table {
			entries = append(entries, allowlistEntryJSON{Kind: e.Kind.String(), Value: e.Value})
		}
		data, err := json.MarshalIndent(map[string]any{
			"hash":    table.Hash(),
			"entries": entries,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, e := range table {
		fmt.Fprintf(out, "%-8s %s\n", e.Kind, e.Value)
	}
	fmt.Fprintf(out, "\npolicy hash: %s\n", table.Hash())
	return nil
}
