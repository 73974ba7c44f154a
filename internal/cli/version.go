package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/allowlist"
	"github.com/ppiankov/stubguard/internal/compose"
	"github.com/ppiankov/stubguard/internal/kcmdline"
)

// version is set by ldflags at build time.
var version = "dev"

type versionInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	PolicyHash string `json:"policy_hash"`
	Marker     string `json:"marker"`
	MaxTokens  int    `json:"max_tokens"`
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and compiled-in policy information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Name:       "stubguard",
			Version:    version,
			PolicyHash: allowlist.Default.Hash(),
			Marker:     compose.Marker,
			MaxTokens:  kcmdline.MaxTokens,
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
