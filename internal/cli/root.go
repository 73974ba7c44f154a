// Package cli implements the stubguard command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/config"
)

// exConfig is the sysexits EX_CONFIG code.
const exConfig = 78

var (
	configPath string
	logLevel   string

	cfg    = config.Default()
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "stubguard", Level: log.WarnLevel})
)

var rootCmd = &cobra.Command{
	Use:   "stubguard",
	Short: "Kernel command line gatekeeper for secure-boot stubs",
	Long: "Decides whether a kernel command line may be booted under secure boot,\n" +
		"splicing an untrusted runtime line into a trusted builtin template and\n" +
		"checking every runtime token against a compiled-in allow-list.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return &exitError{code: exConfig, err: err}
		}
		cfg = loaded
		if logLevel != "" {
			cfg.LogLevel = logLevel
			if err := cfg.Validate(); err != nil {
				return &exitError{code: exConfig, err: err}
			}
		}
		logger.SetLevel(cfg.Level())
		logger.Debug("config loaded", "path", configPath, "audit_log", cfg.AuditLog, "max_length", cfg.MaxLength)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.stubguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
}

// exitError carries a process exit code through cobra.
// A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "stubguard: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "stubguard: %v\n", err)
	return 1
}
