package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/stubguard/internal/scenario"
)

var (
	testCorpus string
	testWatch  bool
	testFormat string
)

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringVar(&testCorpus, "corpus", "", "Glob pattern for boot corpus YAML files (default from config)")
	testCmd.Flags().BoolVar(&testWatch, "watch", false, "Re-run when a corpus file changes")
	testCmd.Flags().StringVarP(&testFormat, "format", "f", "text", "Output format (text|json)")
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the boot corpus against the in-process stub",
	Long: "Loads boot corpus YAML files matching a glob pattern, boots each case\n" +
		"through the gatekeeper and grades it from the console output.\n\n" +
		"Exit code 0 if all cases pass, 1 if any fail.",
	Args: cobra.NoArgs,
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	pattern := testCorpus
	if pattern == "" {
		pattern = cfg.Corpus
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no corpus files match pattern: %s", pattern)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	failed, err := runCorpus(ctx, out, matches)
	if err != nil {
		return err
	}

	if testWatch {
		logger.Info("watching corpus", "files", len(matches))
		failed, err = watchCorpus(ctx, out, matches, failed)
		if err != nil {
			return err
		}
	}

	if failed {
		return &exitError{code: 1}
	}
	return nil
}

// watchCorpus re-runs the corpus on every change until ctx is cancelled and
// reports whether the last completed run failed.
func watchCorpus(ctx context.Context, out io.Writer, paths []string, failed bool) (bool, error) {
	err := scenario.Watch(ctx, paths, func() {
		fmt.Fprintln(out)
		f, err := runCorpus(ctx, out, paths)
		if err != nil {
			logger.Error("corpus run failed", "error", err)
			f = true
		}
		failed = f
	})
	return failed, err
}

func runCorpus(ctx context.Context, out io.Writer, paths []string) (failed bool, err error) {
	var results []*scenario.RunResult
	for _, path := range paths {
		r, err := scenario.LoadAndRun(ctx, path, scenario.StubBooter{})
		if err != nil {
			return false, err
		}
		logger.Debug("corpus file done", "file", path, "passed", r.Passed, "failed", r.Failed)
		results = append(results, r)
		if r.Failed > 0 {
			failed = true
		}
	}

	switch testFormat {
	case "json":
		s, err := scenario.FormatJSON(results)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, s)
	default:
		fmt.Fprint(out, scenario.FormatText(results))
	}
	return failed, nil
}
