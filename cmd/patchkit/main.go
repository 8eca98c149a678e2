package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wwnbb/patchkit/internal/config"
	"github.com/wwnbb/patchkit/internal/diff"
	"github.com/wwnbb/patchkit/internal/fileops"
	"github.com/wwnbb/patchkit/internal/logging"
	"github.com/wwnbb/patchkit/internal/patch"
	"github.com/wwnbb/patchkit/internal/replace"
	"github.com/wwnbb/patchkit/internal/ui"
)

var (
	// Version is set during build
	Version = "dev"
	// GitCommit is set during build
	GitCommit = "none"
	// BuildDate is set during build
	BuildDate = "unknown"

	// Logger instance - global within main package for simplicity
	appLogger logging.Logger = logging.NewNilLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "patchkit",
	Short: "Diff, fuzzy search-and-replace, and patch application for text files",
	Long: `Patchkit computes line diffs, performs fuzzy search-and-replace edits,
and applies multi-file patch documents in the "*** Begin Patch" dialect.

Examples:
  patchkit diff old.txt new.txt
  patchkit apply changes.patch
  patchkit replace main.go 'return 1' 'return 2'`,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
}

func init() {
	rootCmd.PersistentFlags().String("color", "", "Colorize output: auto, always, or never")
	rootCmd.PersistentFlags().String("root", "", "Directory patch paths are resolved under (default: working directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to a file")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the log file (default: ~/.cache/patchkit/logs/patchkit-<timestamp>.log)")

	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(replaceCmd())
	rootCmd.AddCommand(completionCmd())
}

// loadConfig loads the config file and folds the global flags into it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if colorFlag, _ := cmd.Flags().GetString("color"); colorFlag != "" {
		switch strings.ToLower(colorFlag) {
		case "auto":
			cfg.Color = config.ColorAuto
		case "always":
			cfg.Color = config.ColorAlways
		case "never":
			cfg.Color = config.ColorNever
		default:
			return nil, fmt.Errorf("invalid color mode %q", colorFlag)
		}
	}
	if rootFlag, _ := cmd.Flags().GetString("root"); rootFlag != "" {
		cfg.Root = rootFlag
	}
	if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
		cfg.Debug = true
	}
	if logFileFlag, _ := cmd.Flags().GetString("log-file"); logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}

	return cfg, nil
}

// initLogger sets up the global logger from config. The returned closer must
// run before exit so buffered messages reach the file.
func initLogger(cfg *config.Config) (func(), error) {
	logPath := cfg.LogFile
	if cfg.Debug && logPath == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = "."
		}
		logPath = filepath.Join(cacheDir, "patchkit", "logs",
			fmt.Sprintf("patchkit-%s.log", time.Now().Format("20060102-150405")))
	}

	logger, err := logging.New(logPath, cfg.Debug)
	if err != nil {
		return nil, err
	}

	appLogger = logger
	if appLogger.IsEnabled() {
		appLogger.Log("--- patchkit start --- version: %s, commit: %s", Version, GitCommit)
	}
	return func() { _ = appLogger.Close() }, nil
}

// colorize resolves the configured color mode against the output terminal.
func colorize(cfg *config.Config) bool {
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// diffCmd prints the unified diff of two files.
func diffCmd() *cobra.Command {
	var noTrim bool

	cmd := &cobra.Command{
		Use:   "diff <old-file> <new-file>",
		Short: "Print the unified diff between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closeLogger, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLogger()

			oldData, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			newData, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			text := diff.FormatUnified(args[0], args[1], string(oldData), string(newData))
			if cfg.TrimDiffs && !noTrim {
				text = diff.TrimDiff(text)
			}

			appLogger.Log("diff %s %s: %d bytes of output", args[0], args[1], len(text))
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderDiff(text, colorize(cfg)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTrim, "no-trim", false, "Keep shared leading whitespace in the output")
	return cmd
}

// applyCmd applies a patch document to files under the root directory.
func applyCmd() *cobra.Command {
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "apply [patch-file]",
		Short: "Apply a patch document to files (reads stdin without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closeLogger, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLogger()

			var data []byte
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			patchText := string(data)

			if listOnly {
				for _, path := range patch.FilesNeeded(patchText) {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return nil
			}

			results, err := fileops.ApplyDocument(cfg.Root, patchText)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Success {
					appLogger.Log("applied %s %s: %s", r.Operation, r.Path, r.Message)
				} else {
					failed++
					appLogger.Log("failed %s %s: %v", r.Operation, r.Path, r.Err)
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), ui.RenderResults(results, colorize(cfg)))
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed to apply", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listOnly, "files", false, "List the files the patch reads or deletes, without applying")
	return cmd
}

// replaceCmd performs a fuzzy search-and-replace on one file and shows the
// resulting diff.
func replaceCmd() *cobra.Command {
	var all bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "replace <file> <old> <new>",
		Short: "Replace a text fragment in a file using fuzzy matching",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closeLogger, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLogger()

			path, old, new := args[0], args[1], args[2]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			content := string(data)
			updated, err := replace.ReplaceTraced(content, old, new, all || cfg.ReplaceAll, appLogger)
			if err != nil {
				return err
			}

			text := diff.FormatUnified(path, path, content, updated)
			if cfg.TrimDiffs {
				text = diff.TrimDiff(text)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderDiff(text, colorize(cfg)))

			if dryRun {
				return nil
			}

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(updated), info.Mode()); err != nil {
				return err
			}
			appLogger.Log("replaced fragment in %s (%d -> %d bytes)", path, len(content), len(updated))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Replace every occurrence instead of requiring a unique match")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the diff without writing the file")
	return cmd
}

// completionCmd creates the completion command for shell completion scripts
func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish"},
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				cmd.Root().GenFishCompletion(os.Stdout, true)
			}
		},
	}

	return cmd
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		if appLogger.IsEnabled() {
			appLogger.Log("command failed: %v", err)
			_ = appLogger.Close()
		}
		os.Exit(1)
	}
}
