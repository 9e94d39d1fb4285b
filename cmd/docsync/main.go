// Command docsync adds, removes and extracts Python docstrings driven by a
// YAML mapping, editing files in place without disturbing other code.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xonecas/docsync/internal/config"
	"github.com/xonecas/docsync/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	logFile    string

	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Synchronize Python docstrings with a YAML mapping",
	Long: `docsync keeps the docstrings of Python functions and classes in sync
with a YAML mapping file:

  functions:
    name: docstring text
  classes:
    Name: docstring text

Only the docstring literals change; every other byte of the file is kept.
Path arguments may be directories, which are searched for Python files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-file") {
			cfg.Log.File = logFile
		}

		consoleLevel, _ := zerolog.ParseLevel(cfg.Log.ConsoleLevel)
		if verbose {
			consoleLevel = zerolog.DebugLevel
		}
		fileLevel, _ := zerolog.ParseLevel(cfg.Log.Level)

		logger, logCloser, err = logging.Setup(logging.Options{
			ConsoleLevel: consoleLevel,
			File:         cfg.Log.File,
			FileLevel:    fileLevel,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug().Str("command", cmd.CommandPath()).Strs("args", args).Msg("start")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./docsync.toml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to the console")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path, empty disables file logging")

	rootCmd.AddCommand(addCmd, removeCmd, outlineCmd, extractCmd, undoCmd, runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Before PersistentPreRunE there is no logger yet.
		if logCloser == nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		for _, line := range strings.Split(err.Error(), "\n") {
			logger.Error().Msg(line)
		}
		_ = logCloser.Close()
		os.Exit(1)
	}
}
