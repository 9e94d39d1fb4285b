package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/xonecas/docsync/internal/constants"
	"github.com/xonecas/docsync/internal/delta"
	"github.com/xonecas/docsync/internal/docmap"
	"github.com/xonecas/docsync/internal/docstring"
	"github.com/xonecas/docsync/internal/filesearch"
	"github.com/xonecas/docsync/internal/store"
	"github.com/xonecas/docsync/internal/treesitter"
)

var (
	mappingFlag string
	namesFlag   []string
	dryRunFlag  bool
	diffFlag    bool
	outputFlag  string
	limitFlag   int
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add or refresh docstrings from the mapping",
	Long: `Every function and class named in the mapping gets its docstring
replaced by the mapped text. Definitions without a docstring get one
inserted as the first statement of their body. An empty text only
removes the existing docstring.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <path>...",
	Short: "Remove docstrings",
	Long: `With --mapping, exactly the definitions named in the mapping lose
their docstring. Otherwise --name selects definitions by name, and with
neither flag every function and class docstring is removed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

var outlineCmd = &cobra.Command{
	Use:   "outline <path>...",
	Short: "List definitions and whether they are documented",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runOutline,
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Write the current docstrings of a file as a mapping",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var undoCmd = &cobra.Command{
	Use:   "undo [run-id]",
	Short: "Restore the files changed by a run (the latest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUndo,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	for _, cmd := range []*cobra.Command{addCmd, removeCmd} {
		cmd.Flags().StringVarP(&mappingFlag, "mapping", "m", "", "YAML mapping file")
		cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "report changes without writing files")
		cmd.Flags().BoolVar(&diffFlag, "diff", false, "print a unified diff of every changed file")
	}
	removeCmd.Flags().StringSliceVarP(&namesFlag, "name", "n", nil, "only remove docstrings of these names")
	extractCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the mapping to this file instead of stdout")
	runsCmd.Flags().IntVar(&limitFlag, "limit", 20, "maximum number of runs to list")
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := mappingFlag
	if path == "" {
		path = cfg.Mapping.Path
	}
	mapping, err := docmap.Load(path)
	if err != nil {
		return err
	}
	logger.Debug().Str("mapping", path).Int("entries", mapping.Len()).Msg("loaded mapping")

	return runFiles(cmd.Context(), "add", args, func(mgr *docstring.Manager, file string) (*docstring.Result, error) {
		return mgr.AddMapping(file, mapping)
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	var mapping *docmap.Mapping
	if mappingFlag != "" {
		var err error
		if mapping, err = docmap.Load(mappingFlag); err != nil {
			return err
		}
	}
	filter := docstring.NewNameFilter(namesFlag...)

	return runFiles(cmd.Context(), "remove", args, func(mgr *docstring.Manager, file string) (*docstring.Result, error) {
		return mgr.RemoveMatching(file, mapping, filter)
	})
}

// runFiles applies op to every Python file under args inside one journal
// run. A failing file does not stop the others.
func runFiles(ctx context.Context, operation string, args []string, op func(*docstring.Manager, string) (*docstring.Result, error)) error {
	files, err := collect(ctx, args)
	if err != nil {
		return err
	}

	opts := []docstring.Option{
		docstring.WithReporter(docstring.LogReporter{Logger: logger}),
		docstring.WithDryRun(dryRunFlag),
	}
	if diffFlag {
		theme := cfg.UI.SyntaxTheme
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			theme = ""
		}
		opts = append(opts, docstring.WithDiff(os.Stdout, theme))
	}

	if !dryRunFlag && cfg.Journal.Enabled {
		journal, err := openJournal()
		if err != nil {
			return err
		}
		defer journal.Close()

		tracker := delta.New(journal.DB())
		runID, err := tracker.BeginRun(operation)
		if err != nil {
			return err
		}
		logger.Debug().Str("run", runID).Msg("journal run started")
		opts = append(opts, docstring.WithJournal(tracker))
	}

	mgr := docstring.NewManager(opts...)
	var errs []error
	changed := 0
	for _, file := range files {
		res, err := op(mgr, file)
		if err != nil {
			logger.Error().Err(err).Str("file", file).Msg("failed")
			errs = append(errs, err)
			continue
		}
		if res.Changed() {
			changed++
		} else {
			logger.Debug().Str("file", file).Msg("unchanged")
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Info().Int("files", len(files)).Int("changed", changed).Bool("dry_run", dryRunFlag).Msg(constants.CompletionMessage)
	return nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	files, err := collect(cmd.Context(), args)
	if err != nil {
		return err
	}

	outlines := make(map[string][]treesitter.OutlineEntry, len(files))
	var errs []error
	for _, file := range files {
		tree, err := treesitter.Load(file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		outlines[file] = tree.Outline()
		tree.Close()
	}
	fmt.Fprint(cmd.OutOrStdout(), treesitter.FormatOutline(outlines))
	return errors.Join(errs...)
}

func runExtract(cmd *cobra.Command, args []string) error {
	mapping, err := docstring.Extract(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputFlag != "" {
		f, err := os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("create mapping: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := docmap.Encode(w, mapping); err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	logger.Info().Str("file", args[0]).Int("docstrings", mapping.Len()).Msg("extracted")
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	journal, err := openJournal()
	if err != nil {
		return err
	}
	defer journal.Close()

	var runID string
	if len(args) == 1 {
		runID = args[0]
	} else {
		run, ok, err := journal.LatestRun()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("nothing to undo")
		}
		runID = run.ID
	}

	restored, err := delta.New(journal.DB()).Undo(runID)
	for _, path := range restored {
		logger.Info().Str("run", runID).Str("file", path).Msg("restored")
	}
	return err
}

func runRuns(cmd *cobra.Command, args []string) error {
	journal, err := openJournal()
	if err != nil {
		return err
	}
	defer journal.Close()

	runs, err := journal.Runs(limitFlag)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %-6s  %d file(s)\n", r.ID, r.Created.Local().Format(constants.TimeFormat), r.Operation, r.Files)
	}
	return nil
}

func collect(ctx context.Context, args []string) ([]string, error) {
	files, err := filesearch.Collect(ctx, args, filesearch.Options{
		Include:          treesitter.Supported,
		RespectGitignore: cfg.Walk.RespectGitignore,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no Python files found")
	}
	return files, nil
}

func openJournal() (*store.Journal, error) {
	retention := time.Duration(cfg.Journal.RetentionDays) * 24 * time.Hour
	journal, err := store.Open(cfg.Journal.Path, retention)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return journal, nil
}
