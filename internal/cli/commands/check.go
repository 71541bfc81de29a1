// Package commands implements the gqlint subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/softmesh/graphql/internal/cli/config"
	"github.com/softmesh/graphql/lexer"
	"github.com/softmesh/graphql/parser"
	"github.com/softmesh/graphql/validate"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // Re-check files whenever they change
}

// fileReport holds the diagnostics produced for one file.
type fileReport struct {
	path  string
	lines []string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse and validate GraphQL documents",
		Long: `Parse each GraphQL document and run the registered validation rules.

Files are checked concurrently. Diagnostics are printed one per line,
prefixed with the file they came from, and the exit code is nonzero
when any file has diagnostics.`,
		Example: `  # Check a schema
  gqlint check schema.graphql

  # Check several documents at once
  gqlint check schema.graphql queries/accounts.graphql

  # Re-check on every save
  gqlint check --watch schema.graphql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return watchFiles(cmd, args)
			}
			return checkFiles(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")

	return cmd
}

// checkFiles checks every path concurrently and prints the collected
// diagnostics in argument order.
func checkFiles(cmd *cobra.Command, paths []string) error {
	maxDepth := parser.DefaultMaxDepth
	if cfg := config.Get(); cfg != nil && cfg.MaxDepth > 0 {
		maxDepth = cfg.MaxDepth
	}

	reports := make([]fileReport, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			report, err := checkFile(path, maxDepth)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	problems := 0
	for _, report := range reports {
		for _, line := range report.lines {
			problems++
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", report.path, line)
		}
	}
	if problems > 0 {
		return fmt.Errorf("found %d problems", problems)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d files checked, no problems found\n", len(paths))
	return nil
}

// checkFile parses and validates a single document. Parse and
// validation findings become report lines; only unreadable files
// surface as errors.
func checkFile(path string, maxDepth int) (fileReport, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return fileReport{}, err
	}

	report := fileReport{path: path}

	p := parser.NewWithOptions(lexer.New(source), parser.Options{MaxDepth: maxDepth})
	doc, err := p.ParseDocument()
	if err != nil {
		report.lines = append(report.lines, err.Error())
		return report, nil
	}

	for _, verr := range validate.Validate(doc) {
		report.lines = append(report.lines, verr.Error())
	}
	return report, nil
}

// watchFiles runs checkFiles once, then again after every write to one
// of the named files. Parent directories are watched instead of the
// files themselves so that editors that replace files on save keep
// triggering events.
func watchFiles(cmd *cobra.Command, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	runPass := func() {
		if err := checkFiles(cmd, paths); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		}
	}
	runPass()

	ctx := cmd.Context()
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}

			// Debounce rapid successive events
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				slog.Info("change detected", "file", filepath.Base(abs))
				runPass()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
