package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Trapfether/tailwind-raw-reorder/internal/watcher"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Sort classes whenever files are saved",
		Long: `Watch a directory tree and sort the classes of supported files as they
are saved. Ignored paths are not watched. Saving a stylesheet or rules
script reloads it for the files saved afterwards.

Stop with Ctrl+C.`,
		Example: `  # Watch the project
  rawreorder watch

  # Watch one directory with a longer quiet period
  rawreorder watch src --debounce 500ms`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runWatch(cmd, cc, args, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before changed files are sorted")

	return cmd
}

func runWatch(cmd *cobra.Command, cc *CommandContext, args []string, debounce time.Duration) error {
	root := cc.Cfg.ProjectRoot
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		root = abs
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), interruptSignals...)
	defer stop()

	w, err := watcher.New(watcher.Config{
		Engine:   cc.Engine,
		Root:     root,
		Debounce: debounce,
		Logger:   cc.Logger,
	})
	if err != nil {
		return err
	}
	results, err := w.Start(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	defer func() { _ = w.Stop() }()

	r := cc.Renderer
	r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", root))

	for {
		select {
		case <-ctx.Done():
			r.Muted("Stopped watching")
			return nil
		case res, ok := <-results:
			if !ok {
				return nil
			}
			name := relPath(cc, res.Path)
			switch {
			case res.Err != nil:
				r.StatusLine(name, "error", res.Err.Error())
			case res.File.Written:
				r.StatusLine(name, "success", fmt.Sprintf("%d list(s) sorted", len(res.File.Edits)))
			default:
				cc.Logger.Debug("already sorted", "path", name)
			}
		}
	}
}
