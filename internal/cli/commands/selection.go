package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
)

// NewSelectionCommand creates the selection command.
func NewSelectionCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "selection [path]",
		Short: "Sort standard input as a single class list",
		Long: `Read a class list from standard input, sort it and write it to standard
output. This backs an editor's "sort selection" action.

The language's separator and replacement are used to split and rejoin the
classes. Input that does not look like a class list is written back
unchanged. The optional path names the file the selection came from; it
selects the language and locates the stylesheet.`,
		Example: `  echo "p-4 flex m-2" | rawreorder selection
  pbpaste | rawreorder selection src/App.tsx | pbcopy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runSelection(cmd, cc, args, lang)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Language id to use instead of detecting it from the path")
	_ = cmd.RegisterFlagCompletionFunc("lang", completeLanguages)

	return cmd
}

func runSelection(cmd *cobra.Command, cc *CommandContext, args []string, lang string) error {
	path := filepath.Join(cc.Cfg.ProjectRoot, "selection")
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		path = abs
	}
	if lang == "" {
		var ok bool
		if lang, ok = cc.Engine.LanguageFor(path); !ok {
			lang = config.FallbackLanguage
		}
	}

	in, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	text := string(in)

	sorted, ok, err := cc.Engine.SortSelection(cmd.Context(), path, lang, text)
	if err != nil {
		return err
	}
	if !ok {
		cc.Logger.Debug("selection is not a class list", "language", lang)
		sorted = text
	}

	_, err = io.WriteString(cmd.OutOrStdout(), sorted)
	return err
}
