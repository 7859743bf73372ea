package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/output"
	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/engine"
)

// ErrUnsorted is returned by --check when files would change.
var ErrUnsorted = errors.New("classes are not sorted")

type sortOptions struct {
	write bool
	check bool
	diff  bool
	stdin bool
	lang  string
}

// NewSortCommand creates the sort command.
func NewSortCommand() *cobra.Command {
	var opts sortOptions

	cmd := &cobra.Command{
		Use:   "sort [paths...]",
		Short: "Sort Tailwind classes in files",
		Long: `Sort the Tailwind classes found by the configured class patterns.

Directories are walked recursively, skipping ignored paths and files with
unknown extensions. Without --write the sorted result is only reported.

With --stdin the text to sort is read from standard input and the sorted
text is written to standard output. A path argument then names the file the
text belongs to; it selects the language and locates the stylesheet.`,
		Example: `  # Report files whose classes are out of order
  rawreorder sort

  # Sort and rewrite files in place
  rawreorder sort --write src/

  # Fail in CI when anything is unsorted
  rawreorder sort --check

  # Show what would change
  rawreorder sort --diff index.html

  # Editor integration
  cat page.vue | rawreorder sort --stdin page.vue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.write && opts.check {
				return fmt.Errorf("--write and --check cannot be used together")
			}
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if opts.stdin {
				return runSortStdin(cmd, cc, args, opts)
			}
			return runSort(cmd, cc, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Write sorted classes back to the files")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Exit with an error if any file would change")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show a diff of the changes")
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "Read text from stdin and write the sorted text to stdout")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "Language id to use instead of detecting it from the file extension")

	_ = cmd.RegisterFlagCompletionFunc("lang", completeLanguages)

	return cmd
}

func runSortStdin(cmd *cobra.Command, cc *CommandContext, args []string, opts sortOptions) error {
	if len(args) > 1 {
		return fmt.Errorf("--stdin takes at most one path")
	}

	path := filepath.Join(cc.Cfg.ProjectRoot, "stdin")
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		path = abs
	}

	lang := opts.lang
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

	sorted, edits, err := cc.Engine.SortText(cmd.Context(), path, lang, text)
	if err != nil {
		return err
	}
	cc.Logger.Debug("sorted stdin", "path", path, "language", lang, "edits", len(edits))

	w := cmd.OutOrStdout()
	switch {
	case opts.diff:
		_, err = io.WriteString(w, unifiedDiff(path, text, sorted))
	case opts.check:
		// nothing to print
	default:
		_, err = io.WriteString(w, sorted)
	}
	if err != nil {
		return err
	}

	if opts.check && sorted != text {
		return ErrUnsorted
	}
	return nil
}

func runSort(cmd *cobra.Command, cc *CommandContext, args []string, opts sortOptions) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		paths[i] = abs
	}

	result, err := cc.Engine.Run(cmd.Context(), paths, engine.RunOptions{
		Write:    opts.write,
		Language: opts.lang,
	})
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(sortOutput(cc, result, opts.diff))
	case output.ModeMarkdown:
		renderSortMarkdown(r, cc, result, opts)
	default:
		renderSortText(r, cc, result, opts)
	}
	if err != nil {
		return err
	}

	if result.HasErrors() {
		return fmt.Errorf("%d file(s) could not be sorted", len(result.Errors))
	}
	if opts.check && len(result.Changed()) > 0 {
		return fmt.Errorf("%w: %d file(s) would change", ErrUnsorted, len(result.Changed()))
	}
	return nil
}

func renderSortText(r *output.Renderer, cc *CommandContext, result *engine.RunResult, opts sortOptions) {
	for _, f := range result.Changed() {
		status, detail := "changed", fmt.Sprintf("%d list(s) reordered", len(f.Edits))
		if f.Written {
			status, detail = "success", fmt.Sprintf("%d list(s) sorted", len(f.Edits))
		}
		r.StatusLine(relPath(cc, f.Path), status, detail)
		if opts.diff {
			r.Println(colorDiff(r, unifiedDiff(relPath(cc, f.Path), f.Original, f.Sorted)))
		}
	}
	for _, fe := range result.Errors {
		r.StatusLine(relPath(cc, fe.Path), "error", fe.Err.Error())
	}

	r.Println("")
	switch {
	case result.HasErrors():
		r.Error(result.Summary())
	case len(result.Changed()) == 0:
		r.Success("All classes sorted. " + result.Summary())
	case opts.write:
		r.Success(result.Summary())
	default:
		r.Warning(result.Summary())
	}
}

func renderSortMarkdown(r *output.Renderer, cc *CommandContext, result *engine.RunResult, opts sortOptions) {
	r.Header(1, "Sort")
	r.Println("")
	r.Println(output.FormatKeyValue("Checked", fmt.Sprint(len(result.Files)+len(result.Errors))))
	r.Println(output.FormatKeyValue("Changed", fmt.Sprint(len(result.Changed()))))
	r.Println(output.FormatKeyValue("Failed", fmt.Sprint(len(result.Errors))))
	r.Println(output.FormatKeyValue("Written", fmt.Sprint(opts.write)))

	if changed := result.Changed(); len(changed) > 0 {
		r.Println("")
		r.Header(2, "Changed files")
		r.Println("")
		for _, f := range changed {
			r.Printf("- `%s` (%d edits)\n", relPath(cc, f.Path), len(f.Edits))
			if opts.diff {
				r.Println("")
				r.Println(output.FormatCodeBlock("diff", unifiedDiff(relPath(cc, f.Path), f.Original, f.Sorted)))
			}
		}
	}

	if len(result.Errors) > 0 {
		r.Println("")
		r.Header(2, "Errors")
		r.Println("")
		for _, fe := range result.Errors {
			r.Printf("- `%s`: %s\n", relPath(cc, fe.Path), fe.Err)
		}
	}
}

func sortOutput(cc *CommandContext, result *engine.RunResult, withDiff bool) output.SortOutput {
	out := output.SortOutput{
		Files: make([]output.FileInfo, 0, len(result.Files)),
		Summary: output.SortSummary{
			Checked:    len(result.Files) + len(result.Errors),
			Changed:    len(result.Changed()),
			Failed:     len(result.Errors),
			DurationMS: result.Duration.Milliseconds(),
		},
	}
	for _, f := range result.Files {
		info := output.FileInfo{
			Path:       relPath(cc, f.Path),
			Language:   f.Language,
			Stylesheet: f.Stylesheet,
			Changed:    f.Changed(),
			Written:    f.Written,
			Edits:      len(f.Edits),
		}
		if withDiff && f.Changed() {
			info.Diff = unifiedDiff(info.Path, f.Original, f.Sorted)
		}
		out.Files = append(out.Files, info)
	}
	for _, fe := range result.Errors {
		out.Errors = append(out.Errors, output.FileIssue{Path: relPath(cc, fe.Path), Error: fe.Err.Error()})
	}
	return out
}

// unifiedDiff renders a line diff of before and after with "-" and "+"
// markers. Unchanged lines are omitted.
func unifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s (sorted)\n", name, name)
	for _, d := range diffs {
		var marker string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			marker = "-"
		case diffmatchpatch.DiffInsert:
			marker = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(marker)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func colorDiff(r *output.Renderer, diff string) string {
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			lines[i] = r.Styles().Bold.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = r.Styles().DiffRemove.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = r.Styles().DiffAdd.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func relPath(cc *CommandContext, path string) string {
	if cc.Cfg.ProjectRoot == "" {
		return path
	}
	rel, err := filepath.Rel(cc.Cfg.ProjectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func completeLanguages(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg := config.DefaultClassRegex()
	langs := make([]string, 0, len(cfg))
	for lang := range cfg {
		langs = append(langs, lang)
	}
	return langs, cobra.ShellCompDirectiveNoFileComp
}
