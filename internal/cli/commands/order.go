package commands

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/output"
	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/stylesheet"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/classorder"
)

// NewOrderCommand creates the order command.
func NewOrderCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "order <classes...>",
		Short: "Show how classes are ranked",
		Long: `Rank the given classes with the stylesheet that applies to a file and
print them in sorted order along with each class's order key.

Classes the stylesheet does not know have no order and sort first.`,
		Example: `  # Rank a few classes with the project stylesheet
  rawreorder order p-4 flex hover:m-2

  # Use the stylesheet that applies to a nested file
  rawreorder order --file packages/web/index.html m-1 block`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runOrder(cmd, cc, file, args)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File whose stylesheet is used (default: the project root)")

	return cmd
}

func runOrder(cmd *cobra.Command, cc *CommandContext, file string, classes []string) error {
	path := filepath.Join(cc.Cfg.ProjectRoot, "index.html")
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		path = abs
	}

	env, sheetPath, err := cc.Engine.Resolver().Resolve(cmd.Context(), path)
	if err != nil {
		return err
	}
	cc.Logger.Debug("resolved stylesheet", "file", path, "stylesheet", sheetPath)

	out := orderOutput(env, classes)
	if sheetPath != "" {
		out.Stylesheet = relPath(cc, sheetPath)
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Header(1, "Class order")
		r.Println("")
		if out.Stylesheet != "" {
			r.Println(output.FormatKeyValue("Stylesheet", out.Stylesheet))
			r.Println("")
		}
		r.Println(orderTable(out).RenderMarkdown())
	default:
		if out.Stylesheet != "" {
			r.Muted("Stylesheet: " + out.Stylesheet)
		} else {
			r.Muted("Stylesheet: built-in default")
		}
		r.Println(orderTable(out).Render())
	}
	return nil
}

// orderOutput ranks classes and lists them in sorted order.
func orderOutput(env classorder.Env, classes []string) output.OrderOutput {
	ranked := env.ClassOrder(classes)
	orders := make(map[string]classorder.RankedClass, len(ranked))
	for _, rc := range ranked {
		orders[rc.Class] = rc
	}

	sheet := stylesheet.ContextOf(env.Context)
	sorted := classorder.SortClassList(classes, env)

	out := output.OrderOutput{
		Sorted:  sorted,
		Classes: make([]output.ClassRank, 0, len(sorted)),
	}
	for _, class := range sorted {
		rank := output.ClassRank{Class: class}
		if order := orders[class].Order; order != nil {
			s := order.String()
			rank.Order = &s
			if sheet != nil {
				rank.Layer = sheet.LayerName(order)
			}
		}
		out.Classes = append(out.Classes, rank)
	}
	return out
}

func orderTable(out output.OrderOutput) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Class", "Layer", "Order"})
	for i, c := range out.Classes {
		order := "-"
		if c.Order != nil {
			order = *c.Order
		}
		t.AppendRow(table.Row{i + 1, c.Class, c.Layer, order})
	}
	return t
}

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Long: `List the languages rawreorder recognizes, the file extensions mapped to
each of them and the number of class patterns configured for each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runLanguages(cc)
		},
	}
}

func runLanguages(cc *CommandContext) error {
	infos := languageInfos(cc)

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Language", "Extensions", "Patterns"})
	for _, info := range infos {
		exts := strings.Join(info.Extensions, ", ")
		if exts == "" {
			exts = "-"
		}
		t.AppendRow(table.Row{info.Language, exts, info.Patterns})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(1, "Languages")
		r.Println("")
		r.Println(t.RenderMarkdown())
		return nil
	}
	r.Println(t.Render())
	return nil
}

func languageInfos(cc *CommandContext) []output.LanguageInfo {
	byLang := make(map[string][]string)
	for ext, lang := range config.ExtensionTable(cc.Engine.Project().Languages) {
		byLang[lang] = append(byLang[lang], ext)
	}

	langs := cc.Engine.Languages()
	names := make([]string, 0, len(langs))
	for lang := range langs {
		names = append(names, lang)
	}
	slices.Sort(names)

	infos := make([]output.LanguageInfo, 0, len(names))
	for _, lang := range names {
		exts := byLang[lang]
		slices.Sort(exts)
		if exts == nil {
			exts = []string{}
		}
		infos = append(infos, output.LanguageInfo{
			Language:   lang,
			Extensions: exts,
			Patterns:   len(langs[lang]),
		})
	}
	return infos
}
