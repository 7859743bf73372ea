package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/output"
	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/stylesheet"
)

// stylesheetFileName is the stylesheet init writes.
const stylesheetFileName = "tailwind.order.yaml"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var noStylesheet bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a rawreorder configuration",
		Long: `Create a starter configuration in a project directory.

This creates:
  - rawreorder.yaml with the default settings spelled out
  - tailwind.order.yaml, a copy of the built-in stylesheet to edit

Existing files are kept unless --force is given.`,
		Example: `  # Initialize in current directory
  rawreorder init

  # Initialize another directory without a stylesheet
  rawreorder init web --no-stylesheet

  # Overwrite existing files
  rawreorder init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContextWithoutEngine(cmd)
			return runInit(cc.Renderer, dir, force, !noStylesheet)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&noStylesheet, "no-stylesheet", false, "Do not write a stylesheet")

	return cmd
}

type initFile struct {
	name string
	data []byte
}

func runInit(r *output.Renderer, dir string, force, withStylesheet bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfgData, err := starterConfig()
	if err != nil {
		return err
	}

	files := []initFile{{config.ConfigFileName, cfgData}}
	if withStylesheet {
		files = append(files, initFile{stylesheetFileName, stylesheet.DefaultYAML()})
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists. Use --force to overwrite", path)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.StatusLine(f.name, "success", "")
	}

	r.Println("")
	r.Success("rawreorder initialized!")
	r.Println("")
	r.Println("Next steps:")
	step := 1
	if withStylesheet {
		r.Printf("  %d. Edit %s to match your Tailwind setup\n", step, stylesheetFileName)
		step++
	}
	r.Printf("  %d. Run 'rawreorder sort' to see what would change\n", step)
	r.Printf("  %d. Run 'rawreorder sort --write' to sort in place\n", step+1)

	return nil
}

// starterConfig renders rawreorder.yaml with a comment on every key.
func starterConfig() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(comment, key string, value *yaml.Node) {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key, HeadComment: comment},
			value,
		)
	}
	scalar := func(v, tag string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v, Tag: tag}
	}

	add("How classes are ranked: auto, native or rules.\nrules ranks each class from its generated rules (rules_script when set).",
		"oracle", scalar(config.OracleAuto, "!!str"))
	add("Files sorted in parallel by 'rawreorder sort'.",
		"concurrency", scalar(strconv.Itoa(config.DefaultConcurrency), "!!int"))

	ignore := &yaml.Node{Kind: yaml.SequenceNode}
	for _, g := range config.DefaultIgnore {
		ignore.Content = append(ignore.Content, scalar(g, "!!str"))
	}
	add("Paths skipped when walking directories, relative to this file.", "ignore", ignore)

	add("Extra file extensions mapped to language ids, e.g. svx: svelte.",
		"languages", &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle})

	var buf bytes.Buffer
	buf.WriteString("# rawreorder configuration\n")
	buf.WriteString("#\n")
	buf.WriteString("# stylesheet: " + stylesheetFileName + "   # found upward from each file when unset\n")
	buf.WriteString("# rules_script: rules.star           # Starlark rule generator\n")
	buf.WriteString("# class_regex:                       # per-language class patterns\n")
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
