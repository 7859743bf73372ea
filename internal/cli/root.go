// Package cli provides the command-line interface for rawreorder.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/commands"
	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/cli/output"
	intconfig "github.com/Trapfether/tailwind-raw-reorder/internal/config"
)

// Version is the release version (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "rawreorder",
		Short: "rawreorder - Tailwind CSS class sorter",
		Long: `rawreorder sorts Tailwind CSS classes in any kind of file.

Class lists are found with per-language regular expressions and ranked by a
stylesheet that describes your Tailwind layers, utilities and variants, in
the same order Tailwind emits them in the generated CSS.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.ConfigFile != "" {
				logger.Debug("using config file", "path", cfg.ConfigFile)
			}
			logger.Debug("project root", "path", cfg.ProjectRoot)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			ctx = config.WithConfig(ctx, cfg)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: nearest "+intconfig.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("stylesheet", "", "Stylesheet to use for every file instead of discovering one")
	rootCmd.PersistentFlags().String("rules-script", "", "Starlark script that generates rules")
	rootCmd.PersistentFlags().String("oracle", "", "Ranking mode (auto|native|rules)")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Files sorted in parallel")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("oracle", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{intconfig.OracleAuto, intconfig.OracleNative, intconfig.OracleRules}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagFilename("stylesheet", "yaml", "yml")
	_ = rootCmd.MarkPersistentFlagFilename("rules-script", "star")

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewSortCommand())
	rootCmd.AddCommand(commands.NewSelectionCommand())
	rootCmd.AddCommand(commands.NewOrderCommand())
	rootCmd.AddCommand(commands.NewLanguagesCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewLSPCommand(Version))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rawreorder.

To load completions:

Bash:
  $ source <(rawreorder completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ rawreorder completion bash > /etc/bash_completion.d/rawreorder
  # macOS:
  $ rawreorder completion bash > $(brew --prefix)/etc/bash_completion.d/rawreorder

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ rawreorder completion zsh > "${fpath[1]}/_rawreorder"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rawreorder completion fish | source

  # To load completions for each session, execute once:
  $ rawreorder completion fish > ~/.config/fish/completions/rawreorder.fish

PowerShell:
  PS> rawreorder completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rawreorder completion powershell > rawreorder.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
