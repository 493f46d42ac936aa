package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	dreamjournal "github.com/unowned-ai/dreamjournal/pkg"
)

var rootCmd = &cobra.Command{
	Use:          "dreams",
	Short:        "A personal dream journal with rule-based French dream analysis.",
	Version:      fmt.Sprintf("v%s", dreamjournal.Version),
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for dreams.

Examples:

  Bash (current shell):
    $ source <(dreams completion bash)

  Zsh:
    $ dreams completion zsh > "${fpath[1]}/_dreams"

  Fish:
    $ dreams completion fish > ~/.config/fish/completions/dreams.fish

  PowerShell:
    PS> dreams completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dreams",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), dreamjournal.Version)
	},
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func initCmd() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a YAML config file (default: $CONFIG_PATH or ./dreams.yaml)")
	pf.StringVar(&backendFlag, "backend", "", "History backend: json or sqlite")
	pf.StringVar(&historyFlag, "history", "", "Path to the JSON history file")
	pf.StringVar(&dbPath, "dbpath", "", "Path to the SQLite history database")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	initDreamCmds()
	initStatsCmds()
	initTransferCmds()
	initEmotionLogCmds()
	initDBCmds()
	initServerCmds()

	rootCmd.AddCommand(completionCmd, versionCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
