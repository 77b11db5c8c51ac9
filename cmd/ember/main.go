package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ember/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "Ember expression compiler",
	Long:  `Ember compiles statically-typed expressions ahead of time into stack VM instructions`,
}

// main configures the root CLI command, registers subcommands and defines
// persistent flags, then executes it.
func main() {
	rootCmd.Version = version.VersionString()

	rootCmd.AddCommand(exprCmd)
	rootCmd.AddCommand(foldCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = from config)")
	rootCmd.PersistentFlags().String("config", "ember.toml", "configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the color mode against the output terminal.
func useColor(mode string, out *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(out)
	}
}
