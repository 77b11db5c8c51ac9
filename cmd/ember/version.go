package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"ember/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ember %s %s/%s\n", version.VersionString(), runtime.GOOS, runtime.GOARCH)
	},
}
