package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dbmaint version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(getVersion())
	},
}

func getVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	version := info.Main.Version
	if version == "(devel)" || version == "" {
		version = "dev"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			commit := setting.Value
			if len(commit) > 7 {
				commit = commit[:7]
			}
			version += fmt.Sprintf(" (%s)", commit)
			break
		}
	}

	return version
}
