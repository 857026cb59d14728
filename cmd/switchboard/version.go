package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set during the build process with -ldflags.
var version = "undefined"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the switchboard version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}
