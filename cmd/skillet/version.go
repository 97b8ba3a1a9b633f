package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paul-ooi/skillet/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		jsonOut, _ := cmd.Flags().GetBool("json")
		info := version.Get()
		if jsonOut {
			if out, err := info.JSON(); err == nil {
				fmt.Println(out)
				return
			}
		}
		fmt.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Print version information as JSON")
}
