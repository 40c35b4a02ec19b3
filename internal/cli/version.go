package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show auralis-cli version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("auralis-cli v0.1.0")
	},
}
