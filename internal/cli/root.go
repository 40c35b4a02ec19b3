// Package cli implements the auralis-cli operator tooling: inspecting and
// managing the persistent fingerprint cache and the standalone track
// queue, mirroring the teacher's cli/internal/cmd package shape (one
// cobra.Command var per subcommand, wired into rootCmd from each file's
// init()).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cacheDir string
	queueDB  string
)

var rootCmd = &cobra.Command{
	Use:   "auralis-cli",
	Short: "Auralis operator CLI",
	Long: `auralis-cli is a command-line tool for operating an Auralis
deployment: inspecting the fingerprint cache and managing the
standalone extraction track queue.`,
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	home, _ := os.UserHomeDir()
	defaultCacheDir := home + "/.auralis/cache"

	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultCacheDir, "persistent fingerprint cache directory")
	rootCmd.PersistentFlags().StringVar(&queueDB, "queue-db", defaultCacheDir+"/queue.db", "path to the track queue SQLite file")

	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(versionCmd)
}
