// Command server runs the Fyyur directory.  With no subcommand it serves
// HTTP; "migrate" applies the schema and exits.
package main // Entry point package

import (
	"fmt" // fmt prints fatal errors
	"os"  // os exposes the exit code

	"github.com/spf13/cobra" // cobra builds the command tree
)

var rootCmd = &cobra.Command{
	Use:   "fyyur",
	Short: "Fyyur is a directory of venues, artists and shows",
	Long: `Fyyur lists live music venues and artists, lets visitors search them
and book shows through HTML forms. Configuration is read from the
environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil { // Run the selected command
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1) // Exit non-zero so supervisors restart or alert
	}
}
