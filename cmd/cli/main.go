package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"samplemeta/internal"
	"samplemeta/internal/config"
	"samplemeta/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "samplemeta",
		Short:         "Generate and read sample metadata workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				log.SetOutput(io.Discard)
			}
			internal.DefaultLogger.SetLevel(internal.ParseLogLevel(config.LoadLocal().LogLevel))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(
		newTemplateCmd(),
		newImportCmd(),
		newSubjectsCmd(),
		newTyposCmd(),
	)
	return rootCmd
}

// newContainer builds the database-free part of the application
func newContainer() (*container.Container, error) {
	return container.New(config.LoadLocal())
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
