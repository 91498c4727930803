package main

import (
	"fmt"
	"os"

	"github.com/lorekeep/lorekeep/internal/cli"
	"github.com/lorekeep/lorekeep/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lorekeep",
		Short: "Lorekeep CLI - hierarchical knowledge bases from the terminal",
		Long: `Lorekeep CLI provides commands to browse and edit knowledge base trees.

Environment variables:
  LOREKEEP_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.TreeCmd())
	rootCmd.AddCommand(client.CatCmd())
	rootCmd.AddCommand(client.PutCmd())
	rootCmd.AddCommand(client.CreateCmd())
	rootCmd.AddCommand(client.RenameCmd())
	rootCmd.AddCommand(client.DeleteCmd())
	rootCmd.AddCommand(client.SearchCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
