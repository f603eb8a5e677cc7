package command

// root.go defines the root command for the bookhubCLI application.
// Global flags are set up here.

import (
	"fmt"
	"os"

	"bookhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookhubCLI",
	Short: "bookhubCLI - BookHub Command Line Interface",
	Long: `bookhubCLI is a tool to manage a personal book catalogue through the
bookhub API. You can use it to:
- Search the online catalogue for books and authors
- Import books or an author's full bibliography
- Browse your shelves in author order
- Rescan the library folder to refresh ownership flags

Use "bookhubCLI command -h" to see all available commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "API server URL")
}

func apiClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}
