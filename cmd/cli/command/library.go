package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rescanForce bool

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the library folder scan",
	Long:  `Rescan the library folder and inspect the current ownership snapshot`,
}

var libraryRescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Rescan the library folder and refresh ownership flags",
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		result, err := httpClient.Rescan(rescanForce)
		if err != nil {
			fmt.Println("Failed to rescan library:", err)
			return
		}

		fmt.Printf("✅ Rescan complete: %d entries, %d malformed folders skipped, %d books updated\n",
			result.Entries, result.Skipped, result.UpdatedBooks)
	},
}

var libraryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current ownership snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		status, err := httpClient.LibraryStatus()
		if err != nil {
			fmt.Println("Failed to fetch library status:", err)
			return
		}

		if !status.Scanned {
			fmt.Println("Library has not been scanned yet")
			return
		}
		fmt.Printf("Entries: %d\n", status.Entries)
		fmt.Printf("Skipped: %d\n", status.Skipped)
		fmt.Printf("Scanned: %s\n", status.BuiltAt.Format("2006-01-02 15:04:05"))
	},
}

func init() {
	libraryRescanCmd.Flags().BoolVar(&rescanForce, "force", true, "rebuild even if the cached snapshot is fresh")

	libraryCmd.AddCommand(libraryRescanCmd)
	libraryCmd.AddCommand(libraryStatusCmd)
	rootCmd.AddCommand(libraryCmd)
}
