package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the online catalogue",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		result, err := httpClient.Search(strings.Join(args, " "))
		if err != nil {
			fmt.Println("Search failed:", err)
			return
		}

		if len(result.Docs) == 0 {
			fmt.Println("No results")
			return
		}

		fmt.Printf("%d results\n", result.Total)
		for _, doc := range result.Docs {
			line := fmt.Sprintf("%s  %s", doc.ExternalID, doc.Title)
			if len(doc.Authors) > 0 {
				line += " by " + doc.Authors[0].Name
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
