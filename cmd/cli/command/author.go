package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	authorLetter string
	authorCursor string
	authorLimit  int
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Browse and manage authors",
	Long:  `List, inspect, import and delete authors in your catalogue`,
}

var authorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authors in shelf order",
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		page, err := httpClient.ListAuthors(authorCursor, authorLetter, authorLimit)
		if err != nil {
			fmt.Println("Failed to fetch authors:", err)
			return
		}

		if len(page.Authors) == 0 {
			fmt.Println("📚 No authors found")
			return
		}

		for _, a := range page.Authors {
			fmt.Printf("%d. %s\n", a.ID, a.SortKey)
		}
		if page.HasMore {
			fmt.Println()
			fmt.Println("More results available. Next page:")
			fmt.Printf("  bookhubCLI author list --cursor %s\n", page.NextCursor)
		}
	},
}

var authorShowCmd = &cobra.Command{
	Use:   "show [author_id]",
	Short: "Show an author and their books",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("Invalid author ID:", err)
			return
		}

		httpClient := apiClient()

		author, err := httpClient.GetAuthor(id)
		if err != nil {
			fmt.Println("Failed to fetch author:", err)
			return
		}

		fmt.Printf("%s (ID: %d)\n", author.Name, author.ID)
		if author.Bio != nil {
			fmt.Printf("  %s\n", *author.Bio)
		}
		fmt.Printf("  Books: %d\n", len(author.Books))
		for _, b := range author.Books {
			owned := " "
			if b.Owned {
				owned = "✓"
			}
			fmt.Printf("  [%s] %s (ID: %d)\n", owned, b.Title, b.ID)
		}
	},
}

var authorImportCmd = &cobra.Command{
	Use:   "import [external_id]",
	Short: "Import an author and their bibliography from the catalogue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		fmt.Println("Importing author, this can take a while for large bibliographies...")
		summary, err := httpClient.ImportAuthor(args[0])
		if err != nil {
			fmt.Println("Failed to import author:", err)
			return
		}

		fmt.Printf("✅ Imported %s: %d new books, %d skipped\n",
			summary.Author.Name, summary.Imported, len(summary.Skipped))
		for _, s := range summary.Skipped {
			fmt.Printf("   skipped %q: %s\n", s.Title, s.Reason)
		}
	},
}

var authorDeleteCmd = &cobra.Command{
	Use:   "delete [author_id]",
	Short: "Delete an author and their sole-authored books",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("Invalid author ID:", err)
			return
		}

		httpClient := apiClient()

		result, err := httpClient.DeleteAuthor(id)
		if err != nil {
			fmt.Println("Failed to delete author:", err)
			return
		}

		fmt.Printf("✅ Author deleted: %d books removed, %d co-authored books kept\n",
			result.DeletedBooks, result.PreservedBooks)
	},
}

func init() {
	authorListCmd.Flags().StringVar(&authorLetter, "letter", "", "filter by first letter of sort key")
	authorListCmd.Flags().StringVar(&authorCursor, "cursor", "", "pagination cursor from a previous page")
	authorListCmd.Flags().IntVar(&authorLimit, "limit", 0, "page size (max 100)")

	authorCmd.AddCommand(authorListCmd)
	authorCmd.AddCommand(authorShowCmd)
	authorCmd.AddCommand(authorImportCmd)
	authorCmd.AddCommand(authorDeleteCmd)
	rootCmd.AddCommand(authorCmd)
}
