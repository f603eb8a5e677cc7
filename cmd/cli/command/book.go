package command

import (
	"fmt"
	"strconv"

	"bookhub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var (
	bookPage     int
	bookPageSize int
	bookOwned    string
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Browse and manage books",
	Long:  `List, inspect, import, edit and remove books in your catalogue`,
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active books",
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		page, err := httpClient.ListBooks(bookPage, bookPageSize)
		if err != nil {
			fmt.Println("Failed to fetch books:", err)
			return
		}

		if len(page.Books) == 0 {
			fmt.Println("📚 No books found")
			return
		}

		fmt.Printf("📚 Books (%d total)\n", page.Total)
		for _, b := range page.Books {
			owned := " "
			if b.Owned {
				owned = "✓"
			}
			line := fmt.Sprintf("[%s] %s (ID: %d)", owned, b.Title, b.ID)
			if len(b.Authors) > 0 {
				line += " by " + b.Authors[0].Name
			}
			fmt.Println(line)
		}
	},
}

var bookImportCmd = &cobra.Command{
	Use:   "import [external_id]",
	Short: "Import a book from the catalogue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		httpClient := apiClient()

		book, err := httpClient.ImportBook(args[0])
		if err != nil {
			fmt.Println("Failed to import book:", err)
			return
		}

		fmt.Printf("✅ Imported %q (ID: %d, owned: %v)\n", book.Title, book.ID, book.Owned)
	},
}

var bookOwnCmd = &cobra.Command{
	Use:   "own [book_id]",
	Short: "Mark a book as owned or not owned",
	Long:  `Manually override ownership. Manual overrides are never changed by rescans.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("Invalid book ID:", err)
			return
		}

		owned, err := strconv.ParseBool(bookOwned)
		if err != nil {
			fmt.Println("Invalid --owned value, use true or false")
			return
		}

		httpClient := apiClient()

		book, err := httpClient.UpdateBook(id, &client.UpdateBookRequest{Owned: &owned})
		if err != nil {
			fmt.Println("Failed to update book:", err)
			return
		}

		fmt.Printf("✅ %q owned=%v (source: %s)\n", book.Title, book.Owned, book.OwnedSource)
	},
}

var bookRemoveCmd = &cobra.Command{
	Use:   "remove [book_id]",
	Short: "Remove a book from the catalogue",
	Long:  `Soft-deletes the book. Deleted books are not re-imported by author imports.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("Invalid book ID:", err)
			return
		}

		httpClient := apiClient()

		if err := httpClient.DeleteBook(id); err != nil {
			fmt.Println("Failed to remove book:", err)
			return
		}

		fmt.Printf("✅ Book (ID: %d) removed\n", id)
	},
}

func init() {
	bookListCmd.Flags().IntVar(&bookPage, "page", 1, "page number")
	bookListCmd.Flags().IntVar(&bookPageSize, "page-size", 20, "page size")
	bookOwnCmd.Flags().StringVar(&bookOwned, "owned", "true", "true or false")

	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookImportCmd)
	bookCmd.AddCommand(bookOwnCmd)
	bookCmd.AddCommand(bookRemoveCmd)
	rootCmd.AddCommand(bookCmd)
}
