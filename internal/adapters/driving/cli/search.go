package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored activity",
	Long: `Searches the locally stored records. Queries mix free text with
filters: "today", "yesterday", "this week", "last week", "@name",
"name's", "is:open", "repo:api".`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	account, err := requireOwner()
	if err != nil {
		return err
	}

	resp, err := searchService.Search(cmd.Context(), account, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("%d result(s), query type %s:\n\n", len(resp.Results), resp.QueryType)
	for i, result := range resp.Results {
		cmd.Printf("[%d] %s (%s, relevance %d)\n",
			i+1, stripMarks(result.Context.Title), result.Context.Source, result.Relevance)
		if result.Context.ExternalURL != "" {
			cmd.Printf("    %s\n", result.Context.ExternalURL)
		}
	}
	return nil
}

// stripMarks removes highlight markers for plain terminal output. JSON
// output keeps them.
func stripMarks(s string) string {
	s = strings.ReplaceAll(s, "<mark>", "")
	return strings.ReplaceAll(s, "</mark>", "")
}
