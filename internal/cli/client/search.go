package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search node titles and contents",
		Long:  "Finds nodes whose title or content contains the query as a substring.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSearch(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runSearch(cmd *cobra.Command, query string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	var results []NodeAPIResponse
	if err := api.Get("/api/search?q="+url.QueryEscape(query), &results); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	fmt.Printf("Found %d matches:\n\n", len(results))
	for i, node := range results {
		fmt.Printf("%d. %s [%s]\n", i+1, node.Title, node.Type)
		fmt.Printf("   ID: %s\n", node.ID)
		if node.Content != nil {
			if snippet := contentSnippet(*node.Content, query); snippet != "" {
				fmt.Printf("   %s\n", snippet)
			}
		}
		if i < len(results)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}

// contentSnippet returns a short window of content around the first match, or
// "" when the match was on the title only.
func contentSnippet(content, query string) string {
	idx := strings.Index(content, query)
	if idx < 0 {
		return ""
	}

	const window = 40
	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + len(query) + window
	if end > len(content) {
		end = len(content)
	}

	snippet := strings.ReplaceAll(content[start:end], "\n", " ")
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet = snippet + "..."
	}
	return snippet
}
