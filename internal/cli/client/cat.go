package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ContentAPIResponse represents the content read response.
type ContentAPIResponse struct {
	Content string `json:"content"`
}

// CatCmd creates the cat command.
func CatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <node-id>",
		Short: "Print a doc's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd, args[0])
		},
	}

	return cmd
}

func runCat(cmd *cobra.Command, id string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	var resp ContentAPIResponse
	if err := api.Get(nodePath("/api/files", id), &resp); err != nil {
		return fmt.Errorf("cat failed: %w", err)
	}

	fmt.Print(resp.Content)
	if resp.Content != "" && resp.Content[len(resp.Content)-1] != '\n' {
		fmt.Println()
	}

	return nil
}
