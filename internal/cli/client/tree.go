package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// TreeNode represents one node of the nested tree response.
type TreeNode struct {
	ID        string     `json:"id"`
	ParentID  *string    `json:"parentId"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	CreatedAt int64      `json:"createdAt"`
	Children  []TreeNode `json:"children,omitempty"`
}

// TreeCmd creates the tree command.
func TreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the full knowledge base tree",
		Long:  "Fetches every knowledge base and prints the nested folder/doc structure.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runTree(cmd, outputJSON)
		},
	}

	return cmd
}

func runTree(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	var forest []TreeNode
	if err := api.Get("/api/kb", &forest); err != nil {
		return fmt.Errorf("tree failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(forest, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(forest) == 0 {
		fmt.Println("No knowledge bases found.")
		return nil
	}

	for _, root := range forest {
		printTreeNode(root, 0)
	}

	return nil
}

func printTreeNode(node TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s [%s] (%s)\n", indent, node.Title, node.Type, node.ID)
	for _, child := range node.Children {
		printTreeNode(child, depth+1)
	}
}
