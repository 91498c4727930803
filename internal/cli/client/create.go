package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// CreateAPIRequest represents the create API request.
type CreateAPIRequest struct {
	ParentID string `json:"parentId,omitempty"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

// NodeAPIResponse represents a flat node in API responses.
type NodeAPIResponse struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parentId"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Content   *string `json:"content,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

// NodeSuccessAPIResponse represents a mutation response carrying the node.
type NodeSuccessAPIResponse struct {
	Success bool            `json:"success"`
	Node    NodeAPIResponse `json:"node"`
}

// CreateCmd creates the create command.
func CreateCmd() *cobra.Command {
	var (
		parentID string
		nodeType string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a knowledge base, folder, or doc",
		Long:  "Creates a node. Without --parent the node becomes a root knowledge base.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runCreate(cmd, parentID, nodeType, args[0], outputJSON)
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent node id (empty for a root knowledge base)")
	cmd.Flags().StringVarP(&nodeType, "type", "t", "doc", "Node type (kb|folder|doc)")

	return cmd
}

func runCreate(cmd *cobra.Command, parentID, nodeType, title string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := CreateAPIRequest{
		ParentID: parentID,
		Title:    title,
		Type:     nodeType,
	}

	var resp NodeSuccessAPIResponse
	if err := api.Post("/api/create", req, &resp); err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp.Node, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Created %s '%s' (id: %s)\n", resp.Node.Type, resp.Node.Title, resp.Node.ID)
	return nil
}
