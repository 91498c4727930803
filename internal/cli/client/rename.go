package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// RenameAPIRequest represents the rename API request.
type RenameAPIRequest struct {
	Title string `json:"title"`
}

// RenameCmd creates the rename command.
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <node-id> <title>",
		Short: "Rename a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runRename(cmd, args[0], args[1], outputJSON)
		},
	}

	return cmd
}

func runRename(cmd *cobra.Command, id, title string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := RenameAPIRequest{Title: title}

	var resp NodeSuccessAPIResponse
	if err := api.Post(nodePath("/api/rename", id), req, &resp); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp.Node, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Renamed %s to '%s' (id: %s)\n", resp.Node.Type, resp.Node.Title, resp.Node.ID)
	return nil
}
