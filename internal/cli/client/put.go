package client

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// SaveContentAPIRequest represents the content write request.
type SaveContentAPIRequest struct {
	Content string `json:"content"`
}

// PutCmd creates the put command.
func PutCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "put <node-id> [content]",
		Short: "Overwrite a doc's content",
		Long:  "Overwrites a doc's content from the argument, --file, or stdin.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := resolveContent(args, fromFile)
			if err != nil {
				return err
			}
			return runPut(cmd, args[0], content)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read content from a file")

	return cmd
}

func resolveContent(args []string, fromFile string) (string, error) {
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if len(args) == 2 {
		return args[1], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func runPut(cmd *cobra.Command, id, content string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := SaveContentAPIRequest{Content: content}
	if err := api.Post(nodePath("/api/files", id), req, nil); err != nil {
		return fmt.Errorf("put failed: %w", err)
	}

	fmt.Printf("Saved %s\n", id)
	return nil
}
