package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
)

var spacesJSON bool

var spacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Inspect target wiki spaces",
}

var spacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spaces visible to the configured identities",
	Args:  cobra.NoArgs,
	RunE:  runSpacesList,
}

func init() {
	spacesListCmd.Flags().BoolVar(&spacesJSON, "json", false, "output spaces as JSON")
	spacesCmd.AddCommand(spacesListCmd)
	rootCmd.AddCommand(spacesCmd)
}

// spaceResponse is the space wire shape at the CLI boundary.
type spaceResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

func toSpaceResponses(spaces []domain.Space) []spaceResponse {
	out := make([]spaceResponse, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, spaceResponse{ID: s.ID, Key: s.Key, Name: s.Name})
	}
	return out
}

func runSpacesList(cmd *cobra.Command, _ []string) error {
	if spaceService == nil {
		return errors.New("space service not configured")
	}

	spaces, err := spaceService.ListSpaces(context.Background())
	if err != nil {
		return err
	}

	if spacesJSON {
		return printJSON(cmd, toSpaceResponses(spaces))
	}
	if len(spaces) == 0 {
		cmd.Println("No spaces visible.")
		return nil
	}
	for _, s := range spaces {
		cmd.Printf("  %-12s %-10s %s\n", s.ID, s.Key, s.Name)
	}
	return nil
}
