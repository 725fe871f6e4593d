package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
)

var (
	migrateSpaceID     string
	migrateSpaceKey    string
	migratePageID      string
	migrateTitle       string
	migrateParent      string
	migrateSharedSpace string
	migrateImageSpace  string
	migrateJSON        bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [export.json]",
	Short: "Migrate one export document tree",
	Long: `Transforms a legacy export document tree into storage markup and
publishes it to the target space, creating placeholder pages for forward
references and backfilling them once extraction completes.`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateSpaceID, "space", "", "target space id")
	migrateCmd.Flags().StringVar(&migrateSpaceKey, "space-key", "", "target space key (resolved to an id)")
	migrateCmd.Flags().StringVar(&migratePageID, "page-id", "", "update this page instead of creating one")
	migrateCmd.Flags().StringVar(&migrateTitle, "title", "", "override the page title")
	migrateCmd.Flags().StringVar(&migrateParent, "parent", "", "create the page as a child of this page id")
	migrateCmd.Flags().StringVar(&migrateSharedSpace, "shared-space", "", "hub space key for shared paragraphs")
	migrateCmd.Flags().StringVar(&migrateImageSpace, "image-space", "", "hub space key for images")
	migrateCmd.Flags().BoolVar(&migrateJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(migrateCmd)
}

// migrateResponse is the uniform response envelope. Failures carry a
// single message; which pages committed before a failure is not
// reported.
type migrateResponse struct {
	OK     bool          `json:"ok,omitempty"`
	Action string        `json:"action,omitempty"`
	Page   *pageResponse `json:"page,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// pageResponse is the page-record wire shape at the CLI boundary. The
// domain type stays tag-free; this DTO owns the JSON casing.
type pageResponse struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	SpaceID string        `json:"spaceId"`
	Version int           `json:"version"`
	Body    string        `json:"body,omitempty"`
	Links   linksResponse `json:"links"`
}

type linksResponse struct {
	WebUI string `json:"webui,omitempty"`
	Base  string `json:"base,omitempty"`
}

func toPageResponse(p domain.Page) *pageResponse {
	return &pageResponse{
		ID:      p.ID,
		Title:   p.Title,
		SpaceID: p.SpaceID,
		Version: p.Version,
		Body:    p.Body,
		Links:   linksResponse{WebUI: p.WebUILink, Base: p.BaseLink},
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migrationService == nil {
		return errors.New("migration service not configured")
	}

	req, err := buildRequest(args[0])
	if err != nil {
		return outputMigrateError(cmd, err)
	}

	result, err := migrationService.Migrate(context.Background(), *req)
	if err != nil {
		return outputMigrateError(cmd, err)
	}
	return outputMigrateResult(cmd, result)
}

func buildRequest(path string) (*domain.MigrationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	var root domain.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: parsing export file: %w", domain.ErrInvalidInput, err)
	}

	req := &domain.MigrationRequest{
		Root:                    &root,
		SpaceID:                 migrateSpaceID,
		SpaceKey:                migrateSpaceKey,
		PageID:                  migratePageID,
		Title:                   migrateTitle,
		ParentPageID:            migrateParent,
		SharedParagraphSpaceKey: migrateSharedSpace,
		ImageHubSpaceKey:        migrateImageSpace,
	}

	// Flags win over configured defaults.
	if configStore != nil {
		if req.SpaceKey == "" && req.SpaceID == "" {
			req.SpaceKey = configStore.GetString("space_key")
		}
		if req.SharedParagraphSpaceKey == "" {
			req.SharedParagraphSpaceKey = configStore.GetString("shared_space_key")
		}
		if req.ImageHubSpaceKey == "" {
			req.ImageHubSpaceKey = configStore.GetString("image_space_key")
		}
	}
	return req, nil
}

func outputMigrateResult(cmd *cobra.Command, result *domain.MigrationResult) error {
	if migrateJSON {
		return printJSON(cmd, migrateResponse{
			OK:     true,
			Action: string(result.Action),
			Page:   toPageResponse(result.Page),
		})
	}
	cmd.Printf("%s page %s (%q) at version %d\n",
		result.Action, result.Page.ID, result.Page.Title, result.Page.Version)
	if result.Page.WebUILink != "" {
		cmd.Printf("  %s%s\n", result.Page.BaseLink, result.Page.WebUILink)
	}
	return nil
}

// outputMigrateError emits the uniform error envelope and still
// returns the error so the process exits non-zero.
func outputMigrateError(cmd *cobra.Command, err error) error {
	if migrateJSON {
		if perr := printJSON(cmd, migrateResponse{Error: err.Error()}); perr != nil {
			return perr
		}
		return err
	}
	cmd.PrintErrf("Error: %s\n", err.Error())
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
