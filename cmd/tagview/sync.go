package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ajramos/tagview/internal/gmail"
	"github.com/ajramos/tagview/internal/models"
	"github.com/ajramos/tagview/pkg/auth"
	"github.com/spf13/cobra"
)

var (
	syncCredentials string
	syncToken       string
	syncMax         int64
	syncQuery       string
	syncNoLabels    bool
)

// MessageSource is a remote mailbox that messages and label tags are read from
type MessageSource interface {
	FetchMessages(ctx context.Context, query string, max int64) ([]models.Message, error)
	FetchLabelSeeds(ctx context.Context) ([]models.Tag, error)
}

// SyncOptions controls one import from a MessageSource
type SyncOptions struct {
	Query        string
	MaxMessages  int64
	ImportLabels bool
}

// SyncResult summarizes an import
type SyncResult struct {
	Fetched   int
	New       int
	TagsAdded int
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import messages from a mail source",
}

var syncGmailCmd = &cobra.Command{
	Use:   "gmail",
	Short: "Import inbox messages and labels from Gmail",
	Long: `Import inbox messages and labels from Gmail.

Gmail labels become tags keyed by label ID. Messages already in the local
database keep their local tags; only sender, subject, preview and date are
refreshed.

The first run opens a browser to authorize read-only access. Download OAuth
client credentials (Desktop application) from Google Cloud Console and save
them as ~/.config/tagview/credentials.json, or point TAGVIEW_CREDENTIALS at
them.`,
	Args: cobra.NoArgs,
	RunE: runSyncGmail,
}

func init() {
	syncCmd.AddCommand(syncGmailCmd)

	syncGmailCmd.Flags().StringVar(&syncCredentials, "credentials", "", "Path to OAuth client credentials JSON")
	syncGmailCmd.Flags().StringVar(&syncToken, "token", "", "Path to the cached OAuth token")
	syncGmailCmd.Flags().Int64Var(&syncMax, "max", 0, "Maximum number of messages to fetch (default from config)")
	syncGmailCmd.Flags().StringVar(&syncQuery, "query", "", "Gmail search query (default from config)")
	syncGmailCmd.Flags().BoolVar(&syncNoLabels, "no-labels", false, "Do not add Gmail labels to the tag registry")
}

func runSyncGmail(cmd *cobra.Command, args []string) error {
	cfg := app.cfg
	if !cfg.Gmail.Enabled {
		return fmt.Errorf("gmail sync is disabled; set \"gmail.enabled\" to true in the config file")
	}

	credPath := getCredentialsPath(syncCredentials, cfg.Gmail.Credentials)
	tokenPath := getTokenPath(syncToken, cfg.Gmail.Token)
	if credPath == "" {
		return fmt.Errorf("gmail credentials file is required; provide it via --credentials or the config file")
	}
	if _, err := os.Stat(credPath); err != nil {
		return fmt.Errorf("credentials file not found at %s", credPath)
	}

	oauth := auth.NewOAuth2Config(credPath, tokenPath)
	oauth.Out = cmd.OutOrStdout()
	service, err := auth.NewGmailService(cmd.Context(), oauth)
	if err != nil {
		return fmt.Errorf("could not initialize Gmail service: %w", err)
	}

	opts := SyncOptions{
		Query:        cfg.Gmail.Query,
		MaxMessages:  cfg.Gmail.MaxMessages,
		ImportLabels: cfg.Gmail.ImportLabels && !syncNoLabels,
	}
	if cmd.Flags().Changed("query") {
		opts.Query = syncQuery
	}
	if cmd.Flags().Changed("max") {
		opts.MaxMessages = syncMax
	}

	result, err := app.Sync(cmd.Context(), gmail.NewClient(service), opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d message(s), %d new\n", result.Fetched, result.New)
	if result.TagsAdded > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d tag(s) from labels\n", result.TagsAdded)
	}
	return nil
}

// Sync imports messages, and optionally label tags, from source. Local tag
// edits on messages that are already stored win over the remote labels.
func (a *App) Sync(ctx context.Context, source MessageSource, opts SyncOptions) (SyncResult, error) {
	var result SyncResult

	if opts.ImportLabels {
		seeds, err := source.FetchLabelSeeds(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to fetch labels: %w", err)
		}
		result.TagsAdded = len(a.tags.ImportTags(seeds))
	}

	fetched, err := source.FetchMessages(ctx, opts.Query, opts.MaxMessages)
	if err != nil {
		return result, fmt.Errorf("failed to fetch messages: %w", err)
	}
	result.Fetched = len(fetched)

	local := make(map[string]models.Message, len(a.messages))
	for _, m := range a.messages {
		local[m.ID] = m
	}
	for i, m := range fetched {
		if existing, ok := local[m.ID]; ok {
			fetched[i].Tags = existing.Tags
		} else {
			result.New++
		}
	}

	if err := a.msgStore.UpsertMessages(ctx, fetched); err != nil {
		return result, fmt.Errorf("failed to store messages: %w", err)
	}
	a.messages, err = a.msgStore.ListMessages(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to reload messages: %w", err)
	}
	if a.logger != nil {
		a.logger.Printf("sync: fetched=%d new=%d tags=%d", result.Fetched, result.New, result.TagsAdded)
	}
	return result, nil
}
