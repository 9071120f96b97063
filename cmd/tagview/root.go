package main

import (
	"context"
	"fmt"

	"github.com/ajramos/tagview/internal/config"
	"github.com/ajramos/tagview/internal/version"
	"github.com/spf13/cobra"
)

// Commands annotated with skipApp run without opening the database
const skipApp = "tagview/skip-app"

var (
	configPathFlag string
	app            *App
)

var rootCmd = &cobra.Command{
	Use:   "tagview",
	Short: "Tag email messages and browse them through saved views",
	Long: `tagview keeps a registry of user-defined tags, applies them to email
messages and filters messages through saved views built from tag conditions.

Messages come from a seed file or from Gmail (tagview sync gmail). Tags and
views are stored in a local SQLite database.`,
	Version:            version.GetInfo().String(),
	SilenceUsage:       true,
	PersistentPreRunE:  openApp,
	PersistentPostRunE: closeApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to JSON configuration file (default: ~/.config/tagview/config.json)")
	rootCmd.SetVersionTemplate(version.GetInfo().Detailed())

	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(initCmd)

	// PersistentPostRunE is skipped when a command fails
	cobra.OnFinalize(func() {
		if app != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	})
}

// GetRootCmd returns the root command
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath(configPathFlag))
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipApp] != "" {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := NewApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	app = a
	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	a := app
	app = nil
	return a.Close(cmd.Context())
}
