package main

import (
	"fmt"
	"os"

	"github.com/ajramos/tagview/internal/config"
	"github.com/spf13/cobra"
)

var (
	initForce bool
	initGmail bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file and report on Gmail credentials.

The file is written to --config, $TAGVIEW_CONFIG or
~/.config/tagview/config.json. An existing file is kept unless --force is set.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE:        runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	initCmd.Flags().BoolVar(&initGmail, "gmail", false, "Enable Gmail sync in the written configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := getConfigPath(configPathFlag)
	if path == "" {
		return fmt.Errorf("could not determine a configuration path; pass --config")
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "Configuration file already exists: %s\n", path)
	} else {
		cfg := config.DefaultConfig()
		cfg.Gmail.Enabled = initGmail
		if err := cfg.SaveConfig(path); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Fprintf(out, "Created configuration file: %s\n", path)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if !cfg.Gmail.Enabled {
		return nil
	}

	credPath := getCredentialsPath("", cfg.Gmail.Credentials)
	tokenPath := getTokenPath("", cfg.Gmail.Token)
	if _, err := os.Stat(credPath); err == nil {
		fmt.Fprintf(out, "Credentials file found: %s\n", credPath)
	} else {
		fmt.Fprintf(out, "Credentials file missing: %s\n", credPath)
		fmt.Fprintln(out, "\nTo set up Gmail API credentials:")
		fmt.Fprintln(out, "1. Go to https://console.cloud.google.com/")
		fmt.Fprintln(out, "2. Create a new project or select existing one")
		fmt.Fprintln(out, "3. Enable Gmail API")
		fmt.Fprintln(out, "4. Create OAuth 2.0 credentials (Desktop application)")
		fmt.Fprintf(out, "5. Download the JSON file and save it as %s\n\n", credPath)
	}
	if _, err := os.Stat(tokenPath); err == nil {
		fmt.Fprintf(out, "Token file exists: %s\n", tokenPath)
	} else {
		fmt.Fprintf(out, "Token will be created on first sync: %s\n", tokenPath)
	}
	return nil
}
