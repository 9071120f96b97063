package main

import (
	"os"

	"github.com/ajramos/tagview/internal/config"
)

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable TAGVIEW_CONFIG
// 3. Default path ~/.config/tagview/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("TAGVIEW_CONFIG"); envPath != "" {
		return config.ExpandPath(envPath)
	}

	return config.DefaultConfigPath()
}

// getCredentialsPath returns the credentials file path using the following priority:
// 1. CLI flag
// 2. Environment variable TAGVIEW_CREDENTIALS
// 3. Config file setting
// 4. Default path ~/.config/tagview/credentials.json
func getCredentialsPath(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("TAGVIEW_CREDENTIALS"); envPath != "" {
		return config.ExpandPath(envPath)
	}

	if configValue != "" {
		return config.ExpandPath(configValue)
	}

	credPath, _ := config.DefaultCredentialPaths()
	return credPath
}

// getTokenPath returns the token file path using the following priority:
// 1. CLI flag
// 2. Environment variable TAGVIEW_TOKEN
// 3. Config file setting
// 4. Default path ~/.config/tagview/token.json
func getTokenPath(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("TAGVIEW_TOKEN"); envPath != "" {
		return config.ExpandPath(envPath)
	}

	if configValue != "" {
		return config.ExpandPath(configValue)
	}

	_, tokenPath := config.DefaultCredentialPaths()
	return tokenPath
}
