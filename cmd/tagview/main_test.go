package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigPath_Priority(t *testing.T) {
	// CLI flag takes precedence
	t.Setenv("TAGVIEW_CONFIG", "/env/config.json")
	assert.Equal(t, "/custom/config.json", getConfigPath("/custom/config.json"))

	// Environment variable when no flag
	assert.Equal(t, "/env/config.json", getConfigPath(""))

	// Default when neither flag nor env
	t.Setenv("TAGVIEW_CONFIG", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".config", "tagview", "config.json"), getConfigPath(""))
}

func TestGetCredentialsPath_Priority(t *testing.T) {
	t.Setenv("TAGVIEW_CREDENTIALS", "/env/creds.json")
	assert.Equal(t, "/custom/creds.json", getCredentialsPath("/custom/creds.json", "/config/creds.json"))
	assert.Equal(t, "/env/creds.json", getCredentialsPath("", "/config/creds.json"))

	t.Setenv("TAGVIEW_CREDENTIALS", "")
	assert.Equal(t, "/config/creds.json", getCredentialsPath("", "/config/creds.json"))
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.config/tagview/credentials.json", getCredentialsPath("", ""))
}

func TestGetTokenPath_Priority(t *testing.T) {
	t.Setenv("TAGVIEW_TOKEN", "/env/token.json")
	assert.Equal(t, "/custom/token.json", getTokenPath("/custom/token.json", "/config/token.json"))
	assert.Equal(t, "/env/token.json", getTokenPath("", "/config/token.json"))

	t.Setenv("TAGVIEW_TOKEN", "")
	assert.Equal(t, "/config/token.json", getTokenPath("", "/config/token.json"))
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.config/tagview/token.json", getTokenPath("", ""))
}

func TestPathExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("TAGVIEW_CONFIG", "~/profiles/work.json")
	t.Setenv("TAGVIEW_CREDENTIALS", "")

	assert.Equal(t, "/home/tester/profiles/work.json", getConfigPath(""))
	assert.Equal(t, "/home/tester/creds.json", getCredentialsPath("", "~/creds.json"))
}
