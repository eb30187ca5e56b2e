// Package env loads environment variables from .env files.
package env

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// zoteroAPIKeyVar is the environment variable holding the Zotero API key.
const zoteroAPIKeyVar = "ZOTERO_API_KEY"

// Load reads .env files into the process environment. Variables already
// present in the environment win; a .env in the working directory takes
// precedence over one in the home directory.
func Load() {
	_ = godotenv.Load(".env")

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(home, ".env"))
}

// ZoteroAPIKey resolves the Zotero API key: an explicit flag value wins,
// then the environment (including loaded .env files).
func ZoteroAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(zoteroAPIKeyVar)
}
