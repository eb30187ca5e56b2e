package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/puby/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	os.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "puby", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if cfg.ZoteroAPIKey != "" {
		t.Errorf("ZoteroAPIKey = %q, want empty", cfg.ZoteroAPIKey)
	}
}

func TestLoadGlobalConfig(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	tmpDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "zotero_api_key: abcdefghij1234567890KLMN\nzotero_library_type: group\nzotero_library_id: \"12345\"\n"
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.ZoteroAPIKey != "abcdefghij1234567890KLMN" {
		t.Errorf("ZoteroAPIKey = %q", cfg.ZoteroAPIKey)
	}
	if cfg.ZoteroLibraryType != "group" {
		t.Errorf("ZoteroLibraryType = %q", cfg.ZoteroLibraryType)
	}
	if cfg.ZoteroLibraryID != "12345" {
		t.Errorf("ZoteroLibraryID = %q", cfg.ZoteroLibraryID)
	}

	// Accessors read through the cache.
	if got := GetZoteroAPIKey(); got != cfg.ZoteroAPIKey {
		t.Errorf("GetZoteroAPIKey() = %q", got)
	}
}

func TestSaveGlobalConfigRoundTrip(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)
	os.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := &GlobalConfig{
		ZoteroAPIKey:    "abcdefghij1234567890KLMN",
		ZoteroLibraryID: "777",
	}
	if err := SaveGlobalConfig(want); err != nil {
		t.Fatalf("SaveGlobalConfig() error = %v", err)
	}

	ResetGlobalConfigCache()
	got, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if got.ZoteroAPIKey != want.ZoteroAPIKey || got.ZoteroLibraryID != want.ZoteroLibraryID {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
