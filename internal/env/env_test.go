package env

import "testing"

func TestZoteroAPIKey(t *testing.T) {
	t.Setenv("ZOTERO_API_KEY", "fromenvironment123456789")

	if got := ZoteroAPIKey("fromflag"); got != "fromflag" {
		t.Errorf("flag value should win, got %q", got)
	}
	if got := ZoteroAPIKey(""); got != "fromenvironment123456789" {
		t.Errorf("environment fallback, got %q", got)
	}
}

func TestZoteroAPIKeyUnset(t *testing.T) {
	t.Setenv("ZOTERO_API_KEY", "")

	if got := ZoteroAPIKey(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
