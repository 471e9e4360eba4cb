package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func listServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchCommand_EndToEnd(t *testing.T) {
	first := listServer(t, "192.0.2.0/25\nsome junk line\n192.0.2.128/25\n")
	second := listServer(t, "  2001:db8::/32 # comment\n10.0.0.0/8\n")

	dir := t.TempDir()
	dest := filepath.Join(dir, "aggregated.txt")
	if err := os.WriteFile(dest, []byte("old\n"), 0600); err != nil {
		t.Fatalf("Failed to seed destination: %v", err)
	}
	if err := os.Chmod(dest, 0600); err != nil {
		t.Fatalf("Failed to chmod destination: %v", err)
	}

	cmd := CreateFetchCommand()
	if err := cmd.Init([]string{dest, first.URL, second.URL}, &AppContext{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	expected := "10.0.0.0/8\n192.0.2.0/24\n2001:db8::/32\n"
	if string(content) != expected {
		t.Errorf("Destination content = %q, want %q", content, expected)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Failed to stat destination: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Destination mode = %04o, want 0600", info.Mode().Perm())
	}
}

func TestFetchCommand_FailedSourceLeavesDestinationUntouched(t *testing.T) {
	good := listServer(t, "192.0.2.0/24\n")
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "aggregated.txt")
	if err := os.WriteFile(dest, []byte("previous list\n"), 0644); err != nil {
		t.Fatalf("Failed to seed destination: %v", err)
	}

	cmd := CreateFetchCommand()
	if err := cmd.Init([]string{dest, good.URL, bad.URL}, &AppContext{}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatal("Expected Run to fail when a source is unavailable")
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	if string(content) != "previous list\n" {
		t.Errorf("Destination was modified on a failed run: %q", content)
	}

	litter, err := filepath.Glob(filepath.Join(dir, ".fetch-iplist-*"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(litter) != 0 {
		t.Errorf("Staging files left behind: %v", litter)
	}
}

func TestFetchCommand_InitRequiresArgsOrConfig(t *testing.T) {
	cmd := CreateFetchCommand()
	if err := cmd.Init(nil, &AppContext{}); err == nil {
		t.Error("Expected Init to fail with no arguments and no config file")
	}

	cmd = CreateFetchCommand()
	if err := cmd.Init([]string{"/tmp/dest-only.txt"}, &AppContext{}); err == nil {
		t.Error("Expected Init to fail with a destination but no URLs")
	}
}
