package publish

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/nathaningle/fetch-iplist/internal/errors"
)

func mustWriteFile(t *testing.T, path string, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	// WriteFile's mode goes through the umask on creation.
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
}

func assertNoStagingLitter(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".fetch-iplist-*"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Staging files left behind: %v", matches)
	}
}

func TestPublish_ReplacesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "list.txt")
	mustWriteFile(t, dest, "old content\n", 0640)

	p, err := NewPublisher(dest, "")
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Discard()

	if !p.DestinationExists() {
		t.Error("Expected DestinationExists to be true")
	}
	if err := p.Commit([]byte("192.0.2.0/24\n")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	if string(content) != "192.0.2.0/24\n" {
		t.Errorf("Destination content = %q, want %q", content, "192.0.2.0/24\n")
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Failed to stat destination: %v", err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("Destination mode = %04o, want 0640", info.Mode().Perm())
	}

	assertNoStagingLitter(t, dir)
}

func TestPublish_NewDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "list.txt")

	p, err := NewPublisher(dest, "")
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Discard()

	if p.DestinationExists() {
		t.Error("Expected DestinationExists to be false")
	}
	if p.DestinationMode() != DefaultMode {
		t.Errorf("DestinationMode = %04o, want %04o", p.DestinationMode(), DefaultMode)
	}
	if err := p.Commit([]byte("198.51.100.0/24\n")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Destination was not created: %v", err)
	}
	if info.Mode().Perm() != DefaultMode {
		t.Errorf("Destination mode = %04o, want %04o", info.Mode().Perm(), DefaultMode)
	}

	assertNoStagingLitter(t, dir)
}

func TestPublish_RefusesSymlinkDestination(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	mustWriteFile(t, target, "real\n", 0644)
	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	_, err := NewPublisher(link, "")
	if err == nil {
		t.Fatal("Expected NewPublisher to refuse a symlink destination")
	}
	if !errors.Is(err, apperrors.New(apperrors.ErrCodeUnsafeDestination, "")) {
		t.Errorf("Expected UNSAFE_DESTINATION, got: %v", err)
	}

	content, readErr := os.ReadFile(target)
	if readErr != nil || string(content) != "real\n" {
		t.Errorf("Symlink target was touched: %q, %v", content, readErr)
	}
	assertNoStagingLitter(t, dir)
}

func TestPublish_StagingFallsBackToDestinationDir(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "list.txt")

	p, err := NewPublisher(dest, filepath.Join(dir, "no-such-dir"))
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Discard()

	if filepath.Dir(p.StagingPath()) != dir {
		t.Errorf("Staging file in %s, want destination dir %s", filepath.Dir(p.StagingPath()), dir)
	}
}

func TestPublish_StagingHintPreferred(t *testing.T) {
	dir := t.TempDir()
	hint := filepath.Join(dir, "staging")
	if err := os.Mkdir(hint, 0755); err != nil {
		t.Fatalf("Failed to create hint dir: %v", err)
	}
	dest := filepath.Join(dir, "list.txt")

	p, err := NewPublisher(dest, hint)
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Discard()

	if filepath.Dir(p.StagingPath()) != hint {
		t.Errorf("Staging file in %s, want hint dir %s", filepath.Dir(p.StagingPath()), hint)
	}
}

func TestPublish_AllStagingCandidatesFail(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", filepath.Join(dir, "missing-tmp"))
	dest := filepath.Join(dir, "missing-parent", "list.txt")

	_, err := NewPublisher(dest, "")
	if err == nil {
		t.Fatal("Expected NewPublisher to fail with no usable staging directory")
	}
	if !errors.Is(err, apperrors.New(apperrors.ErrCodeStaging, "")) {
		t.Errorf("Expected STAGING_ERROR, got: %v", err)
	}
}

func TestPublish_FailedRenameLeavesDestinationUntouched(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "live")
	if err := os.Mkdir(live, 0755); err != nil {
		t.Fatalf("Failed to create destination dir: %v", err)
	}
	dest := filepath.Join(live, "list.txt")
	mustWriteFile(t, dest, "previous list\n", 0644)
	hint := filepath.Join(dir, "staging")
	if err := os.Mkdir(hint, 0755); err != nil {
		t.Fatalf("Failed to create staging dir: %v", err)
	}

	p, err := NewPublisher(dest, hint)
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer p.Discard()

	// The destination's directory disappears between capture and commit, so
	// the final rename has nowhere to land.
	moved := filepath.Join(dir, "moved")
	if err := os.Rename(live, moved); err != nil {
		t.Fatalf("Failed to move destination dir: %v", err)
	}

	err = p.Commit([]byte("192.0.2.0/24\n"))
	if err == nil {
		t.Fatal("Expected Commit to fail when the rename cannot land")
	}
	if !errors.Is(err, apperrors.New(apperrors.ErrCodePublish, "")) {
		t.Errorf("Expected PUBLISH_ERROR, got: %v", err)
	}

	content, readErr := os.ReadFile(filepath.Join(moved, "list.txt"))
	if readErr != nil {
		t.Fatalf("Failed to read prior destination: %v", readErr)
	}
	if string(content) != "previous list\n" {
		t.Errorf("Prior destination content changed: %q", content)
	}

	p.Discard()
	assertNoStagingLitter(t, hint)
	assertNoStagingLitter(t, moved)
}

func TestPublish_DiscardIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "list.txt")

	p, err := NewPublisher(dest, "")
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}

	p.Discard()
	p.Discard()
	assertNoStagingLitter(t, dir)

	if err := p.Commit([]byte("x\n")); err == nil {
		t.Error("Expected Commit to fail after Discard")
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("Destination should not exist after discarded publish")
	}
}

func TestPublish_DiscardAfterCommitKeepsDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "list.txt")

	p, err := NewPublisher(dest, "")
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	if err := p.Commit([]byte("192.0.2.0/24\n")); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	p.Discard()

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Destination missing after Discard: %v", err)
	}
	if string(content) != "192.0.2.0/24\n" {
		t.Errorf("Destination content = %q", content)
	}
}
