package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	apperrors "github.com/nathaningle/fetch-iplist/internal/errors"
	"github.com/nathaningle/fetch-iplist/internal/log"
	"github.com/nathaningle/fetch-iplist/internal/utils"
)

// DefaultMode is applied when the destination does not exist yet.
const DefaultMode fs.FileMode = 0644

// Publisher stages content next to a destination file and atomically replaces
// the destination on Commit. It is single-use: one metadata capture, one
// staging file, one rename. Create a fresh Publisher per publish attempt.
//
// It refuses to publish through a symlink and propagates the existing
// destination's ownership and permission bits onto the replacement. A staging
// file on a different device than the destination only produces a warning:
// the rename may then be non-atomic, but the run still completes.
type Publisher struct {
	dest       string
	staging    *os.File
	destExists bool
	destStat   unix.Stat_t

	committed bool
	discarded bool
}

// NewPublisher creates the staging file and captures the destination's
// metadata. On any failure the staging file is already cleaned up; the caller
// must arrange `defer p.Discard()` only after a nil error return.
func NewPublisher(dest string, stagingDirHint string) (*Publisher, error) {
	staging, err := createStagingFile(stagingDirHint, filepath.Dir(dest))
	if err != nil {
		return nil, err
	}

	p := &Publisher{dest: dest, staging: staging}
	if err := p.captureDestination(); err != nil {
		p.Discard()
		return nil, err
	}
	p.warnIfCrossDevice()
	if err := p.propagateOwnership(); err != nil {
		p.Discard()
		return nil, err
	}
	return p, nil
}

// createStagingFile tries each candidate directory in order: the configured
// hint, the destination's parent, the system temp directory.
func createStagingFile(hint string, destDir string) (*os.File, error) {
	var lastErr error
	for _, dir := range []string{hint, destDir, os.TempDir()} {
		if dir == "" {
			continue
		}
		f, err := os.CreateTemp(dir, ".fetch-iplist-*")
		if err == nil {
			log.Debugf("Created staging file: %s", f.Name())
			return f, nil
		}
		log.Debugf("Cannot create staging file in %s: %v", dir, err)
		lastErr = err
	}
	return nil, apperrors.NewStagingError("failed to create staging file in any candidate directory", lastErr)
}

func (p *Publisher) captureDestination() error {
	err := unix.Lstat(p.dest, &p.destStat)
	if errors.Is(err, unix.ENOENT) {
		// New destination: publish with DefaultMode, nothing to propagate.
		return nil
	}
	if err != nil {
		return apperrors.NewMetadataError(fmt.Sprintf("failed to stat destination %s", p.dest), err)
	}
	if p.destStat.Mode&unix.S_IFMT == unix.S_IFLNK {
		return apperrors.NewUnsafeDestinationError(
			fmt.Sprintf("destination %s is a symbolic link, refusing to replace it", p.dest), nil)
	}
	p.destExists = true
	return nil
}

// warnIfCrossDevice compares the staging file's device with the destination's
// (or, for a new destination, its parent directory's). A mismatch means the
// final rename will not be atomic; the original tool warns and proceeds, and
// so do we.
func (p *Publisher) warnIfCrossDevice() {
	var stagingStat unix.Stat_t
	if err := unix.Fstat(int(p.staging.Fd()), &stagingStat); err != nil {
		log.Debugf("Cannot stat staging file %s: %v", p.staging.Name(), err)
		return
	}

	destDev := p.destStat.Dev
	if !p.destExists {
		var dirStat unix.Stat_t
		if err := unix.Stat(filepath.Dir(p.dest), &dirStat); err != nil {
			return
		}
		destDev = dirStat.Dev
	}

	if stagingStat.Dev != destDev {
		log.Warnf("Staging file %s is on a different filesystem than destination %s, replacement will not be atomic",
			p.staging.Name(), p.dest)
	}
}

// propagateOwnership chowns the staging file to the destination's owner
// before any content is written, so the data never exists under the wrong
// owner. Requires privilege when the owners differ; failure is fatal rather
// than silently publishing with changed ownership.
func (p *Publisher) propagateOwnership() error {
	if !p.destExists {
		return nil
	}

	var stagingStat unix.Stat_t
	if err := unix.Fstat(int(p.staging.Fd()), &stagingStat); err != nil {
		return apperrors.NewMetadataError("failed to stat staging file", err)
	}
	if stagingStat.Uid == p.destStat.Uid && stagingStat.Gid == p.destStat.Gid {
		return nil
	}

	if err := unix.Fchown(int(p.staging.Fd()), int(p.destStat.Uid), int(p.destStat.Gid)); err != nil {
		return apperrors.NewMetadataError(
			fmt.Sprintf("failed to set ownership %d:%d on staging file", p.destStat.Uid, p.destStat.Gid), err)
	}
	return nil
}

// Commit writes content to the staging file and renames it onto the
// destination. After a successful Commit the Publisher is spent.
func (p *Publisher) Commit(data []byte) error {
	if p.committed || p.discarded {
		return apperrors.NewInternalError("publisher already spent", nil)
	}

	if _, err := p.staging.Write(data); err != nil {
		return apperrors.NewStagingError(fmt.Sprintf("failed to write staging file %s", p.staging.Name()), err)
	}
	if err := p.staging.Sync(); err != nil {
		return apperrors.NewStagingError(fmt.Sprintf("failed to sync staging file %s", p.staging.Name()), err)
	}

	// Permissions go on after the content so the file is never readable with
	// its final mode before it holds the final bytes.
	mode := DefaultMode
	if p.destExists {
		mode = fs.FileMode(p.destStat.Mode & 07777)
	}
	if err := p.staging.Chmod(mode); err != nil {
		return apperrors.NewMetadataError(
			fmt.Sprintf("failed to set mode %04o on staging file", mode), err)
	}

	if err := p.staging.Close(); err != nil {
		return apperrors.NewStagingError(fmt.Sprintf("failed to close staging file %s", p.staging.Name()), err)
	}

	if err := os.Rename(p.staging.Name(), p.dest); err != nil {
		return apperrors.NewPublishError(fmt.Sprintf("failed to replace destination %s", p.dest), err)
	}
	p.committed = true
	log.Infof("Published %d bytes to %s", len(data), p.dest)

	p.syncParentDir()
	return nil
}

// syncParentDir makes the rename durable. The content is already in place, so
// failure here only costs durability across a crash, not correctness.
func (p *Publisher) syncParentDir() {
	dir, err := os.Open(filepath.Dir(p.dest))
	if err != nil {
		log.Warnf("Cannot open destination directory for sync: %v", err)
		return
	}
	defer utils.CloseOrWarn(dir)
	if err := dir.Sync(); err != nil {
		log.Warnf("Cannot sync destination directory: %v", err)
	}
}

// Discard removes the staging file if it has not been renamed away.
// Idempotent and safe to defer unconditionally after Commit.
func (p *Publisher) Discard() {
	if p.committed || p.discarded {
		return
	}
	p.discarded = true

	// Close may double-close after a failed Commit; the only concern here is
	// that the file is gone afterwards.
	_ = p.staging.Close()
	if err := os.Remove(p.staging.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Failed to remove staging file %s: %v", p.staging.Name(), err)
	}
}

// StagingPath reports where the staging file was created. Used by the
// self-check report.
func (p *Publisher) StagingPath() string {
	return p.staging.Name()
}

// DestinationExists reports whether the destination was present at capture
// time.
func (p *Publisher) DestinationExists() bool {
	return p.destExists
}

// DestinationMode returns the permission bits that Commit will apply.
func (p *Publisher) DestinationMode() fs.FileMode {
	if p.destExists {
		return fs.FileMode(p.destStat.Mode & 07777)
	}
	return DefaultMode
}

// DestinationOwner returns the uid/gid that the published file will carry.
// For a new destination these are the current process's credentials.
func (p *Publisher) DestinationOwner() (uid, gid int) {
	if p.destExists {
		return int(p.destStat.Uid), int(p.destStat.Gid)
	}
	return os.Getuid(), os.Getgid()
}
