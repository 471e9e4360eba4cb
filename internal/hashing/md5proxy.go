package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
)

type ChecksumProvider interface {
	GetChecksum() (string, error)
}

// ChecksumReaderProxy is a proxy that calculates the MD5 checksum of data as it's read.
type ChecksumReaderProxy struct {
	reader      io.Reader
	checksum    hash.Hash
	checksumErr error
}

// NewMD5ReaderProxy creates a new instance of ChecksumReaderProxy.
func NewMD5ReaderProxy(reader io.Reader) *ChecksumReaderProxy {
	return &ChecksumReaderProxy{
		reader:   reader,
		checksum: md5.New(),
	}
}

// Read reads data from the underlying reader, calculates the MD5 checksum
func (p *ChecksumReaderProxy) Read(buf []byte) (int, error) {
	// Read data from the wrapped reader
	n, err := p.reader.Read(buf)
	if n > 0 {
		// Update checksum with the read bytes
		if _, checksumErr := p.checksum.Write(buf[:n]); checksumErr != nil {
			return n, checksumErr
		}
	}
	return n, err
}

// GetChecksum returns the calculated MD5 checksum as a hex string.
func (p *ChecksumReaderProxy) GetChecksum() (string, error) {
	if p.checksumErr == nil {
		return hex.EncodeToString(p.checksum.Sum(nil)), nil
	}
	return "", p.checksumErr
}

// LineDigest accumulates an MD5 digest over a sequence of lines. Two lists
// serialize to the same digest iff they contain the same lines in the same
// order, which is what serve mode uses to skip republishing an unchanged
// aggregate.
type LineDigest struct {
	count    int
	checksum hash.Hash
}

// NewLineDigest creates an empty LineDigest.
func NewLineDigest() *LineDigest {
	return &LineDigest{
		checksum: md5.New(),
	}
}

// Put adds a single line to the digest. hash.Hash writes never fail.
func (d *LineDigest) Put(line string) {
	d.checksum.Write([]byte(line + "\n"))
	d.count++
}

// Count returns the number of lines added so far.
func (d *LineDigest) Count() int {
	return d.count
}

// GetChecksum returns the accumulated MD5 digest as a hex string.
func (d *LineDigest) GetChecksum() string {
	return hex.EncodeToString(d.checksum.Sum(nil))
}
