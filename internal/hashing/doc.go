// Package hashing provides MD5 checksum helpers for change detection.
//
// ChecksumReaderProxy wraps an io.Reader and accumulates a checksum of
// everything read through it, so a fetched body can be hashed without a
// second pass. LineDigest accumulates a checksum over the lines of a
// serialized list, letting serve mode detect when a refresh produced the
// same aggregate as the previous one.
package hashing
