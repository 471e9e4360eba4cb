// Package publish atomically replaces a destination file with new content.
//
// The sequence is deliberately ordered for safety: the staging file and the
// destination's metadata are captured before any content exists, ownership is
// applied before the first byte is written, permission bits after the last,
// and the destination only ever changes through a single rename. Readers of
// the destination see either the complete old list or the complete new one.
package publish
