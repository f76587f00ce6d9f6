package archive

import (
	"github.com/dchest/siphash"
)

// Fixed SipHash key for content fingerprints. Fingerprints only need to be
// stable across runs of this program, not cryptographically secret.
const (
	fingerprintK0 = 0x6c696e657061636b // "linepack"
	fingerprintK1 = 0x7061636b66696c65 // "packfile"
)

// Fingerprint returns a stable 64-bit content fingerprint used to detect
// changed files between pack runs.
func Fingerprint(content []byte) uint64 {
	return siphash.Hash(fingerprintK0, fingerprintK1, content)
}
