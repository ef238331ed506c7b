package common

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex hex-encodes the SHA-256 digest of s. Cache key builders use it to
// keep arbitrary caller input out of Redis key names.
func Sha256Hex(s string) string {
	h := sha256.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}
