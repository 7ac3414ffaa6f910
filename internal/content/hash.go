package content

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hash returns the hex-encoded BLAKE2b-256 digest of the trimmed text, or
// "" for blank text. History records keep this digest instead of the text.
func Hash(text string) string {
	text = trim(text)
	if text == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
