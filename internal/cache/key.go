// Package cache implements the content-addressed cache: a directory of
// JSON files keyed by a short hash of (instruction, context, purpose), or
// by the raw bytes of a code region when an ASLR-resistant key is needed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// keyHexLen is the length, in hex characters, of a primary key.
const keyHexLen = 16

// Key hashes a normalized concatenation of (instruction, context, purpose)
// and truncates the digest to 16 hex characters.
func Key(instruction, context, purpose string) string {
	normalized := strings.TrimSpace(instruction) + "\x00" + strings.TrimSpace(context) + "\x00" + strings.TrimSpace(purpose)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:keyHexLen]
}

// ContentKey hashes raw code bytes and appends a purpose suffix, giving an
// ASLR-resistant key independent of any instruction/context text: the same
// bytes at a different address still hash the same.
func ContentKey(content []byte, suffix string) string {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])[:keyHexLen]
	if suffix == "" {
		return hash
	}
	return hash + "_" + suffix
}
