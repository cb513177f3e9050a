package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentHash returns the hex sha256 of trimmed, lower-cased content. Two
// submissions that differ only in whitespace or casing hash the same, which is
// what the duplicate check wants.
func ContentHash(content string) string {
	normalized := strings.ToLower(strings.TrimSpace(content))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
