package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeHMACSHA256 returns the hex HMAC-SHA256 of message. Used to key rate limits by client
// without storing raw addresses in Redis.
func ComputeHMACSHA256(secretKey, message string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// HashSHA256 returns the first 16 hex chars of SHA256(s), enough to tell cache keys apart.
func HashSHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
