package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint derives the stable identity of a captured coupon. The
// same code appearing in two different messages, or two codes inside
// one message, produce distinct fingerprints.
func Fingerprint(channelOrigin string, messageID int64, text, code string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s:%s", channelOrigin, messageID, text, code)))
	return hex.EncodeToString(sum[:])
}
