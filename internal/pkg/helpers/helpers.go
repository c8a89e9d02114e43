package helpers

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returning the default on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomPassword generates a random temporary password, used when a company
// login account is provisioned from a record.
func RandomPassword(length int) string {
	if length <= 0 {
		length = 16
	}
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordChars))))
		if err != nil {
			result[i] = passwordChars[int(time.Now().UnixNano())%len(passwordChars)]
			continue
		}
		result[i] = passwordChars[n.Int64()]
	}
	return string(result)
}

// NowRFC3339 formats the current UTC time the way record timestamps are
// stored inside data payloads.
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
