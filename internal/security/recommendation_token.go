package security

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DefaultRecommendationTokenBytes is the entropy of a recommender link token.
const DefaultRecommendationTokenBytes = 32

// NewRecommendationToken returns a random URL-safe token and the digest that is
// stored in its place.
func NewRecommendationToken(size int) (token, digest string, err error) {
	if size < 16 {
		size = DefaultRecommendationTokenBytes
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate recommendation token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashRecommendationToken(token), nil
}

// HashRecommendationToken is the lookup key for a presented token.
func HashRecommendationToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
