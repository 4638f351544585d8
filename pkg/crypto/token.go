package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

const (
	// DefaultTokenLength is the number of random bytes in a session
	// token (1024 bits, hex-encoded to 256 characters).
	DefaultTokenLength = 128
)

// TokenPair couples the opaque value handed to the client with the
// hash kept in storage. The raw token is never persisted.
type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

func generateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)

	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateHashedToken mints a fresh high-entropy token and its storage
// hash. A non-positive byteLength falls back to DefaultTokenLength.
func GenerateHashedToken(byteLength int) (*TokenPair, error) {
	token, err := generateToken(byteLength)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// VerifyToken reports whether token matches storedHash.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, errors.New("token and hash cannot be empty")
	}

	tokenHash := HashToken(token)

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(storedHash)) == 1, nil
}

// HashToken returns the hex-encoded SHA-256 of token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
