package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
)

// resolveToken returns the plain provider token, or decrypts the Fernet
// encrypted one with secretKey. A plain token wins when both are set.
// An empty result is allowed: the quote client then fails every lookup
// and price resolution falls back to purchase prices.
func resolveToken(plain, encrypted, secretKey string) (string, error) {
	if plain != "" {
		return plain, nil
	}
	if encrypted == "" {
		return "", nil
	}
	if secretKey == "" {
		return "", errors.New("FINNHUB_TOKEN_ENCRYPTED is set but SECRET_KEY is missing")
	}
	return DecryptSecret(encrypted, secretKey)
}

// DecryptSecret decrypts a Fernet token with the given base64 encoded key.
// Tokens never expire.
func DecryptSecret(token, key string) (string, error) {
	k, err := fernet.DecodeKey(strings.TrimSpace(key))
	if err != nil {
		return "", fmt.Errorf("invalid SECRET_KEY: %w", err)
	}
	msg := fernet.VerifyAndDecrypt([]byte(strings.TrimSpace(token)), -1, []*fernet.Key{k})
	if msg == nil {
		return "", errors.New("failed to decrypt secret: token invalid for SECRET_KEY")
	}
	return string(msg), nil
}

// EncryptSecret encrypts value with the given base64 encoded Fernet key.
// Used by operators (dashctl encrypt) to produce FINNHUB_TOKEN_ENCRYPTED.
func EncryptSecret(value, key string) (string, error) {
	k, err := fernet.DecodeKey(strings.TrimSpace(key))
	if err != nil {
		return "", fmt.Errorf("invalid SECRET_KEY: %w", err)
	}
	tok, err := fernet.EncryptAndSign([]byte(value), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(tok), nil
}

// GenerateSecretKey returns a new random Fernet key, base64 encoded.
func GenerateSecretKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}
