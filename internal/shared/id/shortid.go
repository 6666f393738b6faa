// Package id generates short, URL-safe random identifiers.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// ActivationKeyLength is the length of generated activation keys.
	// Short enough to be typed by a person, random enough that the unique
	// constraint on the column is the only collision handling needed.
	ActivationKeyLength = 10

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// PrefixClient is the prefix for client identifiers.
const PrefixClient = "cl"

// Generate creates a random short ID with the specified length using Base62 encoding.
// The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// NewActivationKey generates a new subscription activation key.
func NewActivationKey() (string, error) {
	return Generate(ActivationKeyLength)
}

// NewClientSID generates a new prefixed client identifier.
func NewClientSID() (string, error) {
	return GenerateWithPrefix(PrefixClient, DefaultLength)
}
