package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const keyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MinKeyLength guards against configurations where key collisions stop being
// negligible. Below 6 characters over a 62-symbol alphabet the unbounded
// uniqueness loop in GenerateUniqueKey is no longer safe.
const MinKeyLength = 6

// GenerateKey returns a random alphanumeric key of the given length.
// Keys double as access tokens for guest mappings, so the source must be
// crypto/rand rather than a seeded PRNG.
func GenerateKey(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyCharset))))
		if err != nil {
			return "", err
		}
		b[i] = keyCharset[num.Int64()]
	}
	return string(b), nil
}

// GenerateUniqueKey generates keys until exists reports a free one.
// No retry bound: at MinKeyLength and above, a collision streak long enough
// to matter is astronomically unlikely.
func GenerateUniqueKey(length int, exists func(key string) (bool, error)) (string, error) {
	if length < MinKeyLength {
		return "", errors.New("key length too short for safe unique generation")
	}

	for {
		key, err := GenerateKey(length)
		if err != nil {
			return "", err
		}
		taken, err := exists(key)
		if err != nil {
			return "", err
		}
		if !taken {
			return key, nil
		}
	}
}
