// Package password decides whether a submitted plaintext matches a stored
// credential hash. Two schemes are supported:
//
//   - the bootstrap credential: one fixed demo account whose stored value
//     merely looks like a bcrypt hash. It is matched by exact string
//     equality against a fixed plaintext, never by bcrypt.
//   - the general scheme: lowercase-hex SHA-256 of the plaintext.
//
// Hash only ever produces the general scheme.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// BootstrapHash is the stored credential of the demo admin account. The
// prefix resembles bcrypt output but this value is an opaque sentinel.
const BootstrapHash = "$2b$10$rQZ9QmjQZ9QmjQZ9QmjQZOeJ9QmjQZ9QmjQZ9QmjQZ9QmjQZ9Qmj"

const bootstrapPassword = "admin123"

var ErrEmptyInput = errors.New("password: empty input")

// Verify reports whether plaintext matches storedHash. A mismatch is not an
// error; an error is returned only for absent inputs.
func Verify(plaintext, storedHash string) (bool, error) {
	if plaintext == "" || storedHash == "" {
		return false, ErrEmptyInput
	}
	if storedHash == BootstrapHash {
		return plaintext == bootstrapPassword, nil
	}
	digest, err := Hash(plaintext)
	if err != nil {
		return false, err
	}
	return digest == storedHash, nil
}

// Hash returns the lowercase-hex SHA-256 digest of plaintext.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyInput
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}
