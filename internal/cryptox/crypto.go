// Package cryptox seals values kept in the local client store.
//
// Keys are derived with Argon2id from a random secret held in a key file
// under the data directory, and values are sealed with XChaCha20-Poly1305.
// The random 24-byte nonce is prepended to every ciphertext.
package cryptox

import (
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/autoscanml/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	secretSize = 32
	saltSize   = 16
)

// DeriveKey stretches secret into a 32-byte key with Argon2id.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

// Sealer encrypts and decrypts small values with a fixed key.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", common.ErrorKeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce||ciphertext. additional binds the value to its context
// (the store key), so a sealed value cannot be moved to another row.
func (s *Sealer) Seal(plaintext, additional []byte) []byte {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	return s.aead.Seal(nonce, nonce, plaintext, additional)
}

func (s *Sealer) Open(sealed, additional []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, common.ErrorCorruptData
	}
	plaintext, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], additional)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorCorruptData, err)
	}
	return plaintext, nil
}

// LoadOrCreateKey reads the key file at path, creating it with a fresh
// secret and salt when it does not exist, and returns the derived key.
func LoadOrCreateKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		secret := common.GenerateRandByteArray(secretSize)
		salt := common.GenerateRandByteArray(saltSize)
		content := hex.EncodeToString(secret) + ":" + hex.EncodeToString(salt) + "\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return nil, fmt.Errorf("write key file: %w", err)
		}
		defer common.WipeByteArray(secret)
		return DeriveKey(secret, salt), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	secretHex, saltHex, ok := strings.Cut(strings.TrimSpace(string(b)), ":")
	if !ok {
		return nil, fmt.Errorf("key file %s: %w", path, common.ErrorCorruptData)
	}
	secret, err := hex.DecodeString(secretHex)
	if err != nil || len(secret) != secretSize {
		return nil, fmt.Errorf("key file %s secret: %w", path, common.ErrorCorruptData)
	}
	defer common.WipeByteArray(secret)
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != saltSize {
		return nil, fmt.Errorf("key file %s salt: %w", path, common.ErrorCorruptData)
	}
	return DeriveKey(secret, salt), nil
}
