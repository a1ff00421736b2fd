package privacy

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	dErrors "govintel/pkg/domain-errors"
)

// Sealer encrypts sensitive values with XChaCha20-Poly1305. The key is owned
// by the deployment; a Sealer built without one refuses to seal.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a hex-encoded 32-byte key. An empty key
// yields a disabled Sealer.
func NewSealer(keyHex string) (*Sealer, error) {
	if keyHex == "" {
		return &Sealer{}, nil
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode seal key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("seal key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init seal cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.aead != nil
}

// Seal returns base64url(nonce || ciphertext).
func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() {
		return "", dErrors.New(dErrors.CodeValidation, "encryption key not configured")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Tampered or foreign ciphertexts fail authentication.
func (s *Sealer) Open(sealed string) (string, error) {
	if !s.Enabled() {
		return "", dErrors.New(dErrors.CodeValidation, "encryption key not configured")
	}
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "sealed value is not valid base64url")
	}
	if len(raw) < chacha20poly1305.NonceSizeX+s.aead.Overhead() {
		return "", dErrors.New(dErrors.CodeValidation, "sealed value too short")
	}
	nonce, ciphertext := raw[:chacha20poly1305.NonceSizeX], raw[chacha20poly1305.NonceSizeX:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "sealed value failed authentication")
	}
	return string(plaintext), nil
}
