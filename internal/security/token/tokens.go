package tokens

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateOpaqueToken genera n bytes aleatorios en base64url sin padding.
// Se usa para passwords iniciales cuando el admin no indica una.
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
