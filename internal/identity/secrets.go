package identity

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GenerateTempCredential creates a cryptographically secure random
// credential for a freshly provisioned identity. The user resets it on
// first login; this subsystem never stores the plaintext.
func GenerateTempCredential() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate credential: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashCredential creates a bcrypt hash of the credential for handoff to the
// identity provider.
func HashCredential(credential string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("could not hash credential: %w", err)
	}
	return string(hashed), nil
}
