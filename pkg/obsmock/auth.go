// ABOUTME: obs-websocket password authentication
// ABOUTME: Computes the challenge response a client must send in Identify
package obsmock

import (
	"crypto/sha256"
	"encoding/base64"
)

// AuthResponse computes base64(sha256(secret + challenge)) where
// secret is base64(sha256(password + salt))
func AuthResponse(password, salt, challenge string) string {
	secret := sha256.Sum256([]byte(password + salt))
	secretB64 := base64.StdEncoding.EncodeToString(secret[:])

	auth := sha256.Sum256([]byte(secretB64 + challenge))
	return base64.StdEncoding.EncodeToString(auth[:])
}
