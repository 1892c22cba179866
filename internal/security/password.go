package security

import "golang.org/x/crypto/bcrypt"

// Fixed work factor. bcrypt embeds a random per-call salt in the hash, so
// verification needs nothing beyond the stored string.
const hashCost = 10

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash with a plaintext password. Any
// failure, including a malformed stored hash, reports false rather than a
// distinct error so callers cannot tell which check failed.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
