package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password for storage. Passwords are stored
// one-way only; there is no recover-and-display path.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether provided matches the stored hash. A stored
// value that is not a valid bcrypt hash compares as a mismatch; this never
// panics or returns an error to the caller.
func VerifyPassword(stored, provided string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(provided)) == nil
}
