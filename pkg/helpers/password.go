package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes the plain text password using bcrypt with the default cost
func HashPassword(plain string) (string, error) {
	return HashPasswordWithCost(plain, bcrypt.DefaultCost)
}

// HashPasswordWithCost hashes the plain text password with a caller-supplied
// work factor. Out-of-range costs are clamped by bcrypt itself.
func HashPasswordWithCost(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// Malformed hashes fail closed: the result is false, never an error.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
