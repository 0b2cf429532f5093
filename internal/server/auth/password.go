package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the fixed work factor used platform-wide. Raising it only
// affects newly stored hashes; existing hashes keep verifying.
const bcryptCost = 10

// HashPassword returns a one-way salted hash of the plaintext password.
func HashPassword(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plaintext matches the stored hash. No extra
// comparison layer is added beyond bcrypt's own guarantees.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
