package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new digests.
var BcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt digest of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

var dummyDigest = sync.OnceValue(func() string {
	digest, _ := HashPassword("no-such-member")
	return digest
})

// CheckPassword reports whether password matches digest. An empty digest
// never matches, but is still compared against a dummy digest so a missing
// account costs as much as a wrong password.
func CheckPassword(digest, password string) bool {
	if digest == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest()), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
