package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the stored credential for an account.  Registration
// passes the cost from BCRYPT_COST (default 10); tests use a lower cost to
// stay fast.  The plaintext is never persisted.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks a login attempt against the stored hash.  A wrong
// password and a malformed hash both report false; the login handler folds a
// miss into the same 401 as an unknown email.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
