package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier abstracts how passwords are stored and compared, so the
// scheme can change without touching login callers.
type CredentialVerifier interface {
	// Hash produces the stored form of a password.
	Hash(password string) (string, error)
	// Verify reports whether a presented password matches the stored form.
	Verify(stored, presented string) bool
}

// PlaintextVerifier stores passwords as-is. This matches the original system
// and is a known security gap; it exists for behavioral parity and should be
// replaced with BcryptVerifier where that parity is not needed.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Hash(password string) (string, error) { return password, nil }

func (PlaintextVerifier) Verify(stored, presented string) bool { return stored == presented }

// BcryptVerifier stores salted bcrypt hashes.
type BcryptVerifier struct {
	// Cost is the bcrypt cost factor; 0 uses bcrypt.DefaultCost.
	Cost int
}

func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (v BcryptVerifier) Verify(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}
