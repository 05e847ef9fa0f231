package identity

import "golang.org/x/crypto/bcrypt"

// Hasher is the one-way credential hasher used for stored passwords.
type Hasher interface {
	Hash(plain string) ([]byte, error)
	Compare(hash []byte, plain string) error
}

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher at the service's standard cost.
func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h BcryptHasher) Hash(plain string) ([]byte, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(plain), cost)
}

func (h BcryptHasher) Compare(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}
