package data

import (
	"BattingNarrativeApi/internal/validator"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PresenterKey guards the navigation endpoints. A zero PresenterKey accepts nothing.
type PresenterKey struct {
	hash []byte
}

// PresenterKeyFromHash wraps a bcrypt hash supplied through configuration.
func PresenterKeyFromHash(hash string) (*PresenterKey, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &PresenterKey{hash: []byte(hash)}, nil
}

func (k *PresenterKey) Set(plaintextKey string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextKey), 12)
	if err != nil {
		return err
	}

	k.hash = hash

	return nil
}

func (k *PresenterKey) Hash() string {
	return string(k.hash)
}

func (k *PresenterKey) Matches(plaintextKey string) (bool, error) {
	if len(k.hash) == 0 {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword(k.hash, []byte(plaintextKey))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

func ValidatePresenterKeyPlaintext(v *validator.Validator, key string) {
	v.Check(key != "", "presenter_key", "must be provided")
	v.Check(len(key) >= 8, "presenter_key", "must be at least 8 characters long")
	v.Check(len(key) <= 72, "presenter_key", "must not be more than 72 characters long")
}
