// cryptor
package cryptors

import (
	"errors"
)

const (
	// SpaceSymbol passes through a machine unchanged and does not step it.
	SpaceSymbol = ' '
	// DefaultGroupSize is the number of letters per output block.
	DefaultGroupSize = 5
)

var (
	// ErrInvalidConfiguration reports a machine, rotor, permutation or
	// settings description that cannot be used.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidSymbol reports a character that is not in the alphabet.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Crypter is an element of the signal path.  Apply_F is the substitution
// seen by a signal travelling towards the reflector and Apply_G the one seen
// on the way back; Apply_G undoes Apply_F.
type Crypter interface {
	Apply_F(int) int
	Apply_G(int) int
}

// Encrypt passes c through ecm on its way to the reflector.
func Encrypt(ecm Crypter, c int) int {
	return ecm.Apply_F(c)
}

// Decrypt passes c through ecm on its way back from the reflector.
func Decrypt(ecm Crypter, c int) int {
	return ecm.Apply_G(c)
}

// Wrap reduces p modulo size into the range [0, size).
func Wrap(p, size int) int {
	r := p % size
	if r < 0 {
		r += size
	}
	return r
}
