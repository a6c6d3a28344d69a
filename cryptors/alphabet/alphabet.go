// alphabet
package alphabet

import (
	"fmt"

	"github.com/bgallie/enigma/cryptors"
)

// Upper is the alphabet of the historical machines.
const Upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Alphabet is an ordered set of distinct symbols.  Symbol number k has index
// k, numbering from 0.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New returns the alphabet made of the symbols of chars, in order.
func New(chars string) (*Alphabet, error) {
	a := Alphabet{symbols: []rune(chars)}
	if len(a.symbols) == 0 {
		return nil, fmt.Errorf("%w: empty alphabet", cryptors.ErrInvalidConfiguration)
	}

	a.index = make(map[rune]int, len(a.symbols))
	for i, r := range a.symbols {
		if _, dup := a.index[r]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q in alphabet", cryptors.ErrInvalidConfiguration, r)
		}
		a.index[r] = i
	}

	return &a, nil
}

// Size returns the number of symbols.
func (a *Alphabet) Size() int {
	return len(a.symbols)
}

// Contains reports whether r is one of the symbols.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// ToChar returns symbol number index.  It panics unless 0 <= index < Size().
func (a *Alphabet) ToChar(index int) rune {
	return a.symbols[index]
}

// ToInt returns the index of r, the inverse of ToChar.
func (a *Alphabet) ToInt(r rune) (int, error) {
	i, ok := a.index[r]
	if !ok {
		return -1, fmt.Errorf("%w: %q is not in the alphabet", cryptors.ErrInvalidSymbol, r)
	}
	return i, nil
}

func (a *Alphabet) String() string {
	return string(a.symbols)
}
