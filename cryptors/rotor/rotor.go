// rotor
package rotor

import (
	"bytes"
	"fmt"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/bitops"
	"github.com/bgallie/enigma/cryptors/permutator"
)

// Kind selects the behaviour of a rotor.
type Kind int

const (
	Moving    Kind = iota // Steps, and carries to its left neighbour at a notch.
	Fixed                 // Never steps.
	Reflector             // Never steps, always at position 0, turns the signal around.
)

func (k Kind) String() string {
	switch k {
	case Moving:
		return "moving"
	case Fixed:
		return "fixed"
	case Reflector:
		return "reflector"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rotor is the wiring of a rotor: its name, kind, permutation and notches.
// A Rotor never changes once built and may be shared by any number of
// machines; the position of a mounted rotor lives in a Slot.
type Rotor struct {
	name    string
	kind    Kind
	perm    *permutator.Permutation
	notches []byte // Bit i is set if position i is a notch.
}

// NewMoving returns a moving rotor whose notches are at the positions of
// the symbols of notches.
func NewMoving(name string, perm *permutator.Permutation, notches string) (*Rotor, error) {
	r := Rotor{name: name, kind: Moving, perm: perm, notches: bitops.New(perm.Size())}
	alpha := perm.Alphabet()
	for _, n := range notches {
		idx, err := alpha.ToInt(n)
		if err != nil {
			return nil, fmt.Errorf("%w: rotor %s notch: %w", cryptors.ErrInvalidConfiguration, name, err)
		}
		bitops.SetBit(r.notches, uint(idx))
	}
	return &r, nil
}

// NewFixed returns a rotor that neither moves nor reflects.
func NewFixed(name string, perm *permutator.Permutation) *Rotor {
	return &Rotor{name: name, kind: Fixed, perm: perm}
}

// NewReflector returns a reflector.
func NewReflector(name string, perm *permutator.Permutation) *Rotor {
	return &Rotor{name: name, kind: Reflector, perm: perm}
}

func (r *Rotor) Name() string {
	return r.name
}

func (r *Rotor) Kind() Kind {
	return r.kind
}

func (r *Rotor) Permutation() *permutator.Permutation {
	return r.perm
}

// Size returns the size of the rotor's alphabet.
func (r *Rotor) Size() int {
	return r.perm.Size()
}

// Rotates reports whether the rotor steps.
func (r *Rotor) Rotates() bool {
	return r.kind == Moving
}

// Reflecting reports whether the rotor is a reflector.
func (r *Rotor) Reflecting() bool {
	return r.kind == Reflector
}

// Notches returns the notch symbols in alphabet order.
func (r *Rotor) Notches() string {
	var output bytes.Buffer
	if r.notches == nil {
		return ""
	}
	for i := 0; i < r.Size(); i++ {
		if bitops.GetBit(r.notches, uint(i)) {
			output.WriteRune(r.perm.Alphabet().ToChar(i))
		}
	}
	return output.String()
}

// Mount returns a new slot holding the rotor at position 0.
func (r *Rotor) Mount() *Slot {
	return &Slot{rotor: r}
}

func (r *Rotor) String() string {
	var output bytes.Buffer
	output.WriteString(r.name)
	switch r.kind {
	case Moving:
		output.WriteString(" M" + r.Notches())
	case Fixed:
		output.WriteString(" N")
	case Reflector:
		output.WriteString(" R")
	}
	if s := r.perm.String(); s != "" {
		output.WriteString(" " + s)
	}
	return output.String()
}

// Slot is a rotor mounted in a machine: the shared wiring plus the rotor's
// current setting and ring setting.
type Slot struct {
	rotor   *Rotor
	setting int
	ring    int
}

func (s *Slot) Rotor() *Rotor {
	return s.rotor
}

func (s *Slot) Name() string {
	return s.rotor.name
}

func (s *Slot) Rotates() bool {
	return s.rotor.Rotates()
}

func (s *Slot) Reflecting() bool {
	return s.rotor.Reflecting()
}

func (s *Slot) Size() int {
	return s.rotor.Size()
}

// Setting returns the current position.
func (s *Slot) Setting() int {
	return s.setting
}

// Set moves the rotor to position modulo Size().  A reflector has only
// position 0.
func (s *Slot) Set(position int) error {
	if s.rotor.kind == Reflector {
		if position != 0 {
			return fmt.Errorf("%w: reflector has only one position", cryptors.ErrInvalidConfiguration)
		}
		return nil
	}
	s.setting = cryptors.Wrap(position, s.Size())
	return nil
}

// Ring returns the ring setting.
func (s *Slot) Ring() int {
	return s.ring
}

// SetRing turns the wiring core against the alphabet ring by ring
// positions.  A reflector has only ring position 0.
func (s *Slot) SetRing(ring int) error {
	if s.rotor.kind == Reflector {
		if ring != 0 {
			return fmt.Errorf("%w: reflector has only one ring position", cryptors.ErrInvalidConfiguration)
		}
		return nil
	}
	s.ring = cryptors.Wrap(ring, s.Size())
	return nil
}

// AtNotch reports whether a moving rotor is at one of its notches.  Fixed
// rotors and reflectors are never at a notch.
func (s *Slot) AtNotch() bool {
	if s.rotor.kind != Moving {
		return false
	}
	return bitops.GetBit(s.rotor.notches, uint(s.setting))
}

// Advance steps a moving rotor by one position.  It does nothing for other
// rotors.
func (s *Slot) Advance() {
	if s.rotor.kind == Moving {
		s.setting = cryptors.Wrap(s.setting+1, s.Size())
	}
}

// ConvertForward translates c, entering the rotor from the right, through
// the wiring at the current position.
func (s *Slot) ConvertForward(c int) int {
	offset := s.setting - s.ring
	return cryptors.Wrap(s.rotor.perm.Permute(c+offset)-offset, s.Size())
}

// ConvertBackward is the inverse of ConvertForward.
func (s *Slot) ConvertBackward(c int) int {
	offset := s.setting - s.ring
	return cryptors.Wrap(s.rotor.perm.Invert(c+offset)-offset, s.Size())
}

func (s *Slot) Apply_F(c int) int {
	return s.ConvertForward(c)
}

func (s *Slot) Apply_G(c int) int {
	return s.ConvertBackward(c)
}
