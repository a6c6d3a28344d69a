// machine
package machine

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/rotor"
)

// Machine is an Enigma machine: a pool of available rotors, a number of
// rotor slots and pawls, and the session currently set up on it (the
// rotors in the slots and the plugboard).
type Machine struct {
	alphabet  *alphabet.Alphabet
	numRotors int
	numPawls  int
	available []*rotor.Rotor
	byName    map[string]*rotor.Rotor // Upper case names.

	slots     []*rotor.Slot // slots[0] is the reflector, the last one is the rightmost rotor.
	plugboard *permutator.Permutation

	log *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger.  A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns a machine with alpha, numRotors slots and numPawls pawls
// (and thus rotating rotors), 1 < numRotors and 0 <= numPawls < numRotors.
// pool holds all the available rotors.
func New(alpha *alphabet.Alphabet, numRotors, numPawls int, pool []*rotor.Rotor, opts ...Option) (*Machine, error) {
	if numRotors < 2 {
		return nil, fmt.Errorf("%w: a machine needs at least two rotor slots, got %d", cryptors.ErrInvalidConfiguration, numRotors)
	}
	if numPawls < 0 || numPawls >= numRotors {
		return nil, fmt.Errorf("%w: %d pawls for %d rotor slots", cryptors.ErrInvalidConfiguration, numPawls, numRotors)
	}

	m := Machine{
		alphabet:  alpha,
		numRotors: numRotors,
		numPawls:  numPawls,
		byName:    make(map[string]*rotor.Rotor, len(pool)),
		plugboard: permutator.Identity(alpha),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&m)
	}
	for _, r := range pool {
		key := strings.ToUpper(r.Name())
		if _, dup := m.byName[key]; dup {
			return nil, fmt.Errorf("%w: rotor %s is described twice", cryptors.ErrInvalidConfiguration, r.Name())
		}
		if r.Size() != alpha.Size() {
			return nil, fmt.Errorf("%w: rotor %s has %d positions, the alphabet has %d",
				cryptors.ErrInvalidConfiguration, r.Name(), r.Size(), alpha.Size())
		}
		m.byName[key] = r
		m.available = append(m.available, r)
	}

	return &m, nil
}

func (m *Machine) Alphabet() *alphabet.Alphabet {
	return m.alphabet
}

// NumRotors returns the number of rotor slots.
func (m *Machine) NumRotors() int {
	return m.numRotors
}

// NumPawls returns the number of pawls, and so of rotating rotors.
func (m *Machine) NumPawls() int {
	return m.numPawls
}

// Available returns the rotor pool in configuration order.
func (m *Machine) Available() []*rotor.Rotor {
	return append([]*rotor.Rotor(nil), m.available...)
}

// InsertRotors fills the slots with the rotors named in names, left to
// right; names[0] must name a reflector.  Names are matched without regard
// to case.  All the rotors start at setting 0.  A selection with more
// moving rotors than pawls is accepted with a warning.
func (m *Machine) InsertRotors(names []string) error {
	if len(names) != m.numRotors {
		return fmt.Errorf("%w: %d rotors named for %d slots", cryptors.ErrInvalidConfiguration, len(names), m.numRotors)
	}

	slots := make([]*rotor.Slot, 0, len(names))
	used := make(map[*rotor.Rotor]bool, len(names))
	rotating := 0
	for i, name := range names {
		r, ok := m.byName[strings.ToUpper(name)]
		switch {
		case !ok:
			return fmt.Errorf("%w: unknown rotor %s", cryptors.ErrInvalidConfiguration, name)
		case used[r]:
			return fmt.Errorf("%w: duplicate rotor name %s", cryptors.ErrInvalidConfiguration, name)
		case i == 0 && (!r.Reflecting() || r.Rotates()):
			return fmt.Errorf("%w: rotor %s in the leftmost slot is not a reflector", cryptors.ErrInvalidConfiguration, name)
		case i != 0 && r.Reflecting():
			return fmt.Errorf("%w: reflector %s is only allowed in the leftmost slot", cryptors.ErrInvalidConfiguration, name)
		}
		used[r] = true
		if r.Rotates() {
			rotating++
		}
		slots = append(slots, r.Mount())
	}

	if rotating > m.numPawls {
		m.log.Warn("more moving rotors than pawls", "rotors", strings.Join(names, " "), "moving", rotating, "pawls", m.numPawls)
	}

	m.slots = slots
	return nil
}

// FixRotors empties the slots and the plugboard so that a new session can
// be set up.  The rotor pool is left alone.
func (m *Machine) FixRotors() {
	m.slots = nil
	m.plugboard = permutator.Identity(m.alphabet)
}

// Rotors returns the names of the rotors in the slots, left to right.
func (m *Machine) Rotors() []string {
	names := make([]string, len(m.slots))
	for i, s := range m.slots {
		names[i] = s.Name()
	}
	return names
}

// SetRotors sets the rotors from setting, numRotors()-1 symbols of the
// alphabet.  The first symbol is the setting of the leftmost rotor after the
// reflector.
func (m *Machine) SetRotors(setting string) error {
	return m.setEach(setting, "settings", (*rotor.Slot).Set)
}

// SetRings sets the ring settings of the rotors, in the same form as
// SetRotors.
func (m *Machine) SetRings(rings string) error {
	return m.setEach(rings, "ring settings", (*rotor.Slot).SetRing)
}

func (m *Machine) setEach(setting, what string, set func(*rotor.Slot, int) error) error {
	if len(m.slots) == 0 {
		return fmt.Errorf("%w: no rotors inserted", cryptors.ErrInvalidConfiguration)
	}
	symbols := []rune(setting)
	if len(symbols) != m.numRotors-1 {
		return fmt.Errorf("%w: %s %q should have %d symbols", cryptors.ErrInvalidConfiguration, what, setting, m.numRotors-1)
	}

	positions := make([]int, len(symbols))
	for i, r := range symbols {
		p, err := m.alphabet.ToInt(r)
		if err != nil {
			return fmt.Errorf("%w: %s %q: %w", cryptors.ErrInvalidConfiguration, what, setting, err)
		}
		positions[i] = p
	}
	for i, p := range positions {
		if err := set(m.slots[i+1], p); err != nil {
			return err
		}
	}
	return nil
}

// SetPlugboard replaces the plugboard.  A nil plugboard connects every
// symbol to itself.
func (m *Machine) SetPlugboard(plugboard *permutator.Permutation) {
	if plugboard == nil {
		plugboard = permutator.Identity(m.alphabet)
	}
	m.plugboard = plugboard
}

// Positions returns the symbols showing in the windows of the rotors after
// the reflector, left to right.
func (m *Machine) Positions() string {
	var sb strings.Builder
	for _, s := range m.slots[min(1, len(m.slots)):] {
		sb.WriteRune(m.alphabet.ToChar(s.Setting()))
	}
	return sb.String()
}

// step advances the rotors for one character.  Every notch is sampled
// before any rotor moves.
func (m *Machine) step() {
	n := len(m.slots)
	atNotch := make([]bool, n)
	advance := make([]bool, n)
	for i, s := range m.slots {
		atNotch[i] = s.AtNotch()
	}

	for i := n - 1; i >= 0; i-- {
		if m.slots[i].Rotates() {
			advance[i] = true
			break
		}
	}
	// A pawl that falls into the notch of the rotor on its right pushes that
	// rotor as well as its own, so a rotor at its notch steps twice in a row.
	for i := n - 2; i >= 0; i-- {
		if atNotch[i+1] && m.slots[i].Rotates() {
			advance[i] = true
			advance[i+1] = true
		}
	}

	for i, s := range m.slots {
		if advance[i] {
			s.Advance()
		}
	}
}

// ConvertIndex returns the result of converting the alphabet index c after
// first advancing the machine.
func (m *Machine) ConvertIndex(c int) (int, error) {
	if len(m.slots) == 0 {
		return 0, fmt.Errorf("%w: no rotors inserted", cryptors.ErrInvalidConfiguration)
	}
	if c < 0 || c >= m.alphabet.Size() {
		return 0, fmt.Errorf("%w: index %d is outside the alphabet", cryptors.ErrInvalidSymbol, c)
	}

	c = cryptors.Encrypt(m.plugboard, c)
	m.step()
	for i := len(m.slots) - 1; i >= 0; i-- {
		c = cryptors.Encrypt(m.slots[i], c)
	}
	for _, s := range m.slots[1:] {
		c = cryptors.Decrypt(s, c)
	}
	return cryptors.Decrypt(m.plugboard, c), nil
}

// Convert returns the encoding (or decoding) of msg, advancing the rotors
// as it goes.  Spaces are copied without moving the rotors.  If msg holds a
// symbol outside the alphabet nothing is converted and the rotors are put
// back where they were.
func (m *Machine) Convert(msg string) (string, error) {
	saved := make([]int, len(m.slots))
	for i, s := range m.slots {
		saved[i] = s.Setting()
	}

	var sb strings.Builder
	for _, r := range msg {
		if r == cryptors.SpaceSymbol {
			sb.WriteRune(r)
			continue
		}

		c, err := m.alphabet.ToInt(r)
		if err == nil {
			c, err = m.ConvertIndex(c)
		}
		if err != nil {
			for i, s := range m.slots {
				// Set cannot fail: the reflector was saved at 0.
				_ = s.Set(saved[i])
			}
			return "", err
		}
		sb.WriteRune(m.alphabet.ToChar(c))
	}

	return sb.String(), nil
}
