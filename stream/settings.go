package stream

import (
	"fmt"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
)

// Settings is a parsed settings line:
//
//	* B Beta III IV I AXLE [ring settings] (HQ) (EX) (IP) (TR) (BY)
type Settings struct {
	Rotors    []string // Reflector first.
	Positions string
	Rings     string // Empty means all rings at the first symbol.
	Plugboard string // Cycle notation; every cycle a pair.
}

// IsSettings reports whether line, ignoring leading white space, is a
// settings line.  It decides the first line of a stream; later lines start
// a session only with a '*' in the first column.
func IsSettings(line string) bool {
	return startsSession(strings.TrimSpace(line))
}

func startsSession(line string) bool {
	return strings.HasPrefix(line, "*")
}

// ParseSettings parses a settings line for a machine with numRotors slots.
func ParseSettings(line string, numRotors int) (*Settings, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "*") {
		return nil, fmt.Errorf("%w: %q is not a settings line", cryptors.ErrInvalidConfiguration, line)
	}
	if fields[0] == "*" {
		fields = fields[1:]
	} else {
		fields[0] = fields[0][1:]
	}

	var s Settings
	for len(fields) > 0 && len(s.Rotors) < numRotors && !isCycle(fields[0]) {
		s.Rotors = append(s.Rotors, fields[0])
		fields = fields[1:]
	}
	if len(s.Rotors) != numRotors {
		return nil, fmt.Errorf("%w: settings line names %d rotors, the machine has %d slots",
			cryptors.ErrInvalidConfiguration, len(s.Rotors), numRotors)
	}

	if len(fields) == 0 || isCycle(fields[0]) {
		return nil, fmt.Errorf("%w: settings line has no rotor settings", cryptors.ErrInvalidConfiguration)
	}
	s.Positions, fields = fields[0], fields[1:]
	if len(fields) > 0 && !isCycle(fields[0]) {
		s.Rings, fields = fields[0], fields[1:]
	}

	for _, f := range fields {
		if !isCycle(f) {
			return nil, fmt.Errorf("%w: unexpected %q in settings line", cryptors.ErrInvalidConfiguration, f)
		}
	}
	s.Plugboard = strings.Join(fields, " ")

	return &s, nil
}

// Apply starts a new session on m with the settings.
func (s *Settings) Apply(m *machine.Machine) error {
	plugboard, err := permutator.New(s.Plugboard, m.Alphabet())
	if err != nil {
		return fmt.Errorf("plugboard: %w", err)
	}
	for _, c := range plugboard.Cycles() {
		if len(c) != 2 {
			return fmt.Errorf("%w: plugboard %s does not swap pairs", cryptors.ErrInvalidConfiguration, plugboard)
		}
	}

	m.FixRotors()
	if err := m.InsertRotors(s.Rotors); err != nil {
		return err
	}
	if err := m.SetRotors(s.Positions); err != nil {
		return err
	}
	if s.Rings != "" {
		if err := m.SetRings(s.Rings); err != nil {
			return err
		}
	}
	m.SetPlugboard(plugboard)
	return nil
}

func (s *Settings) String() string {
	parts := append([]string{"*"}, s.Rotors...)
	parts = append(parts, s.Positions)
	if s.Rings != "" {
		parts = append(parts, s.Rings)
	}
	if s.Plugboard != "" {
		parts = append(parts, s.Plugboard)
	}
	return strings.Join(parts, " ")
}

func isCycle(tok string) bool {
	return strings.HasPrefix(tok, "(")
}
