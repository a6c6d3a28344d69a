// Package config reads machine descriptions: the alphabet, the number of
// rotor slots and pawls, and the available rotors.
//
// The text form is
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	5 3
//	I MQ (AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)
//	B R  (AE) (BN) (CK) (DQ) (FU) (GY) (HW) (IJ) (LO) (MP)
//	     (RX) (SZ) (TV)
//
// where each rotor is a name, a type token (M followed by the notches, N
// for a fixed rotor, R for a reflector) and its cycles.  The same
// description can also be written as YAML.
package config

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/cryptors/permutator"
	"github.com/bgallie/enigma/cryptors/rotor"
	"gopkg.in/yaml.v3"
)

//go:embed default.conf
var defaultConf string

// RotorDescription describes one rotor of the pool.
type RotorDescription struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // M, N or R
	Notches string `yaml:"notches,omitempty"`
	Cycles  string `yaml:"cycles,omitempty"`
}

// Description is a whole machine description.
type Description struct {
	Alphabet string             `yaml:"alphabet"`
	Rotors   int                `yaml:"rotors"`
	Pawls    int                `yaml:"pawls"`
	Wheels   []RotorDescription `yaml:"wheels"`
}

// Default returns the built-in machine: a four rotor naval Enigma with the
// historical rotors I to VIII, Beta, Gamma and the thin reflectors B and C.
func Default() *Description {
	d, err := Parse(strings.NewReader(defaultConf))
	if err != nil {
		panic(fmt.Sprintf("config: built-in machine: %v", err))
	}
	return d
}

// Load reads the description in the file named path.  Files ending in .yaml
// or .yml are read as YAML, anything else as text.
func Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return Parse(f)
	}
}

// Parse reads a description in text form.
func Parse(r io.Reader) (*Description, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, truncated("missing alphabet")
	}

	d := Description{Alphabet: strings.TrimSpace(scanner.Text())}
	var toks []string
	for scanner.Scan() {
		toks = append(toks, strings.Fields(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(toks) < 2 {
		return nil, truncated("missing rotor and pawl counts")
	}
	var err error
	if d.Rotors, err = strconv.Atoi(toks[0]); err != nil {
		return nil, fmt.Errorf("%w: rotor count %q", cryptors.ErrInvalidConfiguration, toks[0])
	}
	if d.Pawls, err = strconv.Atoi(toks[1]); err != nil {
		return nil, fmt.Errorf("%w: pawl count %q", cryptors.ErrInvalidConfiguration, toks[1])
	}

	for i := 2; i < len(toks); {
		if isCycle(toks[i]) {
			return nil, fmt.Errorf("%w: cycles %s without a rotor", cryptors.ErrInvalidConfiguration, toks[i])
		}
		if i+1 >= len(toks) || isCycle(toks[i+1]) {
			return nil, fmt.Errorf("%w: bad rotor description for %s", cryptors.ErrInvalidConfiguration, toks[i])
		}

		kind := []rune(toks[i+1])
		w := RotorDescription{
			Name:    strings.ToUpper(toks[i]),
			Type:    string(kind[:1]),
			Notches: string(kind[1:]),
		}
		var cycles []string
		for i += 2; i < len(toks) && isCycle(toks[i]); i++ {
			cycles = append(cycles, toks[i])
		}
		w.Cycles = strings.Join(cycles, " ")
		d.Wheels = append(d.Wheels, w)
	}

	return &d, nil
}

// ParseYAML reads a description in YAML form.
func ParseYAML(r io.Reader) (*Description, error) {
	var d Description
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if err == io.EOF {
			return nil, truncated("empty description")
		}
		return nil, fmt.Errorf("%w: %w", cryptors.ErrInvalidConfiguration, err)
	}
	for i := range d.Wheels {
		d.Wheels[i].Name = strings.ToUpper(d.Wheels[i].Name)
	}
	return &d, nil
}

// Build returns a machine built from the description.
func (d *Description) Build(opts ...machine.Option) (*machine.Machine, error) {
	alpha, err := alphabet.New(d.Alphabet)
	if err != nil {
		return nil, err
	}

	pool := make([]*rotor.Rotor, 0, len(d.Wheels))
	for _, w := range d.Wheels {
		r, err := w.build(alpha)
		if err != nil {
			return nil, err
		}
		pool = append(pool, r)
	}

	return machine.New(alpha, d.Rotors, d.Pawls, pool, opts...)
}

func (w RotorDescription) build(alpha *alphabet.Alphabet) (*rotor.Rotor, error) {
	perm, err := permutator.New(w.Cycles, alpha)
	if err != nil {
		return nil, fmt.Errorf("rotor %s: %w", w.Name, err)
	}

	switch strings.ToUpper(w.Type) {
	case "M":
		return rotor.NewMoving(w.Name, perm, w.Notches)
	case "N":
		if w.Notches != "" {
			return nil, fmt.Errorf("%w: fixed rotor %s has notches", cryptors.ErrInvalidConfiguration, w.Name)
		}
		return rotor.NewFixed(w.Name, perm), nil
	case "R":
		if w.Notches != "" {
			return nil, fmt.Errorf("%w: reflector %s has notches", cryptors.ErrInvalidConfiguration, w.Name)
		}
		return rotor.NewReflector(w.Name, perm), nil
	default:
		return nil, fmt.Errorf("%w: rotor %s has unknown type %q", cryptors.ErrInvalidConfiguration, w.Name, w.Type)
	}
}

// String returns the description in text form.
func (d *Description) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%d %d\n", d.Alphabet, d.Rotors, d.Pawls)
	for _, w := range d.Wheels {
		fmt.Fprintf(&sb, " %s %s%s", w.Name, strings.ToUpper(w.Type), w.Notches)
		if w.Cycles != "" {
			fmt.Fprintf(&sb, " %s", w.Cycles)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func isCycle(tok string) bool {
	return strings.HasPrefix(tok, "(")
}

func truncated(what string) error {
	return fmt.Errorf("%w: configuration file truncated: %s", cryptors.ErrInvalidConfiguration, what)
}
