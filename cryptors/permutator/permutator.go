// permutator project permutator.go
package permutator

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/alphabet"
)

// Permutation is a permutation of the indices [0, Size()) of an alphabet,
// given in cycle notation.  Symbols not named in any cycle map to themselves.
type Permutation struct {
	alphabet *alphabet.Alphabet
	cycles   [][]int // The cycles as parsed, in order.
	forward  []int   // forward[i] is the image of index i.
	inverse  []int   // inverse[i] is the pre-image of index i.
}

// New parses cycles, a string in the form "(cccc) (cc) ..." where the c's
// are symbols of alpha, and returns the permutation it describes.
// Whitespace between cycles is ignored.
func New(cycles string, alpha *alphabet.Alphabet) (*Permutation, error) {
	groups, err := parseCycles(cycles)
	if err != nil {
		return nil, err
	}

	p := Identity(alpha)
	seen := make(map[rune]bool)
	for _, group := range groups {
		cycle := make([]int, len(group))
		for i, r := range group {
			if seen[r] {
				return nil, fmt.Errorf("%w: %q appears in more than one place in %q",
					cryptors.ErrInvalidConfiguration, r, cycles)
			}
			seen[r] = true
			idx, err := alpha.ToInt(r)
			if err != nil {
				return nil, fmt.Errorf("%w: cycle %q: %w", cryptors.ErrInvalidConfiguration, string(group), err)
			}
			cycle[i] = idx
		}

		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			p.forward[from] = to
			p.inverse[to] = from
		}
		p.cycles = append(p.cycles, cycle)
	}

	return p, nil
}

// Identity returns the permutation of alpha that maps every symbol to itself.
func Identity(alpha *alphabet.Alphabet) *Permutation {
	p := Permutation{
		alphabet: alpha,
		forward:  make([]int, alpha.Size()),
		inverse:  make([]int, alpha.Size()),
	}
	for i := range p.forward {
		p.forward[i] = i
		p.inverse[i] = i
	}
	return &p
}

// Size returns the size of the alphabet being permuted.
func (p *Permutation) Size() int {
	return p.alphabet.Size()
}

// Alphabet returns the alphabet the permutation was built on.
func (p *Permutation) Alphabet() *alphabet.Alphabet {
	return p.alphabet
}

// Wrap returns i modulo Size(), in the range [0, Size()).
func (p *Permutation) Wrap(i int) int {
	return cryptors.Wrap(i, p.Size())
}

// Permute applies the permutation to i modulo Size().
func (p *Permutation) Permute(i int) int {
	return p.forward[p.Wrap(i)]
}

// Invert applies the inverse permutation to i modulo Size().
func (p *Permutation) Invert(i int) int {
	return p.inverse[p.Wrap(i)]
}

// PermuteSymbol applies the permutation to r.  Symbols outside the
// alphabet are returned unchanged.
func (p *Permutation) PermuteSymbol(r rune) rune {
	i, err := p.alphabet.ToInt(r)
	if err != nil {
		return r
	}
	return p.alphabet.ToChar(p.forward[i])
}

// InvertSymbol applies the inverse permutation to r.  Symbols outside the
// alphabet are returned unchanged.
func (p *Permutation) InvertSymbol(r rune) rune {
	i, err := p.alphabet.ToInt(r)
	if err != nil {
		return r
	}
	return p.alphabet.ToChar(p.inverse[i])
}

// Derangement reports whether no symbol maps to itself.
func (p *Permutation) Derangement() bool {
	for i, v := range p.forward {
		if i == v {
			return false
		}
	}
	return true
}

// Cycles returns the cycles, as indices, in the order they were given.
func (p *Permutation) Cycles() [][]int {
	res := make([][]int, len(p.cycles))
	for i, c := range p.cycles {
		res[i] = append([]int(nil), c...)
	}
	return res
}

func (p *Permutation) Apply_F(c int) int {
	return p.Permute(c)
}

func (p *Permutation) Apply_G(c int) int {
	return p.Invert(c)
}

// String returns the permutation in cycle notation.
func (p *Permutation) String() string {
	var output bytes.Buffer
	for i, cycle := range p.cycles {
		if i > 0 {
			output.WriteString(" ")
		}
		output.WriteString("(")
		for _, v := range cycle {
			output.WriteRune(p.alphabet.ToChar(v))
		}
		output.WriteString(")")
	}
	return output.String()
}

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokSpace
	tokSymbols
)

type token struct {
	kind tokenKind
	text []rune
	pos  int // Rune offset of the token in the input.
}

// tokenize splits s into parentheses, whitespace runs and symbol runs.
func tokenize(s string) []token {
	var toks []token
	for pos, r := range []rune(s) {
		var kind tokenKind
		switch {
		case r == '(':
			kind = tokOpen
		case r == ')':
			kind = tokClose
		case unicode.IsSpace(r):
			kind = tokSpace
		default:
			kind = tokSymbols
		}

		last := len(toks) - 1
		if (kind == tokSpace || kind == tokSymbols) && last >= 0 && toks[last].kind == kind {
			toks[last].text = append(toks[last].text, r)
			continue
		}
		toks = append(toks, token{kind: kind, text: []rune{r}, pos: pos})
	}
	return toks
}

// parseCycles returns the symbol groups of a cycle notation string.
func parseCycles(s string) ([][]rune, error) {
	var (
		groups [][]rune
		group  []rune
		open   bool
	)

	for _, tok := range tokenize(s) {
		switch tok.kind {
		case tokOpen:
			if open {
				return nil, malformed(s, tok, "nested '('")
			}
			open, group = true, nil
		case tokClose:
			if !open {
				return nil, malformed(s, tok, "unbalanced ')'")
			}
			if len(group) == 0 {
				return nil, malformed(s, tok, "empty cycle")
			}
			groups = append(groups, group)
			open = false
		case tokSpace:
			if open {
				return nil, malformed(s, tok, "whitespace inside a cycle")
			}
		case tokSymbols:
			if !open {
				return nil, malformed(s, tok, "symbols outside a cycle")
			}
			group = append(group, tok.text...)
		}
	}

	if open {
		return nil, fmt.Errorf("%w: unterminated cycle in %q", cryptors.ErrInvalidConfiguration, s)
	}
	return groups, nil
}

func malformed(s string, tok token, why string) error {
	return fmt.Errorf("%w: %s at offset %d in %q", cryptors.ErrInvalidConfiguration, why, tok.pos, s)
}
