// Package stream runs a message stream through a machine.  The stream is a
// sequence of lines: a settings line starting with '*' sets up a session,
// the lines after it are messages converted under that session until the
// next settings line.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
)

// Processor converts message streams on one machine.
type Processor struct {
	m          *machine.Machine
	log        *slog.Logger
	group      int
	configured bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger.  A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithGroupSize sets the number of letters per output block.  Sizes below
// one leave the default.
func WithGroupSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.group = n
		}
	}
}

// New returns a processor for m.
func New(m *machine.Machine, opts ...Option) *Processor {
	p := Processor{
		m:     m,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		group: cryptors.DefaultGroupSize,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return &p
}

// SetUp starts a new session from a settings line.  A stream processed
// after a successful SetUp need not start with a settings line.
func (p *Processor) SetUp(line string) error {
	s, err := ParseSettings(line, p.m.NumRotors())
	if err != nil {
		return err
	}
	if err := s.Apply(p.m); err != nil {
		return err
	}
	p.configured = true
	p.log.Debug("session", "rotors", strings.Join(s.Rotors, " "), "plugboard", s.Plugboard)
	return nil
}

// Process reads the stream from r and writes the converted messages to w.
// Blank lines are copied as blank lines, and a message line containing a
// '*' gives an empty line.  A line starting with '*' starts a new session
// unless nothing but blank lines follows it, in which case it is a message
// line too.  The first error stops processing; the lines converted before
// it have been written.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	out := bufio.NewWriter(w)
	err := p.process(r, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func (p *Processor) process(r io.Reader, out *bufio.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	lineNo := 0

	// A session line waits for the next non-blank line before it is applied.
	var pending string
	pendingNo, blanks := 0, 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		blank := strings.TrimSpace(line) == ""

		if !p.configured {
			switch {
			case blank:
				continue
			case !IsSettings(line):
				return fmt.Errorf("line %d: %w: no setting found", lineNo, cryptors.ErrInvalidConfiguration)
			}
			if err := p.SetUp(line); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		if pendingNo > 0 {
			if blank {
				blanks++
				continue
			}
			if err := p.SetUp(pending); err != nil {
				return fmt.Errorf("line %d: %w", pendingNo, err)
			}
			out.WriteString(strings.Repeat("\n", blanks))
			pendingNo, blanks = 0, 0
		}

		switch {
		case startsSession(line):
			pending, pendingNo = line, lineNo
		case blank:
			out.WriteString("\n")
		case strings.Contains(line, "*"):
			p.log.Debug("message line contains '*', writing an empty line", "line", lineNo)
			out.WriteString("\n")
		default:
			msg, err := p.m.Convert(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			p.log.Debug("converted", "line", lineNo, "symbols", len([]rune(msg)), "positions", p.m.Positions())
			out.WriteString(Group(msg, p.group))
			out.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("line %d: %w", lineNo+1, err)
	}

	if pendingNo > 0 {
		p.log.Debug("settings line at end of input, writing an empty line", "line", pendingNo)
		out.WriteString("\n" + strings.Repeat("\n", blanks))
	}
	return nil
}

// Group returns msg without spaces, in blocks of size symbols separated by
// single spaces.  The last block may be shorter.
func Group(msg string, size int) string {
	var sb strings.Builder
	n := 0
	for _, r := range msg {
		if r == cryptors.SpaceSymbol {
			continue
		}
		if n > 0 && n%size == 0 {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
		n++
	}
	return sb.String()
}
