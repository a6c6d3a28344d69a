package stream

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/bgallie/enigma/config"
	"github.com/bgallie/enigma/cryptors"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T) *machine.Machine {
	m, err := config.Default().Build()
	require.NoError(t, err)
	return m
}

func process(t *testing.T, m *machine.Machine, input string, opts ...Option) (string, error) {
	var out bytes.Buffer
	err := New(m, opts...).Process(strings.NewReader(input), &out)
	return out.String(), err
}

func TestGroup(t *testing.T) {
	assert.Equal(t, "", Group("", 5))
	assert.Equal(t, "ABC", Group("ABC", 5))
	assert.Equal(t, "ABCDE", Group("ABCDE", 5))
	assert.Equal(t, "ABCDE F", Group("ABCDEF", 5))
	assert.Equal(t, "ABCDE FGHIJ KL", Group("AB CDE FGH IJKL", 5))
	assert.Equal(t, "ABC DEF G", Group("ABCDEFG", 3))
}

func TestProcessReferenceVector(t *testing.T) {
	m := newMachine(t)
	out, err := process(t, m, "* B Beta I II III AAAA\nAAAAA\n* B Beta I II III AAAA\nHELLO WORLD\n")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO\nILBDA AMTAZ\n", out)
}

func TestProcessRoundTrip(t *testing.T) {
	settings := "* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)\n"
	plain := "FROM HIS SHOULDER HIAWATHA\nTOOK THE CAMERA OF ROSEWOOD\n\nMADE OF SLIDING FOLDING ROSEWOOD\n"

	cipher, err := process(t, newMachine(t), settings+plain)
	require.NoError(t, err)
	lines := strings.Split(cipher, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "QVPQS OKOIL PUBKJ ZPISF XDW", lines[0])

	back, err := process(t, newMachine(t), settings+cipher)
	require.NoError(t, err)
	want := "FROMH ISSHO ULDER HIAWA THA\nTOOKT HECAM ERAOF ROSEW OOD\n\nMADEO FSLID INGFO LDING ROSEW OOD\n"
	assert.Equal(t, want, back)
}

func TestProcessNewSessionResetsMachine(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\nAAAAA\n* B Beta I II III AAAA\nAAAAA\n")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO\nBDZGO\n", out)
}

func TestProcessRingSettings(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA ABBB\nAAAAA\n")
	require.NoError(t, err)
	assert.Equal(t, "EWTYX\n", out)
}

func TestProcessStarInMessageGivesEmptyLine(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\nAA*AA\nAAAAA\n")
	require.NoError(t, err)
	assert.Equal(t, "\nBDZGO\n", out)
}

func TestProcessIndentedStarIsAMessageLine(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\n  *STARRED\nAAAAA\n")
	require.NoError(t, err)
	assert.Equal(t, "\nBDZGO\n", out)
}

func TestProcessSettingsLineAtEndOfInput(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\nAAAAA\n* B Beta I II IX AAAA\n\n")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO\n\n\n", out)

	out, err = process(t, newMachine(t), "* B Beta I II III AAAA\nAAAAA\n* B Beta I II III AAAA")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO\n\n", out)
}

func TestProcessBlankLinesAfterSettings(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\nAAAAA\n* B Beta I II III AAAA\n\n\nAAAAA\n")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO\n\n\nBDZGO\n", out)
}

func TestProcessLongLine(t *testing.T) {
	const n = 70000
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\n"+strings.Repeat("A", n)+"\n")
	require.NoError(t, err)
	assert.Len(t, out, n+n/5-1+1)
	assert.True(t, strings.HasPrefix(out, "BDZGO WCXLT "))
}

func TestSetUpBeforeProcess(t *testing.T) {
	p := New(newMachine(t))
	require.NoError(t, p.SetUp("* B Beta I II III AAAA"))
	var out bytes.Buffer
	require.NoError(t, p.Process(strings.NewReader("\nAAAAA\n"), &out))
	assert.Equal(t, "\nBDZGO\n", out.String())

	require.ErrorIs(t, New(newMachine(t)).SetUp("* B Beta I II"), cryptors.ErrInvalidConfiguration)
}

func TestProcessSkipsLeadingBlankLines(t *testing.T) {
	out, err := process(t, newMachine(t), "\n\n* B Beta I II III AAAA\r\nAAAAA\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO\n\n", out)
}

func TestProcessGroupSize(t *testing.T) {
	out, err := process(t, newMachine(t), "* B Beta I II III AAAA\nAAAAA\n", WithGroupSize(2), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, "BD ZG O\n", out)
}

func TestProcessLogs(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := process(t, newMachine(t), "* B Beta I II III AAAA\nAAAAA\n", WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "msg=session")
	assert.Contains(t, logs.String(), "positions=AAAF")
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
		out   string
	}{
		{"no settings", "AAAAA\n", cryptors.ErrInvalidConfiguration, ""},
		{"unknown rotor", "* B Beta I II IX AAAA\n", cryptors.ErrInvalidConfiguration, ""},
		{"short settings", "* B Beta I II III AAA\n", cryptors.ErrInvalidConfiguration, ""},
		{"bad symbol", "* B Beta I II III AAAA\nAAAAA\nAAa\n", cryptors.ErrInvalidSymbol, "BDZGO\n"},
		{"bad plugboard", "* B Beta I II III AAAA (ABC)\n", cryptors.ErrInvalidConfiguration, ""},
		{"bad second session", "* B Beta I II III AAAA\nAAAAA\n* B Beta I II IX AAAA\nAAAAA\n", cryptors.ErrInvalidConfiguration, "BDZGO\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := process(t, newMachine(t), tt.input)
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings("* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "Beta", "III", "IV", "I"}, s.Rotors)
	assert.Equal(t, "AXLE", s.Positions)
	assert.Empty(t, s.Rings)
	assert.Equal(t, "(HQ) (EX) (IP) (TR) (BY)", s.Plugboard)
	assert.Equal(t, "* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)", s.String())

	s, err = ParseSettings("*B Beta III IV I AXLE BBBB", 5)
	require.NoError(t, err)
	assert.Equal(t, "B", s.Rotors[0])
	assert.Equal(t, "BBBB", s.Rings)
	assert.Empty(t, s.Plugboard)
}

func TestParseSettingsErrors(t *testing.T) {
	for _, line := range []string{
		"B Beta III IV I AXLE",
		"",
		"* B Beta III IV",
		"* B Beta III IV I",
		"* B Beta III IV I (AB)",
		"* B Beta III IV I AXLE AAAA BBBB",
		"* B Beta III IV I AXLE (AB) CD",
	} {
		_, err := ParseSettings(line, 5)
		assert.ErrorIs(t, err, cryptors.ErrInvalidConfiguration, line)
	}
}
