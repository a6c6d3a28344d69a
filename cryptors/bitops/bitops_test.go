package bitops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	ary := New(26)
	assert.Len(t, ary, 4)
	SetBit(ary, 0)
	SetBit(ary, 16)
	SetBit(ary, 25)
	for i := uint(0); i < 26; i++ {
		assert.Equal(t, i == 0 || i == 16 || i == 25, GetBit(ary, i), "bit %d", i)
	}
	ClrBit(ary, 16)
	assert.False(t, GetBit(ary, 16))
	assert.True(t, GetBit(ary, 25))
	assert.Len(t, New(8), 1)
	assert.Len(t, New(0), 0)
}
