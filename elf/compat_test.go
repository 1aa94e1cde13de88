package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMachine struct {
	regs  [32]uint64
	pc    uint64
	pcSet bool
	order []Directive
}

func (m *fakeMachine) RegSet(index int, value uint64) {
	m.regs[index] = value
	m.order = append(m.order, Directive{Reg: index, Value: value})
}

func (m *fakeMachine) PCSet(value uint64) {
	m.pc = value
	m.pcSet = true
}

func TestCompatApply(t *testing.T) {
	assert := assert.New(t)

	script, err := ParseCompat([]byte("sp=0x1000 a0=42 gp=0o17"), 0x8000)
	require.NoError(t, err)

	m := &fakeMachine{}
	script.Apply(m)

	assert.Equal(uint64(0x1000), m.regs[2])
	assert.Equal(uint64(42), m.regs[10])
	assert.Equal(uint64(0o17), m.regs[3])
	assert.False(m.pcSet, "no pc directive, pc untouched")
}

func TestCompatEntry(t *testing.T) {
	assert := assert.New(t)

	// "entry" resolves at parse time, to the entry address supplied.
	script, err := ParseCompat([]byte("pc=entry ra=entry"), 0x1234)
	require.NoError(t, err)

	m := &fakeMachine{}
	script.Apply(m)

	assert.True(m.pcSet)
	assert.Equal(uint64(0x1234), m.pc)
	assert.Equal(uint64(0x1234), m.regs[1])
}

func TestCompatOrder(t *testing.T) {
	assert := assert.New(t)

	// Duplicate directives apply in file order; the last one wins.
	script, err := ParseCompat([]byte("t0=1 t0=2 t0=3"), 0)
	require.NoError(t, err)

	m := &fakeMachine{}
	script.Apply(m)

	assert.Equal(uint64(3), m.regs[5])
	assert.Len(m.order, 3)
	assert.Equal(uint64(1), m.order[0].Value)
	assert.Equal(uint64(2), m.order[1].Value)
}

func TestCompatCaseInsensitive(t *testing.T) {
	assert := assert.New(t)

	script, err := ParseCompat([]byte("SP=0X20\nPC=ENTRY"), 0x40)
	require.NoError(t, err)

	m := &fakeMachine{}
	script.Apply(m)

	assert.Equal(uint64(0x20), m.regs[2])
	assert.Equal(uint64(0x40), m.pc)
}

func TestCompatErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseCompat([]byte("bogus=1"), 0)
	assert.ErrorIs(err, ErrUnknownRegister("bogus"))

	_, err = ParseCompat([]byte("sp=notanumber"), 0)
	assert.ErrorIs(err, ErrBadValue("notanumber"))

	_, err = ParseCompat([]byte("lonely"), 0)
	assert.ErrorIs(err, ErrDirectiveSyntax("lonely"))
}

func TestCompatEmpty(t *testing.T) {
	assert := assert.New(t)

	script, err := ParseCompat(nil, 0)
	require.NoError(t, err)

	m := &fakeMachine{}
	script.Apply(m)
	assert.False(m.pcSet)
	assert.Empty(m.order)
}
