package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvsim/rvsh/bus"
)

func TestOutputPort(t *testing.T) {
	assert := assert.New(t)

	sink := &bytes.Buffer{}
	c := &Console{sink: sink}

	c.portStore(bus.MMIOBase+WritePort, 'h')
	c.portStore(bus.MMIOBase+WritePort, 'i')
	c.portStore(bus.MMIOBase+WritePort, 13)

	assert.Equal("hi\n", sink.String(), "carriage return becomes line feed")

	// Only the low byte matters.
	c.portStore(bus.MMIOBase+WritePort, 0x141)
	assert.Equal("hi\nA", sink.String())

	// A wide value whose low byte happens to be CR is not a CR.
	c.portStore(bus.MMIOBase+WritePort, 0x10d)
	assert.Equal("hi\nA\r", sink.String())
}

func TestInputPortEmpty(t *testing.T) {
	assert := assert.New(t)

	c := &Console{}

	// Empty queue reads as 0 and never blocks.
	assert.Equal(uint64(0), c.portLoad(bus.MMIOBase+ReadPort))

	c.push('x')
	assert.Equal(uint64('x'), c.portLoad(bus.MMIOBase+ReadPort))
	assert.Equal(uint64(0), c.portLoad(bus.MMIOBase+ReadPort))
}

func TestQueueOrder(t *testing.T) {
	assert := assert.New(t)

	c := &Console{}
	for _, b := range []byte("abc") {
		c.push(b)
	}

	var got []byte
	for {
		b, ok := c.pop()
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert.Equal([]byte("abc"), got)
}

func TestAttach(t *testing.T) {
	assert := assert.New(t)

	b, err := bus.New(0x1000)
	require.NoError(t, err)
	faults := 0
	b.Fault = func(string) { faults++ }

	sink := &bytes.Buffer{}
	c, err := NewPlayback(strings.NewReader("0 ok"), sink, nil)
	require.NoError(t, err)
	c.Attach(b)

	// The read port ignores stores, the write port ignores loads.
	assert.Equal(uint32(0), b.LoadWord(bus.MMIOBase+WritePort))
	b.StoreWord(bus.MMIOBase+ReadPort, 1)
	assert.Zero(faults)

	// Heartbeat delivery flows through the bus trace path.
	var regs [32]uint64
	b.LogTrace(0, 0, &regs)
	assert.Equal(uint32('o'), b.LoadWord(bus.MMIOBase+ReadPort))
	assert.Equal(uint32('k'), b.LoadWord(bus.MMIOBase+ReadPort))
	assert.Equal(uint32(0), b.LoadWord(bus.MMIOBase+ReadPort))

	b.StoreWord(bus.MMIOBase+WritePort, 'y')
	assert.Equal("y", sink.String())
}

func TestHeartbeatDelivery(t *testing.T) {
	assert := assert.New(t)

	notified := 0
	c, err := NewPlayback(strings.NewReader("0 hi\n1 \\x01\n5 z"), nil, func() { notified++ })
	require.NoError(t, err)

	c.Heartbeat(0)
	assert.Equal(1, notified, "one notification per delivering heartbeat")
	b1, _ := c.pop()
	b2, _ := c.pop()
	assert.Equal(byte('h'), b1)
	assert.Equal(byte('i'), b2)
	_, ok := c.pop()
	assert.False(ok, "trigger 1 not due yet")

	// A heartbeat past several triggers delivers all pending events in
	// order.
	c.Heartbeat(10)
	assert.Equal(2, notified)
	var got []byte
	for {
		b, ok := c.pop()
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert.Equal([]byte{0x01, 'z'}, got)

	// Nothing left: heartbeats deliver nothing and do not notify.
	c.Heartbeat(100)
	assert.Equal(2, notified)
}

func TestHeartbeatInteractiveNoop(t *testing.T) {
	assert := assert.New(t)

	notified := 0
	c := &Console{notify: func() { notified++ }}

	c.Heartbeat(5)
	assert.Zero(notified)
	_, ok := c.pop()
	assert.False(ok)
}
