package console

import (
	"io"
	"sync"

	"github.com/rvsim/rvsh/bus"
)

// MMIO port offsets from the bus MMIO base.
const (
	WritePort = 0x0 // Output port, store only.
	ReadPort  = 0x4 // Input port, load only.
)

// Console is the single-port serial device. Construct with
// NewInteractive or NewPlayback, then Attach it to a bus.
//
// A load of the input port pops one pending byte, or 0 when none is
// pending; 0 is reserved as "no data", so a literal NUL cannot be
// transmitted through this channel.
type Console struct {
	mu    sync.Mutex
	queue []byte

	sink   io.Writer
	notify func()

	playback bool
	events   []Event
	next     int

	reader *inputReader
}

// NewInteractive creates a console fed by the real terminal. A
// background reader polls stdin and pushes every received byte; notify,
// if non-nil, is invoked from that reader whenever new input arrived,
// so it must be safe to call off the simulation thread.
func NewInteractive(sink io.Writer, notify func()) (c *Console, err error) {
	c = &Console{sink: sink, notify: notify}

	c.reader, err = startInputReader(c)
	if err != nil {
		c = nil
	}
	return
}

// NewPlayback creates a console fed by a playback script read from r.
// The script is parsed up front; delivery happens on heartbeats.
func NewPlayback(r io.Reader, sink io.Writer, notify func()) (c *Console, err error) {
	events, err := ParsePlayback(r)
	if err != nil {
		return
	}

	c = &Console{
		sink:     sink,
		notify:   notify,
		playback: true,
		events:   events,
	}
	return
}

// Attach registers the console's MMIO ports and heartbeat listener on
// the bus.
func (c *Console) Attach(b *bus.Bus) {
	b.RegisterMMIO(ReadPort, c.portLoad, nil)
	b.RegisterMMIO(WritePort, nil, c.portStore)
	b.RegisterHeartbeat(c)
}

// Close halts the background reader, if any, restoring the terminal
// state. Bounded: the reader is given one poll interval to notice.
func (c *Console) Close() error {
	if c.reader != nil {
		c.reader.halt()
	}
	return nil
}

// Heartbeat delivers pending playback events. Every event whose
// trigger is at or below the cycle count is pushed, in file order, and
// notify fires once if anything was delivered. Interactive consoles
// ignore heartbeats.
func (c *Console) Heartbeat(cycles uint32) {
	if !c.playback {
		return
	}

	delivered := false
	for c.next < len(c.events) && c.events[c.next].Trigger <= uint64(cycles) {
		for _, b := range c.events[c.next].Data {
			c.push(b)
		}
		delivered = true
		c.next++
	}

	if delivered {
		c.notifyInput()
	}
}

// portLoad pops one pending input byte, or 0 when the queue is empty.
// Never blocks.
func (c *Console) portLoad(addr uint64) uint64 {
	b, ok := c.pop()
	if !ok {
		return 0
	}
	return uint64(b)
}

// portStore emits one output byte. The simulated machine sends
// carriage returns at end of line; the sink wants line feeds. Output is
// flushed per byte so its ordering against trace and debug logs is
// exact.
func (c *Console) portStore(addr uint64, value uint64) {
	// The CR test is on the full stored value; 0x10D truncates to CR
	// but is not one.
	b := byte(value)
	if value == 13 {
		b = '\n'
	}

	c.sink.Write([]byte{b})
	if fl, ok := c.sink.(interface{ Flush() error }); ok {
		fl.Flush()
	}
}

// push appends one byte to the input queue. Safe from any thread.
func (c *Console) push(b byte) {
	c.mu.Lock()
	c.queue = append(c.queue, b)
	c.mu.Unlock()
}

// pop removes the oldest pending byte, reporting false when empty.
func (c *Console) pop() (b byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return
	}
	b = c.queue[0]
	c.queue = c.queue[1:]
	ok = true
	return
}

func (c *Console) notifyInput() {
	if c.notify != nil {
		c.notify()
	}
}
