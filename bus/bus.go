package bus

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/rvsim/rvsh/elf"
)

// MMIOBase is the first address routed to device handlers instead of
// RAM. RAM must end below it.
const MMIOBase = 0x8000_0000

// The RISC-V EEI may permit misaligned loads and stores; this host does
// not.
const requireAlignment = true

// LoadHandler services an MMIO load at its registered address.
type LoadHandler func(addr uint64) uint64

// StoreHandler services an MMIO store at its registered address.
type StoreHandler func(addr uint64, value uint64)

// HeartbeatListener receives the current step count on every traced
// step. Used to drive time-based device behavior such as scripted
// console input.
type HeartbeatListener interface {
	Heartbeat(cycles uint32)
}

type mmioSlot struct {
	load  LoadHandler
	store StoreHandler
}

// Bus owns the simulated RAM and the MMIO registry. Configure the
// exported fields before handing the bus to a kernel; they must not
// change while the kernel runs.
type Bus struct {
	TraceLog      io.Writer // Trace records, one block per traced step. Nil disables.
	DebugLog      io.Writer // Kernel debug messages and hexdumps. Nil disables.
	TraceChecksum bool      // Include the whole-RAM checksum in every trace record (slow).

	// Disasm, when set, disassembles the instruction word at the traced
	// pc into each trace record.
	Disasm func(addr uint64, instr uint32) string

	// Fault handles fatal bus contract violations. The default prints
	// the diagnostic to stderr and exits; the host installs a handler
	// that runs the shutdown registry first. A handler that returns
	// leaves the triggering access as a no-op (loads yield 0).
	Fault func(msg string)

	ram     []byte
	mmio    map[uint64]mmioSlot
	beats   []HeartbeatListener
	history [32]uint64
}

// New creates a bus with size bytes of RAM. The size must be at least
// 4KB, a multiple of 4, and small enough to leave the MMIO space free.
func New(size int) (b *Bus, err error) {
	switch {
	case size < 0x1000:
		err = ErrMemTooSmall
	case size%4 != 0:
		err = ErrMemAlign
	case size >= MMIOBase:
		err = ErrMemLimit
	default:
		b = &Bus{
			ram:  make([]byte, size),
			mmio: map[uint64]mmioSlot{},
		}
	}

	return
}

// Size returns the RAM size in bytes.
func (b *Bus) Size() int {
	return len(b.ram)
}

func (b *Bus) fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if b.Fault != nil {
		b.Fault(msg)
		return
	}
	fmt.Fprintln(os.Stderr, "PANIC: "+msg)
	os.Exit(1)
}

// load dispatches a load of width bytes. A fault leaves the value 0.
func (b *Bus) load(addr uint64, width uint64, name string) (value uint64) {
	if requireAlignment && addr%width != 0 {
		b.fatalf("misaligned load %s @ %016x", name, addr)
		return
	}

	if addr >= MMIOBase {
		slot, ok := b.mmio[addr]
		if !ok {
			b.fatalf("unimplemented MMIO load %s from %#x", name, addr)
			return
		}
		return slot.load(addr)
	}

	if addr+width > uint64(len(b.ram)) {
		b.fatalf("out-of-RAM load %s @ %016x", name, addr)
		return
	}
	for i := uint64(0); i < width; i++ {
		value |= uint64(b.ram[addr+i]) << (8 * i)
	}
	return
}

// store dispatches a store of width bytes. A fault mutates nothing.
func (b *Bus) store(addr uint64, width uint64, name string, value uint64) {
	if requireAlignment && addr%width != 0 {
		b.fatalf("misaligned store %s @ %016x", name, addr)
		return
	}

	if addr >= MMIOBase {
		slot, ok := b.mmio[addr]
		if !ok {
			b.fatalf("unimplemented MMIO store %s to %#x", name, addr)
			return
		}
		slot.store(addr, value)
		return
	}

	if addr+width > uint64(len(b.ram)) {
		b.fatalf("out-of-RAM store %s @ %016x", name, addr)
		return
	}
	for i := uint64(0); i < width; i++ {
		b.ram[addr+i] = byte(value >> (8 * i))
	}
}

// LoadDWord loads a 64-bit value.
func (b *Bus) LoadDWord(addr uint64) uint64 {
	return b.load(addr, 8, "dword")
}

// StoreDWord stores a 64-bit value.
func (b *Bus) StoreDWord(addr uint64, value uint64) {
	b.store(addr, 8, "dword", value)
}

// LoadWord loads a 32-bit value.
func (b *Bus) LoadWord(addr uint64) uint32 {
	return uint32(b.load(addr, 4, "word"))
}

// StoreWord stores a 32-bit value.
func (b *Bus) StoreWord(addr uint64, value uint32) {
	b.store(addr, 4, "word", uint64(value))
}

// LoadHWord loads a 16-bit value.
func (b *Bus) LoadHWord(addr uint64) uint16 {
	return uint16(b.load(addr, 2, "hword"))
}

// StoreHWord stores a 16-bit value.
func (b *Bus) StoreHWord(addr uint64, value uint16) {
	b.store(addr, 2, "hword", uint64(value))
}

// LoadByte loads an 8-bit value.
func (b *Bus) LoadByte(addr uint64) uint8 {
	return uint8(b.load(addr, 1, "byte"))
}

// StoreByte stores an 8-bit value.
func (b *Bus) StoreByte(addr uint64, value uint8) {
	b.store(addr, 1, "byte", uint64(value))
}

// RegisterMMIO installs a load/store handler pair at MMIOBase+offset.
// A nil handler defaults to a no-op: loads return 0, stores are
// dropped. Registration happens once per device, before execution.
func (b *Bus) RegisterMMIO(offset uint64, onLoad LoadHandler, onStore StoreHandler) {
	if onLoad == nil {
		onLoad = func(uint64) uint64 { return 0 }
	}
	if onStore == nil {
		onStore = func(uint64, uint64) {}
	}
	b.mmio[MMIOBase+offset] = mmioSlot{load: onLoad, store: onStore}
}

// RegisterHeartbeat adds a listener notified, synchronously and in
// registration order, with the step count of every traced step.
func (b *Bus) RegisterHeartbeat(l HeartbeatListener) {
	b.beats = append(b.beats, l)
}

// Checksum returns the md5 digest of all RAM as a hex string. RAM holds
// the simulated machine's little-endian byte order directly, so the
// digest is reproducible across hosts.
func (b *Bus) Checksum() string {
	return fmt.Sprintf("%x", md5.Sum(b.ram))
}

// LoadImage copies every loadable segment of img into RAM.
func (b *Bus) LoadImage(img *elf.Image) (err error) {
	ramLen := uint64(len(b.ram))
	for seg := range img.Segments() {
		// Addr+len may wrap for hostile vaddrs near 2^64, so compare
		// against the remaining room instead.
		if seg.Addr > ramLen || uint64(len(seg.Data)) > ramLen-seg.Addr {
			err = ErrSegmentBounds{Addr: seg.Addr, Size: len(seg.Data)}
			return
		}
		copy(b.ram[seg.Addr:], seg.Data)
	}

	return
}

// Hexdump writes a classic hexdump of RAM [start, start+length) to the
// debug log.
func (b *Bus) Hexdump(start uint64, length int) {
	if b.DebugLog == nil {
		return
	}

	end := min(start+uint64(length), uint64(len(b.ram)))
	for line := start; line < end; line += 16 {
		fmt.Fprintf(b.DebugLog, "%08x ", line)

		ascii := make([]byte, 0, 16)
		for i := line; i < line+16; i++ {
			if i%8 == 0 {
				fmt.Fprint(b.DebugLog, " ")
			}
			if i >= end {
				fmt.Fprint(b.DebugLog, "   ")
				continue
			}
			c := b.ram[i]
			fmt.Fprintf(b.DebugLog, "%02x ", c)
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			ascii = append(ascii, c)
		}

		fmt.Fprintf(b.DebugLog, " |%s|\n", ascii)
	}
}

// ReadRAM copies RAM [addr, addr+len(dst)) into dst. Debugging aid, not
// part of the kernel-facing contract.
func (b *Bus) ReadRAM(addr uint64, dst []byte) {
	copy(dst, b.ram[addr:])
}
