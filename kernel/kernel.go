// Package kernel defines the boundary between the rvsh host and an
// opaque CPU-simulation kernel: the operations a loaded kernel must
// provide, the host services it calls back into, and the capability
// metadata it reports.
//
// Nothing in this package knows how a kernel is loaded; see the native
// subpackage for the dynamic-library binding.
package kernel

// Config is the kernel configuration bitflag set.
type Config uint32

const (
	ConfigNothing  Config = 0x00000000
	ConfigTraceLog Config = 0x00000001 // Trace every retired instruction.
	ConfigMPU      Config = 0x00000002 // Memory protection, if implemented.
	ConfigCache    Config = 0x00000004 // Memory cache, if implemented.
)

// Signal is an external event delivered to a running kernel.
type Signal int32

const (
	SignalHalt Signal = iota // Stop execution.
	SignalIRQ                // Input available; raise an interrupt.
)

// Stats is the performance-counter snapshot a kernel publishes.
type Stats struct {
	Instructions uint32
	Loads        uint32
	Stores       uint32
	LoadMisses   uint32
	StoreMisses  uint32
}

// HostServices is the callback surface the host exposes to a kernel:
// every memory access of every width, plus tracing, debug logging and
// fatal abort. The bus satisfies this.
type HostServices interface {
	LoadDWord(addr uint64) uint64
	StoreDWord(addr uint64, value uint64)
	LoadWord(addr uint64) uint32
	StoreWord(addr uint64, value uint32)
	LoadHWord(addr uint64) uint16
	StoreHWord(addr uint64, value uint16)
	LoadByte(addr uint64) uint8
	StoreByte(addr uint64, value uint8)

	// LogTrace is called on the kernel's cadence, typically once per
	// retired instruction, when tracing is configured.
	LogTrace(step uint32, pc uint64, regs *[32]uint64)

	// LogMsg logs one free-text debug message.
	LogMsg(msg string)

	// Fatal aborts the simulation; it does not return control to the
	// kernel in any recoverable way.
	Fatal(msg string)
}

// Kernel is a loaded CPU-simulation kernel.
type Kernel interface {
	// Info returns the kernel's capability metadata.
	Info() Info

	// Init resets the CPU to its zero state and binds it to the host.
	Init(hs HostServices)

	ConfigGet() Config
	ConfigSet(Config)

	RegGet(index int) uint64
	RegSet(index int, value uint64)
	PCGet() uint64
	PCSet(value uint64)

	// Running reports whether the CPU has not halted.
	Running() bool

	// Run executes cycles instructions, or runs to EBREAK when cycles
	// is 0. Returns the number of instructions executed.
	Run(cycles int) int

	// Signal delivers an external event; safe to call from any thread.
	Signal(Signal)

	Stats() Stats

	// Disasm disassembles one instruction word, reporting false when
	// the kernel lacks the disasm capability.
	Disasm(addr uint64, instr uint32) (string, bool)
}
