package bus

import (
	"fmt"
	"strings"
)

// SeedHistory primes the register history used to diff trace records.
// Call it with the machine's initial register file (after any
// compatibility script has been applied) so the first record does not
// report every register as changed.
func (b *Bus) SeedHistory(regs [32]uint64) {
	b.history = regs
}

// LogTrace emits one trace record and broadcasts a heartbeat. The
// kernel calls this on its own cadence, typically once per retired
// instruction.
//
// The record is the step count, pc and RAM checksum (dashes unless
// TraceChecksum is set), followed by only the registers whose value
// changed since the previous record, and optionally the disassembly of
// the instruction word at pc.
func (b *Bus) LogTrace(step uint32, pc uint64, regs *[32]uint64) {
	if b.TraceLog != nil {
		cksum := strings.Repeat("-", 32)
		if b.TraceChecksum {
			cksum = b.Checksum()
		}

		fmt.Fprintf(b.TraceLog, "%06d %08x %s\n", step, pc, cksum)

		const colWidth = 4
		col := 0
		fmt.Fprint(b.TraceLog, "\t\t")
		for i := range regs {
			if b.history[i] != regs[i] {
				fmt.Fprintf(b.TraceLog, "%d=%08x ", i, regs[i])

				col++
				if col == colWidth {
					fmt.Fprint(b.TraceLog, "\n\t\t")
					col = 0
				}
				b.history[i] = regs[i]
			}
		}
		fmt.Fprint(b.TraceLog, "\n")

		if b.Disasm != nil {
			instr := b.LoadWord(pc)
			fmt.Fprintf(b.TraceLog, "\t\t(%s)\n", b.Disasm(pc, instr))
		}
	}

	// Heartbeats fire whenever the kernel traces, whether or not a
	// trace log is being written. Devices rely on this for timing.
	for _, l := range b.beats {
		l.Heartbeat(step)
	}
}

// LogMsg appends one free-text kernel message to the debug log.
func (b *Bus) LogMsg(msg string) {
	if b.DebugLog != nil {
		fmt.Fprintln(b.DebugLog, msg)
	}
}

// Fatal reports a kernel-detected fatal condition through the bus's
// fault handler.
func (b *Bus) Fatal(msg string) {
	b.fatalf("%s", msg)
}
