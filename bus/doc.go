// Package bus implements the memory system of the rvsh simulated
// machine: a flat little-endian RAM below the MMIO base, an MMIO slot
// table at and above it, natural-alignment enforcement, the trace log
// with register diffing, and the heartbeat broadcast that drives
// cycle-based device behavior.
//
// The bus is the single arbiter of every memory-shaped access a loaded
// kernel performs. A kernel access that violates the bus contract
// (misaligned, out of RAM, unimplemented MMIO) is not a recoverable
// error: it routes to the Fault handler, which by default prints the
// diagnostic and terminates the process.
package bus
