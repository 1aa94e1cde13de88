// Package elf loads 64-bit little-endian RISC-V ELF executables for the
// rvsh simulated machine.
//
// An Image carries the entry point, the PT_LOAD segments (zero-padded to
// their in-memory size) and a name-keyed section lookup. The optional
// ".riscvsim" section holds a compatibility script of name=value
// directives that pre-seed register and program-counter state before a
// kernel starts executing.
package elf
