// Package native loads a CPU-simulation kernel from a shared library
// and adapts its C entry points to the kernel interface. The library
// is opened with dlopen and its rsk_* symbols are bound with purego,
// so no cgo is involved.
//
// The host-services table handed to the kernel is a struct of C
// function pointers backed by Go callbacks. The table is built once
// per module and reused across re-initializations, since callbacks
// cannot be released.
package native
