// Package host assembles a working machine out of the memory bus, the
// serial console and a loaded kernel, and drives it: metadata
// validation, image loading, CPU setup from the embedded compat
// script, the timed run, and the closing performance report.
package host
