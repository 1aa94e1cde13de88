package kernel

import (
	"errors"

	"github.com/rvsim/rvsh/translate"
)

var f = translate.From

var (
	// Sanity-check failures for mockup kernels.
	ErrInitConfig      = errors.New(f("config flags not zeroed by init"))
	ErrInitRegisters   = errors.New(f("registers not zeroed by init"))
	ErrInitStats       = errors.New(f("instruction count not reset by init"))
	ErrInitMessage     = errors.New(f("missing 'CPU initialized' log message"))
	ErrConfigRoundTrip = errors.New(f("config set/get mismatch"))
	ErrZeroRegister    = errors.New(f("x0 is not hard-wired to zero"))
	ErrRegRoundTrip    = errors.New(f("register set/get mismatch"))
	ErrPCRoundTrip     = errors.New(f("pc set/get mismatch"))
	ErrRunCount        = errors.New(f("run did not advance the instruction count"))
)
