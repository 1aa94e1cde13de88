package native

import (
	"errors"

	"github.com/rvsim/rvsh/translate"
)

var f = translate.From

var (
	ErrOpen        = errors.New(f("cannot open kernel library"))
	ErrUnsupported = errors.New(f("kernel loading is not supported on this platform"))
)

// ErrSymbol reports a mandatory rsk_* entry point the library does
// not export.
type ErrSymbol string

func (e ErrSymbol) Error() string {
	return f("kernel library is missing symbol %s", string(e))
}
