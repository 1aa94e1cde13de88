package host

import (
	"errors"

	"github.com/rvsim/rvsh/translate"
)

var f = translate.From

var (
	ErrNoAPI    = errors.New(f("no API version reported"))
	ErrNoAuthor = errors.New(f("no author reported"))
)

// ErrAPIVersion reports an unsupported kernel API version.
type ErrAPIVersion string

func (e ErrAPIVersion) Error() string {
	return f("unsupported API version %s", string(e))
}

// ErrMemSize reports an unparseable memory-size expression.
type ErrMemSize string

func (e ErrMemSize) Error() string {
	return f("bad memory size %q", string(e))
}
