package bus

import (
	"errors"

	"github.com/rvsim/rvsh/translate"
)

var f = translate.From

var (
	// RAM sizing errors
	ErrMemTooSmall = errors.New(f("memory must be at least 4KB"))
	ErrMemAlign    = errors.New(f("memory size must be a multiple of 4"))
	ErrMemLimit    = errors.New(f("memory overlaps the MMIO space"))
)

// ErrSegmentBounds names an image segment that does not fit in RAM.
type ErrSegmentBounds struct {
	Addr uint64
	Size int
}

func (err ErrSegmentBounds) Error() string {
	return f("segment of %v bytes at %#x does not fit in RAM", err.Size, err.Addr)
}
