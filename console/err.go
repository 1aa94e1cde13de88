package console

import (
	"errors"

	"github.com/rvsim/rvsh/translate"
)

var f = translate.From

var (
	// ErrClockBackwards indicates a playback trigger that does not
	// increase.
	ErrClockBackwards = errors.New(f("cannot run the clock backwards"))

	// ErrUnsupported indicates the platform has no interactive console
	// support.
	ErrUnsupported = errors.New(f("interactive console not supported on this platform"))
)

// ErrPlaybackText names a TEXT field that is not a backslash-escaped
// ASCII string.
type ErrPlaybackText string

func (err ErrPlaybackText) Error() string {
	return f("'%v' is not an escaped ASCII string", string(err))
}

// ErrBadTrigger names a trigger field that is not an unsigned integer.
type ErrBadTrigger string

func (err ErrBadTrigger) Error() string {
	return f("'%v' is not a cycle count", string(err))
}

// ErrPlaybackLine locates a playback-script parse failure.
type ErrPlaybackLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrPlaybackLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrPlaybackLine) Unwrap() error {
	return err.Err
}
