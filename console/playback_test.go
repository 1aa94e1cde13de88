package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayback(t *testing.T) {
	assert := assert.New(t)

	events, err := ParsePlayback(strings.NewReader("0 hi\n1 \\x01\n100 bye"))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(uint64(0), events[0].Trigger)
	assert.Equal([]byte("hi"), events[0].Data)
	assert.Equal(uint64(1), events[1].Trigger)
	assert.Equal([]byte{0x01}, events[1].Data)
	assert.Equal(uint64(100), events[2].Trigger)
	assert.Equal([]byte("bye"), events[2].Data)
}

func TestParsePlaybackImplicit(t *testing.T) {
	assert := assert.New(t)

	// A line starting with whitespace takes the previous trigger plus
	// one, or 0 when it is the first line.
	events, err := ParsePlayback(strings.NewReader("  first\n10 second\n\tthird"))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(uint64(0), events[0].Trigger)
	assert.Equal([]byte("first"), events[0].Data)
	assert.Equal(uint64(10), events[1].Trigger)
	assert.Equal(uint64(11), events[2].Trigger)
	assert.Equal([]byte("third"), events[2].Data)
}

func TestParsePlaybackBases(t *testing.T) {
	assert := assert.New(t)

	events, err := ParsePlayback(strings.NewReader("0x10 a\n0o40 b\n100 c"))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(uint64(16), events[0].Trigger)
	assert.Equal(uint64(32), events[1].Trigger)
	assert.Equal(uint64(100), events[2].Trigger)
}

func TestParsePlaybackEscapes(t *testing.T) {
	assert := assert.New(t)

	events, err := ParsePlayback(strings.NewReader(`0 line\r\nnext\ttab`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal([]byte("line\r\nnext\ttab"), events[0].Data)
}

func TestParsePlaybackBackwards(t *testing.T) {
	assert := assert.New(t)

	// A non-increasing explicit trigger is rejected at load time.
	_, err := ParsePlayback(strings.NewReader("0 hi\n1 \\x01\n0 again"))
	assert.ErrorIs(err, ErrClockBackwards)

	_, err = ParsePlayback(strings.NewReader("5 a\n5 b"))
	assert.ErrorIs(err, ErrClockBackwards)

	var lineErr ErrPlaybackLine
	assert.ErrorAs(err, &lineErr)
	assert.Equal(2, lineErr.LineNo)
}

func TestParsePlaybackErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParsePlayback(strings.NewReader("nottime text"))
	assert.ErrorIs(err, ErrBadTrigger("nottime"))

	_, err = ParsePlayback(strings.NewReader("42"))
	assert.ErrorIs(err, ErrBadTrigger("42"))

	// Unterminated escapes and non-ASCII text are format errors.
	_, err = ParsePlayback(strings.NewReader(`0 bad\`))
	assert.ErrorIs(err, ErrPlaybackText(`bad\`))

	_, err = ParsePlayback(strings.NewReader("0 caf\u00e9"))
	var textErr ErrPlaybackText
	assert.ErrorAs(err, &textErr)
}

func TestParsePlaybackBlankLines(t *testing.T) {
	assert := assert.New(t)

	events, err := ParsePlayback(strings.NewReader("\n0 a\n\n\n2 b\n"))
	require.NoError(t, err)
	assert.Len(events, 2)
}
