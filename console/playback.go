package console

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Event is one playback entry: a byte sequence that becomes available
// at a cycle-count trigger.
type Event struct {
	Trigger uint64
	Data    []byte
}

// ParsePlayback parses a playback script.
//
// Each non-empty line is either "TRIGGER TEXT", with TRIGGER an
// unsigned integer in any base, or, if the line begins with whitespace,
// an implicit trigger of the previous trigger plus one (0 on the first
// line). Triggers must strictly increase. TEXT is a backslash-escaped
// ASCII string.
func ParsePlayback(r io.Reader) (events []Event, err error) {
	scanner := bufio.NewScanner(r)

	var prev uint64
	first := true
	lineno := 0

	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fail := func(cause error) {
			events = nil
			err = ErrPlaybackLine{LineNo: lineno, Line: line, Err: cause}
		}

		var trigger uint64
		var text string
		if line[0] == ' ' || line[0] == '\t' {
			if !first {
				trigger = prev + 1
			}
			text = strings.TrimLeft(line, " \t")
		} else {
			index := strings.IndexAny(line, " \t")
			if index < 0 {
				fail(ErrBadTrigger(line))
				return
			}

			trigger, err = strconv.ParseUint(line[:index], 0, 64)
			if err != nil {
				fail(ErrBadTrigger(line[:index]))
				return
			}
			if !first && trigger <= prev {
				fail(ErrClockBackwards)
				return
			}
			text = strings.TrimLeft(line[index:], " \t")
		}

		data, textErr := unescapeText(text)
		if textErr != nil {
			fail(textErr)
			return
		}

		events = append(events, Event{Trigger: trigger, Data: data})
		prev = trigger
		first = false
	}

	if scanErr := scanner.Err(); scanErr != nil {
		events = nil
		err = scanErr
	}
	return
}

// unescapeText evaluates TEXT as a quoted Starlark string literal,
// which follows the same backslash-escape rules the playback format
// specifies.
func unescapeText(text string) (data []byte, err error) {
	value, evalErr := starlark.EvalOptions(&syntax.FileOptions{}, &starlark.Thread{},
		"playback", `"`+text+`"`, nil)
	if evalErr != nil {
		err = ErrPlaybackText(text)
		return
	}

	s, ok := starlark.AsString(value)
	if !ok {
		err = ErrPlaybackText(text)
		return
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			err = ErrPlaybackText(text)
			return
		}
	}

	data = []byte(s)
	return
}
