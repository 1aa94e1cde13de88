package host

import (
	"regexp"
	"strconv"
	"strings"
)

var memSizeRE = regexp.MustCompile(`^(\d+)([kmg])b?$`)

var memScale = map[string]int{
	"k": 1 << 10,
	"m": 1 << 20,
	"g": 1 << 30,
}

// ParseMemSize converts a scaled memory-size expression like "32k",
// "4m" or "1gb" into a byte count.
func ParseMemSize(text string) (int, error) {
	m := memSizeRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return 0, ErrMemSize(text)
	}
	size, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrMemSize(text)
	}
	return size * memScale[m[2]], nil
}
