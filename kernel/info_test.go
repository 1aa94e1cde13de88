package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInfo(t *testing.T) {
	assert := assert.New(t)

	info := ParseInfo([]string{
		"api=1.0",
		"author=Example Author",
		"disasm",
		"cache=writeback",
		"irq",
	})

	assert.Equal("1.0", info.API())
	assert.Equal("Example Author", info.Author())
	assert.True(info.Has(CapDisasm))
	assert.True(info.Has(CapCache))
	assert.True(info.Has(CapIRQ))
	assert.False(info.Has(CapMockup))
	assert.False(info.Has(CapUsr))

	value, ok := info.Get("cache")
	assert.True(ok)
	assert.Equal("writeback", value)

	_, ok = info.Get("nonesuch")
	assert.False(ok)
}

func TestParseInfoSplitsOnFirstEquals(t *testing.T) {
	assert := assert.New(t)

	info := ParseInfo([]string{"author=a=b"})
	assert.Equal("a=b", info.Author())
}

func TestParseInfoEmpty(t *testing.T) {
	assert := assert.New(t)

	info := ParseInfo(nil)
	assert.Equal("", info.API())
	assert.False(info.Has(CapMockup))
}
