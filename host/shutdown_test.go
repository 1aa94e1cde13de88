package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsOnceInOrder(t *testing.T) {
	assert := assert.New(t)

	var order []int
	OnShutdown(func() { order = append(order, 1) })
	OnShutdown(func() { order = append(order, 2) })

	RunShutdown()
	assert.Equal([]int{1, 2}, order)

	RunShutdown()
	assert.Equal([]int{1, 2}, order, "hooks run exactly once")
}
