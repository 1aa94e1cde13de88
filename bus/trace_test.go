package bus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type beatRecorder struct {
	id    int
	log   *[]int
	steps []uint32
}

func (r *beatRecorder) Heartbeat(cycles uint32) {
	*r.log = append(*r.log, r.id)
	r.steps = append(r.steps, cycles)
}

func TestTraceDiff(t *testing.T) {
	assert := assert.New(t)

	b, _ := testBus(t)
	tlog := &bytes.Buffer{}
	b.TraceLog = tlog

	var regs [32]uint64
	regs[2] = 0x1000
	b.SeedHistory(regs)

	// Nothing changed since the seed: the first record lists no
	// registers.
	b.LogTrace(1, 0x100, &regs)
	out := tlog.String()
	assert.Contains(out, "000001 00000100 "+strings.Repeat("-", 32))
	assert.NotContains(out, "2=")

	// One register changes; only it is reported.
	tlog.Reset()
	regs[10] = 42
	b.LogTrace(2, 0x104, &regs)
	out = tlog.String()
	assert.Contains(out, "10=0000002a")
	assert.NotContains(out, "2=00001000")

	// And the history updated in place: no repeat next step.
	tlog.Reset()
	b.LogTrace(3, 0x108, &regs)
	assert.NotContains(tlog.String(), "10=")
}

func TestTraceChecksum(t *testing.T) {
	assert := assert.New(t)

	b, _ := testBus(t)
	tlog := &bytes.Buffer{}
	b.TraceLog = tlog
	b.TraceChecksum = true

	var regs [32]uint64
	b.LogTrace(1, 0, &regs)
	assert.Contains(tlog.String(), b.Checksum())
}

func TestTraceDisasm(t *testing.T) {
	assert := assert.New(t)

	b, _ := testBus(t)
	tlog := &bytes.Buffer{}
	b.TraceLog = tlog
	b.StoreWord(0x100, 0x00000013) // nop
	b.Disasm = func(addr uint64, instr uint32) string {
		assert.Equal(uint64(0x100), addr)
		assert.Equal(uint32(0x13), instr)
		return "addi x0, x0, 0"
	}

	var regs [32]uint64
	b.LogTrace(1, 0x100, &regs)
	assert.Contains(tlog.String(), "(addi x0, x0, 0)")
}

func TestHeartbeatOrder(t *testing.T) {
	assert := assert.New(t)

	b, _ := testBus(t)

	var order []int
	first := &beatRecorder{id: 1, log: &order}
	second := &beatRecorder{id: 2, log: &order}
	b.RegisterHeartbeat(first)
	b.RegisterHeartbeat(second)

	// Listeners fire in registration order even with no trace writer.
	var regs [32]uint64
	b.LogTrace(7, 0, &regs)
	b.LogTrace(8, 0, &regs)

	assert.Equal([]int{1, 2, 1, 2}, order)
	assert.Equal([]uint32{7, 8}, first.steps)
}

func TestLogMsg(t *testing.T) {
	assert := assert.New(t)

	b, _ := testBus(t)
	dlog := &bytes.Buffer{}
	b.DebugLog = dlog

	b.LogMsg("CPU initialized")
	assert.Equal("CPU initialized\n", dlog.String())
}

func TestHexdump(t *testing.T) {
	assert := assert.New(t)

	b, err := New(0x1000)
	require.NoError(t, err)

	dlog := &bytes.Buffer{}
	b.DebugLog = dlog

	b.StoreByte(0x10, 'A')
	b.Hexdump(0x10, 16)

	out := dlog.String()
	assert.Contains(out, "00000010")
	assert.Contains(out, "41")
	assert.Contains(out, "|A")
}
