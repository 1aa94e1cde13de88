package kernel

import (
	"math/rand/v2"
)

// MockHost is a fake host used to sanity-test mockup kernels. It
// records every host-services call for later verification; loads
// always return 0.
type MockHost struct {
	calls map[string][][]uint64
	msgs  []string
}

var _ HostServices = (*MockHost)(nil)

// NewMockHost creates an empty recording host.
func NewMockHost() *MockHost {
	return &MockHost{calls: map[string][][]uint64{}}
}

// Reset discards all recorded calls.
func (m *MockHost) Reset() {
	m.calls = map[string][][]uint64{}
	m.msgs = nil
}

// Calls returns the recorded argument lists for one host routine.
func (m *MockHost) Calls(name string) [][]uint64 {
	return m.calls[name]
}

// Messages returns the recorded LogMsg texts.
func (m *MockHost) Messages() []string {
	return m.msgs
}

func (m *MockHost) record(name string, args ...uint64) {
	m.calls[name] = append(m.calls[name], args)
}

func (m *MockHost) LoadDWord(addr uint64) uint64 {
	m.record("LoadDWord", addr)
	return 0
}

func (m *MockHost) StoreDWord(addr uint64, value uint64) {
	m.record("StoreDWord", addr, value)
}

func (m *MockHost) LoadWord(addr uint64) uint32 {
	m.record("LoadWord", addr)
	return 0
}

func (m *MockHost) StoreWord(addr uint64, value uint32) {
	m.record("StoreWord", addr, uint64(value))
}

func (m *MockHost) LoadHWord(addr uint64) uint16 {
	m.record("LoadHWord", addr)
	return 0
}

func (m *MockHost) StoreHWord(addr uint64, value uint16) {
	m.record("StoreHWord", addr, uint64(value))
}

func (m *MockHost) LoadByte(addr uint64) uint8 {
	m.record("LoadByte", addr)
	return 0
}

func (m *MockHost) StoreByte(addr uint64, value uint8) {
	m.record("StoreByte", addr, uint64(value))
}

func (m *MockHost) LogTrace(step uint32, pc uint64, regs *[32]uint64) {
	m.record("LogTrace", uint64(step), pc)
}

func (m *MockHost) LogMsg(msg string) {
	m.record("LogMsg")
	m.msgs = append(m.msgs, msg)
}

func (m *MockHost) Fatal(msg string) {
	m.record("Fatal")
	m.msgs = append(m.msgs, msg)
}

// SanityCheck runs one round of mockup validation against k. A
// properly implemented mockup withstands any number of rounds, one
// after the other.
func SanityCheck(k Kernel) (err error) {
	mock := NewMockHost()

	// Init must zero everything and announce itself.
	k.Init(mock)
	if k.ConfigGet() != ConfigNothing {
		return ErrInitConfig
	}
	for i := range 32 {
		if k.RegGet(i) != 0 {
			return ErrInitRegisters
		}
	}
	if k.Stats().Instructions != 0 {
		return ErrInitStats
	}
	if msgs := mock.Messages(); len(msgs) != 1 || msgs[0] != "CPU initialized" {
		return ErrInitMessage
	}
	mock.Reset()

	k.ConfigSet(ConfigTraceLog)
	if k.ConfigGet()&ConfigTraceLog == 0 {
		return ErrConfigRoundTrip
	}

	// x0 must read back zero no matter what is written.
	k.RegSet(0, 451)
	if k.RegGet(0) != 0 {
		return ErrZeroRegister
	}

	var values [31]uint64
	for i := range values {
		values[i] = rand.Uint64()
		k.RegSet(i+1, values[i])
	}
	for i, value := range values {
		if k.RegGet(i+1) != value {
			return ErrRegRoundTrip
		}
	}

	pc := rand.Uint64()
	k.PCSet(pc)
	if k.PCGet() != pc {
		return ErrPCRoundTrip
	}

	k.Run(1)
	if k.Stats().Instructions != 1 {
		return ErrRunCount
	}
	steps := rand.IntN(98) + 3
	k.Run(steps)
	if k.Stats().Instructions != uint32(steps)+1 {
		return ErrRunCount
	}

	return
}
