//go:build !(darwin || freebsd || linux)

package native

import "github.com/rvsim/rvsh/kernel"

// Module is unavailable here; Open always fails and no method is ever
// reached.
type Module struct{}

var _ kernel.Kernel = (*Module)(nil)

func Open(path string) (*Module, error) {
	return nil, ErrUnsupported
}

func (*Module) Path() string             { return "" }
func (*Module) Close() error             { return ErrUnsupported }
func (*Module) Info() kernel.Info        { return kernel.Info{} }
func (*Module) Init(kernel.HostServices) {}
func (*Module) ConfigGet() kernel.Config { return kernel.ConfigNothing }
func (*Module) ConfigSet(kernel.Config)  {}
func (*Module) RegGet(int) uint64        { return 0 }
func (*Module) RegSet(int, uint64)       {}
func (*Module) PCGet() uint64            { return 0 }
func (*Module) PCSet(uint64)             {}
func (*Module) Running() bool            { return false }
func (*Module) Run(int) int              { return 0 }
func (*Module) Signal(kernel.Signal)     {}
func (*Module) Stats() kernel.Stats      { return kernel.Stats{} }

func (*Module) Disasm(uint64, uint32) (string, bool) { return "", false }
