//go:build darwin || freebsd || linux

package native

import (
	"errors"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/rvsim/rvsh/kernel"
)

// disasmBufSize is the scratch buffer handed to rsk_disasm.
const disasmBufSize = 128

// hostTable mirrors the rsk_host_services C struct: eleven function
// pointers in declaration order.
type hostTable struct {
	memLoadDword  uintptr
	memStoreDword uintptr
	memLoadWord   uintptr
	memStoreWord  uintptr
	memLoadHword  uintptr
	memStoreHword uintptr
	memLoadByte   uintptr
	memStoreByte  uintptr
	logTrace      uintptr
	logMsg        uintptr
	panic         uintptr
}

// statBlock mirrors the rsk_stats C struct.
type statBlock struct {
	instructions uint32
	loads        uint32
	stores       uint32
	loadMisses   uint32
	storeMisses  uint32
}

// Module is a kernel loaded from a shared library.
type Module struct {
	path string
	lib  uintptr
	info kernel.Info

	host  kernel.HostServices
	table *hostTable

	rskInfo      func() uintptr
	rskInit      func(unsafe.Pointer)
	rskConfigGet func() uint32
	rskConfigSet func(uint32)
	rskStats     func(unsafe.Pointer)
	rskRegGet    func(int32) uint64
	rskRegSet    func(int32, uint64)
	rskPCGet     func() uint64
	rskPCSet     func(uint64)
	rskRunning   func() int32
	rskRun       func(int32) int32
	rskSignal    func(int32)
	rskDisasm    func(uint64, uint32, unsafe.Pointer, uint64)
}

var _ kernel.Kernel = (*Module)(nil)

// Open loads the shared library at path and binds its mandatory rsk_*
// entry points. The disassembler entry point is bound only when the
// kernel advertises the capability; it is an optional extension.
func Open(path string) (m *Module, err error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Join(ErrOpen, err)
	}

	m = &Module{path: path, lib: lib}
	for _, sym := range []struct {
		fptr any
		name string
	}{
		{&m.rskInfo, "rsk_info"},
		{&m.rskInit, "rsk_init"},
		{&m.rskConfigGet, "rsk_config_get"},
		{&m.rskConfigSet, "rsk_config_set"},
		{&m.rskStats, "rsk_stats_report"},
		{&m.rskRegGet, "rsk_reg_get"},
		{&m.rskRegSet, "rsk_reg_set"},
		{&m.rskPCGet, "rsk_pc_get"},
		{&m.rskPCSet, "rsk_pc_set"},
		{&m.rskRunning, "rsk_cpu_running"},
		{&m.rskRun, "rsk_cpu_run"},
		{&m.rskSignal, "rsk_cpu_signal"},
	} {
		if _, err := purego.Dlsym(lib, sym.name); err != nil {
			return nil, errors.Join(ErrSymbol(sym.name), err)
		}
		purego.RegisterLibFunc(sym.fptr, lib, sym.name)
	}

	m.info = kernel.ParseInfo(m.infoEntries())
	if m.info.Has(kernel.CapDisasm) {
		if _, err := purego.Dlsym(lib, "rsk_disasm"); err != nil {
			return nil, errors.Join(ErrSymbol("rsk_disasm"), err)
		}
		purego.RegisterLibFunc(&m.rskDisasm, lib, "rsk_disasm")
	}

	return m, nil
}

// Path returns the library path the module was loaded from.
func (m *Module) Path() string {
	return m.path
}

// Close releases the library handle. The module must not be used
// afterwards.
func (m *Module) Close() error {
	return purego.Dlclose(m.lib)
}

// infoEntries walks the NULL-terminated char* list from rsk_info.
func (m *Module) infoEntries() (entries []string) {
	list := m.rskInfo()
	for list != 0 {
		p := *(*uintptr)(unsafe.Pointer(list))
		if p == 0 {
			break
		}
		entries = append(entries, goString(p))
		list += unsafe.Sizeof(uintptr(0))
	}
	return
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	var b []byte
	for {
		c := *(*byte)(unsafe.Pointer(p))
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
		p++
	}
}

func (m *Module) Info() kernel.Info {
	return m.info
}

func (m *Module) Init(hs kernel.HostServices) {
	m.host = hs
	if m.table == nil {
		m.table = m.newHostTable()
	}
	m.rskInit(unsafe.Pointer(m.table))
}

// newHostTable builds the C-visible callback table. The closures read
// m.host on every call, so re-initializing with a different host does
// not need new callbacks.
func (m *Module) newHostTable() *hostTable {
	return &hostTable{
		memLoadDword: purego.NewCallback(func(addr uint64) uint64 {
			return m.host.LoadDWord(addr)
		}),
		memStoreDword: purego.NewCallback(func(addr uint64, value uint64) {
			m.host.StoreDWord(addr, value)
		}),
		memLoadWord: purego.NewCallback(func(addr uint64) uint32 {
			return m.host.LoadWord(addr)
		}),
		memStoreWord: purego.NewCallback(func(addr uint64, value uint32) {
			m.host.StoreWord(addr, value)
		}),
		memLoadHword: purego.NewCallback(func(addr uint64) uint16 {
			return m.host.LoadHWord(addr)
		}),
		memStoreHword: purego.NewCallback(func(addr uint64, value uint16) {
			m.host.StoreHWord(addr, value)
		}),
		memLoadByte: purego.NewCallback(func(addr uint64) uint8 {
			return m.host.LoadByte(addr)
		}),
		memStoreByte: purego.NewCallback(func(addr uint64, value uint8) {
			m.host.StoreByte(addr, value)
		}),
		logTrace: purego.NewCallback(func(step uint32, pc uint64, regs uintptr) {
			m.host.LogTrace(step, pc, (*[32]uint64)(unsafe.Pointer(regs)))
		}),
		logMsg: purego.NewCallback(func(msg uintptr) {
			m.host.LogMsg(goString(msg))
		}),
		panic: purego.NewCallback(func(msg uintptr) {
			m.host.Fatal(goString(msg))
		}),
	}
}

func (m *Module) ConfigGet() kernel.Config {
	return kernel.Config(m.rskConfigGet())
}

func (m *Module) ConfigSet(c kernel.Config) {
	m.rskConfigSet(uint32(c))
}

func (m *Module) RegGet(index int) uint64 {
	return m.rskRegGet(int32(index))
}

func (m *Module) RegSet(index int, value uint64) {
	m.rskRegSet(int32(index), value)
}

func (m *Module) PCGet() uint64 {
	return m.rskPCGet()
}

func (m *Module) PCSet(value uint64) {
	m.rskPCSet(value)
}

func (m *Module) Running() bool {
	return m.rskRunning() != 0
}

func (m *Module) Run(cycles int) int {
	return int(m.rskRun(int32(cycles)))
}

func (m *Module) Signal(s kernel.Signal) {
	m.rskSignal(int32(s))
}

func (m *Module) Stats() kernel.Stats {
	var s statBlock
	m.rskStats(unsafe.Pointer(&s))
	return kernel.Stats{
		Instructions: s.instructions,
		Loads:        s.loads,
		Stores:       s.stores,
		LoadMisses:   s.loadMisses,
		StoreMisses:  s.storeMisses,
	}
}

func (m *Module) Disasm(addr uint64, instr uint32) (string, bool) {
	if m.rskDisasm == nil {
		return "", false
	}

	buf := make([]byte, disasmBufSize)
	m.rskDisasm(addr, instr, unsafe.Pointer(&buf[0]), uint64(len(buf)))
	runtime.KeepAlive(buf)

	end := 0
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[:end]), true
}
