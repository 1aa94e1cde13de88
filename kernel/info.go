package kernel

// Capability is an optional kernel feature advertised through the
// kernel's info listing.
type Capability int

const (
	CapDisasm Capability = iota // Kernel provides instruction disassembly.
	CapCache                    // Kernel implements a memory cache.
	CapIRQ                      // Kernel accepts input interrupts.
	CapMockup                   // Kernel is a mockup for host sanity testing.
	CapUsr                      // Kernel supports user mode.
)

// capNames maps info keys to capabilities. Unknown keys are carried in
// the raw pairs but map to no capability.
var capNames = map[string]Capability{
	"disasm": CapDisasm,
	"cache":  CapCache,
	"irq":    CapIRQ,
	"mockup": CapMockup,
	"usr":    CapUsr,
}

// Info is a kernel's metadata listing: the raw name=value pairs plus
// the typed capability set, resolved once at load time.
type Info struct {
	pairs map[string]string
	caps  map[Capability]bool
}

// ParseInfo builds an Info from a kernel's "name=value" entry list. An
// entry without '=' is a bare flag.
func ParseInfo(entries []string) (info Info) {
	info = Info{
		pairs: map[string]string{},
		caps:  map[Capability]bool{},
	}

	for _, entry := range entries {
		name := entry
		value := ""
		for i := 0; i < len(entry); i++ {
			if entry[i] == '=' {
				name = entry[:i]
				value = entry[i+1:]
				break
			}
		}

		info.pairs[name] = value
		if cap, ok := capNames[name]; ok {
			info.caps[cap] = true
		}
	}

	return
}

// API returns the kernel's reported API version, or "" if none.
func (info Info) API() string {
	return info.pairs["api"]
}

// Author returns the kernel's reported author, or "" if none.
func (info Info) Author() string {
	return info.pairs["author"]
}

// Has reports whether the kernel advertises a capability.
func (info Info) Has(c Capability) bool {
	return info.caps[c]
}

// Get returns the raw value of an info key.
func (info Info) Get(name string) (value string, ok bool) {
	value, ok = info.pairs[name]
	return
}
