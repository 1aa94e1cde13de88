package elf

import (
	"strconv"
	"strings"
)

// CompatSection is the name of the embedded compatibility-script
// section.
const CompatSection = ".riscvsim"

// Machine is the register file a compatibility script applies to.
// The kernel boundary satisfies this.
type Machine interface {
	RegSet(index int, value uint64)
	PCSet(value uint64)
}

// Directive is one register initialization from a compatibility script.
type Directive struct {
	Reg   int    // Register index (0-31).
	Value uint64 // Resolved value.
}

// CompatScript is a parsed compatibility script: an ordered list of
// register directives plus an optional initial program counter.
//
// The script informs the host what the program expects of the machine
// before execution starts (stack pointer placement, entry point, and so
// on).
type CompatScript struct {
	directives []Directive
	pc         *uint64
}

// regNames maps RV64 register names, both numeric and ABI, to indices.
var regNames = map[string]int{
	"x0": 0, "x1": 1, "x2": 2, "x3": 3,
	"x4": 4, "x5": 5, "x6": 6, "x7": 7,
	"x8": 8, "x9": 9, "x10": 10, "x11": 11,
	"x12": 12, "x13": 13, "x14": 14, "x15": 15,
	"x16": 16, "x17": 17, "x18": 18, "x19": 19,
	"x20": 20, "x21": 21, "x22": 22, "x23": 23,
	"x24": 24, "x25": 25, "x26": 26, "x27": 27,
	"x28": 28, "x29": 29, "x30": 30, "x31": 31,
	"zero": 0, "ra": 1, "sp": 2, "gp": 3,
	"tp": 4, "t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9, "a0": 10,
	"a1": 11, "a2": 12, "a3": 13, "a4": 14,
	"a5": 15, "a6": 16, "a7": 17, "s2": 18,
	"s3": 19, "s4": 20, "s5": 21, "s6": 22,
	"s7": 23, "s8": 24, "s9": 25, "s10": 26,
	"s11": 27, "t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// ParseCompat parses the raw bytes of a compatibility section.
//
// The script is whitespace-separated name=value tokens, case
// insensitive. A value is either the literal "entry", resolved to the
// supplied entry address at parse time, or an integer literal in
// decimal, hex or octal form. "pc" names the program counter; every
// other name must be an RV64 register.
func ParseCompat(section []byte, entry uint64) (script *CompatScript, err error) {
	script = &CompatScript{}

	for _, token := range strings.Fields(strings.ToLower(string(section))) {
		name, text, found := strings.Cut(token, "=")
		if !found {
			script = nil
			err = ErrDirectiveSyntax(token)
			return
		}

		var value uint64
		if text == "entry" {
			value = entry
		} else {
			value, err = strconv.ParseUint(text, 0, 64)
			if err != nil {
				script = nil
				err = ErrBadValue(text)
				return
			}
		}

		if name == "pc" {
			pc := value
			script.pc = &pc
			continue
		}

		reg, ok := regNames[name]
		if !ok {
			script = nil
			err = ErrUnknownRegister(name)
			return
		}
		script.directives = append(script.directives, Directive{Reg: reg, Value: value})
	}

	return
}

// Apply writes every directive to m in file order, then sets the
// program counter if the script specified one. The machine is assumed
// to be freshly reset; Apply resets nothing itself.
func (script *CompatScript) Apply(m Machine) {
	for _, d := range script.directives {
		m.RegSet(d.Reg, d.Value)
	}
	if script.pc != nil {
		m.PCSet(*script.pc)
	}
}
