package elf

import (
	"errors"

	"github.com/rvsim/rvsh/translate"
)

var f = translate.From

var (
	// Image validation errors, in the order the fields are checked.
	ErrBadMagic  = errors.New(f("not an ELF image"))
	ErrNot64Bit  = errors.New(f("not a 64-bit ELF image"))
	ErrBigEndian = errors.New(f("big-endian data formatting"))
	ErrNotRISCV  = errors.New(f("not a RISC-V binary"))
	ErrMalformed = errors.New(f("malformed ELF image"))

	// ErrSegmentSize indicates a loadable segment whose in-memory size
	// is smaller than its in-file size.
	ErrSegmentSize = errors.New(f("segment memory size smaller than file size"))

	// ErrSegmentLimit indicates a loadable segment too large for any
	// simulated address space.
	ErrSegmentLimit = errors.New(f("segment memory size exceeds the addressable range"))
)

// ErrUnknownRegister names a compatibility-script register that is not
// part of the RV64 integer register file.
type ErrUnknownRegister string

func (err ErrUnknownRegister) Error() string {
	return f("register %v unknown", string(err))
}

// ErrBadValue names a compatibility-script value that is neither the
// literal "entry" nor an integer literal.
type ErrBadValue string

func (err ErrBadValue) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrDirectiveSyntax names a compatibility-script token that is not a
// name=value pair.
type ErrDirectiveSyntax string

func (err ErrDirectiveSyntax) Error() string {
	return f("'%v' is not a name=value setting", string(err))
}
