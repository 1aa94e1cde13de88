package elf

import (
	"bytes"
	"debug/elf"
	"errors"
	"io"
	"iter"
	"os"
)

// maxSegmentSize bounds a segment's claimed in-memory size before its
// buffer is allocated. Simulated RAM tops out well below this, so
// anything larger is a corrupt or hostile header, not a real program.
const maxSegmentSize = 1 << 31

// Segment is one loadable region of an Image. Data is the segment's file
// bytes zero-padded to the in-memory size, so copying Data to Addr is
// all a loader has to do.
type Segment struct {
	Addr  uint64 // Virtual load address.
	Flags uint32 // Segment flag bits (R/W/X).
	Data  []byte // File bytes, zero-padded to the in-memory size.
}

// Image is a parsed 64-bit little-endian RISC-V executable.
type Image struct {
	file     *elf.File
	entry    uint64
	segments []Segment
}

// Open reads and parses the executable at path. The whole file is read
// into memory up front, so the returned Image does not hold the file
// open.
func Open(path string) (img *Image, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}

	return New(bytes.NewReader(raw))
}

// New parses an executable image from r.
//
// Validation happens in a fixed order - magic, 64-bit class, little
// endian data, RISC-V machine - and each violation surfaces as its own
// sentinel error.
func New(r io.ReaderAt) (img *Image, err error) {
	var ident [elf.EI_NIDENT]byte
	_, err = r.ReadAt(ident[:], 0)
	if err != nil {
		err = errors.Join(ErrMalformed, err)
		return
	}

	if string(ident[:4]) != elf.ELFMAG {
		err = ErrBadMagic
		return
	}
	if elf.Class(ident[elf.EI_CLASS]) != elf.ELFCLASS64 {
		err = ErrNot64Bit
		return
	}
	if elf.Data(ident[elf.EI_DATA]) != elf.ELFDATA2LSB {
		err = ErrBigEndian
		return
	}

	file, err := elf.NewFile(r)
	if err != nil {
		err = errors.Join(ErrMalformed, err)
		return
	}

	if file.Machine != elf.EM_RISCV {
		err = ErrNotRISCV
		return
	}

	img = &Image{
		file:  file,
		entry: file.Entry,
	}

	// Materialize the loadable segments now; every other program header
	// type is irrelevant to this loader and is skipped.
	for _, prog := range file.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Memsz < prog.Filesz {
			img = nil
			err = ErrSegmentSize
			return
		}
		if prog.Memsz > maxSegmentSize {
			img = nil
			err = ErrSegmentLimit
			return
		}

		data := make([]byte, prog.Memsz)
		_, err = io.ReadFull(prog.Open(), data[:prog.Filesz])
		if err != nil {
			img = nil
			err = errors.Join(ErrMalformed, err)
			return
		}

		img.segments = append(img.segments, Segment{
			Addr:  prog.Vaddr,
			Flags: uint32(prog.Flags),
			Data:  data,
		})
	}

	return
}

// Entry returns the image's entry-point address.
func (img *Image) Entry() uint64 {
	return img.entry
}

// Segments iterates over the loadable segments in file order.
func (img *Image) Segments() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for _, seg := range img.segments {
			if !yield(seg) {
				return
			}
		}
	}
}

// Section returns the raw bytes of the named section. A missing (or
// unreadable) section reports false; callers treat that as "use
// defaults", not as a failure.
func (img *Image) Section(name string) (data []byte, ok bool) {
	section := img.file.Section(name)
	if section == nil {
		return
	}

	data, err := section.Data()
	if err != nil {
		data = nil
		return
	}

	ok = true
	return
}
