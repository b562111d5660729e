// Package loader provides program image loading for MIPS executables:
// ELF32 binaries and raw flat images of little-endian words.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mboyer87/mipsim/emu"
)

// Segment represents a loadable chunk of the program image.
type Segment struct {
	// VirtAddr is the address where this segment should be loaded.
	VirtAddr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may exceed len(Data) for BSS).
	MemSize uint32
}

// Program represents a loaded program ready for execution.
type Program struct {
	// EntryPoint is the address where execution should begin.
	EntryPoint uint32
	// Segments contains all loadable segments.
	Segments []Segment
}

// End returns the highest address one past any segment, which the driver
// uses to notice when the committed PC runs off the image.
func (p *Program) End() uint32 {
	var end uint32
	for _, seg := range p.Segments {
		if top := seg.VirtAddr + seg.MemSize; top > end {
			end = top
		}
	}
	return end
}

// Load reads a program image. Files ending in .bin are treated as raw flat
// images loaded at address 0; everything else must be an ELF32 MIPS
// executable.
func Load(path string) (*Program, error) {
	if strings.HasSuffix(path, ".bin") {
		return LoadRaw(path)
	}
	return LoadELF(path)
}

// LoadRaw reads a flat image of little-endian words loaded at address 0.
func LoadRaw(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("raw image size %d is not word-aligned", len(data))
	}

	return &Program{
		EntryPoint: 0,
		Segments: []Segment{{
			VirtAddr: 0,
			Data:     data,
			MemSize:  uint32(len(data)),
		}},
	}, nil
}

// LoadELF parses an ELF32 MIPS executable.
func LoadELF(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file")
	}
	if f.Machine != elf.EM_MIPS {
		return nil, fmt.Errorf("not a MIPS ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry),
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if _, err := io.ReadFull(phdr.Open(), data); err != nil {
			return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
		})
	}

	if len(prog.Segments) == 0 {
		return nil, fmt.Errorf("no loadable segments in %s", path)
	}

	return prog, nil
}

// Install copies the program into memory word by word. Segment bytes are
// interpreted little-endian; the BSS tail is zero-filled.
func (p *Program) Install(mem *emu.Memory) {
	for _, seg := range p.Segments {
		data := seg.Data
		if uint32(len(data)) < seg.MemSize {
			padded := make([]byte, seg.MemSize)
			copy(padded, data)
			data = padded
		}
		for i := 0; i+4 <= len(data); i += 4 {
			mem.Write32(seg.VirtAddr+uint32(i), binary.LittleEndian.Uint32(data[i:]))
		}
	}
}
