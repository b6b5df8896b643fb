package emu

import (
	"fmt"

	"github.com/sarchlab/rvemu/bitops"
	"github.com/sarchlab/rvemu/insts"
)

// LoadStoreUnit implements the load and store semantics of every
// access width, including the sign-extending and zero-extending
// variants.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{regFile: regFile, memory: memory}
}

// Load reads a value of the given width from addr and returns it
// already sign- or zero-extended to 64 bits, per width's convention.
func (lsu *LoadStoreUnit) Load(width insts.Width, addr uint64) (uint64, error) {
	switch width {
	case insts.WidthByte:
		b, err := lsu.memory.ReadByte(addr)
		return bitops.SignExt(8, uint64(b)), err
	case insts.WidthByteU:
		b, err := lsu.memory.ReadByte(addr)
		return uint64(b), err
	case insts.WidthHalf:
		v, err := lsu.memory.Read16(addr)
		return bitops.SignExt(16, v), err
	case insts.WidthHalfU:
		return lsu.memory.Read16(addr)
	case insts.WidthWord:
		v, err := lsu.memory.Read32(addr)
		return bitops.SignExt(32, v), err
	case insts.WidthWordU:
		return lsu.memory.Read32(addr)
	case insts.WidthDouble:
		return lsu.memory.Read64(addr)
	default:
		return 0, fmt.Errorf("load: unhandled width %v", width)
	}
}

// Store writes the low bits of value appropriate to width at addr.
func (lsu *LoadStoreUnit) Store(width insts.Width, addr, value uint64) error {
	switch width {
	case insts.WidthByte, insts.WidthByteU:
		return lsu.memory.WriteByte(addr, byte(value))
	case insts.WidthHalf, insts.WidthHalfU:
		return lsu.memory.Write16(addr, value)
	case insts.WidthWord, insts.WidthWordU:
		return lsu.memory.Write32(addr, value)
	case insts.WidthDouble:
		return lsu.memory.Write64(addr, value)
	default:
		return fmt.Errorf("store: unhandled width %v", width)
	}
}
