package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/rvemu/bitops"
)

// ErrBrkBelowHeapStart is returned by Brk when the requested break
// would move the heap end before its start. Unlike exceeding the max
// heap size, this is not a condition a guest's allocator is expected
// to recover from: it signals a corrupt break request, not ordinary
// heap exhaustion.
var ErrBrkBelowHeapStart = errors.New("brk: new break below heap start")

// MaxHeap bounds how far the heap may grow past its start via Brk.
const MaxHeap = 4 * (1 << 30)

// MaxStack bounds the preallocated stack region.
const MaxStack = 256 * (1 << 20)

// DefaultStackBase is the address one past the top of the stack
// region; stack addresses are addressed downward from it.
const DefaultStackBase = 0x7000_0000_0000

// Memory is the three-region address space: a fixed, file-backed image
// starting at address 0, a heap immediately above it that grows via
// Brk, and a fixed-size stack addressed downward from the stack base. All
// multi-byte accessors are built out of single-byte accesses, so they
// are safe against unaligned addresses; a span that crosses a region
// boundary still resolves byte by byte against whichever region each
// individual address falls in.
type Memory struct {
	image []byte

	heapStart uint64
	heapEnd   uint64
	heap      []byte

	stackBase uint64
	stack     []byte
}

// NewMemory builds a Memory whose image region is exactly the supplied
// bytes; the heap begins immediately after it.
func NewMemory(image []byte) *Memory {
	return &Memory{
		image:     image,
		heapStart: uint64(len(image)),
		heapEnd:   uint64(len(image)),
		heap:      nil,
		stackBase: DefaultStackBase,
		stack:     make([]byte, MaxStack),
	}
}

// HeapStart returns the address the heap begins at.
func (m *Memory) HeapStart() uint64 {
	return m.heapStart
}

// HeapEnd returns the current heap break.
func (m *Memory) HeapEnd() uint64 {
	return m.heapEnd
}

func (m *Memory) stackFloor() uint64 {
	return m.stackBase - MaxStack
}

// ReadByte reads a single byte, dispatching to whichever region addr
// falls in: image, then heap, then stack. An address in none of the
// three is a fatal unmapped-memory error.
func (m *Memory) ReadByte(addr uint64) (byte, error) {
	switch {
	case addr < m.heapStart:
		return m.image[addr], nil
	case addr < m.heapEnd:
		return m.heap[addr-m.heapStart], nil
	case addr > m.stackFloor() && addr < m.stackBase:
		return m.stack[m.stackBase-addr], nil
	default:
		return 0, fmt.Errorf("unmapped memory address 0x%016x", addr)
	}
}

// WriteByte writes a single byte using the same region dispatch as
// ReadByte.
func (m *Memory) WriteByte(addr uint64, v byte) error {
	switch {
	case addr < m.heapStart:
		m.image[addr] = v
		return nil
	case addr < m.heapEnd:
		m.heap[addr-m.heapStart] = v
		return nil
	case addr > m.stackFloor() && addr < m.stackBase:
		m.stack[m.stackBase-addr] = v
		return nil
	default:
		return fmt.Errorf("unmapped memory address 0x%016x", addr)
	}
}

func (m *Memory) readN(addr uint64, n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		b, err := m.ReadByte(addr + uint64(i))
		if err != nil {
			return 0, err
		}
		v = bitops.Set(uint64(b), bitops.Range{Lo: i * 8, Hi: i*8 + 7}) | v
	}
	return v, nil
}

func (m *Memory) writeN(addr uint64, v uint64, n int) error {
	for i := 0; i < n; i++ {
		b := byte(bitops.Get(v, bitops.Range{Lo: i * 8, Hi: i*8 + 7}))
		if err := m.WriteByte(addr+uint64(i), b); err != nil {
			return err
		}
	}
	return nil
}

// Read16 reads a little-endian 16-bit value.
func (m *Memory) Read16(addr uint64) (uint64, error) { return m.readN(addr, 2) }

// Read32 reads a little-endian 32-bit value.
func (m *Memory) Read32(addr uint64) (uint64, error) { return m.readN(addr, 4) }

// Read64 reads a little-endian 64-bit value.
func (m *Memory) Read64(addr uint64) (uint64, error) { return m.readN(addr, 8) }

// Write16 writes a little-endian 16-bit value.
func (m *Memory) Write16(addr, v uint64) error { return m.writeN(addr, v, 2) }

// Write32 writes a little-endian 32-bit value.
func (m *Memory) Write32(addr, v uint64) error { return m.writeN(addr, v, 4) }

// Write64 writes a little-endian 64-bit value.
func (m *Memory) Write64(addr, v uint64) error { return m.writeN(addr, v, 8) }

// HostPtr returns a direct slice view onto n bytes starting at addr,
// for syscalls that need to hand the host kernel a real pointer. It is
// only valid for spans that lie entirely within one region.
func (m *Memory) HostPtr(addr uint64, n int) ([]byte, error) {
	switch {
	case addr < m.heapStart:
		end := addr + uint64(n)
		if end > uint64(len(m.image)) {
			return nil, fmt.Errorf("unmapped memory address 0x%016x", addr)
		}
		return m.image[addr:end], nil
	case addr < m.heapEnd:
		start := addr - m.heapStart
		end := start + uint64(n)
		if end > uint64(len(m.heap)) {
			return nil, fmt.Errorf("unmapped memory address 0x%016x", addr)
		}
		return m.heap[start:end], nil
	case addr > m.stackFloor():
		end := m.stackBase - addr
		start := end - uint64(n)
		return m.stack[start:end], nil
	default:
		return nil, fmt.Errorf("unmapped memory address 0x%016x", addr)
	}
}

// Brk queries or moves the heap break. newEnd == 0 queries the current
// break without changing it. Lowering the break below heapStart, or
// raising it more than MaxHeap bytes past heapStart, is an error; the
// break is otherwise set to newEnd and the heap buffer grown to match.
func (m *Memory) Brk(newEnd uint64) (uint64, error) {
	if newEnd == 0 {
		return m.heapEnd, nil
	}
	if newEnd < m.heapStart {
		return 0, fmt.Errorf("%w: 0x%x below heap start 0x%x", ErrBrkBelowHeapStart, newEnd, m.heapStart)
	}
	if newEnd-m.heapStart > MaxHeap {
		return 0, fmt.Errorf("brk: new break 0x%x exceeds max heap size", newEnd)
	}
	newLen := int(newEnd - m.heapStart)
	if newLen > len(m.heap) {
		grown := make([]byte, newLen)
		copy(grown, m.heap)
		m.heap = grown
	}
	m.heapEnd = newEnd
	return m.heapEnd, nil
}
