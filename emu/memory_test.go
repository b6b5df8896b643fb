package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory([]byte{0x01, 0x02, 0x03, 0x04})
	})

	Describe("image region", func() {
		It("reads bytes written at load time", func() {
			b, err := m.ReadByte(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(byte(0x02)))
		})

		It("composes a little-endian 32-bit read from four bytes", func() {
			v, err := m.Read32(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0x04030201)))
		})
	})

	Describe("heap region", func() {
		It("starts with a zero-size heap at the image boundary", func() {
			Expect(m.HeapStart()).To(Equal(uint64(4)))
			Expect(m.HeapEnd()).To(Equal(uint64(4)))
		})

		It("grows the heap via Brk and allows writes within it", func() {
			newEnd, err := m.Brk(m.HeapStart() + 64)
			Expect(err).NotTo(HaveOccurred())
			Expect(newEnd).To(Equal(m.HeapStart() + 64))

			Expect(m.Write64(m.HeapStart(), 0x1122334455667788)).NotTo(HaveOccurred())
			v, err := m.Read64(m.HeapStart())
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0x1122334455667788)))
		})

		It("queries the current break when newEnd is zero", func() {
			v, err := m.Brk(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(m.HeapStart()))
		})

		It("rejects a break below the heap start", func() {
			_, err := m.Brk(m.HeapStart() - 1)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a break beyond the maximum heap size", func() {
			_, err := m.Brk(m.HeapStart() + emu.MaxHeap + 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("stack region", func() {
		It("addresses downward from the stack base", func() {
			top := uint64(emu.DefaultStackBase) - 8
			Expect(m.Write64(top, 0xDEADBEEFCAFEBABE)).NotTo(HaveOccurred())
			v, err := m.Read64(top)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0xDEADBEEFCAFEBABE)))
		})

		It("is unaligned-safe", func() {
			top := uint64(emu.DefaultStackBase) - 7
			Expect(m.Write32(top, 0x11223344)).NotTo(HaveOccurred())
			v, err := m.Read32(top)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0x11223344)))
		})
	})

	Describe("unmapped addresses", func() {
		It("rejects an address between the heap and the stack", func() {
			_, err := m.ReadByte(m.HeapEnd() + 1000)
			Expect(err).To(HaveOccurred())
		})
	})
})
