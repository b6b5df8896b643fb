package emu_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/emu"
)

func putWord(img []byte, addr uint64, word uint32) {
	binary.LittleEndian.PutUint32(img[addr:], word)
}

func putHalf(img []byte, addr uint64, half uint16) {
	binary.LittleEndian.PutUint16(img[addr:], half)
}

var _ = Describe("Emulator", func() {
	var image []byte

	BeforeEach(func() {
		image = make([]byte, 0x200)
	})

	It("executes addi x15, x0, 4 and halts on ebreak", func() {
		putWord(image, 0, 0x00400793) // addi x15, x0, 4
		putWord(image, 4, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		code := e.Run()

		Expect(code).To(Equal(int64(0)))
		Expect(e.RegFile().ReadReg(15)).To(Equal(uint64(4)))
	})

	It("jumps with jal x0, +8 skipping the instruction in between", func() {
		putWord(image, 0, 0x0080006F) // jal x0, +8
		putWord(image, 4, 0xFFFFFFFF) // would fail to decode if ever reached
		putWord(image, 8, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		code := e.Run()

		Expect(code).To(Equal(int64(0)))
		Expect(e.RegFile().PC).To(Equal(uint64(8)))
	})

	It("adjusts the stack pointer with addi x2, x2, -32", func() {
		putWord(image, 0, 0xFE010113) // addi x2, x2, -32
		putWord(image, 4, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image), emu.WithStackPointer(0x1000))
		e.Run()

		Expect(e.RegFile().ReadReg(2)).To(Equal(uint64(0x1000 - 32)))
	})

	It("decodes and executes a compressed c.li", func() {
		putHalf(image, 0, 0x52FD)     // c.li x5, -1
		putWord(image, 2, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		e.Run()

		Expect(e.RegFile().ReadReg(5)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
	})

	It("computes the jalr target before overwriting rd, even when rd equals rs1", func() {
		// jalr x1, x1, 0 at 0x100; x1 starts pointing at 0x108.
		// If rd were written before the target were read, the jump
		// would land on the decode trap at 0x104 instead.
		putWord(image, 0x100, 0x000080E7) // jalr x1, x1, 0
		putWord(image, 0x104, 0xFFFFFFFF) // would fail to decode if ever reached
		putWord(image, 0x108, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		e.RegFile().PC = 0x100
		e.RegFile().WriteReg(1, 0x108)

		result := e.Step()

		Expect(result.Err).NotTo(HaveOccurred())
		Expect(e.RegFile().PC).To(Equal(uint64(0x108)))
		Expect(e.RegFile().ReadReg(1)).To(Equal(uint64(0x104)))

		code := e.Run()
		Expect(code).To(Equal(int64(0)))
	})

	It("performs a load/store round trip through the heap", func() {
		// sd x10, 0(x11); ld x12, 0(x11)
		putWord(image, 0, 0x00A5B023) // sd x10, 0(x11)
		putWord(image, 4, 0x0005B603) // ld x12, 0(x11)
		putWord(image, 8, 0x00100073) // ebreak

		mem := emu.NewMemory(image)
		brk, err := mem.Brk(mem.HeapStart() + 64)
		Expect(err).NotTo(HaveOccurred())

		e := emu.NewEmulator(mem)
		e.RegFile().WriteReg(10, 0xCAFEBABEDEADBEEF)
		e.RegFile().WriteReg(11, brk-8)

		code := e.Run()

		Expect(code).To(Equal(int64(0)))
		Expect(e.RegFile().ReadReg(12)).To(Equal(uint64(0xCAFEBABEDEADBEEF)))
	})

	It("halts on an out-of-line exit syscall", func() {
		// addi x10, x0, 7 ; addi x17, x0, 93 ; ecall
		putWord(image, 0, 0x00700513)
		putWord(image, 4, 0x05D00893)
		putWord(image, 8, 0x00000073)

		e := emu.NewEmulator(emu.NewMemory(image))
		code := e.Run()

		Expect(code).To(Equal(int64(7)))
	})

	It("takes a conditional branch when the predicate holds", func() {
		putWord(image, 0, 0x00208463) // beq x1, x2, +8
		putWord(image, 4, 0xFFFFFFFF) // would fail to decode if ever reached
		putWord(image, 8, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		e.RegFile().WriteReg(1, 7)
		e.RegFile().WriteReg(2, 7)

		code := e.Run()

		Expect(code).To(Equal(int64(0)))
	})

	It("falls through a conditional branch when the predicate fails", func() {
		putWord(image, 0, 0x00208463) // beq x1, x2, +8
		putWord(image, 4, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		e.RegFile().WriteReg(1, 1)
		e.RegFile().WriteReg(2, 2)

		result := e.Step()

		Expect(result.Err).NotTo(HaveOccurred())
		Expect(e.RegFile().PC).To(Equal(uint64(4)))
	})

	It("computes signed division rounding toward zero", func() {
		putWord(image, 0, 0x02B54633) // div x12, x10, x11
		putWord(image, 4, 0x00100073) // ebreak

		e := emu.NewEmulator(emu.NewMemory(image))
		e.RegFile().WriteReg(10, uint64(int64(-7)))
		e.RegFile().WriteReg(11, 2)

		e.Run()

		Expect(int64(e.RegFile().ReadReg(12))).To(Equal(int64(-3)))
	})

	It("runs a compressed register move and indirect jump", func() {
		putHalf(image, 0, 0x8286)     // c.mv x5, x1
		putHalf(image, 2, 0x8282)     // c.jr x5
		putWord(image, 4, 0xFFFFFFFF) // would fail to decode if ever reached

		e := emu.NewEmulator(emu.NewMemory(image))
		e.RegFile().WriteReg(1, 8)
		putWord(image, 8, 0x00100073) // ebreak

		code := e.Run()

		Expect(code).To(Equal(int64(0)))
		Expect(e.RegFile().ReadReg(5)).To(Equal(uint64(8)))
	})

	It("stops once the instruction limit is reached", func() {
		putWord(image, 0, 0x00000013) // addi x0, x0, 0 (nop), loops forever below
		putWord(image, 4, 0xFFDFF06F) // jal x0, -4

		e := emu.NewEmulator(emu.NewMemory(image), emu.WithMaxInstructions(5))
		for i := 0; i < 5; i++ {
			result := e.Step()
			Expect(result.Err).NotTo(HaveOccurred())
		}
		result := e.Step()
		Expect(result.Err).To(HaveOccurred())
	})
})
