package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/insts"
)

var _ = Describe("Decoder", func() {
	var d *insts.Decoder

	BeforeEach(func() {
		d = insts.NewDecoder()
	})

	decode := func(raw uint32) insts.Inst {
		inst, err := d.Decode(insts.RawInst{PC: 0x1000, Raw: raw})
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	Describe("full 32-bit encodings", func() {
		It("decodes addi x15, x0, 4", func() {
			inst := decode(0x00400793)
			Expect(inst.Op).To(Equal(insts.OpAddi))
			Expect(inst.Rs1).To(Equal(0))
			Expect(inst.Rd).To(Equal(15))
			Expect(inst.Imm).To(Equal(uint64(4)))
		})

		It("decodes addi x2, x2, -32", func() {
			inst := decode(0xFE010113)
			Expect(inst.Op).To(Equal(insts.OpAddi))
			Expect(inst.Rs1).To(Equal(2))
			Expect(inst.Rd).To(Equal(2))
			Expect(inst.Imm).To(Equal(uint64(0xFFFFFFFFFFFFFFE0)))
		})

		It("decodes jal x0, +8", func() {
			inst := decode(0x0080006F)
			Expect(inst.Op).To(Equal(insts.OpJal))
			Expect(inst.Rd).To(Equal(0))
			Expect(inst.Imm).To(Equal(uint64(8)))
		})

		It("decodes add", func() {
			inst := decode(0x003100B3) // add x1, x2, x3
			Expect(inst.Op).To(Equal(insts.OpAdd))
			Expect(inst.Rs1).To(Equal(2))
			Expect(inst.Rs2).To(Equal(3))
			Expect(inst.Rd).To(Equal(1))
		})

		It("decodes sub", func() {
			inst := decode(0x40310133) // sub x2, x2, x3
			Expect(inst.Op).To(Equal(insts.OpSub))
		})

		It("decodes div as the OP funct7=1 funct3=4 variant", func() {
			inst := decode(0x023140B3) // div x1, x2, x3
			Expect(inst.Op).To(Equal(insts.OpDiv))
		})

		It("decodes remw", func() {
			inst := decode(0x023160BB) // remw x1, x2, x3
			Expect(inst.Op).To(Equal(insts.OpRemw))
		})

		It("decodes lui", func() {
			inst := decode(0x123450B7) // lui x1, 0x12345
			Expect(inst.Op).To(Equal(insts.OpLui))
			Expect(inst.Rd).To(Equal(1))
			Expect(inst.Imm).To(Equal(uint64(0x12345000)))
		})

		It("decodes a branch", func() {
			inst := decode(0x00208463) // beq x1, x2, +8
			Expect(inst.Op).To(Equal(insts.OpBranch))
			Expect(inst.Func).To(Equal(insts.BranchEq))
			Expect(inst.Imm).To(Equal(uint64(8)))
		})

		It("decodes a load", func() {
			inst := decode(0x0002B503) // ld x10, 0(x5)
			Expect(inst.Op).To(Equal(insts.OpLoad))
			Expect(inst.Width).To(Equal(insts.WidthDouble))
		})

		It("decodes a store", func() {
			inst := decode(0x00A2B023) // sd x10, 0(x5)
			Expect(inst.Op).To(Equal(insts.OpStore))
			Expect(inst.Width).To(Equal(insts.WidthDouble))
		})

		It("decodes ecall", func() {
			inst := decode(0x00000073)
			Expect(inst.Op).To(Equal(insts.OpECall))
		})

		It("decodes ebreak", func() {
			inst := decode(0x00100073)
			Expect(inst.Op).To(Equal(insts.OpEBreak))
		})

		It("rejects an unrecognized opcode", func() {
			_, err := d.Decode(insts.RawInst{PC: 0x2000, Raw: 0x0000007F})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("0x2000"))
		})
	})

	Describe("compressed encodings", func() {
		It("decodes c.li x5, -1", func() {
			inst := decode(0x52FD)
			Expect(inst.Op).To(Equal(insts.OpCLi))
			Expect(inst.Rd).To(Equal(5))
			Expect(inst.Imm).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		})

		It("decodes c.addi4spn", func() {
			inst := decode(0x0040) // addi4spn x8, x2, 4
			Expect(inst.Op).To(Equal(insts.OpCAddi4spn))
			Expect(inst.Rd).To(Equal(8))
			Expect(inst.Imm).To(Equal(uint64(4)))
		})

		It("rejects the all-zero compressed encoding", func() {
			_, err := d.Decode(insts.RawInst{PC: 0x3000, Raw: 0x0000})
			Expect(err).To(HaveOccurred())
		})

		It("decodes c.jr", func() {
			inst := decode(0x8282) // c.jr x5
			Expect(inst.Op).To(Equal(insts.OpCJr))
			Expect(inst.Rs1).To(Equal(5))
		})

		It("decodes c.mv", func() {
			inst := decode(0x8286) // c.mv x5, x1
			Expect(inst.Op).To(Equal(insts.OpCMv))
			Expect(inst.Rd).To(Equal(5))
			Expect(inst.Rs2).To(Equal(1))
		})

		It("decodes c.ebreak", func() {
			inst := decode(0x9002)
			Expect(inst.Op).To(Equal(insts.OpCEBreak))
		})

		It("decodes reserved quadrant-2 minors as unimplemented", func() {
			inst := decode(0x2002)
			Expect(inst.Op).To(Equal(insts.OpUnimplemented))
		})
	})
})
