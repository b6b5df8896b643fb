package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvemu/insts"
)

var _ = Describe("ALU", func() {
	Describe("Add/Sub", func() {
		It("wraps on 64-bit overflow", func() {
			Expect(insts.Add(0xFFFFFFFFFFFFFFFF, 1)).To(Equal(uint64(0)))
		})

		It("subtracts with wraparound", func() {
			Expect(insts.Sub(0, 1)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		})
	})

	Describe("Addw", func() {
		It("computes on the low 32 bits and sign-extends the result", func() {
			Expect(insts.Addw(0x7FFFFFFF, 1)).To(Equal(uint64(0xFFFFFFFF80000000)))
		})

		It("ignores the upper 32 bits of its operands", func() {
			Expect(insts.Addw(0xFFFFFFFF00000001, 1)).To(Equal(uint64(2)))
		})
	})

	Describe("Sra", func() {
		It("replicates the sign bit", func() {
			Expect(insts.Sra(0x8000000000000000, 4)).To(Equal(uint64(0xF800000000000000)))
		})

		It("is a no-op for a zero shift amount", func() {
			Expect(insts.Sra(0x8000000000000000, 0)).To(Equal(uint64(0x8000000000000000)))
		})
	})

	Describe("Sraw", func() {
		It("operates on the low 32 bits and sign-extends the 32-bit result", func() {
			Expect(insts.Sraw(0x80000000, 4)).To(Equal(uint64(0xFFFFFFFFF8000000)))
		})
	})

	Describe("Slt/Sltu", func() {
		It("treats operands as signed for Slt", func() {
			Expect(insts.Slt(0xFFFFFFFFFFFFFFFF, 1)).To(Equal(uint64(1))) // -1 < 1
		})

		It("treats operands as unsigned for Sltu", func() {
			Expect(insts.Sltu(0xFFFFFFFFFFFFFFFF, 1)).To(Equal(uint64(0)))
		})
	})

	Describe("Div/Rem boundary cases", func() {
		It("returns all-ones for signed division by zero", func() {
			Expect(insts.Div(5, 0)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		})

		It("returns the dividend for signed remainder by zero", func() {
			Expect(insts.Rem(5, 0)).To(Equal(uint64(5)))
		})

		It("returns the dividend for MinInt64 / -1 overflow", func() {
			minInt64 := uint64(1) << 63
			Expect(insts.Div(minInt64, 0xFFFFFFFFFFFFFFFF)).To(Equal(minInt64))
		})

		It("returns zero for MinInt64 % -1 overflow", func() {
			minInt64 := uint64(1) << 63
			Expect(insts.Rem(minInt64, 0xFFFFFFFFFFFFFFFF)).To(Equal(uint64(0)))
		})

		It("returns all-ones for unsigned division by zero", func() {
			Expect(insts.Divu(5, 0)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		})
	})

	Describe("Divw/Remw boundary cases", func() {
		It("returns all-ones for word division by zero", func() {
			Expect(insts.Divw(5, 0)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		})

		It("handles word-width MinInt32 / -1 overflow", func() {
			minInt32 := uint64(0x80000000)
			Expect(insts.Divw(minInt32, 0xFFFFFFFFFFFFFFFF)).To(Equal(uint64(0xFFFFFFFF80000000)))
		})
	})
})
