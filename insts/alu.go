package insts

import "github.com/sarchlab/rvemu/bitops"

// Add performs wrapping 64-bit addition.
func Add(op1, op2 uint64) uint64 { return op1 + op2 }

// Sub performs wrapping 64-bit subtraction.
func Sub(op1, op2 uint64) uint64 { return op1 - op2 }

// And performs bitwise AND.
func And(op1, op2 uint64) uint64 { return op1 & op2 }

// Or performs bitwise OR.
func Or(op1, op2 uint64) uint64 { return op1 | op2 }

// Xor performs bitwise XOR.
func Xor(op1, op2 uint64) uint64 { return op1 ^ op2 }

// Not performs bitwise complement. Not takes two operands so it shares
// the ALU's binary dispatch shape; op2 is ignored.
func Not(op1, _ uint64) uint64 { return ^op1 }

// Sll performs a logical left shift by the low 6 bits of shamt.
func Sll(v, shamt uint64) uint64 { return v << (shamt & 0x3F) }

// Srl performs a logical right shift by the low 6 bits of shamt.
func Srl(v, shamt uint64) uint64 { return v >> (shamt & 0x3F) }

// Sra performs an arithmetic right shift (sign bit replicated) by the
// low 6 bits of shamt.
func Sra(v, shamt uint64) uint64 {
	s := shamt & 0x3F
	if s == 0 {
		return v
	}
	return bitops.SignExt(64-int(s), v>>s)
}

// Slt performs a signed less-than compare.
func Slt(op1, op2 uint64) uint64 {
	if int64(op1) < int64(op2) {
		return 1
	}
	return 0
}

// Sltu performs an unsigned less-than compare.
func Sltu(op1, op2 uint64) uint64 {
	if op1 < op2 {
		return 1
	}
	return 0
}

// Addw computes 32-bit wrapping addition and sign-extends the result to
// 64 bits.
func Addw(op1, op2 uint64) uint64 {
	return bitops.SignExt(32, uint64(uint32(op1)+uint32(op2)))
}

// Subw computes 32-bit wrapping subtraction and sign-extends the result.
func Subw(op1, op2 uint64) uint64 {
	return bitops.SignExt(32, uint64(uint32(op1)-uint32(op2)))
}

// Sllw shifts the low 32 bits left by (shamt & 0x1F) and sign-extends.
func Sllw(v, shamt uint64) uint64 {
	return bitops.SignExt(32, uint64(uint32(v)<<(shamt&0x1F)))
}

// Srlw shifts the low 32 bits right (logical) by (shamt & 0x1F) and
// sign-extends.
func Srlw(v, shamt uint64) uint64 {
	return bitops.SignExt(32, uint64(uint32(v)>>(shamt&0x1F)))
}

// Sraw shifts the low 32 bits right (arithmetic) by (shamt & 0x1F) and
// sign-extends.
func Sraw(v, shamt uint64) uint64 {
	s := shamt & 0x1F
	w := uint32(v)
	var shifted uint32
	if s == 0 {
		shifted = w
	} else {
		shifted = uint32(bitops.SignExt(32-int(s), uint64(w>>s)))
	}
	return bitops.SignExt(32, uint64(shifted))
}

// Div performs signed 64-bit division with RISC-V's zero-divisor and
// overflow rules: division by zero returns all-ones; MinInt64 / -1
// returns the dividend.
func Div(n, d uint64) uint64 {
	sn, sd := int64(n), int64(d)
	if sd == 0 {
		return 0xFFFFFFFFFFFFFFFF
	}
	if sn == -1<<63 && sd == -1 {
		return n
	}
	return uint64(sn / sd)
}

// Divu performs unsigned 64-bit division; division by zero returns
// all-ones.
func Divu(n, d uint64) uint64 {
	if d == 0 {
		return 0xFFFFFFFFFFFFFFFF
	}
	return n / d
}

// Rem performs signed 64-bit remainder; division by zero returns the
// dividend, and MinInt64 % -1 returns zero.
func Rem(n, d uint64) uint64 {
	sn, sd := int64(n), int64(d)
	if sd == 0 {
		return n
	}
	if sn == -1<<63 && sd == -1 {
		return 0
	}
	return uint64(sn % sd)
}

// Remu performs unsigned 64-bit remainder; division by zero returns the
// dividend.
func Remu(n, d uint64) uint64 {
	if d == 0 {
		return n
	}
	return n % d
}

// Divw performs signed 32-bit division on the low 32 bits of its
// operands and sign-extends the result.
func Divw(n, d uint64) uint64 {
	sn, sd := int32(uint32(n)), int32(uint32(d))
	if sd == 0 {
		return 0xFFFFFFFFFFFFFFFF
	}
	if sn == -1<<31 && sd == -1 {
		return bitops.SignExt(32, uint64(uint32(n)))
	}
	return bitops.SignExt(32, uint64(uint32(sn/sd)))
}

// Divuw performs unsigned 32-bit division on the low 32 bits of its
// operands and sign-extends the result.
func Divuw(n, d uint64) uint64 {
	un, ud := uint32(n), uint32(d)
	if ud == 0 {
		return 0xFFFFFFFFFFFFFFFF
	}
	return bitops.SignExt(32, uint64(un/ud))
}

// Remw performs signed 32-bit remainder on the low 32 bits of its
// operands and sign-extends the result.
func Remw(n, d uint64) uint64 {
	sn, sd := int32(uint32(n)), int32(uint32(d))
	if sd == 0 {
		return bitops.SignExt(32, uint64(uint32(sn)))
	}
	if sn == -1<<31 && sd == -1 {
		return 0
	}
	return bitops.SignExt(32, uint64(uint32(sn%sd)))
}

// Remuw performs unsigned 32-bit remainder on the low 32 bits of its
// operands and sign-extends the result.
func Remuw(n, d uint64) uint64 {
	un, ud := uint32(n), uint32(d)
	if ud == 0 {
		return bitops.SignExt(32, uint64(un))
	}
	return bitops.SignExt(32, uint64(un%ud))
}
