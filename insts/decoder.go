package insts

import (
	"fmt"

	"github.com/sarchlab/rvemu/bitops"
)

// Decoder turns raw fetched bits into a tagged Inst. It carries no
// state; Decode is a pure function of its argument.
type Decoder struct{}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// major opcode values (bits [6:0] of a full 32-bit encoding).
const (
	opLoad    = 0b0000011
	opStore   = 0b0100011
	opBranch  = 0b1100011
	opJalr    = 0b1100111
	opJal     = 0b1101111
	opOpImm   = 0b0010011
	opOp      = 0b0110011
	opSystem  = 0b1110011
	opAuipc   = 0b0010111
	opLui     = 0b0110111
	opOpImm32 = 0b0011011
	opOp32    = 0b0111011
)

func bit(raw uint32, lo, hi int) uint64 {
	return bitops.Get(uint64(raw), bitops.Range{Lo: lo, Hi: hi})
}

func rd(raw uint32) int     { return int(bit(raw, 7, 11)) }
func rs1(raw uint32) int    { return int(bit(raw, 15, 19)) }
func rs2(raw uint32) int    { return int(bit(raw, 20, 24)) }
func funct3(raw uint32) int { return int(bit(raw, 12, 14)) }
func funct7(raw uint32) int { return int(bit(raw, 25, 31)) }

// rs1c/rs2cHigh extract the 3-bit compressed register fields and map
// them into the full x8..x15 range, per the C' register-numbering
// convention.
func rs1c(raw uint32) int     { return int(bit(raw, 7, 9)) + 8 }
func rs2cHigh(raw uint32) int { return int(bit(raw, 2, 4)) + 8 }

func immI(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(12,
		bitops.Map(v, bitops.Range{31, 31}, bitops.Range{11, 11})|
			bitops.Map(v, bitops.Range{25, 30}, bitops.Range{5, 10})|
			bitops.Map(v, bitops.Range{21, 24}, bitops.Range{1, 4})|
			bitops.Map(v, bitops.Range{20, 20}, bitops.Range{0, 0}))
}

func immS(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(12,
		bitops.Map(v, bitops.Range{31, 31}, bitops.Range{11, 11})|
			bitops.Map(v, bitops.Range{25, 30}, bitops.Range{5, 10})|
			bitops.Map(v, bitops.Range{8, 11}, bitops.Range{1, 4})|
			bitops.Map(v, bitops.Range{7, 7}, bitops.Range{0, 0}))
}

func immB(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(13,
		bitops.Map(v, bitops.Range{31, 31}, bitops.Range{12, 12})|
			bitops.Map(v, bitops.Range{7, 7}, bitops.Range{11, 11})|
			bitops.Map(v, bitops.Range{25, 30}, bitops.Range{5, 10})|
			bitops.Map(v, bitops.Range{8, 11}, bitops.Range{1, 4}))
}

func immU(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(32, bitops.Map(v, bitops.Range{12, 31}, bitops.Range{12, 31}))
}

func immJ(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(21,
		bitops.Map(v, bitops.Range{31, 31}, bitops.Range{20, 20})|
			bitops.Map(v, bitops.Range{12, 19}, bitops.Range{12, 19})|
			bitops.Map(v, bitops.Range{20, 20}, bitops.Range{11, 11})|
			bitops.Map(v, bitops.Range{25, 30}, bitops.Range{5, 10})|
			bitops.Map(v, bitops.Range{21, 24}, bitops.Range{1, 4}))
}

// Compressed-extension immediate layouts. Names mirror the RVC
// mnemonics they serve.

func immC0LSW(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{5, 5}, bitops.Range{6, 6}) |
		bitops.Map(v, bitops.Range{10, 12}, bitops.Range{3, 5}) |
		bitops.Map(v, bitops.Range{6, 6}, bitops.Range{2, 2})
}

func immC0LSD(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{5, 6}, bitops.Range{6, 7}) |
		bitops.Map(v, bitops.Range{10, 12}, bitops.Range{3, 5})
}

func immC0Addi4spn(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{5, 5}, bitops.Range{3, 3}) |
		bitops.Map(v, bitops.Range{6, 6}, bitops.Range{2, 2}) |
		bitops.Map(v, bitops.Range{7, 10}, bitops.Range{6, 9}) |
		bitops.Map(v, bitops.Range{11, 12}, bitops.Range{4, 5})
}

func immC1JJal(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(12,
		bitops.Map(v, bitops.Range{2, 2}, bitops.Range{5, 5})|
			bitops.Map(v, bitops.Range{3, 5}, bitops.Range{1, 3})|
			bitops.Map(v, bitops.Range{6, 6}, bitops.Range{7, 7})|
			bitops.Map(v, bitops.Range{7, 7}, bitops.Range{6, 6})|
			bitops.Map(v, bitops.Range{8, 8}, bitops.Range{10, 10})|
			bitops.Map(v, bitops.Range{9, 10}, bitops.Range{8, 9})|
			bitops.Map(v, bitops.Range{11, 11}, bitops.Range{4, 4})|
			bitops.Map(v, bitops.Range{12, 12}, bitops.Range{11, 11}))
}

func immC1Bra(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(9,
		bitops.Map(v, bitops.Range{12, 12}, bitops.Range{8, 8})|
			bitops.Map(v, bitops.Range{10, 11}, bitops.Range{3, 4})|
			bitops.Map(v, bitops.Range{5, 6}, bitops.Range{6, 7})|
			bitops.Map(v, bitops.Range{3, 4}, bitops.Range{1, 2})|
			bitops.Map(v, bitops.Range{2, 2}, bitops.Range{5, 5}))
}

func immC1OpImm(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(6,
		bitops.Map(v, bitops.Range{2, 6}, bitops.Range{0, 4})|
			bitops.Map(v, bitops.Range{12, 12}, bitops.Range{5, 5}))
}

func immC1Lui(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(18,
		bitops.Map(v, bitops.Range{2, 6}, bitops.Range{12, 16})|
			bitops.Map(v, bitops.Range{12, 12}, bitops.Range{17, 17}))
}

func immC1Addi16sp(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.SignExt(10,
		bitops.Map(v, bitops.Range{2, 2}, bitops.Range{5, 5})|
			bitops.Map(v, bitops.Range{3, 4}, bitops.Range{7, 8})|
			bitops.Map(v, bitops.Range{5, 5}, bitops.Range{6, 6})|
			bitops.Map(v, bitops.Range{6, 6}, bitops.Range{4, 4})|
			bitops.Map(v, bitops.Range{12, 12}, bitops.Range{9, 9}))
}

func immC2Slli(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{2, 6}, bitops.Range{0, 4}) |
		bitops.Map(v, bitops.Range{12, 12}, bitops.Range{5, 5})
}

func immC2LW(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{2, 3}, bitops.Range{6, 7}) |
		bitops.Map(v, bitops.Range{12, 12}, bitops.Range{5, 5}) |
		bitops.Map(v, bitops.Range{4, 6}, bitops.Range{2, 4})
}

func immC2LD(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{2, 4}, bitops.Range{6, 8}) |
		bitops.Map(v, bitops.Range{12, 12}, bitops.Range{5, 5}) |
		bitops.Map(v, bitops.Range{5, 6}, bitops.Range{3, 4})
}

func immC2SW(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{7, 8}, bitops.Range{6, 7}) |
		bitops.Map(v, bitops.Range{9, 12}, bitops.Range{2, 5})
}

func immC2SD(raw uint32) uint64 {
	v := uint64(raw)
	return bitops.Map(v, bitops.Range{7, 9}, bitops.Range{6, 8}) |
		bitops.Map(v, bitops.Range{10, 12}, bitops.Range{3, 5})
}

// Decode turns a RawInst into a tagged Inst, or an error naming the raw
// bits and the PC it was fetched from if the encoding is unrecognized.
func (d *Decoder) Decode(r RawInst) (Inst, error) {
	raw := r.Raw

	var (
		inst Inst
		err  error
	)
	switch raw & 0b11 {
	case 0b00:
		inst, err = decodeC0(raw)
	case 0b01:
		inst, err = decodeC1(raw)
	case 0b10:
		inst, err = decodeC2(raw)
	default:
		inst, err = decodeFull(raw)
	}
	if err != nil {
		return Inst{}, fmt.Errorf("%w (raw 0x%08x, pc %#x)", err, raw, r.PC)
	}
	return inst, nil
}

func decodeFull(raw uint32) (Inst, error) {
	opcode := raw & 0b1111111
	f3 := funct3(raw)

	switch opcode {
	case opOp:
		switch f3 {
		case 0:
			switch funct7(raw) {
			case 0b0000000:
				return Inst{Op: OpAdd, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			case 0b0100000:
				return Inst{Op: OpSub, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		case 1:
			return Inst{Op: OpSll, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		case 2:
			return Inst{Op: OpSlt, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		case 3:
			return Inst{Op: OpSltu, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		case 4:
			if funct7(raw) == 0b0000001 {
				return Inst{Op: OpDiv, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
			return Inst{Op: OpXor, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		case 5:
			switch funct7(raw) {
			case 0b0000000:
				return Inst{Op: OpSrl, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			case 0b0100000:
				return Inst{Op: OpSra, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			case 0b0000001:
				return Inst{Op: OpDivu, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		case 6:
			if funct7(raw) == 0b0000001 {
				return Inst{Op: OpRem, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
			return Inst{Op: OpOr, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		case 7:
			if funct7(raw) == 0b0000001 {
				return Inst{Op: OpRemu, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
			return Inst{Op: OpAnd, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		}
		return Inst{}, fmt.Errorf("decode: invalid funct7 0b%07b for OP funct3 %d", funct7(raw), f3)

	case opOp32:
		switch f3 {
		case 0:
			switch funct7(raw) {
			case 0b0000000:
				return Inst{Op: OpAddw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			case 0b0100000:
				return Inst{Op: OpSubw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		case 1:
			return Inst{Op: OpSllw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
		case 4:
			if funct7(raw) == 0b0000001 {
				return Inst{Op: OpDivw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		case 5:
			switch funct7(raw) {
			case 0b0000000:
				return Inst{Op: OpSrlw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			case 0b0100000:
				return Inst{Op: OpSraw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			case 0b0000001:
				return Inst{Op: OpDivuw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		case 6:
			if funct7(raw) == 0b0000001 {
				return Inst{Op: OpRemw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		case 7:
			if funct7(raw) == 0b0000001 {
				return Inst{Op: OpRemuw, Rs1: rs1(raw), Rs2: rs2(raw), Rd: rd(raw)}, nil
			}
		}
		return Inst{}, fmt.Errorf("decode: invalid funct7 0b%07b for OP-32 funct3 %d", funct7(raw), f3)

	case opOpImm:
		switch f3 {
		case 0:
			return Inst{Op: OpAddi, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		case 1:
			return Inst{Op: OpSlli, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw) & 0x3F}, nil
		case 2:
			return Inst{Op: OpSlti, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		case 3:
			return Inst{Op: OpSltiu, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		case 4:
			return Inst{Op: OpXori, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		case 5:
			switch funct7(raw) >> 1 {
			case 0b000000:
				return Inst{Op: OpSrli, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw) & 0x3F}, nil
			case 0b010000:
				return Inst{Op: OpSrai, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw) & 0x3F}, nil
			}
			return Inst{}, fmt.Errorf("decode: invalid funct6 for OP-IMM shift right")
		case 6:
			return Inst{Op: OpOri, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		case 7:
			return Inst{Op: OpAndi, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		}

	case opOpImm32:
		switch f3 {
		case 0:
			return Inst{Op: OpAddiw, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil
		case 1:
			return Inst{Op: OpSlliw, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw) & 0x1F}, nil
		case 5:
			switch funct7(raw) {
			case 0b0000000:
				return Inst{Op: OpSrliw, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw) & 0x1F}, nil
			case 0b0100000:
				return Inst{Op: OpSraiw, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw) & 0x1F}, nil
			}
			return Inst{}, fmt.Errorf("decode: invalid funct7 for OP-IMM-32 shift right")
		}

	case opLui:
		return Inst{Op: OpLui, Rd: rd(raw), Imm: immU(raw)}, nil

	case opAuipc:
		return Inst{Op: OpAuipc, Rd: rd(raw), Imm: immU(raw)}, nil

	case opJal:
		return Inst{Op: OpJal, Rd: rd(raw), Imm: immJ(raw)}, nil

	case opJalr:
		return Inst{Op: OpJalr, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil

	case opBranch:
		bf, err := branchFunc(f3)
		if err != nil {
			return Inst{}, err
		}
		return Inst{Op: OpBranch, Func: bf, Rs1: rs1(raw), Rs2: rs2(raw), Imm: immB(raw)}, nil

	case opLoad:
		w, err := loadWidth(f3)
		if err != nil {
			return Inst{}, err
		}
		return Inst{Op: OpLoad, Width: w, Rs1: rs1(raw), Rd: rd(raw), Imm: immI(raw)}, nil

	case opStore:
		w, err := storeWidth(f3)
		if err != nil {
			return Inst{}, err
		}
		return Inst{Op: OpStore, Width: w, Rs1: rs1(raw), Rs2: rs2(raw), Imm: immS(raw)}, nil

	case opSystem:
		if f3 == 0 {
			imm := bit(raw, 20, 31)
			switch imm {
			case 0:
				return Inst{Op: OpECall}, nil
			case 1:
				return Inst{Op: OpEBreak}, nil
			}
		}
	}

	return Inst{}, fmt.Errorf("decode: unrecognized opcode 0b%07b funct3 %d in raw 0x%08x", opcode, f3, raw)
}

func branchFunc(f3 int) (BranchFunc, error) {
	switch f3 {
	case 0b000:
		return BranchEq, nil
	case 0b001:
		return BranchNeq, nil
	case 0b100:
		return BranchLt, nil
	case 0b101:
		return BranchGe, nil
	case 0b110:
		return BranchLtu, nil
	case 0b111:
		return BranchGeu, nil
	}
	return 0, fmt.Errorf("decode: invalid branch funct3 %d", f3)
}

func loadWidth(f3 int) (Width, error) {
	switch f3 {
	case 0b000:
		return WidthByte, nil
	case 0b001:
		return WidthHalf, nil
	case 0b010:
		return WidthWord, nil
	case 0b011:
		return WidthDouble, nil
	case 0b100:
		return WidthByteU, nil
	case 0b101:
		return WidthHalfU, nil
	case 0b110:
		return WidthWordU, nil
	}
	return 0, fmt.Errorf("decode: invalid load funct3 %d", f3)
}

func storeWidth(f3 int) (Width, error) {
	switch f3 {
	case 0b000:
		return WidthByte, nil
	case 0b001:
		return WidthHalf, nil
	case 0b010:
		return WidthWord, nil
	case 0b011:
		return WidthDouble, nil
	}
	return 0, fmt.Errorf("decode: invalid store funct3 %d", f3)
}

func decodeC0(raw uint32) (Inst, error) {
	minor := int(bit(raw, 13, 15))
	rdC := rs2cHigh(raw)
	rs1C := rs1c(raw)

	switch minor {
	case 0:
		if raw&0xFFFF == 0 {
			return Inst{}, fmt.Errorf("decode: illegal all-zero compressed instruction")
		}
		return Inst{Op: OpCAddi4spn, Rd: rdC, Imm: immC0Addi4spn(raw)}, nil
	case 1:
		return Inst{Op: OpCLoad, CWidth: CWidthFD, Rs1: rs1C, Rd: rdC, Imm: immC0LSD(raw)}, nil
	case 2:
		return Inst{Op: OpCLoad, CWidth: CWidthW, Rs1: rs1C, Rd: rdC, Imm: immC0LSW(raw)}, nil
	case 3:
		return Inst{Op: OpCLoad, CWidth: CWidthD, Rs1: rs1C, Rd: rdC, Imm: immC0LSD(raw)}, nil
	case 5:
		return Inst{Op: OpCStore, CWidth: CWidthFD, Rs1: rs1C, Rs2: rdC, Imm: immC0LSD(raw)}, nil
	case 6:
		return Inst{Op: OpCStore, CWidth: CWidthW, Rs1: rs1C, Rs2: rdC, Imm: immC0LSW(raw)}, nil
	case 7:
		return Inst{Op: OpCStore, CWidth: CWidthD, Rs1: rs1C, Rs2: rdC, Imm: immC0LSD(raw)}, nil
	}
	return Inst{}, fmt.Errorf("decode: unrecognized C0 minor %d in raw 0x%04x", minor, raw&0xFFFF)
}

func decodeC1(raw uint32) (Inst, error) {
	minor := int(bit(raw, 13, 15))
	rdrs1 := rd(raw)

	switch minor {
	case 0:
		return Inst{Op: OpCAddi, Rd: rdrs1, Imm: immC1OpImm(raw)}, nil
	case 1:
		return Inst{Op: OpCAddiw, Rd: rdrs1, Imm: immC1OpImm(raw)}, nil
	case 2:
		return Inst{Op: OpCLi, Rd: rdrs1, Imm: immC1OpImm(raw)}, nil
	case 3:
		if rdrs1 == 2 {
			return Inst{Op: OpCAddi16sp, Imm: immC1Addi16sp(raw)}, nil
		}
		return Inst{Op: OpCLui, Rd: rdrs1, Imm: immC1Lui(raw)}, nil
	case 4:
		bit12 := bit(raw, 12, 12)
		grp := int(bit(raw, 10, 11))
		rsrd := rs1c(raw)
		rs2C := rs2cHigh(raw)

		switch grp {
		case 0:
			return Inst{Op: OpCSrli, Rd: rsrd, Imm: immC1OpImm(raw) & 0x3F}, nil
		case 1:
			return Inst{Op: OpCSrai, Rd: rsrd, Imm: immC1OpImm(raw) & 0x3F}, nil
		case 2:
			return Inst{Op: OpCAndi, Rd: rsrd, Imm: immC1OpImm(raw)}, nil
		case 3:
			sub := int(bit(raw, 5, 6))
			if bit12 == 0 {
				switch sub {
				case 0:
					return Inst{Op: OpCSub, Rd: rsrd, Rs2: rs2C}, nil
				case 1:
					return Inst{Op: OpCXor, Rd: rsrd, Rs2: rs2C}, nil
				case 2:
					return Inst{Op: OpCOr, Rd: rsrd, Rs2: rs2C}, nil
				case 3:
					return Inst{Op: OpCAnd, Rd: rsrd, Rs2: rs2C}, nil
				}
			} else {
				switch sub {
				case 0:
					return Inst{Op: OpCSubw, Rd: rsrd, Rs2: rs2C}, nil
				case 1:
					return Inst{Op: OpCAddw, Rd: rsrd, Rs2: rs2C}, nil
				}
			}
		}
		return Inst{}, fmt.Errorf("decode: unrecognized C1 arithmetic encoding in raw 0x%04x", raw&0xFFFF)
	case 5:
		return Inst{Op: OpCJ, Imm: immC1JJal(raw)}, nil
	case 6:
		return Inst{Op: OpCBeqz, Rs1: rs1c(raw), Imm: immC1Bra(raw)}, nil
	case 7:
		return Inst{Op: OpCBnez, Rs1: rs1c(raw), Imm: immC1Bra(raw)}, nil
	}
	return Inst{}, fmt.Errorf("decode: unrecognized C1 minor %d in raw 0x%04x", minor, raw&0xFFFF)
}

func decodeC2(raw uint32) (Inst, error) {
	minor := int(bit(raw, 13, 15))
	rdrs1 := rd(raw)

	switch minor {
	case 0:
		return Inst{Op: OpCSlli, Rd: rdrs1, Imm: immC2Slli(raw)}, nil
	case 2:
		return Inst{Op: OpCLwsp, Rd: rdrs1, Imm: immC2LW(raw)}, nil
	case 3:
		return Inst{Op: OpCLdsp, Rd: rdrs1, Imm: immC2LD(raw)}, nil
	case 4:
		bit12 := bit(raw, 12, 12)
		rs2 := int(bit(raw, 2, 6))

		switch {
		case bit12 == 0 && rs2 == 0:
			return Inst{Op: OpCJr, Rs1: rdrs1}, nil
		case bit12 == 0:
			return Inst{Op: OpCMv, Rd: rdrs1, Rs2: rs2}, nil
		case bit12 == 1 && rdrs1 == 0 && rs2 == 0:
			return Inst{Op: OpCEBreak}, nil
		case bit12 == 1 && rs2 == 0:
			return Inst{Op: OpCJalr, Rs1: rdrs1}, nil
		default:
			return Inst{Op: OpCAdd, Rd: rdrs1, Rs2: rs2}, nil
		}
	case 6:
		return Inst{Op: OpCSwsp, Rs2: int(bit(raw, 2, 6)), Imm: immC2SW(raw)}, nil
	case 7:
		return Inst{Op: OpCSdsp, Rs2: int(bit(raw, 2, 6)), Imm: immC2SD(raw)}, nil
	case 1, 5:
		return Inst{Op: OpUnimplemented}, nil
	}
	return Inst{}, fmt.Errorf("decode: unrecognized C2 minor %d in raw 0x%04x", minor, raw&0xFFFF)
}
