package insts

import "fmt"

var opNames = map[Op]string{
	OpAdd: "add", OpSub: "sub", OpSll: "sll", OpSlt: "slt", OpSltu: "sltu",
	OpXor: "xor", OpSrl: "srl", OpSra: "sra", OpOr: "or", OpAnd: "and",
	OpAddi: "addi", OpSlti: "slti", OpSltiu: "sltiu", OpXori: "xori",
	OpOri: "ori", OpAndi: "andi", OpSlli: "slli", OpSrli: "srli", OpSrai: "srai",
	OpAddw: "addw", OpSubw: "subw", OpSllw: "sllw", OpSrlw: "srlw", OpSraw: "sraw",
	OpAddiw: "addiw", OpSlliw: "slliw", OpSrliw: "srliw", OpSraiw: "sraiw",
	OpDiv: "div", OpDivu: "divu", OpRem: "rem", OpRemu: "remu",
	OpDivw: "divw", OpDivuw: "divuw", OpRemw: "remw", OpRemuw: "remuw",
	OpLui: "lui", OpAuipc: "auipc", OpJal: "jal", OpJalr: "jalr",
	OpBranch: "branch", OpLoad: "load", OpStore: "store",
	OpECall: "ecall", OpEBreak: "ebreak",
	OpCAddi4spn: "c.addi4spn", OpCLoad: "c.load", OpCStore: "c.store",
	OpCAddi: "c.addi", OpCAddiw: "c.addiw", OpCLi: "c.li", OpCAddi16sp: "c.addi16sp",
	OpCLui: "c.lui", OpCSrli: "c.srli", OpCSrai: "c.srai", OpCAndi: "c.andi",
	OpCSub: "c.sub", OpCXor: "c.xor", OpCOr: "c.or", OpCAnd: "c.and",
	OpCSubw: "c.subw", OpCAddw: "c.addw", OpCJ: "c.j", OpCJal: "c.jal",
	OpCBeqz: "c.beqz", OpCBnez: "c.bnez",
	OpCSlli: "c.slli", OpCLwsp: "c.lwsp", OpCLdsp: "c.ldsp", OpCJr: "c.jr",
	OpCMv: "c.mv", OpCEBreak: "c.ebreak", OpCJalr: "c.jalr", OpCAdd: "c.add",
	OpCSwsp: "c.swsp", OpCSdsp: "c.sdsp",
	OpUnimplemented: "unimplemented",
}

// Disasm renders a short, register-numbered textual form of inst,
// suitable for trace output. It is not a full disassembler: each group
// of ops (jumps, branches, loads, stores, and so on) prints one fixed
// operand shape, and every other op prints "rd, rs1, rs2 (imm=...)".
func (inst Inst) Disasm() string {
	name, ok := opNames[inst.Op]
	if !ok {
		name = fmt.Sprintf("op(%d)", inst.Op)
	}
	switch inst.Op {
	case OpJal, OpLui, OpAuipc, OpCLi, OpCLui, OpCJ:
		return fmt.Sprintf("%s x%d, %d", name, inst.Rd, int64(inst.Imm))
	case OpJalr, OpCJalr, OpCJr:
		return fmt.Sprintf("%s x%d", name, inst.Rs1)
	case OpBranch:
		return fmt.Sprintf("%s x%d, x%d, %d", name, inst.Rs1, inst.Rs2, int64(inst.Imm))
	case OpECall, OpEBreak, OpCEBreak:
		return name
	case OpLoad, OpCLoad, OpCLwsp, OpCLdsp:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rd, int64(inst.Imm), inst.Rs1)
	case OpStore, OpCStore, OpCSwsp, OpCSdsp:
		return fmt.Sprintf("%s x%d, %d(x%d)", name, inst.Rs2, int64(inst.Imm), inst.Rs1)
	default:
		return fmt.Sprintf("%s x%d, x%d, x%d (imm=%d)", name, inst.Rd, inst.Rs1, inst.Rs2, int64(inst.Imm))
	}
}
