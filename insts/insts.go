// Package insts provides the instruction model and decoder for the
// emulated 64-bit integer RISC machine: a raw-fetch record, the tagged
// decoded-instruction union, the enumerations that parameterize it, and
// the pure decode function that turns one into the other.
package insts

// RawInst is a fetched instruction before decoding: the program counter
// it was fetched from and the raw bits. A compressed (16-bit) encoding
// is carried zero-extended into the low half of Raw; a full encoding
// occupies all 32 bits.
type RawInst struct {
	PC  uint64
	Raw uint32
}

// Op identifies the operation an Inst carries out. The decoder
// never returns more than one Op per RawInst; the executor switches on
// it without any further classification.
type Op int

const (
	OpInvalid Op = iota

	// R-type integer ops.
	OpAdd
	OpSub
	OpSll
	OpSlt
	OpSltu
	OpXor
	OpSrl
	OpSra
	OpOr
	OpAnd

	// I-type integer-immediate ops.
	OpAddi
	OpSlti
	OpSltiu
	OpXori
	OpOri
	OpAndi
	OpSlli
	OpSrli
	OpSrai

	// Word-width (32-bit, sign-extended) R-type ops.
	OpAddw
	OpSubw
	OpSllw
	OpSrlw
	OpSraw

	// Word-width I-type ops.
	OpAddiw
	OpSlliw
	OpSrliw
	OpSraiw

	// M-extension-style divide/remainder.
	OpDiv
	OpDivu
	OpRem
	OpRemu
	OpDivw
	OpDivuw
	OpRemw
	OpRemuw

	OpLui
	OpAuipc
	OpJal
	OpJalr
	OpBranch
	OpLoad
	OpStore

	OpECall
	OpEBreak

	// Compressed quadrant 0.
	OpCAddi4spn
	OpCLoad
	OpCStore

	// Compressed quadrant 1.
	OpCAddi
	OpCAddiw
	OpCLi
	OpCAddi16sp
	OpCLui
	OpCSrli
	OpCSrai
	OpCAndi
	OpCSub
	OpCXor
	OpCOr
	OpCAnd
	OpCSubw
	OpCAddw
	OpCJ
	OpCJal
	OpCBeqz
	OpCBnez

	// Compressed quadrant 2.
	OpCSlli
	OpCLwsp
	OpCLdsp
	OpCJr
	OpCMv
	OpCEBreak
	OpCJalr
	OpCAdd
	OpCSwsp
	OpCSdsp

	// Decoded but never executable: standard-extension variants the
	// source marks unimplemented (compressed float load/store).
	OpUnimplemented
)

// BranchFunc distinguishes the six RISC-V branch comparisons.
type BranchFunc int

const (
	BranchEq BranchFunc = iota
	BranchNeq
	BranchLt
	BranchGe
	BranchLtu
	BranchGeu
)

// Width distinguishes load/store access widths, including the
// zero-extending unsigned load variants that have no store counterpart.
type Width int

const (
	WidthByte Width = iota
	WidthHalf
	WidthWord
	WidthDouble
	WidthByteU
	WidthHalfU
	WidthWordU
)

// CWidth distinguishes the three widths the compressed quadrant-0
// load/store forms (C.LW/C.SW/C.LD/C.SD) can carry; the stack-relative
// forms have ops of their own and do not use it. CWidthFD is reserved
// for the floating-point variants, which decode but never execute.
type CWidth int

const (
	CWidthFD CWidth = iota
	CWidthW
	CWidthD
)

// Inst is the tagged decoded-instruction value. Only the fields relevant
// to Op are meaningful; Imm is always already sign-extended to 64 bits
// by the decoder, so the executor never extends it again.
type Inst struct {
	Op     Op
	Rd     int
	Rs1    int
	Rs2    int
	Imm    uint64
	Func   BranchFunc
	Width  Width
	CWidth CWidth
}
