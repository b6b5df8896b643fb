package emu

import "github.com/sarchlab/rvemu/insts"

// BranchUnit evaluates branch predicates and moves the program counter
// to absolute jump targets. Unlike a flag-based architecture, this machine's conditional
// branches compare two register values directly; there is no separate
// condition-code state to consult.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given
// register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Evaluate reports whether a branch of the given kind is taken for
// operand values a (rs1) and b (rs2).
func (u *BranchUnit) Evaluate(fn insts.BranchFunc, a, b uint64) bool {
	switch fn {
	case insts.BranchEq:
		return a == b
	case insts.BranchNeq:
		return a != b
	case insts.BranchLt:
		return int64(a) < int64(b)
	case insts.BranchGe:
		return int64(a) >= int64(b)
	case insts.BranchLtu:
		return a < b
	case insts.BranchGeu:
		return a >= b
	default:
		return false
	}
}

// JumpTo sets the program counter to an absolute target. Callers
// compute the target themselves, whether that's PC-relative (taken
// branches, jal) or register-relative (jalr and its compressed forms).
func (u *BranchUnit) JumpTo(target uint64) {
	u.regFile.PC = target
}
