package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rvemu/insts"
)

// StepResult reports what happened after executing a single
// instruction.
type StepResult struct {
	Exited   bool
	ExitCode int64
	Err      error
}

// Emulator drives the fetch-decode-execute loop over a RegFile and
// Memory.
type Emulator struct {
	regFile        *RegFile
	memory         *Memory
	decoder        *insts.Decoder
	syscallHandler SyscallHandler

	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	stdout io.Writer
	stderr io.Writer

	instructionCount uint64
	maxInstructions  uint64

	trace   bool
	tracing bool
	symbols map[uint64]string
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithSyscallHandler sets a custom syscall handler.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) { e.syscallHandler = handler }
}

// WithStackPointer sets the initial value of x2 (the stack pointer).
func WithStackPointer(sp uint64) EmulatorOption {
	return func(e *Emulator) { e.regFile.X[2] = sp }
}

// WithMaxInstructions bounds how many instructions Run will execute
// before giving up. Zero means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// WithTrace enables per-instruction trace output from the first
// instruction, rather than waiting for the in-guest debug toggle.
func WithTrace(enabled bool) EmulatorOption {
	return func(e *Emulator) { e.trace = enabled }
}

// WithSymbols supplies an address-to-name map used to annotate call
// and return sites in trace output.
func WithSymbols(symbols map[uint64]string) EmulatorOption {
	return func(e *Emulator) { e.symbols = symbols }
}

// NewEmulator creates an Emulator over a fresh register file and the
// given memory.
func NewEmulator(memory *Memory, opts ...EmulatorOption) *Emulator {
	regFile := &RegFile{}
	regFile.X[2] = DefaultStackBase

	e := &Emulator{
		regFile: regFile,
		memory:  memory,
		decoder: insts.NewDecoder(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		symbols: map[uint64]string{},
	}

	for _, opt := range opts {
		opt(e)
	}

	e.lsu = NewLoadStoreUnit(regFile, memory)
	e.branchUnit = NewBranchUnit(regFile)

	if e.syscallHandler == nil {
		e.syscallHandler = NewDefaultSyscallHandler(regFile, memory, e.stdout, e.stderr)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// SetEntry sets the program counter to the program's entry point.
func (e *Emulator) SetEntry(entry uint64) {
	e.regFile.PC = entry
}

// Step fetches, decodes, and executes one instruction. Compressed and
// full-width encodings are both handled: the low 16 bits at PC
// determine which to fetch.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: fmt.Errorf("exceeded max instruction count (%d)", e.maxInstructions)}
	}

	pc := e.regFile.PC
	low16, err := e.memory.Read16(pc)
	if err != nil {
		return StepResult{Err: err}
	}

	var (
		raw   uint32
		width uint64
	)
	if low16&0b11 == 0b11 {
		full, err := e.memory.Read32(pc)
		if err != nil {
			return StepResult{Err: err}
		}
		raw = uint32(full)
		width = 4
	} else {
		raw = uint32(low16)
		width = 2
	}

	inst, err := e.decoder.Decode(insts.RawInst{PC: pc, Raw: raw})
	if err != nil {
		return StepResult{Err: err}
	}

	if e.trace || e.tracing {
		e.emitTrace(pc, raw, inst)
	}

	result := e.execute(inst, pc, width)
	e.instructionCount++
	return result
}

// Run steps until the program exits or a fatal error occurs.
func (e *Emulator) Run() int64 {
	for {
		result := e.Step()
		if result.Exited {
			return result.ExitCode
		}
		if result.Err != nil {
			fmt.Fprintf(e.stderr, "emulation error: %v\n", result.Err)
			return -1
		}
	}
}

func (e *Emulator) emitTrace(pc uint64, raw uint32, inst insts.Inst) {
	fmt.Fprintf(e.stdout, "    %#016x: (%#08x) %s\n", pc, raw, inst.Disasm())

	switch inst.Op {
	case insts.OpJalr, insts.OpCJalr:
		if inst.Op == insts.OpJalr && inst.Rs1 == 1 && inst.Rd == 0 {
			fmt.Fprintf(e.stdout, "Return\n")
		} else if target, ok := e.symbols[e.regFile.ReadReg(inst.Rs1)+inst.Imm]; ok {
			fmt.Fprintf(e.stdout, "Call %s\n", target)
		}
	case insts.OpCJr:
		if inst.Rs1 == 1 {
			fmt.Fprintf(e.stdout, "Return\n")
		}
	case insts.OpJal:
		if name, ok := e.symbols[pc+inst.Imm]; ok {
			fmt.Fprintf(e.stdout, "Call %s\n", name)
		}
	}
}

// execute carries out inst's semantics, fetched from pc and width
// bytes wide. It returns the next StepResult and is responsible for
// advancing the program counter, including control-flow instructions
// that branch elsewhere.
func (e *Emulator) execute(inst insts.Inst, pc, width uint64) StepResult {
	r := e.regFile

	toggleTraceOnNop := func() {
		if inst.Op == insts.OpAddi && inst.Rs1 == 0 && inst.Rd == 0 {
			switch inst.Imm {
			case 1:
				e.tracing = true
			case 2:
				e.tracing = false
			}
		}
	}

	switch inst.Op {
	// --- control flow ---
	case insts.OpJal:
		r.WriteReg(inst.Rd, pc+width)
		e.branchUnit.JumpTo(pc + inst.Imm)
		return StepResult{}

	case insts.OpJalr:
		target := (r.ReadReg(inst.Rs1) + inst.Imm) &^ 1
		r.WriteReg(inst.Rd, pc+width)
		e.branchUnit.JumpTo(target)
		return StepResult{}

	case insts.OpBranch:
		if e.branchUnit.Evaluate(inst.Func, r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)) {
			e.branchUnit.JumpTo(pc + inst.Imm)
		} else {
			e.branchUnit.JumpTo(pc + width)
		}
		return StepResult{}

	case insts.OpCJ:
		e.branchUnit.JumpTo(pc + inst.Imm)
		return StepResult{}

	case insts.OpCBeqz:
		if r.ReadReg(inst.Rs1) == 0 {
			e.branchUnit.JumpTo(pc + inst.Imm)
		} else {
			e.branchUnit.JumpTo(pc + width)
		}
		return StepResult{}

	case insts.OpCBnez:
		if r.ReadReg(inst.Rs1) != 0 {
			e.branchUnit.JumpTo(pc + inst.Imm)
		} else {
			e.branchUnit.JumpTo(pc + width)
		}
		return StepResult{}

	case insts.OpCJr:
		e.branchUnit.JumpTo(r.ReadReg(inst.Rs1))
		return StepResult{}

	case insts.OpCJalr:
		target := r.ReadReg(inst.Rs1)
		r.WriteReg(1, pc+width)
		e.branchUnit.JumpTo(target)
		return StepResult{}

	// --- traps ---
	case insts.OpECall:
		r.PC = pc + width
		res := e.syscallHandler.Handle()
		return StepResult{Exited: res.Exited, ExitCode: res.ExitCode, Err: res.Err}

	case insts.OpEBreak, insts.OpCEBreak:
		return StepResult{Exited: true, ExitCode: 0}

	case insts.OpUnimplemented:
		return StepResult{Err: fmt.Errorf("unimplemented instruction at pc %#016x", pc)}
	}

	// --- everything else advances pc by width and falls through ---
	if err := e.executeStraightLine(inst, pc); err != nil {
		return StepResult{Err: err}
	}
	toggleTraceOnNop()
	r.PC = pc + width
	return StepResult{}
}

// executeStraightLine handles every instruction that never redirects
// control flow: ALU ops, loads, stores, and their compressed forms.
func (e *Emulator) executeStraightLine(inst insts.Inst, pc uint64) error {
	r := e.regFile

	switch inst.Op {
	case insts.OpAdd:
		r.WriteReg(inst.Rd, insts.Add(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSub:
		r.WriteReg(inst.Rd, insts.Sub(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSll:
		r.WriteReg(inst.Rd, insts.Sll(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSlt:
		r.WriteReg(inst.Rd, insts.Slt(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSltu:
		r.WriteReg(inst.Rd, insts.Sltu(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpXor:
		r.WriteReg(inst.Rd, insts.Xor(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSrl:
		r.WriteReg(inst.Rd, insts.Srl(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSra:
		r.WriteReg(inst.Rd, insts.Sra(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpOr:
		r.WriteReg(inst.Rd, insts.Or(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpAnd:
		r.WriteReg(inst.Rd, insts.And(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))

	case insts.OpAddi:
		r.WriteReg(inst.Rd, insts.Add(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSlti:
		r.WriteReg(inst.Rd, insts.Slt(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSltiu:
		r.WriteReg(inst.Rd, insts.Sltu(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpXori:
		r.WriteReg(inst.Rd, insts.Xor(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpOri:
		r.WriteReg(inst.Rd, insts.Or(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpAndi:
		r.WriteReg(inst.Rd, insts.And(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSlli:
		r.WriteReg(inst.Rd, insts.Sll(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSrli:
		r.WriteReg(inst.Rd, insts.Srl(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSrai:
		r.WriteReg(inst.Rd, insts.Sra(r.ReadReg(inst.Rs1), inst.Imm))

	case insts.OpAddw:
		r.WriteReg(inst.Rd, insts.Addw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSubw:
		r.WriteReg(inst.Rd, insts.Subw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSllw:
		r.WriteReg(inst.Rd, insts.Sllw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSrlw:
		r.WriteReg(inst.Rd, insts.Srlw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpSraw:
		r.WriteReg(inst.Rd, insts.Sraw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))

	case insts.OpAddiw:
		r.WriteReg(inst.Rd, insts.Addw(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSlliw:
		r.WriteReg(inst.Rd, insts.Sllw(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSrliw:
		r.WriteReg(inst.Rd, insts.Srlw(r.ReadReg(inst.Rs1), inst.Imm))
	case insts.OpSraiw:
		r.WriteReg(inst.Rd, insts.Sraw(r.ReadReg(inst.Rs1), inst.Imm))

	case insts.OpDiv:
		r.WriteReg(inst.Rd, insts.Div(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpDivu:
		r.WriteReg(inst.Rd, insts.Divu(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpRem:
		r.WriteReg(inst.Rd, insts.Rem(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpRemu:
		r.WriteReg(inst.Rd, insts.Remu(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpDivw:
		r.WriteReg(inst.Rd, insts.Divw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpDivuw:
		r.WriteReg(inst.Rd, insts.Divuw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpRemw:
		r.WriteReg(inst.Rd, insts.Remw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))
	case insts.OpRemuw:
		r.WriteReg(inst.Rd, insts.Remuw(r.ReadReg(inst.Rs1), r.ReadReg(inst.Rs2)))

	case insts.OpLui:
		r.WriteReg(inst.Rd, inst.Imm)
	case insts.OpAuipc:
		r.WriteReg(inst.Rd, pc+inst.Imm)

	case insts.OpLoad:
		v, err := e.lsu.Load(inst.Width, r.ReadReg(inst.Rs1)+inst.Imm)
		if err != nil {
			return err
		}
		r.WriteReg(inst.Rd, v)
	case insts.OpStore:
		return e.lsu.Store(inst.Width, r.ReadReg(inst.Rs1)+inst.Imm, r.ReadReg(inst.Rs2))

	// --- compressed ---
	case insts.OpCAddi4spn:
		r.WriteReg(inst.Rd, insts.Add(r.ReadReg(2), inst.Imm))
	case insts.OpCLoad:
		return e.cLoad(inst)
	case insts.OpCStore:
		return e.cStore(inst)
	case insts.OpCAddi:
		r.WriteReg(inst.Rd, insts.Add(r.ReadReg(inst.Rd), inst.Imm))
	case insts.OpCAddiw:
		r.WriteReg(inst.Rd, insts.Addw(r.ReadReg(inst.Rd), inst.Imm))
	case insts.OpCLi:
		r.WriteReg(inst.Rd, inst.Imm)
	case insts.OpCAddi16sp:
		r.WriteReg(2, insts.Add(r.ReadReg(2), inst.Imm))
	case insts.OpCLui:
		r.WriteReg(inst.Rd, inst.Imm)
	case insts.OpCSrli:
		r.WriteReg(inst.Rd, insts.Srl(r.ReadReg(inst.Rd), inst.Imm))
	case insts.OpCSrai:
		r.WriteReg(inst.Rd, insts.Sra(r.ReadReg(inst.Rd), inst.Imm))
	case insts.OpCAndi:
		r.WriteReg(inst.Rd, insts.And(r.ReadReg(inst.Rd), inst.Imm))
	case insts.OpCSub:
		r.WriteReg(inst.Rd, insts.Sub(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCXor:
		r.WriteReg(inst.Rd, insts.Xor(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCOr:
		r.WriteReg(inst.Rd, insts.Or(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCAnd:
		r.WriteReg(inst.Rd, insts.And(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCSubw:
		r.WriteReg(inst.Rd, insts.Subw(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCAddw:
		r.WriteReg(inst.Rd, insts.Addw(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCSlli:
		r.WriteReg(inst.Rd, insts.Sll(r.ReadReg(inst.Rd), inst.Imm&0x3F))
	case insts.OpCLwsp:
		v, err := e.lsu.Load(insts.WidthWord, r.ReadReg(2)+inst.Imm)
		if err != nil {
			return err
		}
		r.WriteReg(inst.Rd, v)
	case insts.OpCLdsp:
		v, err := e.lsu.Load(insts.WidthDouble, r.ReadReg(2)+inst.Imm)
		if err != nil {
			return err
		}
		r.WriteReg(inst.Rd, v)
	case insts.OpCMv:
		r.WriteReg(inst.Rd, r.ReadReg(inst.Rs2))
	case insts.OpCAdd:
		r.WriteReg(inst.Rd, insts.Add(r.ReadReg(inst.Rd), r.ReadReg(inst.Rs2)))
	case insts.OpCSwsp:
		return e.lsu.Store(insts.WidthWord, r.ReadReg(2)+inst.Imm, r.ReadReg(inst.Rs2))
	case insts.OpCSdsp:
		return e.lsu.Store(insts.WidthDouble, r.ReadReg(2)+inst.Imm, r.ReadReg(inst.Rs2))

	default:
		return fmt.Errorf("unhandled instruction op %d at pc %#016x", inst.Op, pc)
	}
	return nil
}

func (e *Emulator) cLoad(inst insts.Inst) error {
	if inst.CWidth == insts.CWidthFD {
		return fmt.Errorf("compressed floating-point load is not implemented")
	}
	width := insts.WidthWord
	if inst.CWidth == insts.CWidthD {
		width = insts.WidthDouble
	}
	v, err := e.lsu.Load(width, e.regFile.ReadReg(inst.Rs1)+inst.Imm)
	if err != nil {
		return err
	}
	e.regFile.WriteReg(inst.Rd, v)
	return nil
}

func (e *Emulator) cStore(inst insts.Inst) error {
	if inst.CWidth == insts.CWidthFD {
		return fmt.Errorf("compressed floating-point store is not implemented")
	}
	width := insts.WidthWord
	if inst.CWidth == insts.CWidthD {
		width = insts.WidthDouble
	}
	return e.lsu.Store(width, e.regFile.ReadReg(inst.Rs1)+inst.Imm, e.regFile.ReadReg(inst.Rs2))
}
