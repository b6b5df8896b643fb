package emu

import (
	"errors"
	"io"
	"os"
)

// Syscall numbers this machine's Linux ABI recognizes. Most are
// decoded only far enough to report ENOSYS; write, exit, exit_group
// and brk are fully implemented, fstat fills in only the size field of
// the stat buffer, and openat/close/read/lseek are implemented against
// FDTable to let guest programs do real file I/O.
const (
	SyscallGetcwd      uint64 = 17
	SyscallDup         uint64 = 23
	SyscallFcntl       uint64 = 25
	SyscallFaccessat    uint64 = 48
	SyscallChdir       uint64 = 49
	SyscallOpenat      uint64 = 56
	SyscallClose       uint64 = 57
	SyscallGetdents    uint64 = 61
	SyscallLseek       uint64 = 62
	SyscallRead        uint64 = 63
	SyscallWrite       uint64 = 64
	SyscallWritev      uint64 = 66
	SyscallPread       uint64 = 67
	SyscallPwrite      uint64 = 68
	SyscallFstatat     uint64 = 79
	SyscallFstat       uint64 = 80
	SyscallExit        uint64 = 93
	SyscallExitGroup   uint64 = 94
	SyscallKill        uint64 = 129
	SyscallRtSigaction uint64 = 134
	SyscallTimes       uint64 = 153
	SyscallUname       uint64 = 160
	SyscallGettimeofday uint64 = 169
	SyscallGetpid      uint64 = 172
	SyscallGetuid      uint64 = 174
	SyscallGeteuid     uint64 = 175
	SyscallGetgid      uint64 = 176
	SyscallGetegid     uint64 = 177
	SyscallBrk         uint64 = 214
	SyscallMunmap      uint64 = 215
	SyscallMremap      uint64 = 216
	SyscallMmap        uint64 = 222
	SyscallOpen        uint64 = 1024
	SyscallLink        uint64 = 1025
	SyscallUnlink      uint64 = 1026
	SyscallMkdir       uint64 = 1030
	SyscallAccess      uint64 = 1033
	SyscallStat        uint64 = 1038
	SyscallLstat       uint64 = 1039
	SyscallTime        uint64 = 1062
	SyscallGetmainvars uint64 = 2011
)

// Linux error codes used in syscall return values.
const (
	EBADF  = 9
	EIO    = 5
	ENOSYS = 38
)

// SyscallResult reports whether a syscall ended the program, or
// carries a fatal error that should abort emulation outright.
type SyscallResult struct {
	Exited   bool
	ExitCode int64
	Err      error
}

// SyscallHandler executes the syscall the register file currently
// describes: number in x17, up to seven arguments in x10-x16.
type SyscallHandler interface {
	Handle() SyscallResult
}

// DefaultSyscallHandler implements SyscallHandler against a host file
// descriptor table and standard stream redirection.
type DefaultSyscallHandler struct {
	regFile *RegFile
	memory  *Memory
	fds     *FDTable
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// NewDefaultSyscallHandler creates a syscall handler wired to the given
// state.
func NewDefaultSyscallHandler(regFile *RegFile, memory *Memory, stdout, stderr io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regFile: regFile,
		memory:  memory,
		fds:     NewFDTable(),
		stdout:  stdout,
		stderr:  stderr,
	}
}

// SetStdin sets the stdin reader used by the read syscall on fd 0.
func (h *DefaultSyscallHandler) SetStdin(stdin io.Reader) {
	h.stdin = stdin
}

func (h *DefaultSyscallHandler) arg(n int) uint64 {
	return h.regFile.ReadReg(10 + n)
}

func (h *DefaultSyscallHandler) setResult(v uint64) {
	h.regFile.WriteReg(10, v)
}

func (h *DefaultSyscallHandler) setError(errno int) {
	h.regFile.WriteReg(10, uint64(-int64(errno)))
}

// Handle dispatches on the syscall number in x17.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	switch h.regFile.ReadReg(17) {
	case SyscallRead:
		return h.handleRead()
	case SyscallWrite:
		return h.handleWrite()
	case SyscallOpenat:
		return h.handleOpenat()
	case SyscallClose:
		return h.handleClose()
	case SyscallLseek:
		return h.handleLseek()
	case SyscallFstat:
		return h.handleFstat()
	case SyscallBrk:
		return h.handleBrk()
	case SyscallExit:
		return h.handleExit()
	case SyscallExitGroup:
		return h.handleExit()
	default:
		h.setError(ENOSYS)
		return SyscallResult{}
	}
}

func (h *DefaultSyscallHandler) handleExit() SyscallResult {
	return SyscallResult{Exited: true, ExitCode: int64(h.arg(0))}
}

// handleRead implements read(fd, buf, count). fd 0 reads from the
// handler's configured stdin; other descriptors go through FDTable.
func (h *DefaultSyscallHandler) handleRead() SyscallResult {
	fd := h.arg(0)
	bufPtr := h.arg(1)
	count := h.arg(2)

	var (
		n   int
		err error
	)
	buf := make([]byte, count)
	if fd == 0 {
		if h.stdin == nil {
			h.setResult(0)
			return SyscallResult{}
		}
		n, err = h.stdin.Read(buf)
	} else {
		n, err = h.fds.Read(fd, buf)
	}
	if err != nil && n == 0 {
		switch {
		case errors.Is(err, io.EOF):
			h.setResult(0)
		case errors.Is(err, os.ErrInvalid):
			h.setError(EBADF)
		default:
			h.setError(EIO)
		}
		return SyscallResult{}
	}

	for i := 0; i < n; i++ {
		if werr := h.memory.WriteByte(bufPtr+uint64(i), buf[i]); werr != nil {
			h.setError(EIO)
			return SyscallResult{}
		}
	}
	h.setResult(uint64(n))
	return SyscallResult{}
}

// handleWrite implements write(fd, buf, count) with the corrected
// register convention: fd in a0, buffer pointer in a1, count in a2.
func (h *DefaultSyscallHandler) handleWrite() SyscallResult {
	fd := h.arg(0)
	bufPtr := h.arg(1)
	count := h.arg(2)

	var writer io.Writer
	switch fd {
	case 1:
		writer = h.stdout
	case 2:
		writer = h.stderr
	default:
		buf := make([]byte, count)
		for i := uint64(0); i < count; i++ {
			b, err := h.memory.ReadByte(bufPtr + i)
			if err != nil {
				h.setError(EIO)
				return SyscallResult{}
			}
			buf[i] = b
		}
		n, err := h.fds.Write(fd, buf)
		if err != nil {
			h.setError(EBADF)
			return SyscallResult{}
		}
		h.setResult(uint64(n))
		return SyscallResult{}
	}

	buf := make([]byte, count)
	for i := uint64(0); i < count; i++ {
		b, err := h.memory.ReadByte(bufPtr + i)
		if err != nil {
			h.setError(EIO)
			return SyscallResult{}
		}
		buf[i] = b
	}
	n, err := writer.Write(buf)
	if err != nil {
		h.setError(EIO)
		return SyscallResult{}
	}
	h.setResult(uint64(n))
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) handleOpenat() SyscallResult {
	pathPtr := h.arg(1)
	flags := int(h.arg(2))
	mode := os.FileMode(h.arg(3))

	path, err := h.readCString(pathPtr)
	if err != nil {
		h.setError(EIO)
		return SyscallResult{}
	}
	fd, err := h.fds.Open(path, flags, mode)
	if err != nil {
		h.setError(EBADF)
		return SyscallResult{}
	}
	h.setResult(fd)
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) handleClose() SyscallResult {
	if err := h.fds.Close(h.arg(0)); err != nil {
		h.setError(EBADF)
		return SyscallResult{}
	}
	h.setResult(0)
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) handleLseek() SyscallResult {
	fd := h.arg(0)
	offset := int64(h.arg(1))
	whence := int(h.arg(2))

	pos, err := h.fds.Seek(fd, offset, whence)
	if err != nil {
		h.setError(EBADF)
		return SyscallResult{}
	}
	h.setResult(uint64(pos))
	return SyscallResult{}
}

// handleFstat writes a minimal stat buffer: only the size field is
// populated, which is the only part of struct stat the guest runtime
// actually consults.
func (h *DefaultSyscallHandler) handleFstat() SyscallResult {
	fd := h.arg(0)
	statPtr := h.arg(1)

	info, err := h.fds.Stat(fd)
	if err != nil {
		h.setError(EBADF)
		return SyscallResult{}
	}
	const sizeOffset = 48
	if err := h.memory.Write64(statPtr+sizeOffset, uint64(info.Size())); err != nil {
		h.setError(EIO)
		return SyscallResult{}
	}
	h.setResult(0)
	return SyscallResult{}
}

// handleBrk implements brk(addr). A request that would move the heap
// end below its start is a corrupt request, not ordinary exhaustion,
// and aborts emulation; a request beyond the max heap size returns
// all-ones and lets the guest continue, per the negative-errno-style
// convention used for expected allocator failures.
func (h *DefaultSyscallHandler) handleBrk() SyscallResult {
	newEnd, err := h.memory.Brk(h.arg(0))
	if err != nil {
		if errors.Is(err, ErrBrkBelowHeapStart) {
			return SyscallResult{Err: err}
		}
		h.setResult(^uint64(0))
		return SyscallResult{}
	}
	h.setResult(newEnd)
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) readCString(addr uint64) (string, error) {
	var buf []byte
	for i := uint64(0); ; i++ {
		b, err := h.memory.ReadByte(addr + i)
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}
