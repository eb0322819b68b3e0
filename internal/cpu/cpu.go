// Package cpu implements a 6502 interpreter keyed by an opcode table,
// run against a shared CPU-time clock instead of its own tick loop so
// the core scheduler can interleave it with the PPU and APU.
package cpu

const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // unused, always set when pushed
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const stackPage = 0x0100

const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// StopReason is returned by Run to tell the scheduler why it stopped
// short of the requested clock_limit.
type StopReason int

const (
	StopCycles StopReason = iota // budget exhausted normally
	StopSEI                      // I flag just set; a pending IRQ must wait one more instruction
	StopCLI                      // I flag just cleared; an IRQ may now fire after the next instruction
	StopBadOp                    // unimplemented/stop opcode hit; emulation halts for the frame
)

// Memory is the bus surface the CPU needs: timestamped reads and
// writes, plus a raw pointer into PRG space. The interpreter fetches
// every opcode and operand byte through Read; it does not call
// GetCodePtr.
type Memory interface {
	Read(time int32, addr uint16) uint8
	Write(time int32, addr uint16, data uint8)
	GetCodePtr(addr uint16) []uint8

	// PushByte is the stack-write fast path: every BRK/IRQ/NMI/JSR
	// push targets the low-RAM stack page directly, so it skips the
	// bus's full read/write dispatch rather than going through Write.
	PushByte(sp uint8, data uint8)
}

// CPU holds the 6502 register file and the shared CPU-time clock. The
// clock is owned by the scheduler (internal/core) and advanced here as
// instructions execute; Time is always consistent with the bus's
// notion of "now" between calls to Run.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	P       uint8
	PC      uint16

	Time int32

	mem Memory

	halted   bool
	runErrors int
}

// New constructs a CPU wired to mem. Callers must call Reset before
// the first Run.
func New(mem Memory) *CPU {
	return &CPU{mem: mem}
}

// Reset vectors the PC from 0xFFFC and sets the power-on flag/stack
// state documented by nesdev's reset behavior.
func (c *CPU) Reset() {
	c.SP = 0xFD
	c.P = flagI | flagU
	c.PC = c.readWord(vectorReset)
	c.halted = false
}

func (c *CPU) read(addr uint16) uint8         { return c.mem.Read(c.Time, addr) }
func (c *CPU) write(addr uint16, v uint8)     { c.mem.Write(c.Time, addr, v) }
func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return lo | hi<<8
}

// zpReadWord reads a little-endian word with zero-page address wrap,
// needed by the (indirect,X)/(indirect),Y addressing modes.
func (c *CPU) zpReadWord(addr uint8) uint16 {
	lo := uint16(c.read(uint16(addr)))
	hi := uint16(c.read(uint16(addr + 1)))
	return lo | hi<<8
}

func (c *CPU) push(v uint8) {
	c.mem.PushByte(c.SP, v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackPage + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return lo | hi<<8
}

func (c *CPU) setZN(v uint8) {
	if v == 0 {
		c.P |= flagZ
	} else {
		c.P &^= flagZ
	}
	if v&0x80 != 0 {
		c.P |= flagN
	} else {
		c.P &^= flagN
	}
}

func (c *CPU) flag(f uint8) bool { return c.P&f != 0 }
func (c *CPU) setFlag(f uint8, v bool) {
	if v {
		c.P |= f
	} else {
		c.P &^= f
	}
}

// NMI vectors an externally-triggered non-maskable interrupt: push PC
// then P with B clear, set I, jump to 0xFFFA. Costs 7 cycles.
func (c *CPU) NMI() {
	c.pushWord(c.PC)
	c.push((c.P | flagU) &^ flagB)
	c.P |= flagI
	c.PC = c.readWord(vectorNMI)
	c.Time += 7
}

// IRQ vectors a maskable interrupt identically to NMI but from 0xFFFE;
// the scheduler calls this when the I flag is clear, or once right
// after an SEI for an IRQ that was already pending.
func (c *CPU) IRQ() {
	c.pushWord(c.PC)
	c.push((c.P | flagU) &^ flagB)
	c.P |= flagI
	c.PC = c.readWord(vectorIRQ)
	c.Time += 7
}

// RunErrors reports how many designated-halt opcodes have been hit
// across the CPU's lifetime, surfaced by the core as a diagnostic.
func (c *CPU) RunErrors() int { return c.runErrors }

// IFlagSet reports whether the interrupt-disable flag is set in P.
func (c *CPU) IFlagSet() bool { return c.P&flagI != 0 }

// Run executes instructions until Time reaches or passes limit, or
// until an instruction's side effect demands the scheduler re-evaluate
// sooner (SEI/CLI/badop).
func (c *CPU) Run(limit int32) StopReason {
	for c.Time < limit {
		if c.halted {
			return StopBadOp
		}
		reason, handled := c.step()
		if handled {
			return reason
		}
	}
	return StopCycles
}

// step executes exactly one instruction and returns a StopReason when
// that instruction is SEI, CLI, or the designated halt opcode.
func (c *CPU) step() (StopReason, bool) {
	op := c.read(c.PC)
	info := opcodes[op]

	if info.inst == instKIL {
		c.halted = true
		c.runErrors++
		return StopBadOp, true
	}

	startPC := c.PC
	operandAddr, pageCrossed, mode := c.decodeOperand(info.mode)

	c.PC = startPC + uint16(info.bytes)
	c.Time += int32(info.cycles)

	switch info.inst {
	case instADC:
		c.adc(c.operandValue(mode, operandAddr))
	case instAND:
		c.A &= c.operandValue(mode, operandAddr)
		c.setZN(c.A)
	case instASL:
		c.shiftLeft(mode, operandAddr)
	case instBCC:
		c.branch(!c.flag(flagC), operandAddr)
	case instBCS:
		c.branch(c.flag(flagC), operandAddr)
	case instBEQ:
		c.branch(c.flag(flagZ), operandAddr)
	case instBMI:
		c.branch(c.flag(flagN), operandAddr)
	case instBNE:
		c.branch(!c.flag(flagZ), operandAddr)
	case instBPL:
		c.branch(!c.flag(flagN), operandAddr)
	case instBVC:
		c.branch(!c.flag(flagV), operandAddr)
	case instBVS:
		c.branch(c.flag(flagV), operandAddr)
	case instBIT:
		v := c.operandValue(mode, operandAddr)
		c.setFlag(flagZ, c.A&v == 0)
		c.setFlag(flagV, v&0x40 != 0)
		c.setFlag(flagN, v&0x80 != 0)
	case instBRK:
		c.PC++
		c.pushWord(c.PC)
		c.push(c.P | flagU | flagB)
		c.P |= flagI
		c.PC = c.readWord(vectorIRQ)
	case instCLC:
		c.setFlag(flagC, false)
	case instCLD:
		c.setFlag(flagD, false)
	case instCLI:
		c.setFlag(flagI, false)
		return StopCLI, true
	case instCLV:
		c.setFlag(flagV, false)
	case instCMP:
		c.compare(c.A, c.operandValue(mode, operandAddr))
	case instCPX:
		c.compare(c.X, c.operandValue(mode, operandAddr))
	case instCPY:
		c.compare(c.Y, c.operandValue(mode, operandAddr))
	case instDEC:
		v := c.operandValue(mode, operandAddr) - 1
		c.write(operandAddr, v)
		c.setZN(v)
	case instDEX:
		c.X--
		c.setZN(c.X)
	case instDEY:
		c.Y--
		c.setZN(c.Y)
	case instEOR:
		c.A ^= c.operandValue(mode, operandAddr)
		c.setZN(c.A)
	case instINC:
		v := c.operandValue(mode, operandAddr) + 1
		c.write(operandAddr, v)
		c.setZN(v)
	case instINX:
		c.X++
		c.setZN(c.X)
	case instINY:
		c.Y++
		c.setZN(c.Y)
	case instJMP:
		c.PC = operandAddr
	case instJSR:
		c.pushWord(c.PC - 1)
		c.PC = operandAddr
	case instLDA:
		c.A = c.operandValue(mode, operandAddr)
		c.setZN(c.A)
	case instLDX:
		c.X = c.operandValue(mode, operandAddr)
		c.setZN(c.X)
	case instLDY:
		c.Y = c.operandValue(mode, operandAddr)
		c.setZN(c.Y)
	case instLSR:
		c.shiftRight(mode, operandAddr)
	case instNOP:
	case instORA:
		c.A |= c.operandValue(mode, operandAddr)
		c.setZN(c.A)
	case instPHA:
		c.push(c.A)
	case instPHP:
		c.push(c.P | flagU | flagB)
	case instPLA:
		c.A = c.pop()
		c.setZN(c.A)
	case instPLP:
		c.P = (c.pop() &^ flagB) | flagU
	case instROL:
		c.rotateLeft(mode, operandAddr)
	case instROR:
		c.rotateRight(mode, operandAddr)
	case instRTI:
		c.P = (c.pop() &^ flagB) | flagU
		c.PC = c.popWord()
	case instRTS:
		c.PC = c.popWord() + 1
	case instSBC:
		c.sbc(c.operandValue(mode, operandAddr))
	case instSEC:
		c.setFlag(flagC, true)
	case instSED:
		c.setFlag(flagD, true)
	case instSEI:
		c.setFlag(flagI, true)
		return StopSEI, true
	case instSTA:
		c.write(operandAddr, c.A)
	case instSTX:
		c.write(operandAddr, c.X)
	case instSTY:
		c.write(operandAddr, c.Y)
	case instTAX:
		c.X = c.A
		c.setZN(c.X)
	case instTAY:
		c.Y = c.A
		c.setZN(c.Y)
	case instTSX:
		c.X = c.SP
		c.setZN(c.X)
	case instTXA:
		c.A = c.X
		c.setZN(c.A)
	case instTXS:
		c.SP = c.X
	case instTYA:
		c.A = c.Y
		c.setZN(c.A)
	case instLAX:
		c.A = c.operandValue(mode, operandAddr)
		c.X = c.A
		c.setZN(c.A)
	case instSAX:
		c.write(operandAddr, c.A&c.X)
	case instDCM:
		v := c.operandValue(mode, operandAddr) - 1
		c.write(operandAddr, v)
		c.compare(c.A, v)
	case instISB:
		v := c.operandValue(mode, operandAddr) + 1
		c.write(operandAddr, v)
		c.sbc(v)
	}

	if pageCrossed && addsPageCyclePenalty(info.inst, info.mode) {
		c.Time++
	}

	return 0, false
}

// addsPageCyclePenalty reports whether this instruction/mode pair pays
// an extra cycle for crossing a page boundary while computing its
// effective address; store instructions and read-modify-write
// instructions on indexed absolute/indirect-Y never do.
func addsPageCyclePenalty(inst, mode uint8) bool {
	switch mode {
	case modeAbsoluteX, modeAbsoluteY, modeIndirectY:
		switch inst {
		case instSTA, instSTX, instSTY, instASL, instLSR, instROL, instROR, instINC, instDEC, instSAX, instDCM, instISB:
			return false
		}
		return true
	}
	return false
}

type operandKind int

const (
	operandNone operandKind = iota
	operandAccumulator
	operandMemory
)

// decodeOperand computes the effective address for every mode except
// implicit/accumulator (which carry no memory operand) and relative
// (which returns the branch target directly). It also reports whether
// indexing crossed a page boundary, for the page-cross cycle penalty.
func (c *CPU) decodeOperand(mode uint8) (addr uint16, pageCrossed bool, kind operandKind) {
	switch mode {
	case modeImplicit:
		return 0, false, operandNone
	case modeAccumulator:
		return 0, false, operandAccumulator
	case modeImmediate:
		return c.PC + 1, false, operandMemory
	case modeZeroPage:
		return uint16(c.read(c.PC + 1)), false, operandMemory
	case modeZeroPageX:
		return uint16(c.read(c.PC+1) + c.X), false, operandMemory
	case modeZeroPageY:
		return uint16(c.read(c.PC+1) + c.Y), false, operandMemory
	case modeRelative:
		off := int8(c.read(c.PC + 1))
		target := uint16(int32(c.PC) + 2 + int32(off))
		return target, false, operandMemory
	case modeAbsolute:
		return c.readWord(c.PC + 1), false, operandMemory
	case modeAbsoluteX:
		base := c.readWord(c.PC + 1)
		addr := base + uint16(c.X)
		return addr, base&0xFF00 != addr&0xFF00, operandMemory
	case modeAbsoluteY:
		base := c.readWord(c.PC + 1)
		addr := base + uint16(c.Y)
		return addr, base&0xFF00 != addr&0xFF00, operandMemory
	case modeIndirect:
		ptr := c.readWord(c.PC + 1)
		// The NMOS 6502 JMP ($xxFF) page-wrap bug: the high byte is
		// fetched from the start of the same page, not the next one.
		lo := uint16(c.read(ptr))
		hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
		hi := uint16(c.read(hiAddr))
		return lo | hi<<8, false, operandMemory
	case modeIndirectX:
		zp := c.read(c.PC+1) + c.X
		return c.zpReadWord(zp), false, operandMemory
	case modeIndirectY:
		zp := c.read(c.PC + 1)
		base := c.zpReadWord(zp)
		addr := base + uint16(c.Y)
		return addr, base&0xFF00 != addr&0xFF00, operandMemory
	}
	return 0, false, operandNone
}

func (c *CPU) operandValue(kind operandKind, addr uint16) uint8 {
	if kind == operandAccumulator {
		return c.A
	}
	return c.read(addr)
}

func (c *CPU) branch(taken bool, target uint16) {
	if !taken {
		return
	}
	old := c.PC
	c.PC = target
	c.Time++
	if old&0xFF00 != target&0xFF00 {
		c.Time++
	}
}

func (c *CPU) compare(reg, v uint8) {
	c.setFlag(flagC, reg >= v)
	c.setZN(reg - v)
}

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v)
	if c.flag(flagC) {
		sum++
	}
	result := uint8(sum)
	c.setFlag(flagC, sum > 0xFF)
	c.setFlag(flagV, (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) sbc(v uint8) {
	c.adc(v ^ 0xFF)
}

func (c *CPU) shiftLeft(kind operandKind, addr uint16) {
	v := c.operandValue(kind, addr)
	c.setFlag(flagC, v&0x80 != 0)
	v <<= 1
	c.storeResult(kind, addr, v)
	c.setZN(v)
}

func (c *CPU) shiftRight(kind operandKind, addr uint16) {
	v := c.operandValue(kind, addr)
	c.setFlag(flagC, v&0x01 != 0)
	v >>= 1
	c.storeResult(kind, addr, v)
	c.setZN(v)
}

func (c *CPU) rotateLeft(kind operandKind, addr uint16) {
	v := c.operandValue(kind, addr)
	carryIn := uint8(0)
	if c.flag(flagC) {
		carryIn = 1
	}
	c.setFlag(flagC, v&0x80 != 0)
	v = (v << 1) | carryIn
	c.storeResult(kind, addr, v)
	c.setZN(v)
}

func (c *CPU) rotateRight(kind operandKind, addr uint16) {
	v := c.operandValue(kind, addr)
	carryIn := uint8(0)
	if c.flag(flagC) {
		carryIn = 0x80
	}
	c.setFlag(flagC, v&0x01 != 0)
	v = (v >> 1) | carryIn
	c.storeResult(kind, addr, v)
	c.setZN(v)
}

func (c *CPU) storeResult(kind operandKind, addr uint16, v uint8) {
	if kind == operandAccumulator {
		c.A = v
		return
	}
	c.write(addr, v)
}

// StateBytes and LoadStateBytes serialize the register file for the
// snapshot engine's CPUR block.
func (c *CPU) StateBytes() []byte {
	return []byte{c.A, c.X, c.Y, c.SP, c.P, uint8(c.PC), uint8(c.PC >> 8)}
}

func (c *CPU) LoadStateBytes(data []byte) {
	c.A, c.X, c.Y, c.SP, c.P = data[0], data[1], data[2], data[3], data[4]
	c.PC = uint16(data[5]) | uint16(data[6])<<8
}
