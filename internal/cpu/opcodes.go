package cpu

// Addressing modes.
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	modeImplicit = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
)

// Instruction ids. The undocumented opcodes covered here (LAX, SAX,
// DCM/DCP, ISB/ISC) are the only subset of the illegal-opcode space
// the NES test corpus exercises in practice.
const (
	instADC = iota
	instAND
	instASL
	instBCC
	instBCS
	instBEQ
	instBIT
	instBMI
	instBNE
	instBPL
	instBRK
	instBVC
	instBVS
	instCLC
	instCLD
	instCLI
	instCLV
	instCMP
	instCPX
	instCPY
	instDEC
	instDEX
	instDEY
	instEOR
	instINC
	instINX
	instINY
	instJMP
	instJSR
	instLDA
	instLDX
	instLDY
	instLSR
	instNOP
	instORA
	instPHA
	instPHP
	instPLA
	instPLP
	instROL
	instROR
	instRTI
	instRTS
	instSBC
	instSEC
	instSED
	instSEI
	instSTA
	instSTX
	instSTY
	instTAX
	instTAY
	instTSX
	instTXA
	instTXS
	instTYA
	instLAX
	instSAX
	instDCM
	instISB
	instKIL // stop opcode: the one designated illegal op that halts the CPU
)

type opcode struct {
	inst   uint8
	mode   uint8
	bytes  uint8
	cycles uint8
}

// opcodes holds, per byte value, the instruction, addressing mode,
// byte count and base cycle count, extended with the halt opcodes
// 0xD2 and 0xF2; page-cross and branch-taken cycle penalties are applied at
// dispatch time rather than baked into the table.
var opcodes = [256]opcode{
	0x69: {instADC, modeImmediate, 2, 2},
	0x65: {instADC, modeZeroPage, 2, 3},
	0x75: {instADC, modeZeroPageX, 2, 4},
	0x6D: {instADC, modeAbsolute, 3, 4},
	0x7D: {instADC, modeAbsoluteX, 3, 4},
	0x79: {instADC, modeAbsoluteY, 3, 4},
	0x61: {instADC, modeIndirectX, 2, 6},
	0x71: {instADC, modeIndirectY, 2, 5},

	0x29: {instAND, modeImmediate, 2, 2},
	0x25: {instAND, modeZeroPage, 2, 3},
	0x35: {instAND, modeZeroPageX, 2, 4},
	0x2D: {instAND, modeAbsolute, 3, 4},
	0x3D: {instAND, modeAbsoluteX, 3, 4},
	0x39: {instAND, modeAbsoluteY, 3, 4},
	0x21: {instAND, modeIndirectX, 2, 6},
	0x31: {instAND, modeIndirectY, 2, 5},

	0x0A: {instASL, modeAccumulator, 1, 2},
	0x06: {instASL, modeZeroPage, 2, 5},
	0x16: {instASL, modeZeroPageX, 2, 6},
	0x0E: {instASL, modeAbsolute, 3, 6},
	0x1E: {instASL, modeAbsoluteX, 3, 7},

	0x90: {instBCC, modeRelative, 2, 2},
	0xB0: {instBCS, modeRelative, 2, 2},
	0xF0: {instBEQ, modeRelative, 2, 2},
	0x30: {instBMI, modeRelative, 2, 2},
	0xD0: {instBNE, modeRelative, 2, 2},
	0x10: {instBPL, modeRelative, 2, 2},
	0x50: {instBVC, modeRelative, 2, 2},
	0x70: {instBVS, modeRelative, 2, 2},

	0x24: {instBIT, modeZeroPage, 2, 3},
	0x2C: {instBIT, modeAbsolute, 3, 4},

	0x00: {instBRK, modeImplicit, 1, 7},

	0x18: {instCLC, modeImplicit, 1, 2},
	0xD8: {instCLD, modeImplicit, 1, 2},
	0x58: {instCLI, modeImplicit, 1, 2},
	0xB8: {instCLV, modeImplicit, 1, 2},

	0xC9: {instCMP, modeImmediate, 2, 2},
	0xC5: {instCMP, modeZeroPage, 2, 3},
	0xD5: {instCMP, modeZeroPageX, 2, 4},
	0xCD: {instCMP, modeAbsolute, 3, 4},
	0xDD: {instCMP, modeAbsoluteX, 3, 4},
	0xD9: {instCMP, modeAbsoluteY, 3, 4},
	0xC1: {instCMP, modeIndirectX, 2, 6},
	0xD1: {instCMP, modeIndirectY, 2, 5},

	0xE0: {instCPX, modeImmediate, 2, 2},
	0xE4: {instCPX, modeZeroPage, 2, 3},
	0xEC: {instCPX, modeAbsolute, 3, 4},
	0xC0: {instCPY, modeImmediate, 2, 2},
	0xC4: {instCPY, modeZeroPage, 2, 3},
	0xCC: {instCPY, modeAbsolute, 3, 4},

	0xC6: {instDEC, modeZeroPage, 2, 5},
	0xD6: {instDEC, modeZeroPageX, 2, 6},
	0xCE: {instDEC, modeAbsolute, 3, 6},
	0xDE: {instDEC, modeAbsoluteX, 3, 7},
	0xCA: {instDEX, modeImplicit, 1, 2},
	0x88: {instDEY, modeImplicit, 1, 2},

	0x49: {instEOR, modeImmediate, 2, 2},
	0x45: {instEOR, modeZeroPage, 2, 3},
	0x55: {instEOR, modeZeroPageX, 2, 4},
	0x4D: {instEOR, modeAbsolute, 3, 4},
	0x5D: {instEOR, modeAbsoluteX, 3, 4},
	0x59: {instEOR, modeAbsoluteY, 3, 4},
	0x41: {instEOR, modeIndirectX, 2, 6},
	0x51: {instEOR, modeIndirectY, 2, 5},

	0xE6: {instINC, modeZeroPage, 2, 5},
	0xF6: {instINC, modeZeroPageX, 2, 6},
	0xEE: {instINC, modeAbsolute, 3, 6},
	0xFE: {instINC, modeAbsoluteX, 3, 7},
	0xE8: {instINX, modeImplicit, 1, 2},
	0xC8: {instINY, modeImplicit, 1, 2},

	0x4C: {instJMP, modeAbsolute, 3, 3},
	0x6C: {instJMP, modeIndirect, 3, 5},
	0x20: {instJSR, modeAbsolute, 3, 6},

	0xA9: {instLDA, modeImmediate, 2, 2},
	0xA5: {instLDA, modeZeroPage, 2, 3},
	0xB5: {instLDA, modeZeroPageX, 2, 4},
	0xAD: {instLDA, modeAbsolute, 3, 4},
	0xBD: {instLDA, modeAbsoluteX, 3, 4},
	0xB9: {instLDA, modeAbsoluteY, 3, 4},
	0xA1: {instLDA, modeIndirectX, 2, 6},
	0xB1: {instLDA, modeIndirectY, 2, 5},

	0xA2: {instLDX, modeImmediate, 2, 2},
	0xA6: {instLDX, modeZeroPage, 2, 3},
	0xB6: {instLDX, modeZeroPageY, 2, 4},
	0xAE: {instLDX, modeAbsolute, 3, 4},
	0xBE: {instLDX, modeAbsoluteY, 3, 4},

	0xA0: {instLDY, modeImmediate, 2, 2},
	0xA4: {instLDY, modeZeroPage, 2, 3},
	0xB4: {instLDY, modeZeroPageX, 2, 4},
	0xAC: {instLDY, modeAbsolute, 3, 4},
	0xBC: {instLDY, modeAbsoluteX, 3, 4},

	0x4A: {instLSR, modeAccumulator, 1, 2},
	0x46: {instLSR, modeZeroPage, 2, 5},
	0x56: {instLSR, modeZeroPageX, 2, 6},
	0x4E: {instLSR, modeAbsolute, 3, 6},
	0x5E: {instLSR, modeAbsoluteX, 3, 7},

	0x04: {instNOP, modeZeroPage, 2, 3},
	0x44: {instNOP, modeZeroPage, 2, 3},
	0x64: {instNOP, modeZeroPage, 2, 3},
	0x0C: {instNOP, modeAbsolute, 3, 4},
	0x14: {instNOP, modeZeroPageX, 2, 4},
	0x34: {instNOP, modeZeroPageX, 2, 4},
	0x54: {instNOP, modeZeroPageX, 2, 4},
	0x74: {instNOP, modeZeroPageX, 2, 4},
	0xD4: {instNOP, modeZeroPageX, 2, 4},
	0xF4: {instNOP, modeZeroPageX, 2, 4},
	0xEA: {instNOP, modeImplicit, 1, 2},
	0x1A: {instNOP, modeImplicit, 1, 2},
	0x3A: {instNOP, modeImplicit, 1, 2},
	0x5A: {instNOP, modeImplicit, 1, 2},
	0xDA: {instNOP, modeImplicit, 1, 2},
	0x80: {instNOP, modeImmediate, 2, 2},
	0x1C: {instNOP, modeAbsoluteX, 3, 4},
	0x3C: {instNOP, modeAbsoluteX, 3, 4},
	0x5C: {instNOP, modeAbsoluteX, 3, 4},
	0x7C: {instNOP, modeAbsoluteX, 3, 4},
	0xDC: {instNOP, modeAbsoluteX, 3, 4},
	0xFC: {instNOP, modeAbsoluteX, 3, 4},

	0x09: {instORA, modeImmediate, 2, 2},
	0x05: {instORA, modeZeroPage, 2, 3},
	0x15: {instORA, modeZeroPageX, 2, 4},
	0x0D: {instORA, modeAbsolute, 3, 4},
	0x1D: {instORA, modeAbsoluteX, 3, 4},
	0x19: {instORA, modeAbsoluteY, 3, 4},
	0x01: {instORA, modeIndirectX, 2, 6},
	0x11: {instORA, modeIndirectY, 2, 5},

	0x48: {instPHA, modeImplicit, 1, 3},
	0x08: {instPHP, modeImplicit, 1, 3},
	0x68: {instPLA, modeImplicit, 1, 4},
	0x28: {instPLP, modeImplicit, 1, 4},

	0x2A: {instROL, modeAccumulator, 1, 2},
	0x26: {instROL, modeZeroPage, 2, 5},
	0x36: {instROL, modeZeroPageX, 2, 6},
	0x2E: {instROL, modeAbsolute, 3, 6},
	0x3E: {instROL, modeAbsoluteX, 3, 7},

	0x6A: {instROR, modeAccumulator, 1, 2},
	0x66: {instROR, modeZeroPage, 2, 5},
	0x76: {instROR, modeZeroPageX, 2, 6},
	0x6E: {instROR, modeAbsolute, 3, 6},
	0x7E: {instROR, modeAbsoluteX, 3, 7},

	0x40: {instRTI, modeImplicit, 1, 6},
	0x60: {instRTS, modeImplicit, 1, 6},

	0xE9: {instSBC, modeImmediate, 2, 2},
	0xEB: {instSBC, modeImmediate, 2, 2},
	0xE5: {instSBC, modeZeroPage, 2, 3},
	0xF5: {instSBC, modeZeroPageX, 2, 4},
	0xED: {instSBC, modeAbsolute, 3, 4},
	0xFD: {instSBC, modeAbsoluteX, 3, 4},
	0xF9: {instSBC, modeAbsoluteY, 3, 4},
	0xE1: {instSBC, modeIndirectX, 2, 6},
	0xF1: {instSBC, modeIndirectY, 2, 5},

	0x38: {instSEC, modeImplicit, 1, 2},
	0xF8: {instSED, modeImplicit, 1, 2},
	0x78: {instSEI, modeImplicit, 1, 2},

	0x85: {instSTA, modeZeroPage, 2, 3},
	0x95: {instSTA, modeZeroPageX, 2, 4},
	0x8D: {instSTA, modeAbsolute, 3, 4},
	0x9D: {instSTA, modeAbsoluteX, 3, 5},
	0x99: {instSTA, modeAbsoluteY, 3, 5},
	0x81: {instSTA, modeIndirectX, 2, 6},
	0x91: {instSTA, modeIndirectY, 2, 6},

	0x86: {instSTX, modeZeroPage, 2, 3},
	0x96: {instSTX, modeZeroPageY, 2, 4},
	0x8E: {instSTX, modeAbsolute, 3, 4},
	0x84: {instSTY, modeZeroPage, 2, 3},
	0x94: {instSTY, modeZeroPageX, 2, 4},
	0x8C: {instSTY, modeAbsolute, 3, 4},

	0xAA: {instTAX, modeImplicit, 1, 2},
	0xA8: {instTAY, modeImplicit, 1, 2},
	0xBA: {instTSX, modeImplicit, 1, 2},
	0x8A: {instTXA, modeImplicit, 1, 2},
	0x9A: {instTXS, modeImplicit, 1, 2},
	0x98: {instTYA, modeImplicit, 1, 2},

	0xA3: {instLAX, modeIndirectX, 2, 6},
	0xA7: {instLAX, modeZeroPage, 2, 3},
	0xAF: {instLAX, modeAbsolute, 3, 4},
	0xB3: {instLAX, modeIndirectY, 2, 5},
	0xB7: {instLAX, modeZeroPageY, 2, 4},
	0xBF: {instLAX, modeAbsoluteY, 3, 4},

	0x83: {instSAX, modeIndirectX, 2, 6},
	0x87: {instSAX, modeZeroPage, 2, 3},
	0x8F: {instSAX, modeAbsolute, 3, 4},
	0x97: {instSAX, modeZeroPageY, 2, 4},

	0xC7: {instDCM, modeZeroPage, 2, 5},
	0xD7: {instDCM, modeZeroPageX, 2, 6},
	0xCF: {instDCM, modeAbsolute, 3, 6},
	0xDF: {instDCM, modeAbsoluteX, 3, 7},
	0xDB: {instDCM, modeAbsoluteY, 3, 7},
	0xC3: {instDCM, modeIndirectX, 2, 8},
	0xD3: {instDCM, modeIndirectY, 2, 8},

	0xE7: {instISB, modeZeroPage, 2, 5},
	0xF7: {instISB, modeZeroPageX, 2, 6},
	0xEF: {instISB, modeAbsolute, 3, 6},
	0xFF: {instISB, modeAbsoluteX, 3, 7},
	0xFB: {instISB, modeAbsoluteY, 3, 7},
	0xE3: {instISB, modeIndirectX, 2, 8},
	0xF3: {instISB, modeIndirectY, 2, 8},

	// 0xD2 is the designated stop opcode: the one illegal/JAM opcode
	// this interpreter recognizes as a halt, matching the byte an
	// unmapped page's filler buffer is built from. 0xF2 is the
	// PC-wrap sentinel and halts identically when fetched directly.
	0xD2: {instKIL, modeImplicit, 1, 0},
	0xF2: {instKIL, modeImplicit, 1, 0},
}
