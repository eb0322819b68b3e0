package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(71, func() Mapper { return &uxlike{id: 71, name: "Camerica/Codemasters", mirrorWriteBelowC000: true} })
	Register(32, func() Mapper { return &uxlike{id: 32, name: "Irem G-101", prgSwapLow: true, chrBits1k: true, mirrorBitGX: true} })
	Register(30, func() Mapper { return &uxlike{id: 30, name: "UNROM 512", chrBits1k: false, chr8k: true, mirrorBit2: true} })
	Register(15, func() Mapper { return &uxlike{id: 15, name: "100-in-1 Contra Function 16", prg8kQuad: true} })
	Register(33, func() Mapper { return &uxlike{id: 33, name: "Taito TC0190", prg8kQuad: true, chr2kPairs: true} })
}

// uxlike groups the UxROM-adjacent boards that go beyond the plain
// "one register selects the low 16 KiB bank" shape: a mirroring control
// bit, independently switched low/high PRG halves, or finer CHR
// granularity. Each variant's register layout is documented inline
// from its nesdev entry rather than invented.
type uxlike struct {
	Base
	id   uint16
	name string

	mirrorWriteBelowC000 bool // 71: writes below 0xC000 toggle mirroring on some boards (Fire Hawk), ignored otherwise
	prgSwapLow           bool // 32: 0x8000-0x8FFF selects the 8 KiB bank at 0x8000, 0x9000-0x9FFF the one at 0xA000; 0xC000/0xE000 stay fixed
	chrBits1k            bool // 32: CHR switched in 1 KiB units (8 registers)
	mirrorBitGX          bool
	chr8k                bool // 30: single CHR 8 KiB RAM bank register, for boards that ship CHR RAM in 8 KiB pages
	mirrorBit2           bool // 30: bit 7 selects one-screen mirroring (bit 6 picks the side), otherwise bit 5 picks H/V
	prg8kQuad            bool // 15/33: PRG switched as two independent 8 KiB windows via two registers
	chr2kPairs           bool // 33: CHR switched as two 2 KiB banks + four 1 KiB banks (TC0190FMC)

	// state: [0]=prgLow [1]=prgHigh/ctrl [2..9]=chr regs
	state [10]byte
}

func (m *uxlike) ID() uint16   { return m.id }
func (m *uxlike) Name() string { return m.name }

func (m *uxlike) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
}

func (m *uxlike) ApplyMapping() {
	switch {
	case m.prg8kQuad:
		m.SetPRGBank8k(0x8000, int(m.state[0]))
		m.SetPRGBank8k(0xA000, int(m.state[1]))
		m.SetPRGBank8k(0xC000, -2)
		m.SetPRGBank8k(0xE000, -1)
		if m.chr2kPairs {
			m.SetCHRBank(0x0000, 11, int(m.state[2]))
			m.SetCHRBank(0x0800, 11, int(m.state[3]))
			m.SetCHRBank1k(4, int(m.state[4]))
			m.SetCHRBank1k(5, int(m.state[5]))
			m.SetCHRBank1k(6, int(m.state[6]))
			m.SetCHRBank1k(7, int(m.state[7]))
			if m.state[8]&0x01 != 0 {
				m.MirrorHorizontal()
			} else {
				m.MirrorVertical()
			}
		}
		return
	case m.prgSwapLow:
		m.SetPRGBank8k(0x8000, int(m.state[0]&0x1F))
		m.SetPRGBank8k(0xA000, int(m.state[1]&0x1F))
		m.SetPRGBank8k(0xC000, -2)
		m.SetPRGBank8k(0xE000, -1)
		if m.chrBits1k {
			for i := 0; i < 8; i++ {
				m.SetCHRBank1k(i, int(m.state[2+i]))
			}
		}
		if m.mirrorBitGX {
			if m.state[0]&0x20 != 0 {
				m.MirrorHorizontal()
			} else {
				m.MirrorVertical()
			}
		}
		return
	case m.chr8k:
		m.SetPRGBank16k(0x8000, int(m.state[0]&0x1F))
		m.SetPRGBank16k(0xC000, -1)
		m.SetCHRBank(0x0000, 13, int(m.state[1]))
		if m.mirrorBit2 {
			if m.state[0]&0x80 != 0 {
				m.MirrorSingleScreen(m.state[0]&0x40 != 0)
			} else if m.state[0]&0x20 != 0 {
				m.MirrorHorizontal()
			} else {
				m.MirrorVertical()
			}
		}
		return
	default: // 71
		m.SetPRGBank16k(0x8000, int(m.state[0]&0x0F))
		m.SetPRGBank16k(0xC000, -1)
		if m.state[1]&0x01 != 0 {
			m.MirrorSingleScreen(m.state[1]&0x02 != 0)
		}
	}
}

func (m *uxlike) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderBGUntil(time)

	switch {
	case m.prg8kQuad:
		switch {
		case m.chr2kPairs && addr >= 0x8000 && addr < 0x8008:
			m.state[2+int(addr&0x07)] = data
		case m.chr2kPairs && addr >= 0xA000:
			m.state[1] = data
		case addr >= 0x8000 && addr < 0xA000:
			m.state[0] = data
		case addr >= 0xA000 && addr < 0xC000:
			m.state[1] = data
		}
	case m.prgSwapLow:
		switch {
		case addr < 0x9000:
			m.state[0] = data
		case addr < 0xA000:
			m.state[1] = data
		case addr >= 0xB000 && addr < 0xB008:
			m.state[2+int(addr&0x07)] = data
		}
	case m.chr8k:
		switch {
		case addr&0x01 == 0:
			m.state[0] = data
		default:
			m.state[1] = data
		}
	default:
		if m.mirrorWriteBelowC000 && addr < 0xC000 {
			m.state[1] = data
		} else {
			m.state[0] = data
		}
	}

	m.ApplyMapping()
	return true
}

func (m *uxlike) StateBytes() []byte        { return m.state[:] }
func (m *uxlike) LoadStateBytes(data []byte) { copy(m.state[:], data) }
