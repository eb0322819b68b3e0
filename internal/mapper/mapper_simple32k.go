package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(7, func() Mapper { return &simple32k{id: 7, name: "AxROM", oneScreen: true} })
	Register(34, func() Mapper { return &simple32k{id: 34, name: "BNROM"} })
	Register(66, func() Mapper { return &simple32k{id: 66, name: "GxROM", chrBits: 2, prgBits: 2, combinedReg: true} })
	Register(11, func() Mapper { return &simple32k{id: 11, name: "Color Dreams", chrBits: 4, prgBits: 4, hiCHR: true} })
	Register(38, func() Mapper { return &simple32k{id: 38, name: "Crime Busters"} })
	Register(60, func() Mapper { return &simple32k{id: 60, name: "Reset-based 4-in-1", romSelect: true} })
	Register(241, func() Mapper { return &simple32k{id: 241, name: "BxROM clone"} })
}

// simple32k covers every board whose entire register file is "one
// write anywhere in 0x8000-0xFFFF selects the 32 KiB PRG bank (and
// usually the CHR bank too)". AxROM additionally steals a bit to
// choose which 1 KiB single-screen nametable is visible.
type simple32k struct {
	Base
	id          uint16
	name        string
	oneScreen   bool
	chrBits     int
	prgBits     int
	combinedReg bool // GxROM: PRG in bits 4-5, CHR in bits 0-1
	hiCHR       bool // Color Dreams: CHR in bits 4-7, PRG in bits 0-3
	romSelect   bool // mapper 60: bank fixed by jumpers, ignores writes
	state       [1]byte
}

func (m *simple32k) ID() uint16   { return m.id }
func (m *simple32k) Name() string { return m.name }

func (m *simple32k) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	m.SetPRGBank32k(0)
	m.state[0] = 0
}

func (m *simple32k) ApplyMapping() {
	v := m.state[0]
	switch {
	case m.combinedReg:
		m.SetPRGBank32k(int(v>>4) & 0x03)
		m.SetCHRBank(0x0000, 13, int(v&0x03))
	case m.hiCHR:
		m.SetPRGBank32k(int(v & 0x0F))
		m.SetCHRBank(0x0000, 13, int(v>>4))
	case m.oneScreen:
		m.SetPRGBank32k(int(v & 0x0F))
		m.MirrorSingleScreen(v&0x10 != 0)
	default:
		m.SetPRGBank32k(int(v))
	}
}

func (m *simple32k) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	if m.romSelect {
		return true
	}
	m.state[0] = data
	m.Ctx.RenderBGUntil(time)
	m.ApplyMapping()
	return true
}

func (m *simple32k) StateBytes() []byte { return m.state[:] }
func (m *simple32k) LoadStateBytes(data []byte) { copy(m.state[:], data) }
