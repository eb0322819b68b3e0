package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(190, func() Mapper { return &mmc3like{id: 190, name: "Magic Kid GooGoo"} })
	Register(193, func() Mapper { return &mmc3like{id: 193, name: "NTDEC TC-112"} })
	Register(156, func() Mapper { return &mmc3like{id: 156, name: "Open Corp/Daou Infosys DIS23C01", chr2kGranularity: true} })
	Register(207, func() Mapper { return &mmc3like{id: 207, name: "Taito X1-005 (alt wiring)", chrMirrorFromBank: true} })
}

// mmc3like covers a handful of boards that imitate MMC3's bank-select
// register pair shape without its A12 scanline IRQ: a single register
// picks which of several bank-data registers the next write updates.
// Each of these boards is simpler than MMC3 (no IRQ hardware) but
// shares its "select, then data" register pattern closely enough that
// a generic table-driven implementation is the grounded choice rather
// than hand-rolling four near-identical mega-switches.
type mmc3like struct {
	Base
	id   uint16
	name string

	chr2kGranularity  bool // 156: CHR banked in 2 KiB units, 4 registers instead of 8x1KiB
	chrMirrorFromBank bool // 207: mirroring follows the top bit of CHR bank 0/1 instead of an explicit bit

	// state: [0]=bankSelect [1..8]=bankRegs [9]=mirroring
	state [10]byte
}

func (m *mmc3like) ID() uint16   { return m.id }
func (m *mmc3like) Name() string { return m.name }

func (m *mmc3like) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
}

func (m *mmc3like) ApplyMapping() {
	r := func(i int) int { return int(m.state[1+i]) }

	if m.chr2kGranularity {
		m.SetCHRBank(0x0000, 11, r(0))
		m.SetCHRBank(0x0800, 11, r(1))
		m.SetCHRBank(0x1000, 11, r(2))
		m.SetCHRBank(0x1800, 11, r(3))
	} else {
		for i := 0; i < 8; i++ {
			m.SetCHRBank1k(i, r(i))
		}
	}

	sel := m.state[0]
	prgMode := sel & 0x40
	prgA, prgB := r(6), r(7)
	if m.chr2kGranularity {
		prgA, prgB = r(4), 0
	}
	if prgMode == 0 {
		m.SetPRGBank8k(0x8000, prgA)
		m.SetPRGBank8k(0xA000, prgB)
		m.SetPRGBank8k(0xC000, -2)
		m.SetPRGBank8k(0xE000, -1)
	} else {
		m.SetPRGBank8k(0x8000, -2)
		m.SetPRGBank8k(0xA000, prgB)
		m.SetPRGBank8k(0xC000, prgA)
		m.SetPRGBank8k(0xE000, -1)
	}

	if m.chrMirrorFromBank {
		if r(0)&0x80 != 0 {
			m.MirrorHorizontal()
		} else {
			m.MirrorVertical()
		}
	} else if !m.Cart.FourScreen {
		if m.state[9]&1 != 0 {
			m.MirrorHorizontal()
		} else {
			m.MirrorVertical()
		}
	}
}

func (m *mmc3like) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)

	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.state[0] = data
		} else {
			idx := m.state[0] & 0x07
			m.state[1+int(idx)] = data
		}
	case addr < 0xC000:
		if even {
			m.state[9] = data
		}
	default:
		// these boards carry no scanline IRQ hardware; writes here
		// are accepted but have no effect.
	}

	m.ApplyMapping()
	return true
}

func (m *mmc3like) StateBytes() []byte        { return m.state[:] }
func (m *mmc3like) LoadStateBytes(data []byte) { copy(m.state[:], data) }
