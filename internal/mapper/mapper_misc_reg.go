package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(70, func() Mapper { return &miscReg{id: 70, name: "Bandai 74*161/161/32", prgBits16k: 4, chrBits: 4} })
	Register(152, func() Mapper { return &miscReg{id: 152, name: "Bandai 74*161/161/32 (one-screen)", prgBits16k: 4, chrBits: 4, oneScreenBit: 0x80} })
	Register(78, func() Mapper { return &miscReg{id: 78, name: "Irem 74*161/161/32", prgBits16k: 3, chrBits: 4, mirrorBit: 0x08} })
	Register(86, func() Mapper { return &miscReg{id: 86, name: "Jaleco JF-13", prgBits32k: 2, chrBits: 4, reg6000: true} })
	Register(87, func() Mapper { return &miscReg{id: 87, name: "Jaleco JF-xx (CHR only)", chrOnlyBit0At1: true, reg6000: true} })
	Register(89, func() Mapper { return &miscReg{id: 89, name: "Sunsoft-2 (JxROM)", prgBits16k: 3, chrBits: 4, oneScreenBit: 0x08} })
	Register(93, func() Mapper { return &miscReg{id: 93, name: "Sunsoft-2 (74*161/32)", prgBits16k: 4} })
	Register(97, func() Mapper { return &miscReg{id: 97, name: "Irem TAM-S1", prgBits16k: 4, fixedLowPRG: true, mirrorBit: 0x40} })
	Register(140, func() Mapper { return &miscReg{id: 140, name: "Jaleco JF-11/14", prgBits32k: 2, chrBits: 4, reg6000: true} })
	Register(184, func() Mapper { return &miscReg{id: 184, name: "Sunsoft-1", chrSplit4k: true, reg6000: true} })
	Register(240, func() Mapper { return &miscReg{id: 240, name: "Fong Shen Bang multicart", prgBits32k: 2, chrBits: 4, reg4020: true} })
	Register(79, func() Mapper { return &miscReg{id: 79, name: "NINA-03/06", prgBits32k: 1, chrBits: 3, reg4100: true} })
	Register(113, func() Mapper { return &miscReg{id: 113, name: "NINA-03/06 multicart", prgBits32k: 3, chrBits: 3, mirrorBit: 0x40, reg4100: true} })
}

// miscReg covers the large family of boards whose entire switching
// logic is "one register, written somewhere outside 0x8000-0xFFFF's
// normal range or at a fixed 0x8000 address, holding a PRG field and
// optionally a CHR field and a mirroring or single-screen-select bit".
// Konami/Irem/Jaleco/Sunsoft/AVE all shipped minor variations on this
// shape; rather than one struct per id, the fields below describe each
// board's register layout the way nesdev's mapper docs do.
type miscReg struct {
	Base
	id   uint16
	name string

	prgBits16k int // number of low bits selecting a 16 KiB PRG bank (0x8000 switchable, 0xC000 fixed last)
	prgBits32k int // number of low bits selecting a 32 KiB PRG bank (whole CPU window)
	chrBits    int // number of low bits (after prgBits) selecting an 8 KiB CHR bank
	chrOnlyBit0At1 bool

	mirrorBit    uint8 // if nonzero, this bit selects horizontal(1)/vertical(0)
	oneScreenBit uint8 // if nonzero, this bit selects single-screen hi/lo instead of H/V
	fixedLowPRG  bool  // PRG bank fixed at 0x8000, switchable at 0xC000 (reversed from default)
	chrSplit4k   bool  // Sunsoft-1: two independent 4 KiB CHR halves, low/high nibble

	reg6000 bool // register lives at 0x6000-0x7FFF instead of 0x8000-0xFFFF
	reg4020 bool // register lives at 0x4020-0x5FFF
	reg4100 bool // register lives at 0x4100-0x5FFF (even addresses only, NINA-style)

	state [1]byte
}

func (m *miscReg) ID() uint16   { return m.id }
func (m *miscReg) Name() string { return m.name }

func (m *miscReg) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	switch {
	case m.reg6000:
		ctx.InterceptRange(0x6000, 0x7FFF)
	case m.reg4020:
		ctx.InterceptRange(0x4020, 0x5FFF)
	case m.reg4100:
		ctx.InterceptRange(0x4100, 0x5FFF)
	}
	m.state[0] = 0
}

func (m *miscReg) ApplyMapping() {
	v := m.state[0]

	switch {
	case m.chrSplit4k:
		m.SetCHRBank(0x0000, 12, int(v&0x0F))
		m.SetCHRBank(0x1000, 12, int(v>>4))
		return
	case m.chrOnlyBit0At1:
		m.SetPRGBank32k(0)
		m.SetCHRBank(0x0000, 13, int((v>>1)&0x01))
		return
	}

	prgShift := uint(0)
	switch {
	case m.prgBits32k > 0:
		mask := (1 << uint(m.prgBits32k)) - 1
		m.SetPRGBank32k(int(v) & mask)
	case m.fixedLowPRG:
		mask := (1 << uint(m.prgBits16k)) - 1
		m.SetPRGBank16k(0x8000, 0)
		m.SetPRGBank16k(0xC000, int(v)&mask)
	default:
		mask := (1 << uint(m.prgBits16k)) - 1
		m.SetPRGBank16k(0x8000, int(v)&mask)
		m.SetPRGBank16k(0xC000, -1)
		prgShift = uint(m.prgBits16k)
	}

	if m.chrBits > 0 {
		m.SetCHRBank(0x0000, 13, int(v>>prgShift)&((1<<uint(m.chrBits))-1))
	}

	if m.oneScreenBit != 0 {
		m.MirrorSingleScreen(v&m.oneScreenBit != 0)
	} else if m.mirrorBit != 0 {
		if v&m.mirrorBit != 0 {
			m.MirrorHorizontal()
		} else {
			m.MirrorVertical()
		}
	}
}

func (m *miscReg) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	handled := false
	switch {
	case m.reg6000:
		handled = addr >= 0x6000 && addr < 0x8000
	case m.reg4020:
		handled = addr >= 0x4020 && addr < 0x6000
	case m.reg4100:
		handled = addr >= 0x4100 && addr < 0x6000 && addr&0x01 == 0
	default:
		handled = addr >= 0x8000
	}
	if !handled {
		return false
	}
	m.Ctx.RenderBGUntil(time)
	m.state[0] = data
	m.ApplyMapping()
	return true
}

func (m *miscReg) StateBytes() []byte               { return m.state[:] }
func (m *miscReg) LoadStateBytes(data []byte)        { copy(m.state[:], data) }
