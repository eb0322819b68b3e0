package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(4, func() Mapper { return &mmc3{id: 4} })
	Register(206, func() Mapper { return &mmc3{id: 206, noIRQ: true} })
	Register(88, func() Mapper { return &mmc3{id: 88, extendedCHR: true} })
	Register(154, func() Mapper { return &mmc3{id: 154, extendedCHR: true, singleScreenBit: true} })
}

// mmc3 implements the MMC3 bank-select/bank-data register pair, the
// A12 scanline IRQ counter, and the two simplified siblings that reuse
// its register layout: 206 (Namco 108, no IRQ) and 88/154 (extended
// CHR addressing, 154 additionally steals bank-select bit 6 to choose
// single-screen mirroring).
type mmc3 struct {
	Base
	id              uint16
	noIRQ           bool
	extendedCHR     bool
	singleScreenBit bool

	// state: [0]=bankSelect [1..8]=bankRegs [9]=mirroring
	// [10]=prgRAMProtect [11]=irqLatch [12]=irqCounter
	// [13]=irqReloadPending [14]=irqEnabled
	state [15]byte

	irqTime int32
}

const (
	mmc3BankSelect = iota
	mmc3BankRegs0
)

func (m *mmc3) bankRegIdx(i int) int { return mmc3BankRegs0 + i }

const (
	mmc3Mirroring = mmc3BankRegs0 + 8
	mmc3PrgRAMProtect
	mmc3IRQLatch
	mmc3IRQCounter
	mmc3IRQReload
	mmc3IRQEnabled
)

func (m *mmc3) ID() uint16   { return m.id }
func (m *mmc3) Name() string { return "MMC3" }

func (m *mmc3) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.irqTime = NoIRQ
}

func (m *mmc3) ApplyMapping() {
	sel := m.state[mmc3BankSelect]
	prgMode := sel & 0x40
	chrInvert := sel&0x80 != 0

	r := func(i int) int { return int(m.state[m.bankRegIdx(i)]) }

	chrBankMask := 0xFF
	if m.extendedCHR {
		chrBankMask = 0x1FF // not modeled beyond 8-bit CHR; kept for documentation
	}
	_ = chrBankMask

	if !chrInvert {
		m.SetCHRBank(0x0000, 11, r(0)>>1)
		m.SetCHRBank(0x0800, 11, r(1)>>1)
		m.SetCHRBank1k(4, r(2))
		m.SetCHRBank1k(5, r(3))
		m.SetCHRBank1k(6, r(4))
		m.SetCHRBank1k(7, r(5))
	} else {
		m.SetCHRBank1k(0, r(2))
		m.SetCHRBank1k(1, r(3))
		m.SetCHRBank1k(2, r(4))
		m.SetCHRBank1k(3, r(5))
		m.SetCHRBank(0x1000, 11, r(0)>>1)
		m.SetCHRBank(0x1800, 11, r(1)>>1)
	}

	prgA, prgB := r(6), r(7)
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

	if m.singleScreenBit {
		m.MirrorSingleScreen(sel&0x40 != 0)
	} else if !m.Cart.FourScreen {
		if m.state[mmc3Mirroring]&1 != 0 {
			m.MirrorHorizontal()
		} else {
			m.MirrorVertical()
		}
	}

	m.Ctx.SetPrgRAMEnabled(m.state[mmc3PrgRAMProtect]&0x80 != 0)
}

func (m *mmc3) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)

	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.state[mmc3BankSelect] = data
		} else {
			idx := m.state[mmc3BankSelect] & 0x07
			m.state[m.bankRegIdx(int(idx))] = data
		}
	case addr < 0xC000:
		if even {
			m.state[mmc3Mirroring] = data
		} else {
			m.state[mmc3PrgRAMProtect] = data
		}
	case addr < 0xE000:
		if even {
			m.state[mmc3IRQLatch] = data
		} else {
			m.state[mmc3IRQCounter] = 0
			m.state[mmc3IRQReload] = 1
		}
	default:
		if even {
			m.state[mmc3IRQEnabled] = 0
			m.irqTime = NoIRQ
		} else {
			m.state[mmc3IRQEnabled] = 1
		}
	}

	m.ApplyMapping()
	return true
}

// A12Clocked implements the MMC3 scanline counter: it is decremented
// (or reloaded from the latch) on every rising edge of VRAM address
// line 12 that the PPU reports. The PPU reports one only when a
// $2006/$2007 register write moves bit 12 of v from 0 to 1; its
// rendering fetches produce no edges.
func (m *mmc3) A12Clocked(time int32) {
	if m.noIRQ {
		return
	}
	counter := m.state[mmc3IRQCounter]
	if counter == 0 || m.state[mmc3IRQReload] != 0 {
		m.state[mmc3IRQCounter] = m.state[mmc3IRQLatch]
		m.state[mmc3IRQReload] = 0
	} else {
		m.state[mmc3IRQCounter]--
	}

	if m.state[mmc3IRQCounter] == 0 && m.state[mmc3IRQEnabled] != 0 {
		m.irqTime = time
		m.Ctx.IRQChanged()
	}
}

func (m *mmc3) NextIRQ(now int32) int32 {
	if m.noIRQ {
		return NoIRQ
	}
	return m.irqTime
}

func (m *mmc3) StateBytes() []byte { return m.state[:] }
func (m *mmc3) LoadStateBytes(data []byte) { copy(m.state[:], data) }
