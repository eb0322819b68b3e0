package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(1, func() Mapper { return &mmc1{} })
}

// mmc1 is mapper 1: a single-bit-per-write serial port feeding four
// internal registers (control, CHR bank 0, CHR bank 1, PRG bank). A
// write with bit 7 set resets the shift register and forces 16 KiB
// PRG mode with the high bank fixed, independent of which address was
// written.
type mmc1 struct {
	Base
	// state layout: [0]=shift [1]=shiftCount [2]=control [3]=chr0
	// [4]=chr1 [5]=prg [6]=prgRAMEnabled
	state [7]byte
}

const (
	mmc1Shift = iota
	mmc1ShiftCount
	mmc1Control
	mmc1Chr0
	mmc1Chr1
	mmc1Prg
	mmc1PrgRAMEnable
)

func (m *mmc1) ID() uint16   { return 1 }
func (m *mmc1) Name() string { return "MMC1" }

func (m *mmc1) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	m.state[mmc1Control] = 0x0C
	m.state[mmc1Shift] = 0
	m.state[mmc1ShiftCount] = 0
	m.state[mmc1Chr0] = 0
	m.state[mmc1Chr1] = 0
	m.state[mmc1Prg] = 0
	m.state[mmc1PrgRAMEnable] = 1
}

func (m *mmc1) ApplyMapping() {
	ctrl := m.state[mmc1Control]

	switch ctrl & 0x03 {
	case 0:
		m.MirrorSingleScreen(false)
	case 1:
		m.MirrorSingleScreen(true)
	case 2:
		m.MirrorVertical()
	case 3:
		m.MirrorHorizontal()
	}

	chrMode4k := ctrl&0x10 != 0
	if chrMode4k {
		m.SetCHRBank(0x0000, 12, int(m.state[mmc1Chr0]))
		m.SetCHRBank(0x1000, 12, int(m.state[mmc1Chr1]))
	} else {
		m.SetCHRBank(0x0000, 13, int(m.state[mmc1Chr0]>>1))
	}

	prgMode := (ctrl >> 2) & 0x03
	prg := int(m.state[mmc1Prg] & 0x0F)
	switch prgMode {
	case 0, 1:
		m.SetPRGBank(0x8000, 15, prg>>1)
	case 2:
		m.SetPRGBank16k(0x8000, 0)
		m.SetPRGBank16k(0xC000, prg)
	case 3:
		m.SetPRGBank16k(0x8000, prg)
		m.SetPRGBank16k(0xC000, -1)
	}

	m.Ctx.SetPrgRAMEnabled(m.state[mmc1PrgRAMEnable] != 0)
}

func (m *mmc1) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderBGUntil(time)

	if data&0x80 != 0 {
		m.state[mmc1Shift] = 0
		m.state[mmc1ShiftCount] = 0
		m.state[mmc1Control] |= 0x0C
		m.ApplyMapping()
		return true
	}

	m.state[mmc1Shift] = (m.state[mmc1Shift] >> 1) | ((data & 1) << 4)
	m.state[mmc1ShiftCount]++

	if m.state[mmc1ShiftCount] < 5 {
		return true
	}

	value := m.state[mmc1Shift]
	m.state[mmc1Shift] = 0
	m.state[mmc1ShiftCount] = 0

	switch {
	case addr < 0xA000:
		m.state[mmc1Control] = value
	case addr < 0xC000:
		m.state[mmc1Chr0] = value
	case addr < 0xE000:
		m.state[mmc1Chr1] = value
	default:
		m.state[mmc1Prg] = value & 0x0F
		if value&0x10 != 0 {
			m.state[mmc1PrgRAMEnable] = 0
		} else {
			m.state[mmc1PrgRAMEnable] = 1
		}
	}

	m.ApplyMapping()
	return true
}

func (m *mmc1) StateBytes() []byte { return m.state[:] }
func (m *mmc1) LoadStateBytes(data []byte) { copy(m.state[:], data) }
