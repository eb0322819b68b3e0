package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(5, func() Mapper { return &mmc5{} })
}

// mmc5 implements a simplified MMC5 (Castlevania III, Just Breed):
// four independently switched 8 KiB PRG-ROM windows (bit 7 of each
// bank register, the RAM/ROM select, is masked off, so PRG-RAM is
// never mapped into them), a single 8 KiB CHR window (the real chip keeps
// separate background/sprite CHR bank sets in 8x16 sprite mode; that
// split isn't modeled here since the PPU's bank table has one 8-slot
// CHR table shared by both), and the scanline IRQ. Extended attribute
// mode (ExRAM mode 1's per-tile CHR/palette override) and the extra
// PCM/pulse audio channels are not implemented.
type mmc5 struct {
	Base

	// state: [0..3]=prg8k regs 0x8000/0xA000/0xC000/0xE000
	// [4]=prgMode [5]=chrMode [6..13]=chr0-7 [14]=mirroring
	// [15]=irqLatch [16]=irqEnable
	state [17]byte

	irqCounter  uint8
	irqPending  bool
	irqTime     int32
	inFrame     bool
}

func (m *mmc5) ID() uint16   { return 5 }
func (m *mmc5) Name() string { return "MMC5" }

func (m *mmc5) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	// Registers live at $5100-$5206, below the universal $8000-$FFFF
	// intercept; the bus only consults WriteIntercepted/Read there if
	// told to.
	ctx.InterceptRange(0x5000, 0x5206)
	for i := range m.state {
		m.state[i] = 0
	}
	m.state[4] = 3 // PRG mode 3: four independent 8 KiB banks, matches most games' expectations
	m.irqCounter = 0
	m.irqPending = false
	m.irqTime = NoIRQ
	m.inFrame = false
}

func (m *mmc5) ApplyMapping() {
	m.SetPRGBank8k(0x8000, int(m.state[0]&0x7F))
	m.SetPRGBank8k(0xA000, int(m.state[1]&0x7F))
	m.SetPRGBank8k(0xC000, int(m.state[2]&0x7F))
	m.SetPRGBank8k(0xE000, int(m.state[3]&0x7F)|^0x7F) // last bank always ROM-mapped, high bit forced

	m.SetCHRBank(0x0000, 13, int(m.state[6]))

	switch m.state[14] & 0x03 {
	case 0:
		m.MirrorSingleScreen(false)
	case 1:
		m.MirrorVertical()
	case 2:
		m.MirrorHorizontal()
	case 3:
		m.MirrorSingleScreen(true)
	}
}

func (m *mmc5) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	switch addr {
	case 0x5100:
		m.state[4] = data
	case 0x5101:
		m.state[5] = data
	case 0x5105:
		m.state[14] = data
	case 0x5113, 0x5114, 0x5115, 0x5116, 0x5117:
		m.Ctx.RenderBGUntil(time)
		m.state[int(addr-0x5113)] = data
	case 0x5120, 0x5121, 0x5122, 0x5123, 0x5124, 0x5125, 0x5126, 0x5127:
		m.Ctx.RenderUntil(time)
		m.state[6+int(addr-0x5120)] = data
	case 0x5203:
		m.state[15] = data
	case 0x5204:
		m.state[16] = data & 0x80
		m.irqTime = NoIRQ
	default:
		return false
	}
	m.ApplyMapping()
	return true
}

func (m *mmc5) Read(time int32, addr uint16) (uint8, bool) {
	if addr == 0x5204 {
		v := uint8(0)
		if m.irqPending {
			v |= 0x80
		}
		if m.inFrame {
			v |= 0x40
		}
		m.irqPending = false
		m.irqTime = NoIRQ
		return v, true
	}
	return 0, false
}

// A12Clocked approximates the scanline IRQ by counting the A12 rising
// edges the PPU reports, where the real MMC5 counts PPU scanlines
// directly. The PPU reports an edge only when a $2006/$2007 register
// write moves bit 12 of v from 0 to 1, not during rendering.
func (m *mmc5) A12Clocked(time int32) {
	m.inFrame = true
	m.irqCounter++
	if m.irqCounter == m.state[15] {
		m.irqPending = true
		if m.state[16]&0x80 != 0 {
			m.irqTime = time
			m.Ctx.IRQChanged()
		}
	}
}

func (m *mmc5) EndFrame(length int32) {
	m.inFrame = false
	m.irqCounter = 0
}

func (m *mmc5) NextIRQ(now int32) int32 { return m.irqTime }

func (m *mmc5) StateBytes() []byte {
	buf := make([]byte, 0, len(m.state)+4)
	buf = append(buf, m.state[:]...)
	buf = append(buf, m.irqCounter)
	var flags uint8
	if m.irqPending {
		flags |= 0x01
	}
	if m.inFrame {
		flags |= 0x02
	}
	buf = append(buf, flags)
	return buf
}

func (m *mmc5) LoadStateBytes(data []byte) {
	copy(m.state[:], data[:len(m.state)])
	m.irqCounter = data[len(m.state)]
	flags := data[len(m.state)+1]
	m.irqPending = flags&0x01 != 0
	m.inFrame = flags&0x02 != 0
}
