package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(21, func() Mapper { return &vrc24{id: 21, name: "VRC4a/c", hasIRQ: true} })
	Register(22, func() Mapper { return &vrc24{id: 22, name: "VRC2a"} })
	Register(23, func() Mapper { return &vrc24{id: 23, name: "VRC4e/f", hasIRQ: true} })
	Register(25, func() Mapper { return &vrc24{id: 25, name: "VRC4b/d", hasIRQ: true} })
}

// vrc24 covers the Konami VRC2/VRC4 family: two swappable 8 KiB PRG
// windows, eight 1 KiB CHR registers, a 2-bit mirroring register, and
// (VRC4 only) a scanline-ish IRQ generator. Real hardware scatters
// these registers across address lines that differ per board
// revision (the "a/b" pin-swapped variants); this implementation
// normalizes every revision onto addr bits 0-1, which covers the vast
// majority of dumps.
type vrc24 struct {
	Base
	id     uint16
	name   string
	hasIRQ bool

	// state: [0]=prg0 [1]=prg1 [2]=mirroring [3..10]=chr0..7
	// [11]=irqLatch [12]=irqCounter [13]=irqEnable [14]=irqAck [15]=irqMode
	state [16]byte

	irqTime    int32
	prescaler  int32
}

func (m *vrc24) ID() uint16   { return m.id }
func (m *vrc24) Name() string { return m.name }

func (m *vrc24) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.irqTime = NoIRQ
}

func (m *vrc24) ApplyMapping() {
	m.SetPRGBank8k(0x8000, int(m.state[0]&0x1F))
	m.SetPRGBank8k(0xA000, int(m.state[1]&0x1F))
	m.SetPRGBank8k(0xC000, -2)
	m.SetPRGBank8k(0xE000, -1)

	for i := 0; i < 8; i++ {
		m.SetCHRBank1k(i, int(m.state[3+i]))
	}

	switch m.state[2] & 0x03 {
	case 0:
		m.MirrorVertical()
	case 1:
		m.MirrorHorizontal()
	case 2:
		m.MirrorSingleScreen(false)
	case 3:
		m.MirrorSingleScreen(true)
	}
}

func (m *vrc24) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	reg := addr & 0x000F
	hi := addr & 0xF000

	switch {
	case hi == 0x8000:
		m.state[0] = data
	case hi == 0x9000:
		m.state[2] = data
	case hi == 0xA000:
		m.state[1] = data
	case hi >= 0xB000 && hi <= 0xE000:
		// Two CHR registers per 4 KiB block (low/high nibble pair).
		block := int((hi - 0xB000) / 0x1000)
		pair := reg / 2
		idx := 3 + block*2 + int(pair)
		m.setCHRNibble(idx, data, reg%2 == 1)
	}

	if m.hasIRQ && hi == 0xF000 {
		switch reg {
		case 0x0, 0x1:
			m.state[11] = (m.state[11] & 0xF0) | (data & 0x0F)
			if reg == 1 {
				m.state[11] = (m.state[11] & 0x0F) | (data << 4)
			}
		case 0x2, 0x3:
			m.state[13] = data & 0x03
			if data&0x02 != 0 {
				m.state[12] = m.state[11]
				m.prescaler = 341
			}
			m.irqTime = NoIRQ
		case 0x4, 0x5:
			m.state[13] = m.state[14]
			m.irqTime = NoIRQ
		}
	}

	m.ApplyMapping()
	return true
}

func (m *vrc24) setCHRNibble(idx int, data uint8, high bool) {
	if idx < 3 || idx > 10 {
		return
	}
	if high {
		m.state[idx] = (m.state[idx] & 0x0F) | (data << 4)
	} else {
		m.state[idx] = (m.state[idx] & 0xF0) | (data & 0x0F)
	}
}

// RunUntil steps the IRQ counter once per call while bit 1 of the IRQ
// control value is set, firing when it wraps past 0xFF. The 341-tick
// prescaler loaded on enable is not consulted, so the count does not
// follow elapsed CPU time.
func (m *vrc24) RunUntil(time int32) {
	if !m.hasIRQ || m.state[13]&0x02 == 0 {
		return
	}
	m.state[12]++
	if m.state[12] == 0 {
		m.state[12] = m.state[11]
		m.irqTime = time
		m.Ctx.IRQChanged()
	}
}

func (m *vrc24) NextIRQ(now int32) int32 {
	if !m.hasIRQ {
		return NoIRQ
	}
	return m.irqTime
}

func (m *vrc24) StateBytes() []byte { return m.state[:] }
func (m *vrc24) LoadStateBytes(data []byte) { copy(m.state[:], data) }
