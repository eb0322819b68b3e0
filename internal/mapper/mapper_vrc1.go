package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(75, func() Mapper { return &vrc1{} })
}

// vrc1 implements Konami's VRC1 (mapper 75): three independently
// switched 8 KiB PRG windows with a fixed last bank, two 4 KiB CHR
// banks whose high bit lives in a separate mirroring/CHR-extension
// register, and a single mirroring bit. No IRQ, unlike its VRC2/4
// successors.
type vrc1 struct {
	Base

	// state: [0]=prg0 [1]=prg1 [2]=prg2 [3]=chr0 [4]=chr1
	// [5]=mirror+chrhi (bit0=mirror, bit1=chr0 hi bit, bit2=chr1 hi bit)
	state [6]byte
}

func (m *vrc1) ID() uint16   { return 75 }
func (m *vrc1) Name() string { return "VRC1" }

func (m *vrc1) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
}

func (m *vrc1) ApplyMapping() {
	m.SetPRGBank8k(0x8000, int(m.state[0]&0x0F))
	m.SetPRGBank8k(0xA000, int(m.state[1]&0x0F))
	m.SetPRGBank8k(0xC000, int(m.state[2]&0x0F))
	m.SetPRGBank8k(0xE000, -1)

	chr0 := int(m.state[3]&0x0F) | int(m.state[5]&0x02)<<3
	chr1 := int(m.state[4]&0x0F) | int(m.state[5]&0x04)<<2
	m.SetCHRBank(0x0000, 12, chr0)
	m.SetCHRBank(0x1000, 12, chr1)

	if m.state[5]&0x01 != 0 {
		m.MirrorHorizontal()
	} else {
		m.MirrorVertical()
	}
}

func (m *vrc1) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	switch addr & 0xF000 {
	case 0x8000:
		m.state[0] = data
	case 0x9000:
		m.state[5] = data
	case 0xA000:
		m.state[1] = data
	case 0xC000:
		m.state[2] = data
	case 0xE000:
		m.state[3] = data
	case 0xF000:
		m.state[4] = data
	default:
		return false
	}
	m.ApplyMapping()
	return true
}

func (m *vrc1) StateBytes() []byte        { return m.state[:] }
func (m *vrc1) LoadStateBytes(data []byte) { copy(m.state[:], data) }
