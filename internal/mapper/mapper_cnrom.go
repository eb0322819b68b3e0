package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(3, func() Mapper { return &cnrom{id: 3} })
	Register(185, func() Mapper { return &cnrom{id: 185, chrLocked: true} })
}

// cnrom is mapper 3: fixed 32 KiB PRG, an 8 KiB CHR bank selected by a
// register at 0x8000-0xFFFF. Mapper 185 is hardware-identical but
// ignores the CHR select (some boards wire the low bits to a
// lockout/protection chip instead).
type cnrom struct {
	Base
	id        uint16
	chrLocked bool
	state     [1]byte
}

func (m *cnrom) ID() uint16   { return m.id }
func (m *cnrom) Name() string { return "CNROM" }

func (m *cnrom) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	m.SetPRGBank32k(0)
	m.state[0] = 0
}

func (m *cnrom) ApplyMapping() {
	m.SetPRGBank32k(0)
	bank := 0
	if !m.chrLocked {
		bank = int(m.state[0] & 0x03)
	}
	m.SetCHRBank(0x0000, 13, bank)
}

func (m *cnrom) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	if m.chrLocked {
		return true
	}
	m.state[0] = data
	m.Ctx.RenderBGUntil(time)
	m.ApplyMapping()
	return true
}

func (m *cnrom) StateBytes() []byte { return m.state[:] }
func (m *cnrom) LoadStateBytes(data []byte) { copy(m.state[:], data) }
