package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(2, func() Mapper { return &uxrom{id: 2} })
	Register(94, func() Mapper { return &uxrom{id: 94, fixedHighBits: true} })
	Register(180, func() Mapper { return &uxrom{id: 180, fixedFirstBank: true} })
	Register(232, func() Mapper { return &uxrom{id: 232, camerica: true} })
}

// uxrom is mapper 2 (UxROM): a single 8-bit register at 0x8000-0xFFFF
// selects the swappable 16 KiB bank at 0x8000; 0xC000 is fixed to the
// last bank. Variant ids 94 and 180 reorder which half is fixed and
// how many register bits matter; 232 (Camerica Quattro) treats the
// upper bits as an outer 64 KiB block select.
type uxrom struct {
	Base
	id             uint16
	fixedHighBits  bool // mapper 94: only bits 1-4 select the bank
	fixedFirstBank bool // mapper 180: 0x8000 fixed to first bank, 0xC000 switches
	camerica       bool // mapper 232: two-level block+bank select
	state          [1]byte
}

func (m *uxrom) ID() uint16   { return m.id }
func (m *uxrom) Name() string { return "UxROM" }

func (m *uxrom) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	m.state[0] = 0
}

func (m *uxrom) ApplyMapping() {
	bank := int(m.state[0])
	switch {
	case m.fixedFirstBank:
		m.SetPRGBank16k(0x8000, 0)
		m.SetPRGBank16k(0xC000, bank)
	case m.fixedHighBits:
		m.SetPRGBank16k(0x8000, bank&0x0F)
		m.SetPRGBank16k(0xC000, -1)
	case m.camerica:
		block := (bank >> 4) & 0x03
		low := bank & 0x0F
		m.SetPRGBank16k(0x8000, block*4+low)
		m.SetPRGBank16k(0xC000, block*4+3)
	default:
		m.SetPRGBank16k(0x8000, bank)
		m.SetPRGBank16k(0xC000, -1)
	}
	for slot := 0; slot < 8; slot++ {
		m.SetCHRBank1k(slot, slot)
	}
}

func (m *uxrom) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.state[0] = data
	m.Ctx.RenderBGUntil(time)
	m.ApplyMapping()
	return true
}

func (m *uxrom) StateBytes() []byte { return m.state[:] }
func (m *uxrom) LoadStateBytes(data []byte) { copy(m.state[:], data) }
