package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(0, func() Mapper { return &nrom{} })
}

// nrom is mapper 0: no banking at all, 16 or 32 KiB PRG, fixed CHR.
type nrom struct {
	Base
	state [1]byte // unused; kept for uniform snapshotting
}

func (m *nrom) ID() uint16   { return 0 }
func (m *nrom) Name() string { return "NROM" }

func (m *nrom) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	if m.prgBankCount8k <= 2 { // 16 KiB total: mirror it into both halves
		m.SetPRGBank16k(0x8000, 0)
		m.SetPRGBank16k(0xC000, 0)
	}
}

func (m *nrom) ApplyMapping() {
	if m.prgBankCount8k <= 2 {
		m.SetPRGBank16k(0x8000, 0)
		m.SetPRGBank16k(0xC000, 0)
	} else {
		m.SetPRGBank16k(0x8000, 0)
		m.SetPRGBank16k(0xC000, -1)
	}
	for slot := 0; slot < 8; slot++ {
		m.SetCHRBank1k(slot, slot)
	}
}

func (m *nrom) StateBytes() []byte { return m.state[:] }
func (m *nrom) LoadStateBytes(data []byte) { copy(m.state[:], data) }
