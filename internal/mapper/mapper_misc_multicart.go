package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(244, func() Mapper { return &decathlon{} })
	Register(246, func() Mapper { return &fengShenBang{} })
}

// decathlon implements mapper 244 (Decathlon): writes anywhere in
// 0x8000-0xFFFF select both a 32 KiB PRG bank and an 8 KiB CHR bank in
// one go, with the bank index taken from a small lookup table keyed by
// the low address bits rather than the data byte (the board decodes
// address lines, not data lines).
type decathlon struct {
	Base
	state [1]byte
}

var decathlonPRGTable = [8]int{0, 1, 2, 4, 3, 5, 6, 7}
var decathlonCHRTable = [8]int{0, 1, 2, 4, 3, 5, 6, 7}

func (m *decathlon) ID() uint16   { return 244 }
func (m *decathlon) Name() string { return "Decathlon" }

func (m *decathlon) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	m.state[0] = 0
}

func (m *decathlon) ApplyMapping() {
	idx := int(m.state[0]) & 0x07
	m.SetPRGBank32k(decathlonPRGTable[idx])
	m.SetCHRBank(0x0000, 13, decathlonCHRTable[idx])
}

func (m *decathlon) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderBGUntil(time)
	m.state[0] = uint8(addr)
	m.ApplyMapping()
	return true
}

func (m *decathlon) StateBytes() []byte        { return m.state[:] }
func (m *decathlon) LoadStateBytes(data []byte) { copy(m.state[:], data) }

// fengShenBang implements mapper 246 (Feng Shen Bang - Zhu Lu Zhi
// Zhan): four independent 8 KiB PRG registers and one 8 KiB CHR
// register, all addressed by a handful of distinct addresses in the
// 0x6000-0x6007 window rather than a single bank-select/data pair.
type fengShenBang struct {
	Base
	// state: [0..3]=prg8k windows 0x8000/0xA000/0xC000/0xE000 [4]=chr8k
	state [5]byte
}

func (m *fengShenBang) ID() uint16   { return 246 }
func (m *fengShenBang) Name() string { return "Feng Shen Bang" }

func (m *fengShenBang) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	ctx.InterceptRange(0x6000, 0x6007)
	for i := range m.state {
		m.state[i] = 0
	}
}

func (m *fengShenBang) ApplyMapping() {
	m.SetPRGBank8k(0x8000, int(m.state[0]))
	m.SetPRGBank8k(0xA000, int(m.state[1]))
	m.SetPRGBank8k(0xC000, int(m.state[2]))
	m.SetPRGBank8k(0xE000, int(m.state[3]))
	m.SetCHRBank(0x0000, 13, int(m.state[4]))
}

func (m *fengShenBang) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	if addr < 0x6000 || addr > 0x6007 {
		return false
	}
	m.Ctx.RenderBGUntil(time)
	switch addr & 0x07 {
	case 0x00:
		m.state[4] = data
	case 0x04:
		m.state[0] = data
	case 0x05:
		m.state[1] = data
	case 0x06:
		m.state[2] = data
	case 0x07:
		m.state[3] = data
	}
	m.ApplyMapping()
	return true
}

func (m *fengShenBang) StateBytes() []byte        { return m.state[:] }
func (m *fengShenBang) LoadStateBytes(data []byte) { copy(m.state[:], data) }
