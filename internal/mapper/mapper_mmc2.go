package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(9, func() Mapper { return &mmc2{id: 9, name: "MMC2"} })
	Register(10, func() Mapper { return &mmc2{id: 10, name: "MMC4"} })
}

// mmc2 implements the latch-driven CHR swap used by MMC2 (Punch-Out!!)
// and MMC4 (Fire Emblem): a pattern fetch from $0FD8-$0FDF/$0FE8-$0FEF
// flips the latch of the $0000 half and one from $1FD8-$1FDF/
// $1FE8-$1FEF the latch of the $1000 half, each latch selecting
// between two 4 KiB CHR banks for its half. MMC4 banks PRG in 16 KiB
// units; MMC2 switches one 8 KiB window at 0x8000 and fixes the rest.
type mmc2 struct {
	Base
	id   uint16
	name string

	// state: [0]=prgBank [1]=chr0a [2]=chr0b [3]=chr1a [4]=chr1b
	// [5]=latch0 [6]=latch1 (0=FD, 1=FE)
	state [7]byte
}

func (m *mmc2) ID() uint16   { return m.id }
func (m *mmc2) Name() string { return m.name }

func (m *mmc2) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.state[5] = 1 // latch starts at "FE"
	m.state[6] = 1
}

func (m *mmc2) ApplyMapping() {
	if m.id == 9 {
		m.SetPRGBank8k(0x8000, int(m.state[0]))
		m.SetPRGBank8k(0xA000, -3)
		m.SetPRGBank8k(0xC000, -2)
		m.SetPRGBank8k(0xE000, -1)
	} else {
		m.SetPRGBank16k(0x8000, int(m.state[0]))
		m.SetPRGBank16k(0xC000, -1)
	}

	if m.state[5] == 0 {
		m.SetCHRBank(0x0000, 12, int(m.state[1]))
	} else {
		m.SetCHRBank(0x0000, 12, int(m.state[2]))
	}
	if m.state[6] == 0 {
		m.SetCHRBank(0x1000, 12, int(m.state[3]))
	} else {
		m.SetCHRBank(0x1000, 12, int(m.state[4]))
	}
}

func (m *mmc2) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	switch {
	case addr >= 0xA000 && addr < 0xB000:
		m.state[0] = data & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.state[1] = data & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.state[2] = data & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.state[3] = data & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.state[4] = data & 0x1F
	case addr >= 0xF000:
		if data&0x01 != 0 {
			m.MirrorHorizontal()
		} else {
			m.MirrorVertical()
		}
	}
	m.ApplyMapping()
	return true
}

// NotifyCHRFetch flips the appropriate latch when the PPU fetches one
// of the four magic tile addresses.
func (m *mmc2) NotifyCHRFetch(addr uint16) {
	switch addr & 0x1FF8 {
	case 0x0FD8:
		if m.state[5] != 0 {
			m.state[5] = 0
			m.ApplyMapping()
		}
	case 0x0FE8:
		if m.state[5] != 1 {
			m.state[5] = 1
			m.ApplyMapping()
		}
	case 0x1FD8:
		if m.state[6] != 0 {
			m.state[6] = 0
			m.ApplyMapping()
		}
	case 0x1FE8:
		if m.state[6] != 1 {
			m.state[6] = 1
			m.ApplyMapping()
		}
	}
}

func (m *mmc2) StateBytes() []byte { return m.state[:] }
func (m *mmc2) LoadStateBytes(data []byte) { copy(m.state[:], data) }
