package mapper

import (
	"github.com/aldengrove/nesgo/internal/blip"
	"github.com/aldengrove/nesgo/internal/cartridge"
)

func init() {
	Register(69, func() Mapper { return newFME7() })
}

// fme7 implements Sunsoft's FME-7 (mapper 69): 8 KiB PRG windows (with
// a PRG-RAM/ROM select on the first window), 1 KiB CHR windows, a
// free-running down-counter IRQ, and a Sunsoft 5B-style 3-channel
// square-wave expansion audio core addressed through a command/data
// port pair at 0xC000/0xE000, grounded on the AY-3-8910-derived
// register layout documented on nesdev.
type fme7 struct {
	Base

	// state: [0]=cmd [1..8]=chr0-7 [9..11]=prg0-2 [12]=prgRAMCtrl
	// [13]=mirroring [14]=irqEnable [15]=irqCounterEnable
	state [16]byte

	irqCounter uint16
	irqTime    int32

	cmd      uint8
	regs     [16]byte
	buf      *blip.Buffer
	lastTime int32
}

func newFME7() *fme7 {
	return &fme7{buf: blip.New(1789773, 44100, 2000)}
}

func (m *fme7) ID() uint16   { return 69 }
func (m *fme7) Name() string { return "FME-7" }

func (m *fme7) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.irqCounter = 0
	m.irqTime = NoIRQ
	m.buf.Clear()
}

func (m *fme7) ApplyMapping() {
	for i := 0; i < 8; i++ {
		m.SetCHRBank1k(i, int(m.state[1+i]))
	}

	if m.state[12]&0x40 != 0 {
		m.Ctx.SetPrgRAMEnabled(m.state[12]&0x80 != 0)
	} else {
		m.SetPRGBank8k(0x8000, int(m.state[9]))
	}
	m.SetPRGBank8k(0xA000, int(m.state[10]))
	m.SetPRGBank8k(0xC000, int(m.state[11]))
	m.SetPRGBank8k(0xE000, -1)

	switch m.state[13] & 0x03 {
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

func (m *fme7) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	m.RunAudioUntil(time)

	switch {
	case addr >= 0x8000 && addr < 0xA000:
		m.state[0] = data & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.applyRegWrite(m.state[0], data)
	case addr >= 0xC000 && addr < 0xE000:
		m.cmd = data & 0x0F
	case addr >= 0xE000:
		m.regs[m.cmd] = data
	}

	m.ApplyMapping()
	return true
}

func (m *fme7) applyRegWrite(reg, data uint8) {
	switch {
	case reg <= 7:
		m.state[1+reg] = data
	case reg >= 8 && reg <= 10:
		m.state[9+(reg-8)] = data
	case reg == 11:
		m.state[12] = data
	case reg == 12:
		m.state[13] = data
	case reg == 13:
		m.state[14] = data & 0x01
		m.state[15] = (data >> 7) & 0x01
		m.irqTime = NoIRQ
	case reg == 14:
		m.irqCounter = (m.irqCounter & 0xFF00) | uint16(data)
	case reg == 15:
		m.irqCounter = (m.irqCounter & 0x00FF) | uint16(data)<<8
	}
}

func (m *fme7) RunUntil(time int32) {
	if m.state[15] == 0 {
		return
	}
	if m.irqCounter == 0 {
		if m.state[14] != 0 {
			m.irqTime = time
			m.Ctx.IRQChanged()
		}
		return
	}
	m.irqCounter--
}

func (m *fme7) NextIRQ(now int32) int32 { return m.irqTime }

// RunAudioUntil approximates the three AY-3-8910-style square
// channels: a nonzero tone period and the channel's tone-enable bit
// (register 7, active-low) together produce a fixed-amplitude step.
func (m *fme7) RunAudioUntil(time int32) {
	if time <= m.lastTime {
		return
	}
	mixer := m.regs[7]
	var level int32
	for ch := 0; ch < 3; ch++ {
		if mixer&(1<<uint(ch)) != 0 {
			continue // tone disabled for this channel
		}
		vol := m.regs[8+ch] & 0x0F
		period := uint16(m.regs[2*ch])<<8 | uint16(m.regs[2*ch+1])
		if period != 0 {
			level += int32(vol) * 16
		}
	}
	m.buf.AddDelta(time, level)
	m.lastTime = time
}

func (m *fme7) EndAudioFrame(length int32) []int16 {
	out := m.buf.EndFrame(length, nil)
	m.lastTime = 0
	return out
}

func (m *fme7) StateBytes() []byte { return m.state[:] }
func (m *fme7) LoadStateBytes(data []byte) { copy(m.state[:], data) }
