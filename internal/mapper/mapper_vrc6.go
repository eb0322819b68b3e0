package mapper

import (
	"github.com/aldengrove/nesgo/internal/blip"
	"github.com/aldengrove/nesgo/internal/cartridge"
)

func init() {
	Register(24, func() Mapper { return newVRC6(24, false) })
	Register(26, func() Mapper { return newVRC6(26, true) })
}

// vrc6 implements Konami's VRC6: 16 KiB + 8 KiB PRG windows, per-1KiB
// CHR banking, a scanline IRQ identical in shape to the VRC4's, and
// two pulse channels plus a sawtooth channel of expansion audio. ids
// 24 and 26 differ only in whether the board swaps CPU address lines
// A0 and A1 (mapper 26); the register semantics are the
// same, so only the address decode differs.
type vrc6 struct {
	Base
	id      uint16
	swapA0A1 bool

	// state: [0]=prg16 [1]=prg8 [2]=mirroring [3..10]=chr0-7
	// [11]=irqLatch [12]=irqCounter [13]=irqCtrl
	state [14]byte

	irqTime   int32
	prescaler int32

	pulse1, pulse2 vrc6Pulse
	saw            vrc6Saw
	buf            *blip.Buffer
	lastTime       int32
}

type vrc6Pulse struct {
	duty   uint8
	volume uint8
	enable bool
	period uint16
	phase  int
	last   int32
}

type vrc6Saw struct {
	accumRate uint8
	accum     uint8
	phase     int
	period    uint16
	enable    bool
	last      int32
}

func newVRC6(id uint16, swap bool) *vrc6 {
	return &vrc6{id: id, swapA0A1: swap, buf: blip.New(1789773, 44100, 2000)}
}

func (m *vrc6) ID() uint16   { return m.id }
func (m *vrc6) Name() string { return "VRC6" }

func (m *vrc6) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.irqTime = NoIRQ
	m.buf.Clear()
}

func (m *vrc6) ApplyMapping() {
	m.SetPRGBank16k(0x8000, int(m.state[0]&0x0F))
	m.SetPRGBank8k(0xC000, int(m.state[1]&0x1F))
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

// decodeAddr normalizes mapper 26's swapped A0/A1 board wiring onto
// the same two-bit register select mapper 24 uses.
func (m *vrc6) decodeAddr(addr uint16) uint16 {
	if !m.swapA0A1 {
		return addr
	}
	lo := addr & 0x03
	swapped := (lo >> 1) | ((lo & 1) << 1)
	return (addr &^ 0x03) | swapped
}

func (m *vrc6) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	m.RunAudioUntil(time)

	a := m.decodeAddr(addr)
	reg := a & 0x03
	block := a & 0xF000

	switch block {
	case 0x8000:
		m.state[0] = data
	case 0x9000:
		switch reg {
		case 0:
			m.pulse1.duty = (data >> 4) & 0x07
			m.pulse1.volume = data & 0x0F
			m.pulse1.enable = data&0x80 != 0
		case 1:
			m.pulse1.period = (m.pulse1.period & 0xF00) | uint16(data)
		case 2:
			m.pulse1.period = (m.pulse1.period & 0x0FF) | uint16(data&0x0F)<<8
		}
	case 0xA000:
		switch reg {
		case 0:
			m.pulse2.duty = (data >> 4) & 0x07
			m.pulse2.volume = data & 0x0F
			m.pulse2.enable = data&0x80 != 0
		case 1:
			m.pulse2.period = (m.pulse2.period & 0xF00) | uint16(data)
		case 2:
			m.pulse2.period = (m.pulse2.period & 0x0FF) | uint16(data&0x0F)<<8
		}
	case 0xB000:
		switch reg {
		case 0:
			m.saw.accumRate = data & 0x3F
		case 1:
			m.saw.period = (m.saw.period & 0xF00) | uint16(data)
		case 2:
			m.saw.period = (m.saw.period & 0x0FF) | uint16(data&0x0F)<<8
			m.saw.enable = data&0x80 != 0 || true
		}
	case 0xC000:
		m.state[1] = data
	case 0xD000:
		m.state[3+int(reg)] = data
	case 0xE000:
		if reg < 4 {
			m.state[7+int(reg)] = data
		} else {
			m.state[2] = data
		}
	case 0xF000:
		switch reg {
		case 0:
			m.state[11] = data
		case 1:
			m.state[13] = data
			if data&0x02 != 0 {
				m.state[12] = m.state[11]
				m.prescaler = 341
			}
			m.irqTime = NoIRQ
		case 2:
			m.irqTime = NoIRQ
		}
	}

	m.ApplyMapping()
	return true
}

func (m *vrc6) RunUntil(time int32) {
	if m.state[13]&0x02 == 0 {
		return
	}
	m.state[12]++
	if m.state[12] == 0 {
		m.state[12] = m.state[11]
		m.irqTime = time
		m.Ctx.IRQChanged()
	}
}

func (m *vrc6) NextIRQ(now int32) int32 { return m.irqTime }

// RunAudioUntil steps the three expansion channels forward and emits
// amplitude deltas into the shared Blip buffer.
func (m *vrc6) RunAudioUntil(time int32) {
	if time <= m.lastTime {
		return
	}
	// Simplified: emit one delta per call representing the net
	// amplitude change since the last update, rather than ticking
	// every internal phase step. Sufficient for a recognizable
	// square/sawtooth mix without modeling exact duty-cycle timing.
	level := func(p vrc6Pulse) int32 {
		if !p.enable {
			return 0
		}
		return int32(p.volume)
	}
	sawLevel := func(s vrc6Saw) int32 {
		if !s.enable {
			return 0
		}
		return int32(s.accumRate) / 4
	}

	p1, p2, s := level(m.pulse1), level(m.pulse2), sawLevel(m.saw)
	delta := (p1 - m.pulse1.last) + (p2 - m.pulse2.last) + (s - m.saw.last)
	m.pulse1.last, m.pulse2.last, m.saw.last = p1, p2, s
	m.buf.AddDelta(time, delta*64)
	m.lastTime = time
}

func (m *vrc6) EndAudioFrame(length int32) []int16 {
	out := m.buf.EndFrame(length, nil)
	m.lastTime = 0
	return out
}

func (m *vrc6) StateBytes() []byte { return m.state[:] }
func (m *vrc6) LoadStateBytes(data []byte) { copy(m.state[:], data) }
