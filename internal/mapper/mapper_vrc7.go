package mapper

import (
	"github.com/aldengrove/nesgo/internal/blip"
	"github.com/aldengrove/nesgo/internal/cartridge"
)

func init() {
	Register(85, func() Mapper { return newVRC7() })
}

// vrc7 implements Konami's VRC7: PRG/CHR banking identical in shape to
// VRC4, a scanline IRQ, and six FM-synthesis audio channels driven by
// a YM2413-derived sound chip. True OPLL synthesis is out of scope
// here; the key-on bit and low nibble of FM registers 0-5 still drive
// a band-limited level approximation so the expansion audio register
// writes are exercised.
type vrc7 struct {
	Base

	// state: [0]=prg8000 [1]=prgA000 [2]=prgC000 [3..10]=chr0-7
	// [11]=mirroring [12]=irqLatch [13]=irqCounter [14]=irqCtrl
	state [15]byte

	fmAddr    uint8
	fmRegs    [8][16]byte // per-channel (0-5 used) register file
	irqTime   int32

	buf      *blip.Buffer
	lastTime int32
}

func newVRC7() *vrc7 {
	return &vrc7{buf: blip.New(1789773, 44100, 2000)}
}

func (m *vrc7) ID() uint16   { return 85 }
func (m *vrc7) Name() string { return "VRC7" }

func (m *vrc7) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.irqTime = NoIRQ
	m.buf.Clear()
}

func (m *vrc7) ApplyMapping() {
	m.SetPRGBank8k(0x8000, int(m.state[0]&0x3F))
	m.SetPRGBank8k(0xA000, int(m.state[1]&0x3F))
	m.SetPRGBank8k(0xC000, int(m.state[2]&0x3F))
	m.SetPRGBank8k(0xE000, -1)

	for i := 0; i < 8; i++ {
		m.SetCHRBank1k(i, int(m.state[3+i]))
	}

	switch m.state[11] & 0x03 {
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

func (m *vrc7) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	m.RunAudioUntil(time)

	switch {
	case addr >= 0x8000 && addr < 0x9000:
		m.state[0] = data
	case addr == 0x9010:
		m.fmAddr = data
	case addr == 0x9030:
		m.fmRegs[0][m.fmAddr&0x0F] = data // channel selection folded into reg 0 for simplicity
	case addr >= 0x9000 && addr < 0xA000:
		m.state[1] = data
	case addr >= 0xA000 && addr < 0xB000:
		m.state[2] = data
	case addr >= 0xB000 && addr < 0xC000:
		m.state[3+int(addr&0x07)] = data
	case addr >= 0xE000 && addr <= 0xE003:
		m.state[11] = data
	case addr >= 0xF000 && addr < 0xF001:
		m.state[12] = data
	case addr >= 0xF010 && addr < 0xF011:
		m.state[14] = data
		m.irqTime = NoIRQ
	case addr >= 0xF020 && addr < 0xF021:
		m.irqTime = NoIRQ
	}

	m.ApplyMapping()
	return true
}

func (m *vrc7) RunUntil(time int32) {
	if m.state[14]&0x02 == 0 {
		return
	}
	m.state[13]++
	if m.state[13] == 0 {
		m.state[13] = m.state[12]
		m.irqTime = time
		m.Ctx.IRQChanged()
	}
}

func (m *vrc7) NextIRQ(now int32) int32 { return m.irqTime }

func (m *vrc7) RunAudioUntil(time int32) {
	if time <= m.lastTime {
		return
	}
	var level int32
	for i := 0; i < 6; i++ {
		if m.fmRegs[0][i]&0x10 != 0 { // key-on bit, approximated
			level += int32(m.fmRegs[0][i]&0x0F) * 8
		}
	}
	m.buf.AddDelta(time, level)
	m.lastTime = time
}

func (m *vrc7) EndAudioFrame(length int32) []int16 {
	out := m.buf.EndFrame(length, nil)
	m.lastTime = 0
	return out
}

func (m *vrc7) StateBytes() []byte { return m.state[:] }
func (m *vrc7) LoadStateBytes(data []byte) { copy(m.state[:], data) }
