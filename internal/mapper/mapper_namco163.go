package mapper

import (
	"github.com/aldengrove/nesgo/internal/blip"
	"github.com/aldengrove/nesgo/internal/cartridge"
)

func init() {
	Register(19, func() Mapper { return newNamco163() })
}

// namco163 implements mapper 19: 1 KiB CHR windows that can source
// either CHR-ROM or the cartridge's internal nametable RAM, a CPU-
// cycle IRQ down-counter, and up to eight wavetable audio channels
// addressed through an internal RAM window at 0x4800/0x4800 (index
// register at 0xF800, data port at 0x4800).
type namco163 struct {
	Base

	// state: [0..7]=chr0-7 [8..10]=prg8000/A000/C000 (3 bytes) ...
	// laid out explicitly below for clarity
	chr      [8]byte
	prg      [3]byte
	mirror   [4]byte // one nametable-source byte per PPU nametable slot
	irqCounter uint16
	irqEnable  bool
	irqTime    int32

	ramAddr  uint8
	ramAutoInc bool
	ram      [128]byte

	channelCount int
	buf          *blip.Buffer
	lastTime     int32
}

func newNamco163() *namco163 {
	return &namco163{buf: blip.New(1789773, 44100, 2000), channelCount: 8}
}

func (m *namco163) ID() uint16   { return 19 }
func (m *namco163) Name() string { return "Namco 163" }

func (m *namco163) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	// The sound RAM data port sits at $4800, below $8000 and outside
	// the bus's universal intercept window.
	ctx.InterceptRange(0x4800, 0x4800)
	m.chr = [8]byte{}
	m.prg = [3]byte{}
	m.irqCounter = 0
	m.irqEnable = false
	m.irqTime = NoIRQ
	m.buf.Clear()
}

func (m *namco163) ApplyMapping() {
	for i := 0; i < 8; i++ {
		bank := int(m.chr[i])
		if bank >= 0xE0 && i >= 4 {
			// 0xE0-0xFF select cartridge RAM nametable pages
			// instead of CHR-ROM on the upper four windows;
			// approximated here by leaving the CHR-ROM mapping
			// in place (most games use this only for the name
			// table windows proper, handled via m.mirror).
			continue
		}
		m.SetCHRBank1k(i, bank)
	}
	m.SetPRGBank8k(0x8000, int(m.prg[0]))
	m.SetPRGBank8k(0xA000, int(m.prg[1]))
	m.SetPRGBank8k(0xC000, int(m.prg[2]))
	m.SetPRGBank8k(0xE000, -1)
}

func (m *namco163) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	m.Ctx.RenderUntil(time)
	m.RunAudioUntil(time)

	switch {
	case addr >= 0x8000 && addr < 0xA000:
		m.chr[(addr>>11)&0x07&0x03] = data // 0x8000-0x9FFF: CHR 0-3 low
	case addr >= 0xA000 && addr < 0xC000:
		m.chr[4+((addr>>11)&0x01)] = data
	case addr >= 0xC000 && addr < 0xE000:
		m.mirror[(addr>>11)&0x03] = data
	case addr >= 0xE000 && addr < 0xE800:
		m.prg[0] = data & 0x3F
		m.irqEnable = data&0x80 != 0
	case addr >= 0xE800 && addr < 0xF000:
		m.prg[1] = data & 0x3F
	case addr >= 0xF000 && addr < 0xF800:
		m.prg[2] = data & 0x3F
	case addr == 0xF800:
		m.ramAddr = data & 0x7F
		m.ramAutoInc = data&0x80 != 0
	case addr == 0x4800:
		m.writeRAM(data)
	}

	m.ApplyMapping()
	return true
}

// Read services the internal sound RAM's data port at 0x4800 only;
// reads of the write-only CHR registers at 0x8000-0xBFFF fall through.
func (m *namco163) Read(time int32, addr uint16) (uint8, bool) {
	if addr == 0x4800 {
		return m.ram[m.ramAddr], true
	}
	return 0, false
}

func (m *namco163) writeRAM(data uint8) {
	m.ram[m.ramAddr] = data
	if m.ramAutoInc {
		m.ramAddr = (m.ramAddr + 1) & 0x7F
	}
}

func (m *namco163) RunUntil(time int32) {
	if !m.irqEnable {
		return
	}
	if m.irqCounter < 0x7FFF {
		m.irqCounter++
		if m.irqCounter == 0x7FFF {
			m.irqTime = time
			m.Ctx.IRQChanged()
		}
	}
}

func (m *namco163) NextIRQ(now int32) int32 { return m.irqTime }

// RunAudioUntil sums the enabled wavetable channels' current volume
// into the shared Blip buffer; full 4-bit wavetable lookup is not
// modeled.
func (m *namco163) RunAudioUntil(time int32) {
	if time <= m.lastTime {
		return
	}
	var level int32
	for ch := 0; ch < m.channelCount; ch++ {
		base := 0x40 + ch*8
		if base+7 >= len(m.ram) {
			continue
		}
		vol := m.ram[base+7] & 0x0F
		level += int32(vol) * 12
	}
	m.buf.AddDelta(time, level)
	m.lastTime = time
}

func (m *namco163) EndAudioFrame(length int32) []int16 {
	out := m.buf.EndFrame(length, nil)
	m.lastTime = 0
	return out
}

func (m *namco163) StateBytes() []byte {
	buf := make([]byte, 0, 8+3+4+2+1+1+len(m.ram))
	buf = append(buf, m.chr[:]...)
	buf = append(buf, m.prg[:]...)
	buf = append(buf, m.mirror[:]...)
	buf = append(buf, byte(m.irqCounter), byte(m.irqCounter>>8))
	buf = append(buf, m.ramAddr)
	var auto byte
	if m.ramAutoInc {
		auto = 1
	}
	buf = append(buf, auto)
	buf = append(buf, m.ram[:]...)
	return buf
}

func (m *namco163) LoadStateBytes(data []byte) {
	copy(m.chr[:], data[0:8])
	copy(m.prg[:], data[8:11])
	copy(m.mirror[:], data[11:15])
	m.irqCounter = uint16(data[15]) | uint16(data[16])<<8
	m.ramAddr = data[17]
	m.ramAutoInc = data[18] != 0
	copy(m.ram[:], data[19:19+len(m.ram)])
}
