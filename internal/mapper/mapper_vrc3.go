package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

func init() {
	Register(73, func() Mapper { return &vrc3{} })
}

// vrc3 implements Konami's VRC3 (mapper 73, Salamander): a single
// switchable 16 KiB PRG bank at 0x8000 with the last bank fixed at
// 0xC000, CHR RAM, and a 16-bit up-counting IRQ whose reload value is
// written one nibble at a time through four registers; the IRQ fires
// when the counter wraps from 0xFFFF to 0.
type vrc3 struct {
	Base

	// state: [0]=prg [1]=irqEnable [2]=irqAckEnable [3..4]=irqLatch lo/hi
	state [5]byte

	irqCounter uint16
	irqTime    int32
}

func (m *vrc3) ID() uint16   { return 73 }
func (m *vrc3) Name() string { return "VRC3" }

func (m *vrc3) Reset(cart *cartridge.Cartridge, ctx Context) {
	m.init(cart, ctx)
	m.defaultReset()
	for i := range m.state {
		m.state[i] = 0
	}
	m.irqCounter = 0
	m.irqTime = NoIRQ
}

func (m *vrc3) ApplyMapping() {
	m.SetPRGBank16k(0x8000, int(m.state[0]&0x0F))
	m.SetPRGBank16k(0xC000, -1)
}

func (m *vrc3) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	switch addr & 0xF000 {
	case 0x8000:
		m.state[3] = (m.state[3] & 0xF0) | (data & 0x0F)
	case 0x9000:
		m.state[3] = (m.state[3] & 0x0F) | (data&0x0F)<<4
	case 0xA000:
		m.state[4] = (m.state[4] & 0xF0) | (data & 0x0F)
	case 0xB000:
		m.state[4] = (m.state[4] & 0x0F) | (data&0x0F)<<4
	case 0xC000:
		m.state[1] = data & 0x02
		m.state[2] = data & 0x01
		if data&0x02 != 0 {
			m.irqCounter = uint16(m.state[3]) | uint16(m.state[4])<<8
		}
		m.irqTime = NoIRQ
	case 0xD000:
		m.state[1] = m.state[2]
		m.irqTime = NoIRQ
	case 0xF000:
		m.state[0] = data
		m.ApplyMapping()
	default:
		return false
	}
	return true
}

func (m *vrc3) RunUntil(time int32) {
	if m.state[1] == 0 {
		return
	}
	m.irqCounter++
	if m.irqCounter == 0 {
		m.irqTime = time
		m.Ctx.IRQChanged()
	}
}

func (m *vrc3) NextIRQ(now int32) int32 { return m.irqTime }

func (m *vrc3) StateBytes() []byte {
	buf := make([]byte, 0, len(m.state)+4)
	buf = append(buf, m.state[:]...)
	buf = append(buf, byte(m.irqCounter), byte(m.irqCounter>>8))
	return buf
}

func (m *vrc3) LoadStateBytes(data []byte) {
	copy(m.state[:], data[:len(m.state)])
	m.irqCounter = uint16(data[len(m.state)]) | uint16(data[len(m.state)+1])<<8
}
