// Package bus implements the CPU's paged memory map: low RAM, the PPU
// register window, mapper-intercepted pages, and the cartridge PRG
// space, following a page-table-over-a-flat-array shape.
package bus

const (
	lowRAMSize   = 0x800
	pageSize     = 0x800 // 2 KiB, matching the mapper's PRG bank granularity
	pageCount    = 0x10000 / pageSize
	ioWindowLow  = 0x4000
	ioWindowHigh = 0x5FFF
	sramLow      = 0x6000
	sramHigh     = 0x7FFF

	// stopOpcode is the designated 6502 "bad opcode" (0xD2, a JAM/KIL
	// on real silicon) the CPU interpreter recognizes as a halt. Every
	// unmapped PRG page is filled with it so errant execution through
	// unmapped memory stops deterministically instead of reading
	// open-bus garbage as code.
	stopOpcode = 0xD2
)

// fillerPage backs every PRG page the mapper hasn't mapped. Shared
// read-only across all unmapped pages; never written to.
var fillerPage = func() []uint8 {
	p := make([]uint8, pageSize)
	for i := range p {
		p[i] = stopOpcode
	}
	return p
}()

// PPU is the subset of ppu.PPU the bus needs to dispatch the register
// window and OAM DMA.
type PPU interface {
	ReadReg(time int32, addr uint16) uint8
	WriteReg(time int32, addr uint16, data uint8) (a12Rose bool)
}

// APU is the subset of apu.APU the bus needs for the $4000-$4017
// register window and the frame-counter/joystick-strobe side effects.
type APU interface {
	ReadReg(time int32, addr uint16) uint8
	WriteReg(time int32, addr uint16, data uint8)
}

// Input services the two joypad-port reads/writes at $4016/$4017.
type Input interface {
	Read(port int) uint8
	Write(strobe uint8)
}

// Mapper is the subset of mapper.Mapper the bus calls directly, kept
// narrow so the bus package doesn't need to import the whole mapper
// interface surface.
type Mapper interface {
	Read(time int32, addr uint16) (data uint8, ok bool)
	WriteIntercepted(time int32, addr uint16, data uint8) bool
	A12Clocked(time int32)
}

// DMAStaller is notified when an OAM DMA write must stall the CPU.
type DMAStaller interface {
	StallCycles(n int32)
}

// Bus is the CPU's view of the whole address space. codeMap holds one
// slice per 2 KiB page for the PRG region (the shared stop-opcode
// filler where unmapped); interceptRead/interceptWrite are per-page
// bitmaps of pages the mapper services itself: New marks
// 0x8000-0xFFFF, and mappers with registers below $8000 (e.g. MMC5's
// $5000-$5FFF window) add their ranges through InterceptRange at Reset
// time.
type Bus struct {
	ram []uint8

	codeMap        [pageCount][]uint8
	interceptRead  [pageCount]bool
	interceptWrite [pageCount]bool

	sram        []uint8
	sramEnabled bool

	ppu    PPU
	apu    APU
	input  Input
	mapper Mapper
	dma    DMAStaller
}

// New builds a Bus with its low RAM allocated and every PRG page
// initially unmapped (backed by the stop-opcode filler).
func New(ppu PPU, apu APU, input Input, mapper Mapper, dma DMAStaller) *Bus {
	b := &Bus{
		ram:    make([]uint8, lowRAMSize),
		sram:   make([]uint8, 0x2000),
		ppu:    ppu,
		apu:    apu,
		input:  input,
		mapper: mapper,
		dma:    dma,
	}
	for i := range b.codeMap {
		b.codeMap[i] = fillerPage
	}
	// Every mapper's default reset declares 0x8000-0xFFFF as
	// write-intercepted (§4.3); reads are intercepted too so mappers
	// with register read-back (MMC5, FME-7, Namco 163) are consulted
	// before the bus falls through to its PRG fast path.
	b.InterceptRange(0x8000, 0xFFFF, true, true)
	return b
}

// SetPRGPage installs an 8 KiB PRG window (slot 0-3, for
// 0x8000/0xA000/0xC000/0xE000) as four 2 KiB code-map pages, matching
// the mapper.Context contract.
func (b *Bus) SetPRGPage(slot int, data []uint8) {
	base := 0x8000/pageSize + slot*(0x2000/pageSize)
	for i := 0; i < 0x2000/pageSize; i++ {
		if data == nil {
			b.codeMap[base+i] = fillerPage
			continue
		}
		off := i * pageSize
		b.codeMap[base+i] = data[off : off+pageSize]
	}
}

// InterceptRange marks every page overlapping [lo, hi] as needing the
// mapper consulted before the bus's default PRG read/write path.
func (b *Bus) InterceptRange(lo, hi uint16, read, write bool) {
	for p := int(lo) / pageSize; p <= int(hi)/pageSize && p < pageCount; p++ {
		if read {
			b.interceptRead[p] = true
		}
		if write {
			b.interceptWrite[p] = true
		}
	}
}

func (b *Bus) SetSRAMEnabled(enabled bool) { b.sramEnabled = enabled }

// GetCodePtr exposes the raw PRG byte slice backing addr's page. The
// CPU interpreter and oamDMA both read through Read rather than this
// slice. Never nil: an unmapped page is backed by the stop-opcode
// filler.
func (b *Bus) GetCodePtr(addr uint16) []uint8 {
	page := b.codeMap[int(addr)/pageSize]
	return page[int(addr)%pageSize:]
}

// Read dispatches a CPU read, following the §4.1 priority order: low
// RAM, PPU register window, mapper intercept, I/O window, SRAM, PRG
// fast path, open bus.
func (b *Bus) Read(time int32, addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x7FF]
	case addr < 0x4000:
		return b.ppu.ReadReg(time, 0x2000+addr&0x0007)
	case addr >= 0x8000:
		page := int(addr) / pageSize
		if b.interceptRead[page] {
			if v, ok := b.mapper.Read(time, addr); ok {
				return v
			}
		}
		return b.codeMap[page][int(addr)%pageSize]
	case addr == 0x4016:
		return b.input.Read(0)
	case addr == 0x4017:
		return b.input.Read(1)
	case addr < ioWindowHigh+1:
		if b.interceptRead[int(addr)/pageSize] {
			if v, ok := b.mapper.Read(time, addr); ok {
				return v
			}
		}
		return b.apu.ReadReg(time, addr)
	case addr >= sramLow && addr <= sramHigh:
		if b.interceptRead[int(addr)/pageSize] {
			if v, ok := b.mapper.Read(time, addr); ok {
				return v
			}
		}
		if b.sramEnabled {
			return b.sram[addr-sramLow]
		}
		return uint8(addr >> 8)
	default:
		return uint8(addr >> 8)
	}
}

// Write dispatches a CPU write with the symmetric priority order,
// including the OAM DMA side effect at $4014.
func (b *Bus) Write(time int32, addr uint16, data uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x7FF] = data
	case addr < 0x4000:
		reg := 0x2000 + addr&0x0007
		if b.ppu.WriteReg(time, reg, data) {
			b.mapper.A12Clocked(time)
		}
	case addr == 0x4014:
		b.oamDMA(time, data)
	case addr == 0x4016:
		b.input.Write(data)
	case addr >= 0x8000:
		page := int(addr) / pageSize
		if b.interceptWrite[page] && b.mapper.WriteIntercepted(time, addr, data) {
			return
		}
	case addr >= sramLow && addr <= sramHigh:
		if b.interceptWrite[int(addr)/pageSize] && b.mapper.WriteIntercepted(time, addr, data) {
			return
		}
		if b.sramEnabled {
			b.sram[addr-sramLow] = data
		}
	case addr < ioWindowHigh+1:
		if b.interceptWrite[int(addr)/pageSize] && b.mapper.WriteIntercepted(time, addr, data) {
			return
		}
		b.apu.WriteReg(time, addr, data)
	}
}

// oamDMA copies 256 bytes from page (data<<8) into OAM via the PPU's
// $2004 port and stalls the CPU 513 cycles (514 on an odd CPU cycle,
// approximated here as a flat 513 since the bus has no visibility into
// CPU cycle parity).
func (b *Bus) oamDMA(time int32, page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v := b.Read(time, base+uint16(i))
		b.ppu.WriteReg(time, 0x2004, v)
	}
	if b.dma != nil {
		b.dma.StallCycles(513)
	}
}

// PushByte writes directly to the low-RAM stack page. The CPU's
// push/pushWord helpers call this for every BRK/IRQ/NMI/JSR stack
// write instead of going through Write's full dispatch, since the
// stack page is always low RAM.
func (b *Bus) PushByte(sp uint8, data uint8) {
	b.ram[0x0100+uint16(sp)] = data
}

// RAMBytes and LoadRAMBytes back the snapshot engine's LRAM block: the
// console's 2 KiB of internal low RAM.
func (b *Bus) RAMBytes() []byte { return b.ram }

func (b *Bus) LoadRAMBytes(data []byte) { copy(b.ram, data) }

// SRAMEnabled reports whether the $6000-$7FFF window currently reads
// back the battery-backed SRAM array rather than open bus, mirroring
// the mapper's enable_sram policy.
func (b *Bus) SRAMEnabled() bool { return b.sramEnabled }

// SRAMBytes and LoadSRAMBytes back the snapshot engine's SRAM block:
// the full 8 KiB $6000-$7FFF window, present only when the cartridge
// declared battery/SRAM support.
func (b *Bus) SRAMBytes() []byte { return b.sram }

func (b *Bus) LoadSRAMBytes(data []byte) { copy(b.sram, data) }
