package ppu

import (
	"github.com/aldengrove/nesgo/internal/cartridge"
	"github.com/aldengrove/nesgo/internal/serial"
)

// StateBytes packs the register file, loopy scroll state, timing
// counters and palette RAM into the snapshot engine's PPUR payload.
// OAM and nametable RAM travel in their own SPRT/NTAB blocks per the
// canonical block list, not inside PPUR.
func (p *PPU) StateBytes() []byte {
	w := serial.NewWriter(29 + 32)
	w.U8(p.ctrl)
	w.U8(p.mask)
	w.U8(p.status)
	w.U8(p.oamAddr)
	w.U16(p.v)
	w.U16(p.t)
	w.U8(p.x)
	w.Bool(p.wLatch)
	w.U8(p.readBuffer)
	w.I32(p.dot)
	w.I32(int32(p.scanline))
	w.Bool(p.nmiOccurred)
	w.Bool(p.nmiSuppressed)
	w.I32(p.nmiTime)
	w.I32(int32(p.frame))
	w.Bytes(p.paletteRAM[:])
	return w.Buf
}

// LoadStateBytes restores everything StateBytes packed. Callers must
// still reapply bank tables/mirroring via the mapper's ApplyMapping,
// since the PPUR block never carries bank-table pointers.
func (p *PPU) LoadStateBytes(data []byte) {
	r := serial.NewReader(data)
	p.ctrl = r.U8()
	p.mask = r.U8()
	p.status = r.U8()
	p.oamAddr = r.U8()
	p.v = r.U16()
	p.t = r.U16()
	p.x = r.U8()
	p.wLatch = r.Bool()
	p.readBuffer = r.U8()
	p.dot = r.I32()
	p.scanline = int(r.I32())
	p.nmiOccurred = r.Bool()
	p.nmiSuppressed = r.Bool()
	p.nmiTime = r.I32()
	p.frame = uint64(r.I32())
	copy(p.paletteRAM[:], r.Bytes(32))
}

// OAMBytes and LoadOAMBytes back the snapshot engine's SPRT block.
func (p *PPU) OAMBytes() []byte { return p.oam[:] }

func (p *PPU) LoadOAMBytes(data []byte) { copy(p.oam[:], data) }

// FourScreen reports whether the cartridge supplied its own extra
// nametable RAM, which doubles the NTAB block's size.
func (p *PPU) FourScreen() bool {
	return p.mirrorMode == cartridge.MirrorFourScreen && p.extraA != nil && p.extraB != nil
}

// NametableBytes and LoadNametableBytes back the snapshot engine's
// NTAB block: the console's 2 KiB internal VRAM, plus the cartridge's
// extra 2 KiB when four-screen RAM is present.
func (p *PPU) NametableBytes() []byte {
	if p.FourScreen() {
		out := make([]byte, 0x1000)
		copy(out[:0x800], p.vram[:])
		copy(out[0x800:0xC00], p.extraA)
		copy(out[0xC00:0x1000], p.extraB)
		return out
	}
	return append([]byte(nil), p.vram[:]...)
}

func (p *PPU) LoadNametableBytes(data []byte) {
	copy(p.vram[:], data[:0x800])
	if len(data) >= 0x1000 && p.extraA != nil && p.extraB != nil {
		copy(p.extraA, data[0x800:0xC00])
		copy(p.extraB, data[0xC00:0x1000])
	}
}
