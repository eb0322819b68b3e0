package snapshot

import (
	"fmt"

	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/serial"
)

// Serialize produces a full snapshot stream, optionally omitting the
// blocks named in exclude (nil or empty for a true full snapshot; a
// non-empty set implements the "lite" variant of §4.8, e.g. the test
// script's "Disable State Blocks" list). The write order is always
// the fixed canonical order in writeOrder, regardless of which
// blocks are present, to stay byte-compatible with the upstream
// reference stream shape.
func Serialize(c *core.Core, exclude map[string]bool) []byte {
	w := serial.NewWriter(4096)
	writeHeader(w)

	payloads := buildPayloads(c)
	for _, tag := range writeOrder {
		if exclude[tag] {
			continue
		}
		payload, ok := payloads[tag]
		if !ok {
			continue
		}
		writeBlock(w, tag, payload)
	}
	writeTrailer(w)
	return w.Buf
}

// buildPayloads packs every block this Core can currently produce.
// CHRR and SRAM are conditionally present per §6's canonical block
// table: CHRR only when the cartridge declared CHR-RAM, SRAM only
// when battery-backed or PRG-RAM-equipped.
func buildPayloads(c *core.Core) map[string][]byte {
	cart := c.Cartridge()
	out := map[string][]byte{
		tagTIME: packTime(c),
		tagCPUR: packCPU(c),
		tagPPUR: c.PPU().StateBytes(),
		tagAPUR: c.APU().StateBytes(),
		tagCTRL: packCtrl(c),
		tagMAPR: packMapper(c),
		tagLRAM: c.Bus().RAMBytes(),
		tagSPRT: c.PPU().OAMBytes(),
		tagNTAB: c.PPU().NametableBytes(),
	}
	if cart.ChrIsRAM {
		out[tagCHRR] = cart.CHR
	}
	if cart.Battery || cart.HasPrgRAM {
		out[tagSRAM] = c.Bus().SRAMBytes()
	}
	return out
}

// packTime builds the TIME block: the residual CPU timestamp scaled
// by 5 for cross-version portability (§9), the PAL flag, 3 pad bytes,
// and the 32-bit frame counter.
func packTime(c *core.Core) []byte {
	w := serial.NewWriter(12)
	w.I32(c.Timestamp() * 5)
	w.Bool(c.Pal())
	w.U8(0)
	w.U8(0)
	w.U8(0)
	w.U32(uint32(c.FrameCount()))
	return w.Buf
}

func unpackTime(c *core.Core, data []byte) {
	r := serial.NewReader(data)
	ts := r.I32()
	pal := r.Bool()
	r.U8()
	r.U8()
	r.U8()
	frame := r.U32()
	c.SetTimestamp(ts / 5)
	c.SetPal(pal)
	c.SetFrameCount(uint64(frame))
}

// packCPU builds the canonical 8-byte CPUR layout: pc, s, p, a, x, y,
// 1 pad byte. The CPU's register fields are exported so the snapshot
// engine reads/writes them directly rather than through a
// CPU-package-local byte layout that need not match this one.
func packCPU(c *core.Core) []byte {
	cpu := c.CPU()
	w := serial.NewWriter(8)
	w.U16(cpu.PC)
	w.U8(cpu.SP)
	w.U8(cpu.P)
	w.U8(cpu.A)
	w.U8(cpu.X)
	w.U8(cpu.Y)
	w.U8(0)
	return w.Buf
}

func unpackCPU(c *core.Core, data []byte) {
	cpu := c.CPU()
	r := serial.NewReader(data)
	cpu.PC = r.U16()
	cpu.SP = r.U8()
	cpu.P = r.U8()
	cpu.A = r.U8()
	cpu.X = r.U8()
	cpu.Y = r.U8()
}

// packCtrl builds the 12-byte CTRL block: both ports' shift-register
// contents (the bits a restored mid-sequence read still needs to
// produce), 1 strobe byte and 3 pad bytes. The staged "pending" port
// values are not carried across a snapshot boundary: the next
// EmulateFrame call always supplies a fresh input frame before either
// port is read again.
func packCtrl(c *core.Core) []byte {
	shift1, shift2, _, _, strobe := c.Joypad().State()
	w := serial.NewWriter(12)
	w.U32(shift1)
	w.U32(shift2)
	w.Bool(strobe)
	w.U8(0)
	w.U8(0)
	w.U8(0)
	return w.Buf
}

func unpackCtrl(c *core.Core, data []byte) {
	r := serial.NewReader(data)
	shift1 := r.U32()
	shift2 := r.U32()
	strobe := r.Bool()
	c.Joypad().LoadState(shift1, shift2, shift1, shift2, strobe)
}

// packMapper prefixes the mapper's opaque state block with its 16-bit
// mapper id, so a mismatched restore (loading a snapshot captured
// against a different cartridge) can be detected before LoadStateBytes
// runs, per the §7 fatal-mismatch rule.
func packMapper(c *core.Core) []byte {
	state := c.Mapper().StateBytes()
	w := serial.NewWriter(2 + len(state))
	w.U16(c.Mapper().ID())
	w.Bytes(state)
	return w.Buf
}

// Deserialize restores a Core from a full or lite snapshot stream.
// Blocks may arrive in any order; whichever of TIME/CPUR/PPUR/APUR/
// CTRL/LRAM/SPRT/NTAB/CHRR/SRAM are present are applied, and anything
// absent (a lite snapshot's excluded blocks) is left at its current
// value. The mapper is always reset-then-reloaded-then-reapplied last,
// per §4.8's post-load sequence, and SRAM is enabled only if an SRAM
// block was present.
func Deserialize(c *core.Core, data []byte) error {
	blocks, err := parseBlocks(data)
	if err != nil {
		return err
	}
	return applyBlocks(c, blocks)
}

// applyBlocks is the shared post-load sequence both Deserialize and
// DeserializeDifferential drive: every known block present is applied
// to its subsystem, then the mapper is reset, reloaded and reapplied
// last, and SRAM is enabled only if an SRAM block was present.
func applyBlocks(c *core.Core, blocks []block) error {
	if p, ok := find(blocks, tagTIME); ok {
		unpackTime(c, p)
	}
	if p, ok := find(blocks, tagCPUR); ok {
		unpackCPU(c, p)
	}
	if p, ok := find(blocks, tagPPUR); ok {
		c.PPU().LoadStateBytes(p)
	}
	if p, ok := find(blocks, tagAPUR); ok {
		c.APU().LoadStateBytes(p)
	}
	if p, ok := find(blocks, tagCTRL); ok {
		unpackCtrl(c, p)
	}
	if p, ok := find(blocks, tagLRAM); ok {
		c.Bus().LoadRAMBytes(p)
	}
	if p, ok := find(blocks, tagSPRT); ok {
		c.PPU().LoadOAMBytes(p)
	}
	if p, ok := find(blocks, tagNTAB); ok {
		c.PPU().LoadNametableBytes(p)
	}
	if p, ok := find(blocks, tagCHRR); ok {
		copy(c.Cartridge().CHR, p)
	}

	sramPresent := false
	if p, ok := find(blocks, tagSRAM); ok {
		c.Bus().LoadSRAMBytes(p)
		sramPresent = true
	}

	if p, ok := find(blocks, tagMAPR); ok {
		if len(p) < 2 {
			return fmt.Errorf("%w: MAPR block shorter than its id prefix", ErrMalformed)
		}
		id := uint16(p[0]) | uint16(p[1])<<8
		if id != c.Cartridge().MapperID {
			return ErrMapperMismatch
		}
		c.RestoreMapperState(p[2:])
	}

	if sramPresent {
		c.EnableSRAM(true)
	}
	return nil
}
