package snapshot

import (
	"bytes"
	"testing"

	"github.com/aldengrove/nesgo/internal/cartridge"
	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/serial"
)

// buildNROM assembles a minimal 32 KiB-PRG/8 KiB-CHR NROM image: every
// PRG byte is a NOP (0xEA) except the reset vector, which points at
// 0x8000, so a frame's worth of CPU time just free-runs NOPs.
func buildNROM(t *testing.T) *core.Core {
	t.Helper()
	header := make([]byte, 16)
	copy(header, []byte{'N', 'E', 'S', 0x1A})
	header[4] = 2 // 32 KiB PRG
	header[5] = 1 // 8 KiB CHR

	prg := bytes.Repeat([]byte{0xEA}, 0x8000)
	prg[0x7FFC] = 0x00
	prg[0x7FFD] = 0x80
	prg[0x7FFA] = 0x00
	prg[0x7FFB] = 0x80
	prg[0x7FFE] = 0x00
	prg[0x7FFF] = 0x80

	data := append(append([]byte{}, header...), prg...)
	data = append(data, make([]byte, 0x2000)...) // CHR

	cart, err := cartridge.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := core.Open(cart)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

func TestFullSnapshotRoundTrip(t *testing.T) {
	c := buildNROM(t)
	c.EmulateFrame(joyinput.Frame{})
	c.Bus().RAMBytes()[0x10] = 0x42 // perturb some low RAM

	s0 := Full(c)

	c2 := buildNROM(t)
	if err := Deserialize(c2, s0); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	s1 := Full(c2)
	if !bytes.Equal(s0, s1) {
		t.Fatalf("round-tripped snapshot differs from original")
	}
	if c2.Bus().RAMBytes()[0x10] != 0x42 {
		t.Fatalf("restored RAM byte = %#x, want 0x42", c2.Bus().RAMBytes()[0x10])
	}
	if c2.CPU().PC != c.CPU().PC {
		t.Fatalf("restored PC = %#x, want %#x", c2.CPU().PC, c.CPU().PC)
	}
}

func TestLiteSnapshotOmitsExcludedBlocks(t *testing.T) {
	c := buildNROM(t)
	c.EmulateFrame(joyinput.Frame{})

	full := Full(c)
	lite := Lite(c, []string{"LRAM"})
	if len(lite) >= len(full) {
		t.Fatalf("lite snapshot (%d bytes) should be smaller than full (%d bytes)", len(lite), len(full))
	}
	if _, err := parseBlocks(lite); err != nil {
		t.Fatalf("lite stream failed to parse: %v", err)
	}
	blocks, _ := parseBlocks(lite)
	if _, ok := find(blocks, tagLRAM); ok {
		t.Fatalf("LRAM block present despite exclusion")
	}
}

func TestDifferentialRoundTrip(t *testing.T) {
	c := buildNROM(t)
	c.EmulateFrame(joyinput.Frame{})
	ref := Full(c)

	c.Bus().RAMBytes()[0x42] = 0x99
	c.Bus().RAMBytes()[0x100] = 0x77
	c.EmulateFrame(joyinput.Frame{})
	full1 := Full(c)

	diff, err := SerializeDifferential(c, ref, 0, false)
	if err != nil {
		t.Fatalf("SerializeDifferential: %v", err)
	}

	c2 := buildNROM(t)
	if err := Deserialize(c2, ref); err != nil {
		t.Fatalf("Deserialize ref: %v", err)
	}
	if err := DeserializeDifferential(c2, ref, diff, false); err != nil {
		t.Fatalf("DeserializeDifferential: %v", err)
	}
	restored := Full(c2)
	if !bytes.Equal(restored, full1) {
		t.Fatalf("differential round-trip mismatch")
	}
}

func TestDifferentialRoundTripWithZlib(t *testing.T) {
	c := buildNROM(t)
	c.EmulateFrame(joyinput.Frame{})
	ref := Full(c)

	c.Bus().RAMBytes()[0x10] = 0xAB
	c.EmulateFrame(joyinput.Frame{})
	full1 := Full(c)

	diff, err := SerializeDifferential(c, ref, 0, true)
	if err != nil {
		t.Fatalf("SerializeDifferential: %v", err)
	}

	c2 := buildNROM(t)
	if err := Deserialize(c2, ref); err != nil {
		t.Fatalf("Deserialize ref: %v", err)
	}
	if err := DeserializeDifferential(c2, ref, diff, true); err != nil {
		t.Fatalf("DeserializeDifferential: %v", err)
	}
	if !bytes.Equal(Full(c2), full1) {
		t.Fatalf("zlib differential round-trip mismatch")
	}
}

func TestDifferentialTooStaleReturnsError(t *testing.T) {
	c := buildNROM(t)
	c.EmulateFrame(joyinput.Frame{})
	ref := Full(c)

	ram := c.Bus().RAMBytes()
	for i := range ram {
		ram[i] = byte(i)
	}
	c.EmulateFrame(joyinput.Frame{})

	if _, err := SerializeDifferential(c, ref, 4, false); err == nil {
		t.Fatalf("expected ErrTooManyChanges with a 4-byte budget")
	}
}

func TestMapperMismatchIsFatal(t *testing.T) {
	c := buildNROM(t)
	s0 := Full(c)

	// Corrupt the MAPR block's embedded mapper id.
	blocks, err := parseBlocks(s0)
	if err != nil {
		t.Fatalf("parseBlocks: %v", err)
	}
	for i, b := range blocks {
		if b.tag == tagMAPR {
			blocks[i].payload[0] ^= 0xFF
		}
	}
	corrupt := reassemble(blocks)

	c2 := buildNROM(t)
	if err := Deserialize(c2, corrupt); err != ErrMapperMismatch {
		t.Fatalf("got %v, want ErrMapperMismatch", err)
	}
}

func reassemble(blocks []block) []byte {
	w := serial.NewWriter(256)
	writeHeader(w)
	for _, b := range blocks {
		writeBlock(w, b.tag, b.payload)
	}
	writeTrailer(w)
	return w.Buf
}
