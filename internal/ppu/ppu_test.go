package ppu

import "testing"

// Palette mirroring: writing any byte to $3F10/$14/$18/$1C and reading
// back from $3F00/$04/$08/$0C must yield the written value, per §8.
func TestPaletteMirroring(t *testing.T) {
	cases := []struct{ mirrored, canonical uint16 }{
		{0x3F10, 0x3F00},
		{0x3F14, 0x3F04},
		{0x3F18, 0x3F08},
		{0x3F1C, 0x3F0C},
	}
	for _, tc := range cases {
		p := New()
		setVRAMAddr(p, tc.mirrored)
		p.WriteReg(0, 0x2007, 0x2B)

		setVRAMAddr(p, tc.canonical)
		if got := p.ReadReg(0, 0x2007); got != 0x2B {
			t.Errorf("addr %#04x mirrored from %#04x: read %#02x, want 0x2B", tc.canonical, tc.mirrored, got)
		}
	}
}

func setVRAMAddr(p *PPU, addr uint16) {
	p.WriteReg(0, 0x2006, uint8(addr>>8))
	p.WriteReg(0, 0x2006, uint8(addr))
}

// Reading $2002 must clear both the write-toggle latch and the VBlank
// flag.
func TestStatusReadClearsLatchAndVBlank(t *testing.T) {
	p := New()
	p.status |= statusVBlank
	p.wLatch = true

	v := p.ReadReg(0, 0x2002)
	if v&statusVBlank == 0 {
		t.Errorf("status read should still report VBlank set on this read")
	}
	if p.status&statusVBlank != 0 {
		t.Errorf("VBlank flag not cleared after $2002 read")
	}
	if p.wLatch {
		t.Errorf("write-toggle latch not cleared after $2002 read")
	}
}

// The first and second $2005 writes load fine-X and the coarse/fine Y
// bits of the temp address respectively, per the loopy register
// scheme.
func TestScrollWriteLoadsFineXAndT(t *testing.T) {
	p := New()
	p.WriteReg(0, 0x2005, 0x7D) // coarse X = 0x0F, fine X = 5
	if p.x != 5 {
		t.Errorf("fine X = %d, want 5", p.x)
	}
	if p.t&0x001F != 0x0F {
		t.Errorf("t coarse-X bits = %#04x, want 0x0F", p.t&0x001F)
	}
	if !p.wLatch {
		t.Errorf("wLatch should be set after the first $2005 write")
	}
	p.WriteReg(0, 0x2005, 0x03)
	if p.wLatch {
		t.Errorf("wLatch should clear after the second $2005 write")
	}
}

// NMITime must report the far-future sentinel once the VBlank NMI has
// already been acknowledged for the frame.
func TestNMITimeSentinelAfterAck(t *testing.T) {
	p := New()
	p.nmiOccurred = true
	p.ctrl |= ctrlNMI
	p.nmiTime = 1234
	if got := p.NMITime(); got != 1234 {
		t.Errorf("NMITime() = %d, want 1234", got)
	}
	p.AcknowledgeNMI()
	if got := p.NMITime(); got != NoEvent {
		t.Errorf("NMITime() after AcknowledgeNMI = %d, want NoEvent", got)
	}
}

// The second $2006 write that moves VRAM address line 12 (bit 0x1000
// of v) from low to high must report a12Rose, the signal MMC3-style
// mappers use as a scanline counter.
func TestWriteRegReportsA12Rise(t *testing.T) {
	p := New()
	p.v = 0x0000
	p.t = 0x1000
	p.wLatch = true // next $2006 write is the "second" (low-byte/commit) write
	if a12 := p.WriteReg(0, 0x2006, 0x00); !a12 {
		t.Errorf("a12Rose = false committing v=0x1000 from v=0, want true")
	}
	if p.v != 0x1000 {
		t.Errorf("v = %#04x, want 0x1000", p.v)
	}

	// A write that doesn't cross the line reports no rise.
	p.v = 0x1001
	p.t = 0x1002
	p.wLatch = true
	if a12 := p.WriteReg(0, 0x2006, 0x02); a12 {
		t.Errorf("a12Rose = true, want false (bit 12 already set before the write)")
	}
}
