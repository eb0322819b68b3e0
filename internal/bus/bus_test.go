package bus

import "testing"

type fakePPU struct{}

func (fakePPU) ReadReg(time int32, addr uint16) uint8                    { return 0 }
func (fakePPU) WriteReg(time int32, addr uint16, data uint8) (a12 bool)  { return false }

type fakeAPU struct{}

func (fakeAPU) ReadReg(time int32, addr uint16) uint8       { return 0 }
func (fakeAPU) WriteReg(time int32, addr uint16, data uint8) {}

type fakeInput struct{}

func (fakeInput) Read(port int) uint8   { return 0 }
func (fakeInput) Write(strobe uint8)    {}

type fakeMapper struct{}

func (fakeMapper) Read(time int32, addr uint16) (uint8, bool)          { return 0, false }
func (fakeMapper) WriteIntercepted(time int32, addr uint16, data uint8) bool { return false }
func (fakeMapper) A12Clocked(time int32)                               {}

type fakeDMA struct{ stalled int32 }

func (f *fakeDMA) StallCycles(n int32) { f.stalled += n }

func newTestBus() *Bus {
	return New(fakePPU{}, fakeAPU{}, fakeInput{}, fakeMapper{}, &fakeDMA{})
}

// Grounded on the teacher's TestBaseNESMapping: writes to low RAM must
// be visible through every one of its four 2 KiB mirrors.
func TestLowRAMMirroring(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 10; i++ {
		b.Write(0, uint16(i), uint8(i+1))
	}
	for _, base := range []uint16{0, 0x800, 0x1000, 0x1800} {
		for i := 0; i < 10; i++ {
			if got := b.Read(0, base+uint16(i)); got != uint8(i+1) {
				t.Errorf("mem[%04x] = %#02x, want %#02x", base+uint16(i), got, i+1)
			}
		}
	}
}

// An unmapped PRG page must read back as the stop opcode everywhere,
// per the §3 "unmapped pages point to a filler buffer" invariant.
func TestUnmappedPRGReadsStopOpcode(t *testing.T) {
	b := newTestBus()
	for _, addr := range []uint16{0x8000, 0x9FFF, 0xC000, 0xFFFF} {
		if got := b.Read(0, addr); got != stopOpcode {
			t.Errorf("Read(%#04x) = %#02x, want stop opcode %#02x", addr, got, stopOpcode)
		}
	}
	if got := b.GetCodePtr(0x8000)[0]; got != stopOpcode {
		t.Errorf("GetCodePtr(0x8000)[0] = %#02x, want %#02x", got, stopOpcode)
	}
}

// SetPRGPage must make a mapped 8 KiB window readable at its four
// byte-addressable page boundaries.
func TestSetPRGPage(t *testing.T) {
	b := newTestBus()
	prg := make([]uint8, 0x2000)
	for i := range prg {
		prg[i] = uint8(i)
	}
	b.SetPRGPage(0, prg)
	for _, off := range []uint16{0, 0x800, 0x1000, 0x1FFF} {
		if got, want := b.Read(0, 0x8000+off), prg[off]; got != want {
			t.Errorf("Read(%#04x) = %#02x, want %#02x", 0x8000+off, got, want)
		}
	}
	// Unmapping the window reverts to the stop-opcode filler.
	b.SetPRGPage(0, nil)
	if got := b.Read(0, 0x8000); got != stopOpcode {
		t.Errorf("after unmap, Read(0x8000) = %#02x, want stop opcode", got)
	}
}

func TestSRAMWindowGatedByEnable(t *testing.T) {
	b := newTestBus()
	b.Write(0, 0x6000, 0x42)
	if got := b.Read(0, 0x6000); got == 0x42 {
		t.Errorf("SRAM write visible before SetSRAMEnabled(true)")
	}
	b.SetSRAMEnabled(true)
	b.Write(0, 0x6000, 0x42)
	if got := b.Read(0, 0x6000); got != 0x42 {
		t.Errorf("Read(0x6000) = %#02x, want 0x42", got)
	}
}

func TestOAMDMAStallsCPU(t *testing.T) {
	dma := &fakeDMA{}
	b := New(fakePPU{}, fakeAPU{}, fakeInput{}, fakeMapper{}, dma)
	b.Write(0, 0x4014, 0x02)
	if dma.stalled != 513 {
		t.Errorf("stalled = %d, want 513", dma.stalled)
	}
}
