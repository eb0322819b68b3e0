package cpu

import "testing"

// mem is a flat 64 KiB byte array satisfying the Memory interface,
// grounded on the teacher's mos6502 test fake.
type mem struct {
	data [0x10000]uint8
}

func (m *mem) Read(time int32, addr uint16) uint8        { return m.data[addr] }
func (m *mem) Write(time int32, addr uint16, data uint8) { m.data[addr] = data }
func (m *mem) GetCodePtr(addr uint16) []uint8            { return nil }
func (m *mem) PushByte(sp uint8, data uint8)             { m.data[0x0100+uint16(sp)] = data }

func newTestCPU() (*CPU, *mem) {
	m := &mem{}
	c := New(m)
	c.Reset()
	return c, m
}

func TestADCImmediateCyclesAndFlags(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x0200
	m.data[0x0200] = 0x69 // ADC #imm
	m.data[0x0201] = 0x02
	c.A = 0x01
	c.Run(c.Time + 2)
	if c.A != 0x03 {
		t.Errorf("A = %#02x, want 0x03", c.A)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC = %#04x, want 0x0202", c.PC)
	}
	if c.Time != 2 {
		t.Errorf("Time = %d, want 2", c.Time)
	}
}

func TestADCAbsoluteXPageCrossPenalty(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x0300
	m.data[0x0300] = 0x7D // ADC abs,X
	m.data[0x0301] = 0xFF
	m.data[0x0302] = 0x01
	c.X = 1 // 0x01FF + 1 -> crosses into 0x0200
	c.Run(c.Time + 5)
	if c.Time != 5 {
		t.Errorf("Time = %d, want 5 (4 base + 1 page-cross)", c.Time)
	}
}

func TestBCCTakenCrossesPage(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x02F0
	m.data[0x02F0] = 0x90 // BCC rel
	m.data[0x02F1] = 0x20 // target 0x0312, crosses page from 0x02F2
	c.P &^= flagC
	c.Run(c.Time + 4)
	if c.PC != 0x0312 {
		t.Errorf("PC = %#04x, want 0x0312", c.PC)
	}
	if c.Time != 4 {
		t.Errorf("Time = %d, want 4 (2 base + taken + page-cross)", c.Time)
	}
}

// The designated stop opcode (0xD2) must halt the interpreter and
// increment the error counter exactly once, per the §8 scenario 6
// illegal-opcode-halt property.
func TestBadOpcodeHalts(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x8000
	for i := 0x8000; i <= 0x8FFF; i++ {
		m.data[i] = 0xD2
	}
	reason := c.Run(c.Time + 1000)
	if reason != StopBadOp {
		t.Fatalf("Run() = %v, want StopBadOp", reason)
	}
	if got := c.RunErrors(); got != 1 {
		t.Errorf("RunErrors() = %d, want 1", got)
	}
	// A second Run call must not increment the counter again; the CPU
	// stays halted until an external Reset.
	c.Run(c.Time + 1000)
	if got := c.RunErrors(); got != 1 {
		t.Errorf("RunErrors() after second Run = %d, want still 1", got)
	}
}

// 0xF2, the PC-wrap sentinel, halts identically to the designated stop
// opcode per spec §4.4.
func TestPageWrapSentinelHalts(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x9000
	m.data[0x9000] = 0xF2
	if reason := c.Run(c.Time + 10); reason != StopBadOp {
		t.Fatalf("Run() = %v, want StopBadOp", reason)
	}
}

func TestNMIPushesPCAndClearsB(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x1234
	c.P = flagU
	m.data[0xFFFA] = 0x00
	m.data[0xFFFB] = 0x80
	sp := c.SP
	c.NMI()
	if c.PC != 0x8000 {
		t.Errorf("PC = %#04x, want 0x8000", c.PC)
	}
	if c.SP != sp-3 {
		t.Errorf("SP = %#02x, want %#02x (3 bytes pushed)", c.SP, sp-3)
	}
	pushedP := m.data[0x0100+uint16(sp-2)]
	if pushedP&flagB != 0 {
		t.Errorf("pushed P has B set, want clear")
	}
	if c.P&flagI == 0 {
		t.Errorf("I flag not set after NMI")
	}
}

func TestStackPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.push(0xAB)
	c.push(0xCD)
	if got := c.pop(); got != 0xCD {
		t.Errorf("pop() = %#02x, want 0xCD", got)
	}
	if got := c.pop(); got != 0xAB {
		t.Errorf("pop() = %#02x, want 0xAB", got)
	}
}
