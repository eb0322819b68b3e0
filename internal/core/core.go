// Package core implements the scheduler tying the bus, CPU, PPU, APU
// and mapper into one frame-stepped machine: §4.7's emulate_frame loop
// interleaves the four subsystems against a single CPU-relative clock
// that resets to zero at the start of every video frame.
package core

import (
	"github.com/aldengrove/nesgo/internal/apu"
	"github.com/aldengrove/nesgo/internal/bus"
	"github.com/aldengrove/nesgo/internal/cartridge"
	"github.com/aldengrove/nesgo/internal/cpu"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/mapper"
	"github.com/aldengrove/nesgo/internal/ppu"
)

// Core owns every subsystem for one loaded cartridge's lifetime; it is
// not safe for concurrent use, matching §5's single-threaded,
// cooperative scheduling model.
type Core struct {
	cart *cartridge.Cartridge

	bus     *bus.Bus
	cpu     *cpu.CPU
	ppu     *ppu.PPU
	apu     *apu.APU
	mapper  mapper.Mapper
	joypad  *Joypad
	ctx     *machineContext

	timestamp  int32
	pal        bool
	frameCount uint64
	errorCount int
}

// Open builds a Core around a freshly-loaded cartridge: wires the bus,
// PPU, APU and a fresh mapper instance together and performs a full
// power-on reset.
func Open(cart *cartridge.Cartridge) (*Core, error) {
	c := &Core{cart: cart}

	c.ppu = ppu.New()
	c.apu = apu.New()
	c.joypad = &Joypad{}

	c.bus = bus.New(c.ppu, c.apu, c.joypad, pendingMapper{c}, c)
	c.apu.SetMemory(c.bus)
	c.apu.SetDMAStaller(c)

	c.ctx = &machineContext{bus: c.bus, ppu: c.ppu}

	m, err := mapper.Get(cart, c.ctx)
	if err != nil {
		return nil, err
	}
	c.mapper = m
	if am, ok := m.(mapper.AudioMapper); ok {
		c.apu.SetExpansionAudio(am)
	}
	if lm, ok := m.(ppu.LatchMapper); ok {
		c.ppu.SetLatchMapper(lm)
	}
	c.ppu.SetCHRWritable(cart.ChrIsRAM)

	c.cpu = cpu.New(c.bus)
	c.Reset(true)

	return c, nil
}

// pendingMapper lets bus.New be called before the mapper itself
// exists: bus.Bus only needs the mapper reference by the time its
// first Read/Write happens, long after Open has finished assembling
// everything, so this thin forwarder breaks the construction-order
// cycle without the bus depending on *Core.
type pendingMapper struct{ c *Core }

func (p pendingMapper) Read(time int32, addr uint16) (uint8, bool) {
	return p.c.mapper.Read(time, addr)
}
func (p pendingMapper) WriteIntercepted(time int32, addr uint16, data uint8) bool {
	return p.c.mapper.WriteIntercepted(time, addr, data)
}
func (p pendingMapper) A12Clocked(time int32) { p.c.mapper.A12Clocked(time) }

// StallCycles implements apu.DMAStaller/bus.DMAStaller by advancing
// the CPU's own clock, the same mechanism sprite DMA and DMC fetches
// both use to account for their wait states.
func (c *Core) StallCycles(n int32) { c.cpu.Time += n }

// Reset reloads the CPU registers (PC from $FFFC, SP, P) in both
// forms; full additionally zeroes the timestamp, frame count and
// error count. Neither form clears low RAM or SRAM or resets the PPU,
// APU or mapper (a soft reset per scenario 3's contract: PC reloads
// from $FFFC, sram_present is unaffected).
func (c *Core) Reset(full bool) {
	c.cpu.Reset()
	if full {
		c.timestamp = 0
		c.frameCount = 0
		c.errorCount = 0
	}
}

// RunErrors reports the cumulative illegal-opcode halt count since the
// last full reset.
func (c *Core) RunErrors() int { return c.errorCount }

// Accessors the snapshot engine needs to reach each owned subsystem.
func (c *Core) CPU() *cpu.CPU                  { return c.cpu }
func (c *Core) PPU() *ppu.PPU                   { return c.ppu }
func (c *Core) APU() *apu.APU                   { return c.apu }
func (c *Core) Mapper() mapper.Mapper           { return c.mapper }
func (c *Core) Cartridge() *cartridge.Cartridge { return c.cart }
func (c *Core) Bus() *bus.Bus                   { return c.bus }
func (c *Core) Joypad() *Joypad                 { return c.joypad }

func (c *Core) Timestamp() int32     { return c.timestamp }
func (c *Core) SetTimestamp(t int32) { c.timestamp = t }
func (c *Core) Pal() bool            { return c.pal }
func (c *Core) SetPal(p bool)        { c.pal = p }
func (c *Core) FrameCount() uint64   { return c.frameCount }
func (c *Core) SetFrameCount(f uint64) { c.frameCount = f }

// SetInput overrides the current frame's latched joypad state without
// running emulate_frame.
func (c *Core) SetInput(f joyinput.Frame) {
	c.joypad.SetPorts(f.Port1, f.Port2)
}
