package core

import (
	"github.com/aldengrove/nesgo/internal/bus"
	"github.com/aldengrove/nesgo/internal/ppu"
)

// machineContext implements mapper.Context by fanning its calls out
// across the bus (PRG mapping, PRG-RAM enable) and the PPU (CHR
// mapping, mirroring, forced rendering), sidestepping the cyclic
// mapper<->core ownership §9 calls out by having the core hand the
// mapper a narrow view of itself instead of a literal back-pointer.
type machineContext struct {
	bus      *bus.Bus
	ppu      *ppu.PPU
	irqDirty bool
}

func (c *machineContext) SetPRGPage(slot int, data []byte)    { c.bus.SetPRGPage(slot, data) }
func (c *machineContext) SetCHRPage(slot int, data []byte)    { c.ppu.SetCHRPage(slot, data) }
func (c *machineContext) SetMirroring(mode uint8)             { c.ppu.SetMirroring(mode) }
func (c *machineContext) SetExtraNametables(a, b []byte)      { c.ppu.SetExtraNametables(a, b) }
func (c *machineContext) SetPrgRAMEnabled(enabled bool)       { c.bus.SetSRAMEnabled(enabled) }
func (c *machineContext) RenderBGUntil(time int32)            { c.ppu.RenderBGUntil(time) }
func (c *machineContext) RenderUntil(time int32)              { c.ppu.RenderUntil(time) }

// IRQChanged just flags that the scheduler should recompute its
// deadline on the very next loop iteration; since EmulateFrame
// recomputes earliestIRQ fresh every iteration regardless, this is a
// bookkeeping hook rather than something read back.
func (c *machineContext) IRQChanged() { c.irqDirty = true }

// InterceptRange forwards a mapper's sub-$8000 register range to the
// bus's generic page-intercept bitmap, the same mechanism used for the
// universal $8000-$FFFF window.
func (c *machineContext) InterceptRange(lo, hi uint16) { c.bus.InterceptRange(lo, hi, true, true) }
