package core

import (
	"github.com/aldengrove/nesgo/internal/cpu"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/ppu"
)

// EmulateFrame drives exactly one video frame per §4.7: latch the
// joypad ports, let the PPU/CPU/APU/mapper run in lock-step against
// one CPU-relative clock, and flush every subsystem's frame-end
// bookkeeping before returning.
func (c *Core) EmulateFrame(in joyinput.Frame) {
	if in.Power {
		c.Reset(true)
	}
	if in.Reset {
		c.Reset(false)
	}
	c.joypad.SetPorts(in.Port1, in.Port2)

	c.cpu.Time = c.ppu.BeginFrame(c.timestamp)
	frameLen := c.ppu.FrameLength()

	// deferIRQOneStep models the one-instruction CLI delay: an IRQ
	// whose time has already arrived must not be recognized until
	// the instruction after the one that cleared the I flag has
	// also retired.
	deferIRQOneStep := false
	// ignoreIFlagOnce models the SEI exception: an IRQ already
	// pending at the moment I was set is still delivered once.
	ignoreIFlagOnce := false

	for {
		c.apu.RunUntil(c.cpu.Time)

		if c.cpu.Time >= frameLen {
			if t := c.ppu.NMITime(); t != ppu.NoEvent && t <= c.cpu.Time {
				c.ppu.AcknowledgeNMI()
				c.cpu.NMI()
				continue
			}
			break
		}

		if t := c.ppu.NMITime(); t != ppu.NoEvent && c.cpu.Time >= t {
			c.ppu.AcknowledgeNMI()
			c.cpu.NMI()
			deferIRQOneStep, ignoreIFlagOnce = false, false
			continue
		}

		irqTime := c.earliestIRQ(c.cpu.Time)
		canIRQ := irqTime <= c.cpu.Time && !deferIRQOneStep
		if canIRQ && (!c.cpu.IFlagSet() || ignoreIFlagOnce) {
			c.mapper.RunUntil(c.cpu.Time)
			c.cpu.IRQ()
			deferIRQOneStep, ignoreIFlagOnce = false, false
			continue
		}

		if deferIRQOneStep {
			// Run exactly one more instruction before IRQ
			// recognition resumes.
			c.cpu.Run(c.cpu.Time + 1)
			deferIRQOneStep = false
			continue
		}

		limit := c.earliestEventTime(frameLen)
		switch c.cpu.Run(limit) {
		case cpu.StopBadOp:
			c.errorCount++
			goto frameDone
		case cpu.StopSEI:
			ignoreIFlagOnce = true
		case cpu.StopCLI:
			deferIRQOneStep = true
		}
	}

frameDone:
	c.apu.EndFrame(c.cpu.Time)
	c.timestamp = c.ppu.EndFrame(c.cpu.Time)
	c.mapper.EndFrame(c.cpu.Time)
	c.frameCount++
}

// earliestIRQ is the minimum of the APU's (frame counter + DMC) and
// the mapper's next IRQ deadlines.
func (c *Core) earliestIRQ(now int32) int32 {
	t := c.apu.EarliestIRQ(now)
	if m := c.mapper.NextIRQ(now); m < t {
		t = m
	}
	return t
}

// earliestEventTime bounds how far the CPU may run before the
// scheduler must re-evaluate: the frame's soft deadline, the DMC
// channel's next sample fetch, and the PPU's pending NMI, per §4.7
// step 3's final bullet. The mapper's own IRQ deadline is deliberately
// excluded here — it only gates the IRQ-vectoring branch above.
func (c *Core) earliestEventTime(frameLen int32) int32 {
	limit := frameLen
	if d := c.apu.NextDMCReadTime(); d < limit {
		limit = d
	}
	if t := c.ppu.NMITime(); t != ppu.NoEvent && t < limit {
		limit = t
	}
	return limit
}
