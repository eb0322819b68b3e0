package apu

import "github.com/aldengrove/nesgo/internal/blip"

var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

// dmcChannel is the $4010-$4013 delta-modulation channel: it streams
// 1-bit deltas from CPU memory into a 7-bit output DAC, stalling the
// CPU 4 cycles per fetch and optionally raising an IRQ when the
// sample ends.
type dmcChannel struct {
	irqEnable bool
	loop      bool
	rateIndex uint8

	timerPeriod    int32
	timerRemaining int32
	started        bool
	nextTickAbs    int32

	outputLevel uint8

	sampleAddrReg   uint16
	sampleLengthReg uint16
	currentAddr     uint16
	bytesRemaining  uint16

	shiftRegister    uint8
	bitsRemaining    uint8
	sampleBuffer     uint8
	sampleBufferFull bool
	silence          bool

	irqFlag bool
	lastAmp int32
}

func (d *dmcChannel) write(reg uint8, data uint8) {
	switch reg {
	case 0:
		d.irqEnable = data&0x80 != 0
		d.loop = data&0x40 != 0
		d.rateIndex = data & 0x0F
		d.timerPeriod = int32(dmcRateTable[d.rateIndex])
		if !d.irqEnable {
			d.irqFlag = false
		}
	case 1:
		d.outputLevel = data & 0x7F
	case 2:
		d.sampleAddrReg = 0xC000 + uint16(data)*64
	case 3:
		d.sampleLengthReg = uint16(data)*16 + 1
	}
}

// setEnabled mirrors $4015's DMC-enable bit. Re-enabling an idle
// channel restarts the sample immediately, matching hardware.
func (d *dmcChannel) setEnabled(on bool, mem Memory) {
	if !on {
		d.bytesRemaining = 0
		return
	}
	if d.bytesRemaining == 0 {
		d.currentAddr = d.sampleAddrReg
		d.bytesRemaining = d.sampleLengthReg
	}
}

// nextFetchTime reports when the output timer will next tick, the
// scheduler's signal for when the CPU would see the fetch's wait
// state.
func (d *dmcChannel) nextFetchTime() int32 {
	if !d.started {
		return d.timerPeriod
	}
	return d.nextTickAbs
}

// fetch refills the sample buffer from CPU memory and stalls the CPU
// the documented 4 cycles, advancing the loop/IRQ bookkeeping once the
// sample runs out. Called by APU.RunUntil once a.now reaches
// nextFetchTime, not by runTo itself.
func (d *dmcChannel) fetch(time int32, mem Memory, dma DMAStaller) {
	if d.sampleBufferFull || d.bytesRemaining == 0 {
		return
	}
	if mem != nil {
		d.sampleBuffer = mem.Read(time, d.currentAddr)
	}
	d.sampleBufferFull = true
	if d.currentAddr == 0xFFFF {
		d.currentAddr = 0x8000
	} else {
		d.currentAddr++
	}
	d.bytesRemaining--
	if dma != nil {
		dma.StallCycles(4)
	}
	if d.bytesRemaining == 0 {
		if d.loop {
			d.currentAddr = d.sampleAddrReg
			d.bytesRemaining = d.sampleLengthReg
		} else if d.irqEnable {
			d.irqFlag = true
		}
	}
}

// tickOutput clocks the output unit once: refilling the 8-bit shift
// register from the sample buffer every 8 ticks and adjusting the
// 7-bit DAC level by +-2.
func (d *dmcChannel) tickOutput() {
	if d.bitsRemaining == 0 {
		d.bitsRemaining = 8
		if d.sampleBufferFull {
			d.shiftRegister = d.sampleBuffer
			d.silence = false
			d.sampleBufferFull = false
		} else {
			d.silence = true
		}
	}
	if !d.silence {
		if d.shiftRegister&0x01 != 0 {
			if d.outputLevel <= 125 {
				d.outputLevel += 2
			}
		} else if d.outputLevel >= 2 {
			d.outputLevel -= 2
		}
	}
	d.shiftRegister >>= 1
	d.bitsRemaining--
}

// runTo edge-jumps the output timer, ticking the DAC at each period
// boundary and emitting a blip delta whenever its level changes. The
// sample-buffer refill itself happens out of band, via fetch, called
// by APU.RunUntil at nextFetchTime.
func (d *dmcChannel) runTo(target, from int32, buf *blip.Buffer) {
	if d.timerPeriod <= 0 {
		return
	}
	if !d.started {
		d.timerRemaining = d.timerPeriod
		d.started = true
	}
	t := from
	for t < target {
		if d.timerRemaining <= 0 {
			d.timerRemaining = d.timerPeriod
		}
		dt := target - t
		if d.timerRemaining > dt {
			d.timerRemaining -= dt
			d.nextTickAbs = target + d.timerRemaining
			return
		}
		t += d.timerRemaining
		d.timerRemaining = d.timerPeriod
		d.nextTickAbs = t + d.timerPeriod

		d.tickOutput()
		if amp := int32(d.outputLevel) * 100; amp != d.lastAmp {
			buf.AddDelta(t, amp-d.lastAmp)
			d.lastAmp = amp
		}
	}
}
