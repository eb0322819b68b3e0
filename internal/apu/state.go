package apu

import "github.com/aldengrove/nesgo/internal/serial"

// StateBytes packs the APUR snapshot block: every channel's register
// and internal-counter fields, plus the frame sequencer. The blip
// synthesis buffer and the mem/dma/expansion references are not
// serialized - they are wired back up by the owning core on load.
func (a *APU) StateBytes() []byte {
	w := serial.NewWriter(96)

	w.Bool(a.frameMode)
	w.Bool(a.frameIRQEnable)
	w.Bool(a.frameIRQFlag)
	w.U8(uint8(a.frameStep))
	w.I32(a.frameNext)
	w.I32(a.now)

	writePulse(w, &a.pulse1)
	writePulse(w, &a.pulse2)

	w.Bool(a.triangle.lengthHalt)
	w.U8(a.triangle.linearCounterLoad)
	w.U8(a.triangle.linearCounter)
	w.Bool(a.triangle.linearReload)
	w.U16(a.triangle.timerPeriod)
	w.I32(a.triangle.timerRemaining)
	w.Bool(a.triangle.started)
	w.U8(a.triangle.sequencerPos)
	w.U8(a.triangle.lengthCounter)
	w.Bool(a.triangle.enabled)
	w.I32(a.triangle.lastAmp)

	w.Bool(a.noise.constantVolume)
	w.U8(a.noise.volume)
	w.Bool(a.noise.lengthHalt)
	w.Bool(a.noise.envelopeStart)
	w.U8(a.noise.envelopeDivider)
	w.U8(a.noise.envelopeDecay)
	w.Bool(a.noise.mode)
	w.U8(a.noise.periodIndex)
	w.I32(a.noise.timerRemaining)
	w.Bool(a.noise.started)
	w.U16(a.noise.shiftRegister)
	w.U8(a.noise.lengthCounter)
	w.Bool(a.noise.enabled)
	w.I32(a.noise.lastAmp)

	w.Bool(a.dmc.irqEnable)
	w.Bool(a.dmc.loop)
	w.U8(a.dmc.rateIndex)
	w.I32(a.dmc.timerPeriod)
	w.I32(a.dmc.timerRemaining)
	w.Bool(a.dmc.started)
	w.I32(a.dmc.nextTickAbs)
	w.U8(a.dmc.outputLevel)
	w.U16(a.dmc.sampleAddrReg)
	w.U16(a.dmc.sampleLengthReg)
	w.U16(a.dmc.currentAddr)
	w.U16(a.dmc.bytesRemaining)
	w.U8(a.dmc.shiftRegister)
	w.U8(a.dmc.bitsRemaining)
	w.U8(a.dmc.sampleBuffer)
	w.Bool(a.dmc.sampleBufferFull)
	w.Bool(a.dmc.silence)
	w.Bool(a.dmc.irqFlag)
	w.I32(a.dmc.lastAmp)

	return w.Buf
}

func writePulse(w *serial.Writer, p *pulseChannel) {
	w.U8(p.dutyCycle)
	w.U8(p.dutyPos)
	w.Bool(p.constantVolume)
	w.U8(p.volume)
	w.Bool(p.lengthHalt)
	w.Bool(p.envelopeStart)
	w.U8(p.envelopeDivider)
	w.U8(p.envelopeDecay)
	w.U16(p.timerPeriod)
	w.I32(p.timerRemaining)
	w.Bool(p.started)
	w.Bool(p.sweepEnable)
	w.U8(p.sweepPeriod)
	w.Bool(p.sweepNegate)
	w.U8(p.sweepShift)
	w.Bool(p.sweepReload)
	w.U8(p.sweepDivider)
	w.U8(p.lengthCounter)
	w.Bool(p.enabled)
	w.I32(p.lastAmp)
}

func readPulse(r *serial.Reader, p *pulseChannel) {
	p.dutyCycle = r.U8()
	p.dutyPos = r.U8()
	p.constantVolume = r.Bool()
	p.volume = r.U8()
	p.lengthHalt = r.Bool()
	p.envelopeStart = r.Bool()
	p.envelopeDivider = r.U8()
	p.envelopeDecay = r.U8()
	p.timerPeriod = r.U16()
	p.timerRemaining = r.I32()
	p.started = r.Bool()
	p.sweepEnable = r.Bool()
	p.sweepPeriod = r.U8()
	p.sweepNegate = r.Bool()
	p.sweepShift = r.U8()
	p.sweepReload = r.Bool()
	p.sweepDivider = r.U8()
	p.lengthCounter = r.U8()
	p.enabled = r.Bool()
	p.lastAmp = r.I32()
}

// LoadStateBytes restores the APUR block. The caller is expected to
// have already re-wired SetMemory/SetDMAStaller/SetExpansionAudio; the
// blip buffer is left untouched since it holds no cross-frame state.
func (a *APU) LoadStateBytes(data []byte) {
	r := serial.NewReader(data)

	a.frameMode = r.Bool()
	a.frameIRQEnable = r.Bool()
	a.frameIRQFlag = r.Bool()
	a.frameStep = int(r.U8())
	a.frameNext = r.I32()
	a.now = r.I32()

	readPulse(r, &a.pulse1)
	readPulse(r, &a.pulse2)

	a.triangle.lengthHalt = r.Bool()
	a.triangle.linearCounterLoad = r.U8()
	a.triangle.linearCounter = r.U8()
	a.triangle.linearReload = r.Bool()
	a.triangle.timerPeriod = r.U16()
	a.triangle.timerRemaining = r.I32()
	a.triangle.started = r.Bool()
	a.triangle.sequencerPos = r.U8()
	a.triangle.lengthCounter = r.U8()
	a.triangle.enabled = r.Bool()
	a.triangle.lastAmp = r.I32()

	a.noise.constantVolume = r.Bool()
	a.noise.volume = r.U8()
	a.noise.lengthHalt = r.Bool()
	a.noise.envelopeStart = r.Bool()
	a.noise.envelopeDivider = r.U8()
	a.noise.envelopeDecay = r.U8()
	a.noise.mode = r.Bool()
	a.noise.periodIndex = r.U8()
	a.noise.timerRemaining = r.I32()
	a.noise.started = r.Bool()
	a.noise.shiftRegister = r.U16()
	a.noise.lengthCounter = r.U8()
	a.noise.enabled = r.Bool()
	a.noise.lastAmp = r.I32()

	a.dmc.irqEnable = r.Bool()
	a.dmc.loop = r.Bool()
	a.dmc.rateIndex = r.U8()
	a.dmc.timerPeriod = r.I32()
	a.dmc.timerRemaining = r.I32()
	a.dmc.started = r.Bool()
	a.dmc.nextTickAbs = r.I32()
	a.dmc.outputLevel = r.U8()
	a.dmc.sampleAddrReg = r.U16()
	a.dmc.sampleLengthReg = r.U16()
	a.dmc.currentAddr = r.U16()
	a.dmc.bytesRemaining = r.U16()
	a.dmc.shiftRegister = r.U8()
	a.dmc.bitsRemaining = r.U8()
	a.dmc.sampleBuffer = r.U8()
	a.dmc.sampleBufferFull = r.Bool()
	a.dmc.silence = r.Bool()
	a.dmc.irqFlag = r.Bool()
	a.dmc.lastAmp = r.I32()
}
