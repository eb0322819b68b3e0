package apu

import "github.com/aldengrove/nesgo/internal/blip"

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 75%
}

// pulseChannel is one of the two square-wave channels ($4000-$4003,
// $4004-$4007). The only asymmetry between them is the sweep unit's
// one's- vs two's-complement negate, threaded through as isPulse2.
type pulseChannel struct {
	dutyCycle uint8
	dutyPos   uint8

	constantVolume bool
	volume         uint8
	lengthHalt     bool // doubles as envelope loop

	envelopeStart   bool
	envelopeDivider uint8
	envelopeDecay   uint8

	timerPeriod    uint16
	timerRemaining int32
	started        bool

	sweepEnable  bool
	sweepPeriod  uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepReload  bool
	sweepDivider uint8

	lengthCounter uint8
	enabled       bool
	lastAmp       int32
}

func (p *pulseChannel) write(reg uint8, data uint8) {
	switch reg {
	case 0:
		p.dutyCycle = (data >> 6) & 0x03
		p.lengthHalt = data&0x20 != 0
		p.constantVolume = data&0x10 != 0
		p.volume = data & 0x0F
	case 1:
		p.sweepEnable = data&0x80 != 0
		p.sweepPeriod = (data >> 4) & 0x07
		p.sweepNegate = data&0x08 != 0
		p.sweepShift = data & 0x07
		p.sweepReload = true
	case 2:
		p.timerPeriod = (p.timerPeriod &^ 0x00FF) | uint16(data)
	case 3:
		p.timerPeriod = (p.timerPeriod &^ 0x0700) | (uint16(data&0x07) << 8)
		p.dutyPos = 0
		p.envelopeStart = true
		if p.enabled {
			p.lengthCounter = lengthTable[(data>>3)&0x1F]
		}
	}
}

func (p *pulseChannel) setEnabled(on bool) {
	p.enabled = on
	if !on {
		p.lengthCounter = 0
	}
}

func (p *pulseChannel) clockEnvelope() {
	if p.envelopeStart {
		p.envelopeDecay = 15
		p.envelopeDivider = p.volume
		p.envelopeStart = false
		return
	}
	if p.envelopeDivider == 0 {
		p.envelopeDivider = p.volume
		if p.envelopeDecay > 0 {
			p.envelopeDecay--
		} else if p.lengthHalt {
			p.envelopeDecay = 15
		}
	} else {
		p.envelopeDivider--
	}
}

func (p *pulseChannel) effectiveVolume() uint8 {
	if p.constantVolume {
		return p.volume
	}
	return p.envelopeDecay
}

func (p *pulseChannel) targetPeriod(isPulse2 bool) uint16 {
	change := int32(p.timerPeriod) >> p.sweepShift
	if p.sweepNegate {
		change = -change
		if !isPulse2 {
			change--
		}
	}
	t := int32(p.timerPeriod) + change
	if t < 0 {
		t = 0
	}
	return uint16(t)
}

func (p *pulseChannel) sweepMuted(isPulse2 bool) bool {
	return p.timerPeriod < 8 || p.targetPeriod(isPulse2) > 0x7FF
}

func (p *pulseChannel) clockLengthAndSweep(isPulse2 bool) {
	if p.lengthCounter > 0 && !p.lengthHalt {
		p.lengthCounter--
	}
	muted := p.sweepMuted(isPulse2)
	if p.sweepDivider == 0 && p.sweepEnable && p.sweepShift > 0 && !muted {
		p.timerPeriod = p.targetPeriod(isPulse2)
	}
	if p.sweepDivider == 0 || p.sweepReload {
		p.sweepDivider = p.sweepPeriod
		p.sweepReload = false
	} else {
		p.sweepDivider--
	}
}

func (p *pulseChannel) amplitude(isPulse2 bool) int32 {
	if !p.enabled || p.lengthCounter == 0 || p.sweepMuted(isPulse2) {
		return 0
	}
	if dutyTable[p.dutyCycle][p.dutyPos] == 0 {
		return 0
	}
	return int32(p.effectiveVolume()) * 600
}

// runTo edge-jumps the timer to every duty-sequencer tick between from
// and target, emitting a blip delta whenever the composed amplitude
// (envelope x duty bit) changes.
func (p *pulseChannel) runTo(target, from int32, buf *blip.Buffer, isPulse2 bool) {
	period := (int32(p.timerPeriod) + 1) * 2
	if period <= 0 {
		return
	}
	if !p.started {
		p.timerRemaining = period
		p.started = true
	}
	t := from
	for t < target {
		if p.timerRemaining <= 0 {
			p.timerRemaining = period
		}
		dt := target - t
		if p.timerRemaining > dt {
			p.timerRemaining -= dt
			return
		}
		t += p.timerRemaining
		p.dutyPos = (p.dutyPos + 1) & 7
		p.timerRemaining = period
		if amp := p.amplitude(isPulse2); amp != p.lastAmp {
			buf.AddDelta(t, amp-p.lastAmp)
			p.lastAmp = amp
		}
	}
}
