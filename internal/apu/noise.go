package apu

import "github.com/aldengrove/nesgo/internal/blip"

var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160,
	202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// noiseChannel is the $400C-$400F pseudo-random channel: a 15-bit LFSR
// clocked at a period selected from noisePeriodTable, gated by the
// same envelope/length-counter machinery as the pulse channels.
type noiseChannel struct {
	constantVolume bool
	volume         uint8
	lengthHalt     bool

	envelopeStart   bool
	envelopeDivider uint8
	envelopeDecay   uint8

	mode           bool
	periodIndex    uint8
	timerRemaining int32
	started        bool

	shiftRegister uint16
	lengthCounter uint8
	enabled       bool
	lastAmp       int32
}

func (n *noiseChannel) write(reg uint8, data uint8) {
	switch reg {
	case 0:
		n.lengthHalt = data&0x20 != 0
		n.constantVolume = data&0x10 != 0
		n.volume = data & 0x0F
	case 2:
		n.mode = data&0x80 != 0
		n.periodIndex = data & 0x0F
	case 3:
		if n.enabled {
			n.lengthCounter = lengthTable[(data>>3)&0x1F]
		}
		n.envelopeStart = true
	}
}

func (n *noiseChannel) setEnabled(on bool) {
	n.enabled = on
	if !on {
		n.lengthCounter = 0
	}
}

func (n *noiseChannel) clockEnvelope() {
	if n.envelopeStart {
		n.envelopeDecay = 15
		n.envelopeDivider = n.volume
		n.envelopeStart = false
		return
	}
	if n.envelopeDivider == 0 {
		n.envelopeDivider = n.volume
		if n.envelopeDecay > 0 {
			n.envelopeDecay--
		} else if n.lengthHalt {
			n.envelopeDecay = 15
		}
	} else {
		n.envelopeDivider--
	}
}

func (n *noiseChannel) clockLength() {
	if n.lengthCounter > 0 && !n.lengthHalt {
		n.lengthCounter--
	}
}

func (n *noiseChannel) effectiveVolume() uint8 {
	if n.constantVolume {
		return n.volume
	}
	return n.envelopeDecay
}

func (n *noiseChannel) amplitude() int32 {
	if !n.enabled || n.lengthCounter == 0 || n.shiftRegister&0x01 != 0 {
		return 0
	}
	return int32(n.effectiveVolume()) * 500
}

func (n *noiseChannel) runTo(target, from int32, buf *blip.Buffer) {
	period := int32(noisePeriodTable[n.periodIndex]) * 2
	if period <= 0 {
		return
	}
	if !n.started {
		n.timerRemaining = period
		n.started = true
	}
	t := from
	for t < target {
		if n.timerRemaining <= 0 {
			n.timerRemaining = period
		}
		dt := target - t
		if n.timerRemaining > dt {
			n.timerRemaining -= dt
			return
		}
		t += n.timerRemaining
		tap := uint16(1)
		if n.mode {
			tap = 6
		}
		feedback := (n.shiftRegister ^ (n.shiftRegister >> tap)) & 0x01
		n.shiftRegister = (n.shiftRegister >> 1) | (feedback << 14)
		n.timerRemaining = period
		if amp := n.amplitude(); amp != n.lastAmp {
			buf.AddDelta(t, amp-n.lastAmp)
			n.lastAmp = amp
		}
	}
}
