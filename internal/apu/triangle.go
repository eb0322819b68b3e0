package apu

import "github.com/aldengrove/nesgo/internal/blip"

var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// triangleChannel is the $4008-$400B linear-sequenced triangle wave.
// Unlike the pulse/noise channels it ticks once per CPU cycle, not
// once per two, and freezes its sequencer position rather than going
// silent when muted (the well-known "ultrasonic" quirk real hardware
// exhibits at very low timer periods is not reproduced).
type triangleChannel struct {
	lengthHalt        bool // the "control flag", doubles as length-counter halt
	linearCounterLoad uint8
	linearCounter     uint8
	linearReload      bool

	timerPeriod    uint16
	timerRemaining int32
	started        bool

	sequencerPos  uint8
	lengthCounter uint8
	enabled       bool
	lastAmp       int32
}

func (tc *triangleChannel) write(reg uint8, data uint8) {
	switch reg {
	case 0:
		tc.lengthHalt = data&0x80 != 0
		tc.linearCounterLoad = data & 0x7F
	case 2:
		tc.timerPeriod = (tc.timerPeriod &^ 0x00FF) | uint16(data)
	case 3:
		tc.timerPeriod = (tc.timerPeriod &^ 0x0700) | (uint16(data&0x07) << 8)
		if tc.enabled {
			tc.lengthCounter = lengthTable[(data>>3)&0x1F]
		}
		tc.linearReload = true
	}
}

func (tc *triangleChannel) setEnabled(on bool) {
	tc.enabled = on
	if !on {
		tc.lengthCounter = 0
	}
}

func (tc *triangleChannel) clockLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterLoad
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}
	if !tc.lengthHalt {
		tc.linearReload = false
	}
}

func (tc *triangleChannel) clockLength() {
	if tc.lengthCounter > 0 && !tc.lengthHalt {
		tc.lengthCounter--
	}
}

// runTo advances the 32-step sequencer only while both the length and
// linear counters are running; otherwise the last composed output is
// held and no new delta is emitted.
func (tc *triangleChannel) runTo(target, from int32, buf *blip.Buffer) {
	period := int32(tc.timerPeriod) + 1
	if period <= 0 {
		return
	}
	muted := !tc.enabled || tc.lengthCounter == 0 || tc.linearCounter == 0 || tc.timerPeriod < 2
	if muted {
		return
	}
	if !tc.started {
		tc.timerRemaining = period
		tc.started = true
	}
	t := from
	for t < target {
		if tc.timerRemaining <= 0 {
			tc.timerRemaining = period
		}
		dt := target - t
		if tc.timerRemaining > dt {
			tc.timerRemaining -= dt
			return
		}
		t += tc.timerRemaining
		tc.sequencerPos = (tc.sequencerPos + 1) & 0x1F
		tc.timerRemaining = period
		if amp := int32(triangleTable[tc.sequencerPos]) * 400; amp != tc.lastAmp {
			buf.AddDelta(t, amp-tc.lastAmp)
			tc.lastAmp = amp
		}
	}
}
