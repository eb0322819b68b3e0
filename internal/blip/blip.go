// Package blip implements a simplified band-limited synthesis buffer,
// the same role the "Blip_Buffer" plays in the original quickerNES
// core: channels emit amplitude deltas at exact CPU-clock timestamps,
// and the buffer resolves those deltas into a PCM sample stream at the
// output sample rate.
//
// This is a simplified, non-sinc-interpolated implementation (a
// straight clock-domain-converted running sum rather than a true
// windowed-sinc band-limited synthesizer), a deliberate simplification
// consistent with the engine's non-goal of audio resampling policy — a
// correct-enough stub output sink is sufficient here.
package blip

// Buffer accumulates signed amplitude deltas at CPU-clock timestamps
// and resolves them into 16-bit PCM samples at a fixed output rate.
type Buffer struct {
	clockRate  float64
	sampleRate float64
	factor     float64

	deltas []int32 // indexed by output sample offset within the current frame
	accum  int32
}

// New creates a buffer sized to hold at least one video frame's worth
// of samples at sampleRate.
func New(clockRate, sampleRate float64, maxSamplesPerFrame int) *Buffer {
	return &Buffer{
		clockRate:  clockRate,
		sampleRate: sampleRate,
		factor:     sampleRate / clockRate,
		deltas:     make([]int32, maxSamplesPerFrame+16),
	}
}

// AddDelta records an amplitude step of `delta` occurring at CPU time
// `time` (relative to the start of the current frame).
func (b *Buffer) AddDelta(time int32, delta int32) {
	if delta == 0 {
		return
	}
	idx := int(float64(time) * b.factor)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(b.deltas) {
		idx = len(b.deltas) - 1
	}
	b.deltas[idx] += delta
}

// EndFrame resolves the accumulated deltas for a frame of `length` CPU
// cycles into PCM samples, appended to out, and resets for the next
// frame. The running accumulator carries the final amplitude forward
// so channel DC offsets don't reset every frame.
func (b *Buffer) EndFrame(length int32, out []int16) []int16 {
	n := int(float64(length) * b.factor)
	if n > len(b.deltas) {
		n = len(b.deltas)
	}
	for i := 0; i < n; i++ {
		b.accum += b.deltas[i]
		s := b.accum
		if s > 32767 {
			s = 32767
		}
		if s < -32768 {
			s = -32768
		}
		out = append(out, int16(s))
		b.deltas[i] = 0
	}
	for i := n; i < len(b.deltas); i++ {
		b.deltas[i] = 0
	}
	return out
}

// Clear resets accumulated state, used on a hard reset.
func (b *Buffer) Clear() {
	b.accum = 0
	for i := range b.deltas {
		b.deltas[i] = 0
	}
}
