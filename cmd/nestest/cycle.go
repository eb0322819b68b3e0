package main

import (
	"fmt"

	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/snapshot"
)

// cycleType selects one of the three replay-loop shapes a harness may
// exercise per §6: Simple just advances, Rerecord round-trips a
// snapshot every frame, Full additionally proves the round trip is
// lossless mid-sequence by deserializing before the final advance.
type cycleType int

const (
	cycleSimple cycleType = iota
	cycleRerecord
	cycleFull
)

func parseCycleType(s string) (cycleType, error) {
	switch s {
	case "", "Simple":
		return cycleSimple, nil
	case "Rerecord":
		return cycleRerecord, nil
	case "Full":
		return cycleFull, nil
	default:
		return 0, fmt.Errorf("unknown cycle type %q (want Simple, Rerecord or Full)", s)
	}
}

// runner drives nes through one input sequence under the selected
// cycle type, optionally using differential snapshots (per the
// script's Differential Compression config) for the reference carried
// from one frame to the next.
type runner struct {
	nes     *core.Core
	exclude map[string]bool
	diff    diffConfig

	// ref is the most recent full reference snapshot. A differential
	// snapshot is always taken against ref and ref is always replaced
	// with a fresh full snapshot afterward, so ref never itself holds
	// diff-encoded bytes.
	ref []byte
}

func newRunner(nes *core.Core, excludeTags []string, diff diffConfig) *runner {
	return &runner{nes: nes, exclude: snapshot.ExcludeSet(excludeTags), diff: diff}
}

// nextSnapshot produces the bytes to carry forward to the next frame:
// a differential against ref when compression is enabled and a
// reference exists, otherwise a full snapshot. ref is always updated
// to the fresh full snapshot taken this call.
func (rn *runner) nextSnapshot() ([]byte, error) {
	full := snapshot.Serialize(rn.nes, rn.exclude)
	if !rn.diff.Enabled || rn.ref == nil {
		rn.ref = full
		return full, nil
	}
	d, err := snapshot.SerializeDifferential(rn.nes, rn.ref, rn.diff.MaxDifferences, rn.diff.UseZlib)
	rn.ref = full
	if err != nil {
		// Reference too stale: fall back to the full snapshot,
		// per §4.8's "caller's policy" note.
		return full, nil
	}
	return d, nil
}

// RunFrame advances exactly one frame per the selected cycle type.
func (rn *runner) RunFrame(cy cycleType, in joyinput.Frame) error {
	switch cy {
	case cycleSimple:
		rn.nes.EmulateFrame(in)
		return nil

	case cycleRerecord:
		if rn.ref != nil {
			if err := snapshot.Deserialize(rn.nes, rn.ref); err != nil {
				return err
			}
		}
		rn.nes.EmulateFrame(in)
		_, err := rn.nextSnapshot()
		return err

	case cycleFull:
		rn.nes.EmulateFrame(in)
		mid := snapshot.Serialize(rn.nes, rn.exclude)
		if err := snapshot.Deserialize(rn.nes, mid); err != nil {
			return err
		}
		rn.nes.EmulateFrame(in)
		_, err := rn.nextSnapshot()
		return err

	default:
		return fmt.Errorf("unhandled cycle type %d", cy)
	}
}
