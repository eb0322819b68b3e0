package snapshot

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/serial"
)

// SerializeDifferential emits the fixed header blocks (everything
// except the RAM-like regions) verbatim, then a run-length-compressed
// diff of LRAM/SRAM/NTAB/CHRR against reference, per §4.8. maxDiffs
// bounds the total count of differing bytes the writer is willing to
// produce across all variable blocks; 0 disables the bound. Exceeding
// it returns ErrTooManyChanges — the caller decides whether to fall
// back to a full snapshot, this package never does so silently.
func SerializeDifferential(c *core.Core, reference []byte, maxDiffs int, useZlib bool) ([]byte, error) {
	refBlocks, err := parseBlocks(reference)
	if err != nil {
		return nil, err
	}

	payloads := buildPayloads(c)
	w := serial.NewWriter(4096)
	writeHeader(w)

	totalDiff := 0
	for _, tag := range writeOrder {
		cur, ok := payloads[tag]
		if !ok {
			continue
		}
		if !variableTags[tag] {
			writeBlock(w, tag, cur)
			continue
		}
		ref, _ := find(refBlocks, tag)
		diffPayload, changed := encodeDiff(ref, cur)
		totalDiff += changed
		if maxDiffs > 0 && totalDiff > maxDiffs {
			return nil, ErrTooManyChanges
		}
		writeBlock(w, tag, diffPayload)
	}
	writeTrailer(w)

	if !useZlib {
		return w.Buf, nil
	}
	return zlibCompress(w.Buf)
}

// DeserializeDifferential restores c from a differential stream
// produced by SerializeDifferential against the same reference bytes.
// The reference is read-only throughout: every reconstructed byte is
// computed from (reference, diff) into a fresh buffer before being
// handed to the subsystem's LoadStateBytes, avoiding the
// write-through-the-reference aliasing hazard called out in spec §9.
func DeserializeDifferential(c *core.Core, reference []byte, diffStream []byte, useZlib bool) error {
	if useZlib {
		plain, err := zlibDecompress(diffStream)
		if err != nil {
			return err
		}
		diffStream = plain
	}

	refBlocks, err := parseBlocks(reference)
	if err != nil {
		return err
	}
	diffBlocks, err := parseBlocks(diffStream)
	if err != nil {
		return err
	}

	reconstructed := make([]block, 0, len(diffBlocks))
	for _, db := range diffBlocks {
		if !variableTags[db.tag] {
			reconstructed = append(reconstructed, db)
			continue
		}
		ref, _ := find(refBlocks, db.tag)
		full := decodeDiff(ref, db.payload)
		reconstructed = append(reconstructed, block{tag: db.tag, payload: full})
	}

	return applyBlocks(c, reconstructed)
}

// encodeDiff produces the (unchanged,changed,changed-bytes) run list
// taking cur to its exact bytes when replayed against old, and reports
// the total number of changed bytes emitted.
func encodeDiff(old, cur []byte) ([]byte, int) {
	w := serial.NewWriter(len(cur) / 4)
	pos := 0
	total := 0
	for pos < len(cur) {
		u := 0
		for pos+u < len(cur) && pos+u < len(old) && cur[pos+u] == old[pos+u] {
			u++
		}
		pos += u

		c := 0
		for pos+c < len(cur) && !(pos+c < len(old) && cur[pos+c] == old[pos+c]) {
			c++
		}
		w.U32(uint32(u))
		w.U32(uint32(c))
		w.Bytes(cur[pos : pos+c])
		pos += c
		total += c
	}
	return w.Buf, total
}

// decodeDiff replays an encodeDiff payload against old to reconstruct
// the original cur bytes.
func decodeDiff(old, diff []byte) []byte {
	r := serial.NewReader(diff)
	var out []byte
	for r.Remaining() > 0 {
		u := int(r.U32())
		c := int(r.U32())
		for i := 0; i < u; i++ {
			idx := len(out)
			if idx < len(old) {
				out = append(out, old[idx])
			} else {
				out = append(out, 0)
			}
		}
		if c > 0 {
			out = append(out, r.Bytes(c)...)
		}
	}
	return out
}

func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func zlibDecompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
