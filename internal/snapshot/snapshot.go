// Package snapshot implements the §4.8 save/load-state subsystem: a
// self-delimited stream of 4-byte-tagged, length-prefixed blocks that
// can capture a Core's entire state (full), a caller-selected subset
// of it (lite), or a run-length-compressed diff against a reference
// snapshot of the same cartridge (differential).
//
// The block framing and canonical write order follow quickerNES's
// Nes_Core.h, so a reference implementation's snapshot bytes and this
// package's agree block-for-block; see DESIGN.md.
package snapshot

import (
	"fmt"

	"github.com/aldengrove/nesgo/internal/serial"
)

// Block tags, ASCII, always exactly 4 bytes. writeOrder lists every
// block after NESS and before gend in the fixed order full/lite
// snapshots are written in; a reader must tolerate any order and
// silently keep (but not choke on) tags it doesn't recognize.
const (
	tagStart = "NESS"
	tagEnd   = "gend"
	tagTIME  = "TIME"
	tagCPUR  = "CPUR"
	tagPPUR  = "PPUR"
	tagAPUR  = "APUR"
	tagCTRL  = "CTRL"
	tagMAPR  = "MAPR"
	tagLRAM  = "LRAM"
	tagSPRT  = "SPRT"
	tagNTAB  = "NTAB"
	tagCHRR  = "CHRR"
	tagSRAM  = "SRAM"
)

// startSentinel is the length field written after the NESS tag
// instead of a real length; NESS carries no payload.
const startSentinel = 0xFFFFFFFF

var writeOrder = []string{
	tagTIME, tagCPUR, tagPPUR, tagAPUR, tagCTRL, tagMAPR,
	tagLRAM, tagSPRT, tagNTAB, tagCHRR, tagSRAM,
}

// variableTags are the RAM-like regions the differential compressor
// diffs instead of copying raw; everything else rides along unchanged
// in a differential stream (§4.8).
var variableTags = map[string]bool{
	tagLRAM: true, tagSRAM: true, tagNTAB: true, tagCHRR: true,
}

// block is one parsed tag+payload pair from an input stream.
type block struct {
	tag     string
	payload []byte
}

// parseBlocks walks a complete snapshot stream into its constituent
// blocks, validating the NESS header and gend trailer. Blocks may
// appear in any order on read; unknown tags are kept rather than
// rejected, matching the forward-compatibility policy in §7.
func parseBlocks(data []byte) ([]block, error) {
	r := serial.NewReader(data)

	tag, err := readTag(r)
	if err != nil {
		return nil, err
	}
	if tag != tagStart {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrMalformed, tagStart, tag)
	}
	if r.Remaining() < 4 {
		return nil, ErrTruncated
	}
	if l := r.U32(); l != startSentinel {
		return nil, fmt.Errorf("%w: NESS length field was %#x, want sentinel", ErrMalformed, l)
	}

	var blocks []block
	for {
		tag, err := readTag(r)
		if err != nil {
			return nil, err
		}
		if r.Remaining() < 4 {
			return nil, ErrTruncated
		}
		length := r.U32()
		if tag == tagEnd {
			if length != 0 {
				return nil, fmt.Errorf("%w: gend length was %d, want 0", ErrMalformed, length)
			}
			return blocks, nil
		}
		if r.Remaining() < int(length) {
			return nil, ErrTruncated
		}
		blocks = append(blocks, block{tag: tag, payload: r.Bytes(int(length))})
	}
}

func readTag(r *serial.Reader) (string, error) {
	if r.Remaining() < 4 {
		return "", ErrTruncated
	}
	return string(r.Bytes(4)), nil
}

// find returns the payload of the first block with the given tag, or
// nil and false if no such block is present in the stream.
func find(blocks []block, tag string) ([]byte, bool) {
	for _, b := range blocks {
		if b.tag == tag {
			return b.payload, true
		}
	}
	return nil, false
}

// writeBlock appends one tag+length+payload triple to w.
func writeBlock(w *serial.Writer, tag string, payload []byte) {
	w.Bytes([]byte(tag))
	w.U32(uint32(len(payload)))
	w.Bytes(payload)
}

// writeHeader appends the NESS sentinel block.
func writeHeader(w *serial.Writer) {
	w.Bytes([]byte(tagStart))
	w.U32(startSentinel)
}

// writeTrailer appends the gend terminator.
func writeTrailer(w *serial.Writer) {
	w.Bytes([]byte(tagEnd))
	w.U32(0)
}
