// Package serial provides the small little-endian cursor helpers the
// ppu, apu and snapshot packages use to pack
// and unpack their fixed-layout state blocks, so every block's byte
// layout is produced the same way instead of each package hand-rolling
// its own offsets.
package serial

// Writer appends fields to a growing byte buffer in the fixed order
// callers write them, little endian throughout.
type Writer struct {
	Buf []byte
}

// NewWriter preallocates a buffer of the given capacity hint.
func NewWriter(capHint int) *Writer {
	return &Writer{Buf: make([]byte, 0, capHint)}
}

func (w *Writer) U8(v uint8)   { w.Buf = append(w.Buf, v) }
func (w *Writer) U16(v uint16) { w.Buf = append(w.Buf, byte(v), byte(v>>8)) }
func (w *Writer) U32(v uint32) {
	w.Buf = append(w.Buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }
func (w *Writer) Bool(b bool) {
	if b {
		w.U8(1)
	} else {
		w.U8(0)
	}
}
func (w *Writer) Bytes(b []byte) { w.Buf = append(w.Buf, b...) }

// Reader walks a byte slice written by a Writer in the same field
// order, tracking its own cursor.
type Reader struct {
	Buf []byte
	pos int
}

func NewReader(b []byte) *Reader { return &Reader{Buf: b} }

func (r *Reader) U8() uint8 {
	v := r.Buf[r.pos]
	r.pos++
	return v
}
func (r *Reader) U16() uint16 {
	v := uint16(r.Buf[r.pos]) | uint16(r.Buf[r.pos+1])<<8
	r.pos += 2
	return v
}
func (r *Reader) U32() uint32 {
	v := uint32(r.Buf[r.pos]) | uint32(r.Buf[r.pos+1])<<8 | uint32(r.Buf[r.pos+2])<<16 | uint32(r.Buf[r.pos+3])<<24
	r.pos += 4
	return v
}
func (r *Reader) I32() int32  { return int32(r.U32()) }
func (r *Reader) Bool() bool  { return r.U8() != 0 }
func (r *Reader) Bytes(n int) []byte {
	b := r.Buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

// Len reports how many bytes the writer has accumulated so far,
// useful for sizing a fixed-size block once and reusing the constant.
func (w *Writer) Len() int { return len(w.Buf) }

// Pos reports the reader's current cursor offset into Buf.
func (r *Reader) Pos() int { return r.pos }

// Remaining reports how many unread bytes are left in Buf.
func (r *Reader) Remaining() int { return len(r.Buf) - r.pos }
