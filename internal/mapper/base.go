package mapper

import "github.com/aldengrove/nesgo/internal/cartridge"

// Base is embedded by every mapper. It holds the borrowed cartridge
// and scheduling context and implements the bank helpers and default
// reset behavior shared by the whole family, mirroring the
// baseMapper embedding pattern.
type Base struct {
	Cart *cartridge.Cartridge
	Ctx  Context

	prgBankCount8k int
	chrBankCount1k int
}

func (b *Base) init(cart *cartridge.Cartridge, ctx Context) {
	b.Cart = cart
	b.Ctx = ctx
	b.prgBankCount8k = len(cart.PRG) / 0x2000
	if b.prgBankCount8k == 0 {
		b.prgBankCount8k = 1
	}
	b.chrBankCount1k = len(cart.CHR) / 0x400
	if b.chrBankCount1k == 0 {
		b.chrBankCount1k = 1
	}
}

// defaultReset implements the §4.3 shared reset: mirroring from the
// cart, first 8 KiB CHR, first 16 KiB PRG at 0x8000, last 16 KiB PRG
// at 0xC000, and four-screen extra nametables if declared.
func (b *Base) defaultReset() {
	b.Ctx.SetMirroring(b.Cart.Mirroring)
	if b.Cart.FourScreen {
		extra := make([]byte, 0x800)
		b.Ctx.SetExtraNametables(extra[:0x400], extra[0x400:])
	}
	b.SetPRGBank16k(0x8000, 0)
	b.SetPRGBank16k(0xC000, -1)
	for slot := 0; slot < 8; slot++ {
		b.SetCHRBank1k(slot, slot)
	}
	b.Ctx.SetPrgRAMEnabled(b.Cart.HasPrgRAM)
}

// resolveBank normalizes a bank index against count: negative indices
// count back from the last bank, modulo the bank count.
func resolveBank(index, count int) int {
	if count <= 0 {
		return 0
	}
	index %= count
	if index < 0 {
		index += count
	}
	return index
}

// SetPRGBank maps bankIndex, in units of 2^sizeLog2 bytes, at CPU addr
// (which must fall on an 8 KiB boundary: 0x8000, 0xA000, 0xC000 or
// 0xE000). Negative indices count back from the last bank modulo the
// bank count, per the §4.3 bank-helper contract.
func (b *Base) SetPRGBank(addr uint16, sizeLog2 uint, bankIndex int) {
	sizeBytes := 1 << sizeLog2
	banksPerWindow := sizeBytes / 0x2000
	if banksPerWindow < 1 {
		banksPerWindow = 1
	}
	count := len(b.Cart.PRG) / sizeBytes
	bankIndex = resolveBank(bankIndex, count)
	base := bankIndex * sizeBytes
	slot0 := int(addr-0x8000) / 0x2000
	for i := 0; i < sizeBytes/0x2000; i++ {
		off := base + i*0x2000
		if off+0x2000 > len(b.Cart.PRG) {
			b.Ctx.SetPRGPage(slot0+i, nil)
			continue
		}
		b.Ctx.SetPRGPage(slot0+i, b.Cart.PRG[off:off+0x2000])
	}
}

// SetPRGBank16k is the common case: a 16 KiB bank mapped at 0x8000 or
// 0xC000.
func (b *Base) SetPRGBank16k(addr uint16, bankIndex int) {
	b.SetPRGBank(addr, 14, bankIndex)
}

// SetPRGBank8k maps a single 8 KiB window.
func (b *Base) SetPRGBank8k(addr uint16, bankIndex int) {
	b.SetPRGBank(addr, 13, bankIndex)
}

// SetPRGBank32k maps the entire 0x8000-0xFFFF space to one 32 KiB
// bank, used by boards like BNROM/AxROM/Color Dreams/GxROM.
func (b *Base) SetPRGBank32k(bankIndex int) {
	b.SetPRGBank(0x8000, 15, bankIndex)
}

// SetCHRBank1k maps a single 1 KiB CHR window (slot 0-7). Callers that
// change CHR banking in response to a timed CPU write must call
// Ctx.RenderUntil(time) themselves first, per §4.3, so a mid-scanline
// swap is visible only from the next pixel onward; Reset's initial
// mapping has no "current time" yet and skips that call.
func (b *Base) SetCHRBank1k(slot int, bankIndex int) {
	count := len(b.Cart.CHR) / 0x400
	bankIndex = resolveBank(bankIndex, count)
	off := bankIndex * 0x400
	b.Ctx.SetCHRPage(slot, b.Cart.CHR[off:off+0x400])
}

// SetCHRBank maps bankIndex, in units of 2^sizeLog2 bytes, starting at
// the 1 KiB slot implied by addr (a PPU pattern-table address, always
// below 0x2000). See SetCHRBank1k for the render-before-retune
// contract.
func (b *Base) SetCHRBank(addr uint16, sizeLog2 uint, bankIndex int) {
	sizeBytes := 1 << sizeLog2
	count := (len(b.Cart.CHR)) / sizeBytes
	bankIndex = resolveBank(bankIndex, count)
	base := bankIndex * sizeBytes
	slot0 := int(addr) / 0x400
	for i := 0; i < sizeBytes/0x400; i++ {
		off := base + i*0x400
		b.Ctx.SetCHRPage(slot0+i, b.Cart.CHR[off:off+0x400])
	}
}

// MirrorHorizontal, MirrorVertical, MirrorSingleScreenLo and
// MirrorSingleScreenHi are the four two-bank mirroring arrangements a
// mapper can select without four-screen RAM.
func (b *Base) MirrorHorizontal()    { b.Ctx.SetMirroring(cartridge.MirrorHorizontal) }
func (b *Base) MirrorVertical()      { b.Ctx.SetMirroring(cartridge.MirrorVertical) }
func (b *Base) MirrorSingleScreen(hi bool) {
	if hi {
		b.Ctx.SetMirroring(cartridge.MirrorSingleScreenHi)
	} else {
		b.Ctx.SetMirroring(cartridge.MirrorSingleScreenLo)
	}
}

func (b *Base) Read(time int32, addr uint16) (uint8, bool)             { return 0, false }
func (b *Base) WriteIntercepted(time int32, addr uint16, data uint8) bool { return false }
func (b *Base) NextIRQ(now int32) int32                                 { return NoIRQ }
func (b *Base) RunUntil(time int32)                                     {}
func (b *Base) EndFrame(length int32)                                   {}
func (b *Base) A12Clocked(time int32)                                   {}
