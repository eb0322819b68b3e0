// Package mapper implements the cartridge bank-switching and IRQ
// hardware family. Mappers are registered by numeric id at init time
// and selected at cartridge-open time by the loader's mapper id.
package mapper

import (
	"fmt"

	"github.com/aldengrove/nesgo/internal/cartridge"
)

// Context is the surface a mapper uses to reach back into the machine
// it's plugged into: the PPU's CHR/nametable bank tables, the forced
// render calls that must run before a bank swap takes visible effect,
// and the scheduler's recompute-the-deadline hook. The core implements
// this by handing each mapper a reference to itself plus the PPU,
// rather than the mapper holding a literal back-pointer to the core.
type Context interface {
	// SetPRGPage maps an 8 KiB PRG window. slot is 0-3 for
	// 0x8000,0xA000,0xC000,0xE000. data must be exactly 8 KiB, or
	// nil to back the window with the stop-opcode filler.
	SetPRGPage(slot int, data []byte)

	// SetCHRPage maps a 1 KiB CHR window. slot is 0-7.
	SetCHRPage(slot int, data []byte)

	// SetMirroring selects one of the cartridge.Mirror* constants.
	SetMirroring(mode uint8)

	// SetExtraNametables supplies the two additional 1 KiB
	// nametable banks a four-screen board needs; nil otherwise.
	SetExtraNametables(a, b []byte)

	SetPrgRAMEnabled(enabled bool)

	// RenderBGUntil and RenderUntil force the PPU to rasterize up
	// to the given CPU time before a bank table mutation takes
	// effect, so the pixel already on screen used the old mapping.
	RenderBGUntil(time int32)
	RenderUntil(time int32)

	// IRQChanged tells the scheduler to recompute clock_limit
	// because NextIRQ's value may have moved earlier.
	IRQChanged()

	// InterceptRange marks [lo, hi] as serviced by this mapper's
	// Read/WriteIntercepted before the bus falls through to its
	// default handler for that region (APU in the $4020-$5FFF I/O
	// window, SRAM in $6000-$7FFF), for boards with registers outside
	// the universal $8000-$FFFF window: MMC5's $5000-$5206, Namco
	// 163's $4800 data port, Feng Shen Bang's $6000-$6007.
	InterceptRange(lo, hi uint16)
}

// Mapper is the polymorphic interface every supported board
// implements. The family is large (50+ ids) and is best expressed as
// one small type per board rather than a single mega-switch; see the
// per-file groupings in this package.
type Mapper interface {
	ID() uint16
	Name() string

	// Reset restores default power-on/reset mapping: mirroring
	// from the cart, first 8 KiB CHR, first 16 KiB PRG at 0x8000,
	// last 16 KiB PRG at 0xC000, 0x8000-0xFFFF write-intercepted,
	// and the registered state block zeroed.
	Reset(cart *cartridge.Cartridge, ctx Context)

	// ApplyMapping rewrites the code map and CHR bank table from
	// the current state block. Must be idempotent. Called once
	// after Reset and again after every snapshot restore.
	ApplyMapping()

	// Read services the 0x8000-0xFFFF write-intercept range when a
	// mapper needs to read registers back (rare); ok is false when
	// the mapper has nothing special to return and the bus should
	// fall through to its normal PRG read path.
	Read(time int32, addr uint16) (data uint8, ok bool)

	// WriteIntercepted services a write to an intercepted page.
	// Returns true if the mapper handled it.
	WriteIntercepted(time int32, addr uint16, data uint8) bool

	// NextIRQ returns the CPU time at which this mapper's IRQ (if
	// any) will fire, or NoIRQ.
	NextIRQ(now int32) int32

	// RunUntil advances any mapper-internal timers (audio
	// expansion chips, etc) to the given CPU time.
	RunUntil(time int32)

	EndFrame(length int32)

	// A12Clocked is invoked on the rising edge of VRAM address
	// line 12, observed by the PPU during $2006/$2007 accesses
	// (not during internal rendering).
	A12Clocked(time int32)

	// StateBytes exposes the mapper's registered state block for
	// the snapshot engine: a contiguous, mapper-defined byte slice
	// that is copied out on save.
	StateBytes() []byte

	// LoadStateBytes restores a previously saved state block. The
	// caller (the snapshot engine) always calls ApplyMapping
	// immediately afterward; mappers must never trust any code map
	// embedded in the block itself.
	LoadStateBytes(data []byte)
}

// NoIRQ is the sentinel "nothing pending" timestamp, far enough in the
// future that scheduling math never mistakes it for a real deadline.
const NoIRQ int32 = 1 << 30

// AudioMapper is implemented by mappers with expansion audio (FME-7,
// Namco 163, VRC6): the APU calls RunAudioUntil alongside its own
// built-in channels, then sums EndAudioFrame's mono samples into the
// final output mix.
type AudioMapper interface {
	Mapper
	RunAudioUntil(time int32)
	EndAudioFrame(length int32) []int16
}

// LatchMapper is implemented by boards (MMC2, MMC4) whose CHR bank
// flips based on which pattern-table tile the PPU just fetched, rather
// than on a CPU write. The PPU calls NotifyCHRFetch for every
// background/sprite tile fetch so these boards can watch for the
// $0FD8/$0FE8/$1FD8/$1FE8 magic addresses.
type LatchMapper interface {
	Mapper
	NotifyCHRFetch(addr uint16)
}

type factory func() Mapper

var registry = map[uint16]factory{}

// Register adds a mapper id to the registry. Called from each mapper
// file's init(). Panics on a duplicate id — a programmer error, not a
// runtime condition.
func Register(id uint16, f factory) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mapper: id %d already registered", id))
	}
	registry[id] = f
}

// Get constructs and resets the mapper for the given cartridge.
func Get(cart *cartridge.Cartridge, ctx Context) (Mapper, error) {
	f, ok := registry[cart.MapperID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", cartridge.ErrUnknownMapper, cart.MapperID)
	}
	m := f()
	m.Reset(cart, ctx)
	m.ApplyMapping()
	return m, nil
}
