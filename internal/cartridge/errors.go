package cartridge

import "errors"

// Load rejections enumerated in the cartridge loader contract. Each
// describes exactly one constraint the ROM image failed to satisfy.
var (
	ErrBadSignature      = errors.New("cartridge: missing \"NES\\x1a\" signature")
	ErrUnsupportedRegion = errors.New("cartridge: unsupported console type or TV region")
	ErrUnsupportedSub    = errors.New("cartridge: unsupported NES 2.0 submapper")
	ErrPrgRAMTooLarge    = errors.New("cartridge: PRG-RAM exceeds 8 KiB")
	ErrChrRAMTooLarge    = errors.New("cartridge: CHR-RAM exceeds 8 KiB")
	ErrExponentROMSize   = errors.New("cartridge: exponent-notation ROM size not supported")
	ErrMiscROMs          = errors.New("cartridge: miscellaneous ROM areas not supported")
	ErrTruncated         = errors.New("cartridge: truncated ROM image")
	ErrUnknownMapper     = errors.New("cartridge: unknown mapper id")
)
