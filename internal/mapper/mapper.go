// Package mapper implements the cartridge-space (0x0000-0x7FFF,
// 0xA000-0xBFFF) banking logic. Spec scope covers MBC0 (no banking) and
// MBC1; MBC2/3/5 and GBC/SGB carts are an explicit Non-goal (see
// DESIGN.md for the dropped teacher code this leaves behind).
package mapper

import "dmgcore/internal/gberr"

// Mapper translates cartridge-space reads/writes into ROM/RAM bank
// accesses. Out-of-range reads return 0x00; unsupported writes are
// warnings logged by the implementation, never errors.
type Mapper interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)

	// SaveRAM/LoadRAM persist external cartridge RAM for battery-backed
	// carts. ROM-only cartridges return nil/no-op.
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New parses the cartridge header and constructs the matching mapper
// implementation, or reports gberr.ErrMapperUnsupported for any cartridge
// type outside {0x00, 0x01, 0x02, 0x03}.
func New(rom []byte) (Mapper, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, err
	}
	switch h.CartType {
	case 0x00:
		return NewMBC0(rom), h, nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(rom, h.RAMSizeBytes), h, nil
	default:
		return nil, h, gberr.MapperUnsupported(h.CartType)
	}
}
