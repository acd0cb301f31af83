// Package gberr defines the small set of error kinds the core surfaces to a
// host. Warnings never propagate as errors: writes the mapper rejects are
// logged by the mapper, writes to the unusable region are dropped silently,
// and writes to LY reset it without a log line. Besides these four kinds,
// the only error a core operation returns is mapper.ParseHeader's plain
// error for a ROM too short to hold a header.
package gberr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap with fmt.Errorf("...: %w", Sentinel) and unwrap with
// errors.Is.
var (
	ErrDecode            = errors.New("decode error")
	ErrMapperUnsupported = errors.New("unsupported mapper")
	ErrRomIO             = errors.New("rom i/o error")
	ErrStateDrift        = errors.New("state drift")
)

// Decode reports an unknown opcode encountered at pc.
func Decode(pc uint16, opcode byte) error {
	return fmt.Errorf("%w: opcode %#02x at pc %#04x", ErrDecode, opcode, pc)
}

// MapperUnsupported reports a cartridge type byte this core cannot bank.
func MapperUnsupported(cartType byte) error {
	return fmt.Errorf("%w: cartridge type %#02x", ErrMapperUnsupported, cartType)
}

// StateDrift reports a step that left PC unchanged, the signature of an
// unterminated tight loop the CPU cannot make progress out of on its own.
func StateDrift(pc uint16) error {
	return fmt.Errorf("%w: pc stuck at %#04x", ErrStateDrift, pc)
}
