// Package ram models the DMG's raw, bank-less storage: work RAM, high RAM,
// and everything the stack lives in. Per the data model, it is a flat
// 64 KiB byte array — the bus decides which sub-ranges actually reach it
// (work RAM 0xC000-0xDFFF, high RAM 0xFF80-0xFFFE, and the otherwise
// unrouted 0xFF4C-0xFF7F; the echo region 0xE000-0xFDFF is mirrored by the
// bus onto the work RAM range before calling in here, not handled by RAM
// itself).
package ram

// RAM is a flat 64 KiB byte array addressed directly by CPU address.
type RAM struct {
	mem [0x10000]byte
}

// New returns a zeroed RAM.
func New() *RAM { return &RAM{} }

func (r *RAM) Read(addr uint16) byte { return r.mem[addr] }

func (r *RAM) Write(addr uint16, v byte) { r.mem[addr] = v }
