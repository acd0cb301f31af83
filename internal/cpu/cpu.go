// Package cpu implements the Sharp LR35902 instruction set: register
// file, ALU, table-driven opcode dispatch (including the CB-prefixed
// block), and interrupt/HALT handling. The CPU never imports the bus
// package directly — it drives memory through the Bus interface, so
// the machine package is free to wire CPU, PPU, and the bus together
// without back-references running the other way (see DESIGN.md).
package cpu

import "dmgcore/internal/gberr"

// Bus is the memory-mapped surface the CPU needs: byte-addressed
// read/write plus a way to advance the rest of the machine by the
// cycles this instruction consumed.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
	Tick(cycles int)
}

// CPU holds the SM83 register file and execution state.
type CPU struct {
	A byte
	B, C byte
	D, E byte
	H, L byte

	fZ, fN, fH, fC bool

	SP uint16
	PC uint16

	IME       bool
	halted    bool
	eiPending bool

	bus Bus
}

// New creates a CPU wired to bus, with all registers zeroed. Use
// PowerOn (normally called by the owning machine) to load the typical
// post-boot-ROM register state.
func New(b Bus) *CPU {
	return &CPU{bus: b}
}

// F reconstructs the flags register from the canonical flag booleans.
func (c *CPU) F() byte { return c.packF() }

// SetF applies a raw F byte (e.g. from POP AF) to the canonical flags.
func (c *CPU) SetF(f byte) { c.applyF(f) }

// PowerOn sets the registers to the values the DMG boot ROM leaves
// behind when it hands off to cartridge code at PC=0x0100.
func (c *CPU) PowerOn() {
	c.A = 0x01
	c.applyF(0xB0)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.halted = false
	c.eiPending = false
}

// Halted reports whether the CPU is parked in HALT.
func (c *CPU) Halted() bool { return c.halted }

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | (hi << 8)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | (hi << 8)
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v&0x00FF))
	c.write8(addr+1, byte(v>>8))
}

func (c *CPU) getAF() uint16  { return uint16(c.A)<<8 | uint16(c.packF()) }
func (c *CPU) setAF(v uint16) { c.A = byte(v >> 8); c.applyF(byte(v)) }
func (c *CPU) getBC() uint16  { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) setBC(v uint16) { c.B = byte(v >> 8); c.C = byte(v) }
func (c *CPU) getDE() uint16  { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) setDE(v uint16) { c.D = byte(v >> 8); c.E = byte(v) }
func (c *CPU) getHL() uint16  { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) setHL(v uint16) { c.H = byte(v >> 8); c.L = byte(v) }

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// serviceInterrupt checks IE & IF, dispatches the highest-priority
// pending interrupt if IME is set, and returns the cycle cost (20) or
// 0 if nothing was serviced.
func (c *CPU) serviceInterrupt() int {
	ie := c.bus.Read(0xFFFF)
	ifReg := c.bus.Read(0xFF0F) & 0x1F
	pending := ie & ifReg
	if pending == 0 {
		return 0
	}
	var bit uint
	for bit = 0; bit < 5; bit++ {
		if pending&(1<<bit) != 0 {
			break
		}
	}
	c.bus.Write(0xFF0F, (ifReg&^(1<<bit))&0x1F)
	c.halted = false
	c.IME = false
	c.push16(c.PC)
	c.PC = 0x40 + uint16(bit)*8
	return 20
}

// Step executes one instruction (or services a pending interrupt, or
// idles one step while HALTed) and returns the number of T-cycles it
// consumed. Decode failures return a non-zero cycle count alongside an
// error wrapping gberr.ErrDecode; the caller decides whether to treat
// that as fatal.
func (c *CPU) Step() (int, error) {
	var cycles int
	var err error

	// EI's enable is two-stage: the instruction that sets eiPending only
	// arms it, the enable itself lands at the end of the *following* Step.
	// Capturing scheduled before this step's exec runs (and resetting
	// eiPending immediately after) keeps an EI executed this step from
	// enabling IME on its own step.
	scheduled := c.eiPending
	c.eiPending = false

	defer func() {
		if c.bus != nil && cycles > 0 {
			c.bus.Tick(cycles)
		}
		if scheduled {
			c.IME = true
		}
	}()

	if c.halted {
		if c.IME {
			if n := c.serviceInterrupt(); n != 0 {
				cycles = n
				return cycles, nil
			}
			cycles = 4
			return cycles, nil
		}
		ifReg := c.bus.Read(0xFF0F) & 0x1F
		ie := c.bus.Read(0xFFFF)
		if ifReg&ie != 0 {
			c.halted = false
		} else {
			cycles = 4
			return cycles, nil
		}
	}

	if c.IME {
		if n := c.serviceInterrupt(); n != 0 {
			cycles = n
			return cycles, nil
		}
	}

	pc := c.PC
	op := c.fetch8()
	desc := baseOpcodes[op]
	if desc.exec == nil {
		err = gberr.Decode(pc, op)
		cycles = 4
		return cycles, err
	}
	cycles = desc.exec(c)
	return cycles, nil
}
