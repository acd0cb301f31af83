// Package machine owns the one copy of every core component — CPU, bus,
// mapper, PPU, interrupt controller — and drives them through the single
// synchronous step the host calls. No component holds a reference back to
// another; the Machine is the only thing that wires them together (see
// DESIGN.md on the removal of the source's circular back-references).
package machine

import (
	"dmgcore/internal/bus"
	"dmgcore/internal/cpu"
	"dmgcore/internal/gberr"
	"dmgcore/internal/interrupt"
	"dmgcore/internal/mapper"
	"dmgcore/internal/ppu"
)

// Machine is the emulator core: one CPU, one bus (which in turn owns the
// mapper, PPU, interrupt controller, and RAM), stepped one instruction at
// a time by the host.
type Machine struct {
	cpu *cpu.CPU
	bus *bus.Bus

	header *mapper.Header
}

// New constructs an empty Machine. LoadCartridge must be called before
// PowerOn or Step.
func New() *Machine {
	return &Machine{}
}

// LoadCartridge parses the cartridge header, instantiates the matching
// mapper (gberr.ErrMapperUnsupported for any cartridge type outside
// {0x00, 0x01, 0x02, 0x03}), and wires a fresh bus and CPU around it.
func (m *Machine) LoadCartridge(rom []byte) error {
	mp, h, err := mapper.New(rom)
	if err != nil {
		return err
	}
	m.header = h
	m.bus = bus.New(mp)
	m.cpu = cpu.New(m.bus)
	return nil
}

// PowerOn sets the CPU to its post-boot register values. The boot ROM
// itself is never executed; PC starts directly at 0x0100.
func (m *Machine) PowerOn() {
	m.cpu.PowerOn()
}

// Step executes one CPU instruction, including any interrupt dispatch and
// the matching PPU/timer/DMA advance, and reports whether the machine can
// continue. It returns false together with a gberr.ErrDecode-wrapped error
// on an unknown opcode, or gberr.ErrStateDrift if PC failed to move (the
// CPU is stuck in a tight loop it can't progress out of on its own).
func (m *Machine) Step() (bool, error) {
	pc := m.cpu.PC
	_, err := m.cpu.Step()
	if err != nil {
		return false, err
	}
	if m.cpu.PC == pc && !m.cpu.Halted() {
		return false, gberr.StateDrift(pc)
	}
	return true, nil
}

// Framebuffer returns the most recently produced frame: 144 rows of 160
// shade indices in {0,1,2,3}, 0 lightest.
func (m *Machine) Framebuffer() [ppu.Height][ppu.Width]byte {
	return m.bus.PPU().Framebuffer()
}

// RequestExternalInterrupt lets a host-driven input source (joypad) or a
// future host-driven timer source set the matching IF bit directly. The
// bus's own timer and joypad registers raise their interrupts internally;
// this is for hosts that want to inject one out of band.
func (m *Machine) RequestExternalInterrupt(kind interrupt.Kind) {
	m.bus.RequestInterrupt(kind)
}

// SetJoypadState reports which buttons are currently pressed; which
// physical key maps to which bit is a host concern.
func (m *Machine) SetJoypadState(mask byte) {
	m.bus.SetJoypadState(mask)
}

// SetSerialWriter installs a sink for serial-port output, e.g. the
// pass/fail text emitted by Blargg-style CPU test ROMs.
func (m *Machine) SetSerialWriter(w bus.SerialWriter) {
	m.bus.SetSerialWriter(w)
}

// SaveRAM/LoadRAM persist battery-backed external cartridge RAM. Absent
// (nil/no-op) for MBC0 cartridges.
func (m *Machine) SaveRAM() []byte     { return m.bus.SaveRAM() }
func (m *Machine) LoadRAM(data []byte) { m.bus.LoadRAM(data) }

// Header returns the parsed cartridge header, or nil before LoadCartridge.
func (m *Machine) Header() *mapper.Header { return m.header }

// PC returns the CPU's current program counter, for host-side tracing.
func (m *Machine) PC() uint16 { return m.cpu.PC }

// Read/Write expose the raw bus for hosts and tests that need to peek or
// poke memory directly (e.g. seeding a test ROM's work RAM).
func (m *Machine) Read(addr uint16) byte     { return m.bus.Read(addr) }
func (m *Machine) Write(addr uint16, v byte) { m.bus.Write(addr, v) }
