// Package bus implements the single memory-routing function the CPU,
// PPU, and OAM DMA all go through: the ten ordered rules that decide
// which component owns a given address. Bus is the only thing that
// holds references to the mapper, RAM, PPU, and interrupt controller —
// none of those ever reference the bus back (see DESIGN.md on the
// single-owner Machine design).
package bus

import (
	"log"

	"dmgcore/internal/interrupt"
	"dmgcore/internal/mapper"
	"dmgcore/internal/ppu"
	"dmgcore/internal/ram"
)

// Joypad button bitmasks for SetJoypadState; set bits mean "pressed".
// Which physical key maps to which bit is a host concern (spec.md's
// "joypad input decoding" non-goal) — the bus only serves the register.
const (
	JoypRight     = 1 << 0
	JoypLeft      = 1 << 1
	JoypUp        = 1 << 2
	JoypDown      = 1 << 3
	JoypA         = 1 << 4
	JoypB         = 1 << 5
	JoypSelectBtn = 1 << 6
	JoypStart     = 1 << 7
)

// Bus wires the CPU-visible 64 KiB address space to the cartridge
// mapper, PPU, interrupt controller, and raw RAM.
type Bus struct {
	mapper mapper.Mapper
	ppu    *ppu.PPU
	ic     *interrupt.Controller
	ram    *ram.RAM

	joypSelect byte
	joypad     byte
	joypLower4 byte

	div             byte
	tima            byte
	tma             byte
	tac             byte
	timaReloadDelay int
	divInternal     uint16

	sb byte
	sc byte
	sw SerialWriter

	dma       byte
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int
}

// SerialWriter receives bytes written through the serial port; used by
// hosts (or test-ROM runners) that want to surface SB output without the
// core knowing anything about serial clock timing.
type SerialWriter interface {
	Write(p []byte) (int, error)
}

// New wires a Bus around the given mapper. The bus owns a fresh PPU,
// interrupt controller, and RAM; nothing else constructs them.
func New(m mapper.Mapper) *Bus {
	b := &Bus{mapper: m, ic: &interrupt.Controller{}, ram: ram.New()}
	b.ppu = ppu.New(func(kind interrupt.Kind) { b.ic.Request(kind) })
	return b
}

// PPU exposes the owned PPU for framebuffer access.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Interrupts exposes the owned interrupt controller. The CPU's HALT/IME
// dispatch logic does not use it; it reads and writes IF/IE through
// Read/Write at 0xFF0F/0xFFFF.
func (b *Bus) Interrupts() *interrupt.Controller { return b.ic }

// RequestInterrupt forwards an externally-sourced interrupt (joypad,
// timer) into the interrupt controller.
func (b *Bus) RequestInterrupt(kind interrupt.Kind) { b.ic.Request(kind) }

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF0F:
		return 0xE0 | (b.ic.IF & 0x1F)
	case addr == 0xFFFF:
		return b.ic.IE
	case addr == 0xFF00:
		return b.readJoyp()
	case addr == 0xFF04:
		return b.div
	case addr == 0xFF05:
		return b.tima
	case addr == 0xFF06:
		return b.tma
	case addr == 0xFF07:
		return 0xF8 | (b.tac & 0x07)
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr >= 0xFF00 && addr <= 0xFF3F:
		return 0xFF // unmodeled I/O stub
	case addr <= 0x7FFF, addr >= 0xA000 && addr <= 0xBFFF:
		return b.mapper.Read(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0x00
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.ram.Read(addr - 0x2000)
	default:
		return b.ram.Read(addr)
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if !b.dmaActive {
			b.ppu.CPUWrite(addr, value)
		}
	case addr == 0xFF46:
		b.dma = value
		b.dmaActive = true
		b.dmaSrc = uint16(value) << 8
		b.dmaIndex = 0
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	case addr == 0xFF0F:
		b.ic.IF = value & 0x1F
	case addr == 0xFFFF:
		b.ic.IE = value
	case addr == 0xFF00:
		b.joypSelect = value & 0x30
		b.updateJoypadIRQ()
	case addr == 0xFF04:
		b.writeDIV()
	case addr == 0xFF05:
		b.tima = value
		b.timaReloadDelay = 0
	case addr == 0xFF06:
		b.tma = value
	case addr == 0xFF07:
		b.writeTAC(value)
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.writeSC(value)
	case addr >= 0xFF00 && addr <= 0xFF3F:
		// unmodeled I/O stub: writes silently accepted
	case addr <= 0x7FFF, addr >= 0xA000 && addr <= 0xBFFF:
		b.mapper.Write(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable region: writes ignored
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.ram.Write(addr-0x2000, value)
	default:
		b.ram.Write(addr, value)
	}
}

func (b *Bus) readJoyp() byte {
	res := byte(0xC0 | (b.joypSelect & 0x30) | 0x0F)
	if b.joypSelect&0x10 == 0 {
		if b.joypad&JoypRight != 0 {
			res &^= 0x01
		}
		if b.joypad&JoypLeft != 0 {
			res &^= 0x02
		}
		if b.joypad&JoypUp != 0 {
			res &^= 0x04
		}
		if b.joypad&JoypDown != 0 {
			res &^= 0x08
		}
	}
	if b.joypSelect&0x20 == 0 {
		if b.joypad&JoypA != 0 {
			res &^= 0x01
		}
		if b.joypad&JoypB != 0 {
			res &^= 0x02
		}
		if b.joypad&JoypSelectBtn != 0 {
			res &^= 0x04
		}
		if b.joypad&JoypStart != 0 {
			res &^= 0x08
		}
	}
	return res
}

func (b *Bus) writeDIV() {
	oldInput := b.timerInput()
	b.divInternal = 0
	b.div = 0
	if oldInput && !b.timerInput() {
		b.incrementTIMA()
	}
}

func (b *Bus) writeTAC(value byte) {
	oldInput := b.timerInput()
	b.tac = value & 0x07
	if oldInput && !b.timerInput() {
		b.incrementTIMA()
	}
}

func (b *Bus) writeSC(value byte) {
	b.sc = value & 0x81
	if b.sc&0x80 == 0 {
		return
	}
	if b.sw != nil {
		if _, err := b.sw.Write([]byte{b.sb}); err != nil {
			log.Printf("bus: serial sink write failed: %v", err)
		}
	}
	b.ic.Request(interrupt.Serial)
	b.sc &^= 0x80
}

// SetJoypadState sets which buttons are currently pressed (Joyp* mask).
func (b *Bus) SetJoypadState(mask byte) {
	b.joypad = mask
	b.updateJoypadIRQ()
}

// SetSerialWriter installs a sink for serial-port output (e.g. the pass/
// fail text emitted by Blargg-style CPU test ROMs).
func (b *Bus) SetSerialWriter(w SerialWriter) { b.sw = w }

// SaveRAM/LoadRAM proxy the mapper's battery-backed external RAM.
func (b *Bus) SaveRAM() []byte     { return b.mapper.SaveRAM() }
func (b *Bus) LoadRAM(data []byte) { b.mapper.LoadRAM(data) }

// Tick advances timers, the PPU, and any in-flight OAM DMA by the given
// number of T-cycles. TIMA increments on a falling edge of the divider
// bit TAC selects, with a 4-cycle delay between overflow and reload from
// TMA (during which a TIMA write cancels the pending reload).
func (b *Bus) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		oldInput := b.timerInput()
		b.divInternal++
		b.div = byte(b.divInternal >> 8)
		falling := oldInput && !b.timerInput()

		if b.timaReloadDelay > 0 {
			b.timaReloadDelay--
			if b.timaReloadDelay == 0 {
				b.tima = b.tma
				b.ic.Request(interrupt.Timer)
			}
		}
		if falling {
			b.incrementTIMA()
		}

		b.ppu.Tick(1)

		if b.dmaActive {
			if b.dmaIndex < 0xA0 {
				v := b.Read(b.dmaSrc + uint16(b.dmaIndex))
				b.ppu.WriteOAMByte(b.dmaIndex, v)
				b.dmaIndex++
			}
			if b.dmaIndex >= 0xA0 {
				b.dmaActive = false
			}
		}
	}
}

func (b *Bus) timerInput() bool {
	if b.tac&0x04 == 0 {
		return false
	}
	var bit uint
	switch b.tac & 0x03 {
	case 0x00:
		bit = 9
	case 0x01:
		bit = 3
	case 0x02:
		bit = 5
	case 0x03:
		bit = 7
	}
	return (b.divInternal>>bit)&1 != 0
}

func (b *Bus) incrementTIMA() {
	if b.timaReloadDelay > 0 {
		return
	}
	if b.tima == 0xFF {
		b.tima = 0x00
		b.timaReloadDelay = 4
		return
	}
	b.tima++
}

func (b *Bus) updateJoypadIRQ() {
	newLower := byte(0x0F)
	if b.joypSelect&0x10 == 0 {
		if b.joypad&JoypRight != 0 {
			newLower &^= 0x01
		}
		if b.joypad&JoypLeft != 0 {
			newLower &^= 0x02
		}
		if b.joypad&JoypUp != 0 {
			newLower &^= 0x04
		}
		if b.joypad&JoypDown != 0 {
			newLower &^= 0x08
		}
	}
	if b.joypSelect&0x20 == 0 {
		if b.joypad&JoypA != 0 {
			newLower &^= 0x01
		}
		if b.joypad&JoypB != 0 {
			newLower &^= 0x02
		}
		if b.joypad&JoypSelectBtn != 0 {
			newLower &^= 0x04
		}
		if b.joypad&JoypStart != 0 {
			newLower &^= 0x08
		}
	}
	falling := b.joypLower4 &^ newLower
	if falling != 0 {
		b.ic.Request(interrupt.Joypad)
	}
	b.joypLower4 = newLower
}
