// Package ppu implements the DMG pixel-processing unit: video memory,
// object attribute memory, the LCDC/STAT/scroll/palette registers, the
// per-scanline timing state machine, and background/window/sprite
// rendering into a 160x144 framebuffer of 2-bit shade indices.
//
// PPU holds no back-reference to the bus; it raises interrupts through a
// Requester callback supplied at construction, and the bus is the only
// thing that calls into it (see DESIGN.md on back-reference removal).
package ppu

import "dmgcore/internal/interrupt"

const (
	Width  = 160
	Height = 144

	dotsPerLine   = 456
	linesPerFrame = 154
	oamScanDots   = 80
	transferDots  = 172
)

// Requester raises an interrupt kind in the shared interrupt controller.
type Requester func(interrupt.Kind)

// PPU models VRAM/OAM, LCDC/STAT regs, LY/LYC, scanline timing, and
// background/window/sprite composition.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41: bit7 reads as 1, bits 6..3 user-written, bit2 coincidence, bits1..0 mode
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44 (read-only to the CPU; any write resets it to 0)
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	dot        int // 0..455 within the current scanline
	windowLine int // advances only on scanlines where the window was visible

	framebuffer [Height][Width]byte

	req Requester
}

// New constructs a PPU that raises interrupts through req.
func New(req Requester) *PPU {
	return &PPU{req: req}
}

// Mode returns the current STAT mode (0=HBlank, 1=VBlank, 2=OAM, 3=Transfer).
func (p *PPU) Mode() byte { return p.stat & 0x03 }

// LY returns the current scanline.
func (p *PPU) LY() byte { return p.ly }

// Dot returns the current in-scanline dot counter, 0..455.
func (p *PPU) Dot() int { return p.dot }

// Framebuffer returns the most recently produced 160x144 frame of 2-bit
// shade indices, row-major.
func (p *PPU) Framebuffer() [Height][Width]byte { return p.framebuffer }

// CPURead serves VRAM, OAM, and the FF40-FF4B register block. VRAM and OAM
// are inaccessible to the CPU during the PPU modes that own them on real
// hardware (mode 3 for VRAM; modes 2 and 3 for OAM), reading as 0xFF.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() == 3 {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.Mode(); m == 2 || m == 3 {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and the FF40-FF4B register block.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() == 3 {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := p.Mode(); m == 2 || m == 3 {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		p.writeLCDC(value)
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		// Invariant (iii): writes to LY reset it to 0.
		p.ly = 0
		p.dot = 0
		if p.lcdc&0x80 != 0 {
			p.setMode(2)
		}
		p.updateLYC()
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// WriteOAMByte is used by the bus's OAM DMA implementation to bypass the
// mode-gated CPUWrite path; DMA writes OAM directly regardless of mode.
func (p *PPU) WriteOAMByte(index int, value byte) { p.oam[index] = value }

func (p *PPU) writeLCDC(value byte) {
	prev := p.lcdc
	p.lcdc = value
	turnedOff := prev&0x80 != 0 && value&0x80 == 0
	turnedOn := prev&0x80 == 0 && value&0x80 != 0
	if turnedOff {
		p.ly = 0
		p.dot = 0
		p.windowLine = 0
		p.setMode(0)
		p.updateLYC()
	} else if turnedOn {
		p.ly = 0
		p.dot = 0
		p.windowLine = 0
		p.setMode(2)
		p.updateLYC()
	}
}

// Tick advances the PPU by the given number of T-cycles (dots), updating
// STAT mode, LY, coincidence, and raising interrupts as mode/line
// boundaries are crossed. Every scanline consumes exactly 456 dots
// regardless of mode (invariant viii).
func (p *PPU) Tick(cycles int) {
	if p.lcdc&0x80 == 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		p.dot++

		if p.ly < 144 {
			switch {
			case p.dot == oamScanDots:
				p.setMode(3)
			case p.dot == oamScanDots+transferDots:
				p.renderScanline()
				p.setMode(0)
			}
		}

		if p.dot >= dotsPerLine {
			p.dot = 0
			p.ly++
			if p.ly == linesPerFrame {
				p.ly = 0
			}
			p.updateLYC()
			switch {
			case p.ly == 144:
				p.setMode(1)
				p.req(interrupt.VBlank)
				if p.stat&(1<<4) != 0 {
					p.req(interrupt.LCDStat)
				}
			case p.ly < 144:
				p.setMode(2)
			}
			if p.ly == 0 {
				p.windowLine = 0
			}
		}
	}
}

func (p *PPU) setMode(mode byte) {
	prev := p.stat & 0x03
	if prev == mode {
		return
	}
	p.stat = (p.stat &^ 0x03) | mode
	switch mode {
	case 0:
		if p.stat&(1<<3) != 0 {
			p.req(interrupt.LCDStat)
		}
	case 2:
		if p.stat&(1<<5) != 0 {
			p.req(interrupt.LCDStat)
		}
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if p.stat&(1<<6) != 0 {
			p.req(interrupt.LCDStat)
		}
	} else {
		p.stat &^= 1 << 2
	}
}

// internalVRAMRead bypasses the mode-3 CPU lockout; the PPU itself always
// has access to its own memory while composing a scanline.
func (p *PPU) internalVRAMRead(addr uint16) byte { return p.vram[addr-0x8000] }
