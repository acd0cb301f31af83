package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dmgcore/internal/bus"
	"dmgcore/internal/machine"
	"dmgcore/internal/ppu"
)

// shadePalette maps the core's 2-bit shade indices to the classic
// four-tone DMG green palette, lightest to darkest.
var shadePalette = [4][4]byte{
	{0x9B, 0xBC, 0x0F, 0xFF},
	{0x8B, 0xAC, 0x0F, 0xFF},
	{0x30, 0x62, 0x30, 0xFF},
	{0x0F, 0x38, 0x0F, 0xFF},
}

// App is the ebiten-driven host: it steps the Machine, converts its
// framebuffer to pixels, and turns keyboard state into the joypad mask.
type App struct {
	cfg    Config
	m      *machine.Machine
	tex    *ebiten.Image
	paused bool
}

// NewApp constructs an App around an already-loaded, powered-on Machine.
func NewApp(cfg Config, m *machine.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	return &App{cfg: cfg, m: m}
}

// Run hands control to ebiten's game loop.
func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.m.SetJoypadState(readJoypadMask())
	if a.paused {
		return nil
	}
	// Advance one visible-to-VBlank frame: step instructions until LY
	// crosses from 143 to 144, matching the ordering guarantee that a
	// VBlank is observed on the same or next instruction boundary as the
	// scanline crossing LY=144.
	lastLY := a.m.Read(0xFF44)
	for {
		ok, err := a.m.Step()
		if !ok {
			return fmt.Errorf("gbemu: %w", err)
		}
		ly := a.m.Read(0xFF44)
		if ly == 144 && lastLY != 144 {
			return nil
		}
		lastLY = ly
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	fb := a.m.Framebuffer()
	pix := make([]byte, ppu.Width*ppu.Height*4)
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			shade := fb[y][x] & 0x03
			copy(pix[(y*ppu.Width+x)*4:], shadePalette[shade][:])
		}
	}
	a.tex.WritePixels(pix)
	screen.DrawImage(a.tex, nil)
	if a.paused {
		ebitenutil.DebugPrintAt(screen, "paused", 4, 4)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

func readJoypadMask() byte {
	var mask byte
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		mask |= bus.JoypRight
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		mask |= bus.JoypLeft
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		mask |= bus.JoypUp
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		mask |= bus.JoypDown
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		mask |= bus.JoypA
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		mask |= bus.JoypB
	}
	if ebiten.IsKeyPressed(ebiten.KeyEnter) {
		mask |= bus.JoypStart
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mask |= bus.JoypSelectBtn
	}
	return mask
}
