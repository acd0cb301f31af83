package ppu

import "testing"

func setSpriteTile(p *PPU, id byte, lo, hi byte) {
	base := uint16(id) * 16 // vram index of 0x8000 + id*16
	p.vram[base] = lo
	p.vram[base+1] = hi
}

func TestScanOAMFindsSpritesOnLine(t *testing.T) {
	p := newTestPPU()
	// sprite 0 at screen Y=10 (OAM Y=26), 8px tall, intersects LY=10
	p.oam[0] = 26
	p.oam[1] = 8
	p.oam[2] = 0
	p.oam[3] = 0

	found := p.scanOAM(10, 8)
	if len(found) != 1 {
		t.Fatalf("expected 1 sprite on line 10, got %d", len(found))
	}
	if found[0].index != 0 {
		t.Fatalf("expected OAM index 0, got %d", found[0].index)
	}
}

func TestScanOAMCapsAtTen(t *testing.T) {
	p := newTestPPU()
	for i := 0; i < 15; i++ {
		base := i * 4
		p.oam[base] = 16   // Y=0 on screen
		p.oam[base+1] = byte(8 + i)
	}
	found := p.scanOAM(0, 8)
	if len(found) != 10 {
		t.Fatalf("expected scan to cap at 10 sprites, got %d", len(found))
	}
}

func TestComposeSpritesPriorityByX(t *testing.T) {
	p := newTestPPU()
	setSpriteTile(p, 1, 0xFF, 0x00) // color 1 everywhere
	setSpriteTile(p, 2, 0x00, 0xFF) // color 2 everywhere

	p.obp0 = 0b11_10_01_00 // identity shading: color i -> shade i

	// Two sprites overlapping at screen X=1..7: lower X must win.
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 16, 9, 1, 0  // screen X=1
	p.oam[4], p.oam[5], p.oam[6], p.oam[7] = 16, 8, 2, 0  // screen X=0

	var bg [Width]byte
	var out [Width]byte
	p.composeSprites(0, bg, &out)

	if out[1] != 2 {
		t.Fatalf("expected sprite at lower X (OAM 1) to win at pixel 1, got %d", out[1])
	}
}

func TestComposeSpritesBGPriorityBit(t *testing.T) {
	p := newTestPPU()
	setSpriteTile(p, 1, 0xFF, 0x00)
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 16, 8, 1, 0x80 // BG-priority set

	var bg [Width]byte
	bg[0] = 1 // non-zero background color underneath
	out := [Width]byte{9: 0}
	out[0] = 5 // pre-shaded background value
	p.composeSprites(0, bg, &out)

	if out[0] != 5 {
		t.Fatalf("sprite with BG-priority set must stay hidden behind non-zero BG, got %d", out[0])
	}
}

func TestComposeSpritesTransparentColorZero(t *testing.T) {
	p := newTestPPU()
	setSpriteTile(p, 1, 0x00, 0x00) // all color 0 (transparent)
	p.oam[0], p.oam[1], p.oam[2], p.oam[3] = 16, 8, 1, 0

	var bg [Width]byte
	out := [Width]byte{}
	out[0] = 3
	p.composeSprites(0, bg, &out)

	if out[0] != 3 {
		t.Fatalf("color-0 sprite pixels must stay transparent, got %d", out[0])
	}
}
