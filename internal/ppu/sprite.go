package ppu

import "sort"

// oamEntry is one decoded 4-byte OAM record.
type oamEntry struct {
	y, x, tile, attr byte
	index            int
}

// scanOAM collects up to 10 sprites intersecting scanline ly, in OAM order
// (hardware scan order; selection itself is not priority order).
func (p *PPU) scanOAM(ly byte, height int) []oamEntry {
	var found []oamEntry
	for i := 0; i < 40; i++ {
		base := i * 4
		y := p.oam[base]
		x := p.oam[base+1]
		if x == 0 {
			continue
		}
		top := int(y) - 16
		if int(ly) >= top && int(ly) < top+height {
			found = append(found, oamEntry{y: y, x: x, tile: p.oam[base+2], attr: p.oam[base+3], index: i})
			if len(found) == 10 {
				break
			}
		}
	}
	return found
}

// composeSprites overlays sprite pixels for scanline ly onto out, which
// already holds the shaded background/window line. bgColorIdx holds the
// pre-palette background color index per column, needed for the sprite's
// BG-priority attribute bit.
func (p *PPU) composeSprites(ly byte, bgColorIdx [Width]byte, out *[Width]byte) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}
	sprites := p.scanOAM(ly, height)

	// Priority: lower X wins; ties broken by lower OAM index. Sorting
	// ascending by (X, index) and drawing in that order with first-write-
	// wins per pixel reproduces that rule.
	sort.SliceStable(sprites, func(i, j int) bool {
		if sprites[i].x != sprites[j].x {
			return sprites[i].x < sprites[j].x
		}
		return sprites[i].index < sprites[j].index
	})

	var covered [Width]bool
	for _, s := range sprites {
		screenX := int(s.x) - 8
		if screenX <= -8 || screenX >= Width {
			continue
		}
		row := int(ly) - (int(s.y) - 16)
		if s.attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}
		tileID := s.tile
		tileRow := row
		if height == 16 {
			tileID &^= 0x01
			if row >= 8 {
				tileID |= 0x01
				tileRow = row - 8
			}
		}
		base := 0x8000 + uint16(tileID)*16 + uint16(tileRow)*2
		lo := p.internalVRAMRead(base)
		hi := p.internalVRAMRead(base + 1)
		palette := p.obp0
		if s.attr&0x10 != 0 {
			palette = p.obp1
		}
		for px := 0; px < 8; px++ {
			sx := screenX + px
			if sx < 0 || sx >= Width || covered[sx] {
				continue
			}
			bit := 7 - px
			if s.attr&0x20 != 0 { // X flip
				bit = px
			}
			ci := ((hi>>uint(bit))&1)<<1 | ((lo >> uint(bit)) & 1)
			if ci == 0 {
				continue
			}
			if s.attr&0x80 != 0 && bgColorIdx[sx] != 0 {
				continue
			}
			out[sx] = (palette >> (ci * 2)) & 0x3
			covered[sx] = true
		}
	}
}
