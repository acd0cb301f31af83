package ppu

// vramAdapter lets the tile fetcher address VRAM through the PPU's own
// internal array, bypassing the CPU-facing mode-3 lockout (the PPU always
// has access to its own memory while composing a line).
type vramAdapter struct{ p *PPU }

func (a vramAdapter) Read(addr uint16) byte { return a.p.internalVRAMRead(addr) }

// bgScanline renders 160 background pixels for the given line using
// mapBase (0x9800 or 0x9C00) and LCDC's tile-data addressing mode.
func (p *PPU) bgScanline(mapBase uint16, tileData8000 bool, scx, scy, ly byte) [Width]byte {
	var out [Width]byte

	bgY := uint16(ly) + uint16(scy)
	fineY := byte(bgY & 7)
	mapY := (bgY >> 3) & 31

	startX := uint16(scx)
	tileX := (startX >> 3) & 31
	fineX := int(startX & 7)

	var q pixelFIFO
	f := newTileFetcher(vramAdapter{p}, &q)
	f.configure(tileData8000, mapBase+mapY*32+tileX, fineY)
	f.fetch()
	for i := 0; i < fineX; i++ {
		q.Pop()
	}

	for x := 0; x < Width; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			f.configure(tileData8000, mapBase+mapY*32+tileX, fineY)
			f.fetch()
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}

// windowScanline renders the window layer starting at screen column
// wxStart (WX-7), using winLine as the window's own internal line counter.
// Columns before wxStart are left 0 — the caller only copies from wxStart
// onward.
func (p *PPU) windowScanline(mapBase uint16, tileData8000 bool, wxStart int, winLine byte) [Width]byte {
	var out [Width]byte
	if wxStart >= Width {
		return out
	}
	if wxStart < 0 {
		wxStart = 0
	}

	mapY := (uint16(winLine) >> 3) & 31
	fineY := winLine & 7
	tileX := uint16(0)

	var q pixelFIFO
	f := newTileFetcher(vramAdapter{p}, &q)
	f.configure(tileData8000, mapBase+mapY*32+tileX, fineY)
	f.fetch()

	for x := wxStart; x < Width; x++ {
		if q.Len() == 0 {
			tileX = (tileX + 1) & 31
			f.configure(tileData8000, mapBase+mapY*32+tileX, fineY)
			f.fetch()
		}
		px, _ := q.Pop()
		out[x] = px
	}
	return out
}

// renderScanline composes background, window, and sprites for the current
// LY into the framebuffer. Called once per visible scanline at the
// mode-3-to-mode-0 boundary, by which point VRAM/OAM writes for this line
// have already landed.
func (p *PPU) renderScanline() {
	ly := p.ly
	if ly >= Height {
		return
	}

	var line [Width]byte
	bgTileData8000 := p.lcdc&0x10 != 0

	if p.lcdc&0x01 != 0 {
		bgMapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			bgMapBase = 0x9C00
		}
		line = p.bgScanline(bgMapBase, bgTileData8000, p.scx, p.scy, ly)
	}

	windowVisible := p.lcdc&0x20 != 0 && ly >= p.wy && int(p.wx) <= 167
	if windowVisible {
		winMapBase := uint16(0x9800)
		if p.lcdc&0x40 != 0 {
			winMapBase = 0x9C00
		}
		wxStart := int(p.wx) - 7
		win := p.windowScanline(winMapBase, bgTileData8000, wxStart, byte(p.windowLine))
		start := wxStart
		if start < 0 {
			start = 0
		}
		for x := start; x < Width; x++ {
			line[x] = win[x]
		}
		p.windowLine++
	}

	bgShade := func(colorIdx byte) byte { return (p.bgp >> (colorIdx * 2)) & 0x3 }

	var out [Width]byte
	for x := 0; x < Width; x++ {
		out[x] = bgShade(line[x])
	}

	if p.lcdc&0x02 != 0 {
		p.composeSprites(ly, line, &out)
	}

	p.framebuffer[ly] = out
}
