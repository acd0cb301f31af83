package ppu

// VRAMReader abstracts tile-map/tile-data access for the fetcher so it can
// be driven by the live PPU or by a synthetic map in tests.
type VRAMReader interface {
	Read(addr uint16) byte
}

// pixelFIFO is a ring buffer of 2-bit color indices, enough to hold more
// than one fetched tile row at a time.
type pixelFIFO struct {
	buf  [32]byte
	head int
	tail int
	size int
}

func (q *pixelFIFO) Len() int { return q.size }

func (q *pixelFIFO) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}

func (q *pixelFIFO) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// tileFetcher pulls one 8-pixel tile row into a FIFO at a time, used by the
// background and window scanline renderers (see scanline.go). Addressing
// follows LCDC bit 4: tileData8000 selects unsigned 0x8000 indexing,
// otherwise tile IDs are signed and based at 0x9000.
type tileFetcher struct {
	mem           VRAMReader
	fifo          *pixelFIFO
	tileData8000  bool
	tileIndexAddr uint16
	fineY         byte
}

func newTileFetcher(mem VRAMReader, f *pixelFIFO) *tileFetcher {
	return &tileFetcher{mem: mem, fifo: f}
}

// configure points the fetcher at the next tile to decode.
func (f *tileFetcher) configure(tileData8000 bool, tileIndexAddr uint16, fineY byte) {
	f.tileData8000 = tileData8000
	f.tileIndexAddr = tileIndexAddr
	f.fineY = fineY & 7
}

// fetch decodes the configured tile row and pushes its 8 color indices.
func (f *tileFetcher) fetch() {
	tileNum := f.mem.Read(f.tileIndexAddr)
	var base uint16
	if f.tileData8000 {
		base = 0x8000 + uint16(tileNum)*16 + uint16(f.fineY)*2
	} else {
		base = 0x9000 + uint16(int8(tileNum))*16 + uint16(f.fineY)*2
	}
	lo := f.mem.Read(base)
	hi := f.mem.Read(base + 1)
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		f.fifo.Push(ci)
	}
}
