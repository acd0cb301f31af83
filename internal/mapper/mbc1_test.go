package mapper

import "testing"

func TestMBC1_ROMBanking(t *testing.T) {
	rom := make([]byte, 128*1024)
	for bank := 0; bank < 8; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC1(rom, 0)

	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("bank0 read got %02X want 00", got)
	}
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank1 (default) read got %02X want 01", got)
	}

	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 0x03 {
		t.Fatalf("bank3 read got %02X want 03", got)
	}

	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
}

// TestMBC1_ForbiddenBanks covers the invariant that any write whose low 5
// bits are zero (0x00, 0x20, 0x40, 0x60) selects bank 1, not bank 0.
func TestMBC1_ForbiddenBanks(t *testing.T) {
	rom := make([]byte, 2*1024*1024)
	for bank := 0; bank < 128; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	m := NewMBC1(rom, 0)
	for _, v := range []byte{0x00, 0x20, 0x40, 0x60} {
		m.Write(0x2000, v)
		if got := m.Read(0x4000); got != 0x01 {
			t.Fatalf("write %#02x: active bank got %d want 1", v, got)
		}
	}
}

func TestMBC1_RAMBanking_Mode1(t *testing.T) {
	rom := make([]byte, 128*1024)
	m := NewMBC1(rom, 32*1024)

	m.Write(0x0000, 0x0A)
	m.Write(0x6000, 0x01)
	m.Write(0x4000, 0x02)

	m.Write(0xA000, 0x77)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank2 RW failed: got %02X", got)
	}
}

func TestMBC1_RAMDisabledReadsFF(t *testing.T) {
	rom := make([]byte, 32*1024)
	m := NewMBC1(rom, 8*1024)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read got %#02x want 0xFF", got)
	}
	m.Write(0xA000, 0x42) // ignored while disabled
	m.Write(0x0000, 0x0A)
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("enabling RAM after an ignored write should read back 0x00, got %#02x", got)
	}
}

func TestMBC1_SaveLoadRAM(t *testing.T) {
	rom := make([]byte, 32*1024)
	m := NewMBC1(rom, 8*1024)
	m.Write(0x0000, 0x0A)
	m.Write(0xA010, 0x99)

	saved := m.SaveRAM()
	m2 := NewMBC1(rom, 8*1024)
	m2.LoadRAM(saved)
	m2.Write(0x0000, 0x0A)
	if got := m2.Read(0xA010); got != 0x99 {
		t.Fatalf("restored RAM got %#02x want 0x99", got)
	}
}
