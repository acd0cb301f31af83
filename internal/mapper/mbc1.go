package mapper

import "log"

const bankSize = 0x4000
const ramBankSize = 0x2000

// MBC1 banks ROM in 16 KiB windows and (optionally) external RAM in 8 KiB
// windows, gated by a RAM-enable latch. See spec.md invariant (vii): a
// write of v to 0x2000-0x3FFF where v&0x1F==0 is remapped to bank 1 (bank
// 0 can never be the switchable-window bank).
type MBC1 struct {
	rom []byte
	ram []byte

	romBankLow5 byte // 0x2000-0x3FFF write, 0 remapped to 1
	bank2       byte // 0x4000-0x5FFF write: RAM bank (mode 1) or ROM bank bits 5-6 (mode 0)
	mode        byte // 0x6000-0x7FFF write: 0 = ROM banking mode, 1 = RAM banking mode
	ramEnabled  bool
}

func NewMBC1(rom []byte, ramSize int) *MBC1 {
	m := &MBC1{rom: rom, romBankLow5: 1}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	return m
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		bank := 0
		if m.mode == 1 {
			bank = int(m.bank2&0x03) << 5
		}
		return m.romByte(bank, int(addr))
	case addr < 0x8000:
		return m.romByte(int(m.romBank()), int(addr-0x4000))
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := m.ramOffset(addr)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0x00
	}
}

func (m *MBC1) romByte(bank, offsetInBank int) byte {
	off := bank*bankSize + offsetInBank
	if off >= 0 && off < len(m.rom) {
		return m.rom[off]
	}
	return 0x00
}

// romBank returns the active bank for the 0x4000-0x7FFF window: the low 5
// bits from the last 0x2000-0x3FFF write (never zero) combined with the
// high 2 bits from bank2 when in ROM banking mode.
func (m *MBC1) romBank() byte {
	low5 := m.romBankLow5 & 0x1F
	if low5 == 0 {
		low5 = 1
	}
	high2 := byte(0)
	if m.mode == 0 {
		high2 = m.bank2 & 0x03
	}
	return low5 | (high2 << 5)
}

func (m *MBC1) ramOffset(addr uint16) int {
	bank := 0
	if m.mode == 1 {
		bank = int(m.bank2 & 0x03)
	}
	return bank*ramBankSize + int(addr-0xA000)
}

func (m *MBC1) Write(addr uint16, v byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case addr < 0x4000:
		m.romBankLow5 = v & 0x1F
	case addr < 0x6000:
		m.bank2 = v & 0x03
	case addr < 0x8000:
		m.mode = v & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			log.Printf("mapper: write %#02x to disabled/absent MBC1 RAM at %#04x", v, addr)
			return
		}
		off := m.ramOffset(addr)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = v
		}
	}
}

func (m *MBC1) SaveRAM() []byte {
	if len(m.ram) == 0 {
		return nil
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC1) LoadRAM(data []byte) {
	copy(m.ram, data)
}
