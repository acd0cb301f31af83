package cpu

var cbOpcodes [256]opcode

func init() {
	for op := 0; op < 256; op++ {
		reg := byte(op & 7)
		y := byte((op >> 3) & 7)
		group := byte((op >> 6) & 3)

		var cycles int
		switch {
		case group == 1 && reg == 6:
			cycles = 12 // BIT y,(HL)
		case reg == 6:
			cycles = 16
		default:
			cycles = 8
		}

		switch group {
		case 0:
			cbOpcodes[op] = opcode{exec: makeCBShift(y, reg, cycles)}
		case 1:
			cbOpcodes[op] = opcode{exec: makeCBBit(y, reg, cycles)}
		case 2:
			cbOpcodes[op] = opcode{exec: func(c *CPU) int {
				c.regSet(reg, c.regGet(reg)&^(1<<y))
				return cycles
			}}
		case 3:
			cbOpcodes[op] = opcode{exec: func(c *CPU) int {
				c.regSet(reg, c.regGet(reg)|(1<<y))
				return cycles
			}}
		}
	}
}

// makeCBShift builds RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL for CB opcode group 0,
// selected by y (0..7 in that order).
func makeCBShift(y, reg byte, cycles int) func(c *CPU) int {
	return func(c *CPU) int {
		v := c.regGet(reg)
		var cflag byte
		switch y {
		case 0: // RLC
			cflag = (v >> 7) & 1
			v = (v << 1) | cflag
		case 1: // RRC
			cflag = v & 1
			v = (v >> 1) | (cflag << 7)
		case 2: // RL
			cflag = (v >> 7) & 1
			var cin byte
			if c.fC {
				cin = 1
			}
			v = (v << 1) | cin
		case 3: // RR
			cflag = v & 1
			var cin byte
			if c.fC {
				cin = 1
			}
			v = (v >> 1) | (cin << 7)
		case 4: // SLA
			cflag = (v >> 7) & 1
			v <<= 1
		case 5: // SRA
			cflag = v & 1
			v = (v >> 1) | (v & 0x80)
		case 6: // SWAP
			v = (v << 4) | (v >> 4)
		case 7: // SRL
			cflag = v & 1
			v >>= 1
		}
		c.regSet(reg, v)
		if y == 6 {
			c.setFlags(v == 0, false, false, false)
		} else {
			c.setFlags(v == 0, false, false, cflag == 1)
		}
		return cycles
	}
}

// makeCBBit builds BIT y,r: Z reflects the tested bit, H is always set,
// C is left untouched.
func makeCBBit(y, reg byte, cycles int) func(c *CPU) int {
	return func(c *CPU) int {
		v := c.regGet(reg)
		bit := (v >> y) & 1
		c.fZ = bit == 0
		c.fN = false
		c.fH = true
		return cycles
	}
}
