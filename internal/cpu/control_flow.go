package cpu

// condition indices for the four branch predicates used by JR/JP/CALL/RET cc.
const (
	condNZ = iota
	condZ
	condNC
	condCy
)

func (c *CPU) condTrue(cond int) bool {
	switch cond {
	case condNZ:
		return !c.fZ
	case condZ:
		return c.fZ
	case condNC:
		return !c.fC
	default:
		return c.fC
	}
}

func initControlFlow() {
	baseOpcodes[0xC3] = opcode{exec: func(c *CPU) int { c.PC = c.fetch16(); return 16 }}
	baseOpcodes[0xE9] = opcode{exec: func(c *CPU) int { c.PC = c.getHL(); return 4 }}
	baseOpcodes[0x18] = opcode{exec: func(c *CPU) int {
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12
	}}

	jrOps := []byte{0x20, 0x28, 0x30, 0x38}
	jrConds := []int{condNZ, condZ, condNC, condCy}
	for i, op := range jrOps {
		cond := jrConds[i]
		baseOpcodes[op] = opcode{exec: func(c *CPU) int {
			off := int8(c.fetch8())
			if c.condTrue(cond) {
				c.PC = uint16(int32(c.PC) + int32(off))
				return 12
			}
			return 8
		}}
	}

	jpOps := []byte{0xC2, 0xCA, 0xD2, 0xDA}
	jpConds := []int{condNZ, condZ, condNC, condCy}
	for i, op := range jpOps {
		cond := jpConds[i]
		baseOpcodes[op] = opcode{exec: func(c *CPU) int {
			addr := c.fetch16()
			if c.condTrue(cond) {
				c.PC = addr
				return 16
			}
			return 12
		}}
	}

	callOps := []byte{0xC4, 0xCC, 0xD4, 0xDC}
	callConds := []int{condNZ, condZ, condNC, condCy}
	for i, op := range callOps {
		cond := callConds[i]
		baseOpcodes[op] = opcode{exec: func(c *CPU) int {
			addr := c.fetch16()
			if c.condTrue(cond) {
				c.push16(c.PC)
				c.PC = addr
				return 24
			}
			return 12
		}}
	}

	retOps := []byte{0xC0, 0xC8, 0xD0, 0xD8}
	retConds := []int{condNZ, condZ, condNC, condCy}
	for i, op := range retOps {
		cond := retConds[i]
		baseOpcodes[op] = opcode{exec: func(c *CPU) int {
			if c.condTrue(cond) {
				c.PC = c.pop16()
				return 20
			}
			return 8
		}}
	}

	baseOpcodes[0xCD] = opcode{exec: func(c *CPU) int {
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24
	}}
	baseOpcodes[0xC9] = opcode{exec: func(c *CPU) int { c.PC = c.pop16(); return 16 }}
	baseOpcodes[0xD9] = opcode{exec: func(c *CPU) int {
		c.PC = c.pop16()
		c.IME = true
		return 16
	}}

	rstOps := []byte{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF}
	for i, op := range rstOps {
		target := uint16(i) * 8
		baseOpcodes[op] = opcode{exec: func(c *CPU) int {
			c.push16(c.PC)
			c.PC = target
			return 16
		}}
	}
}
