package cpu

// This file implements every Operation's semantics. Addressing has
// already been resolved into an addrResult by the time execute calls
// into one of these; each handler is responsible only for the read,
// compute, write and flag-setting behaviour of its instruction.

// readOperand loads the byte an instruction operates on, for every mode
// except Accumulator/Implied (where the caller never calls this).
func (c *CPU) readOperand(ar addrResult) uint8 {
	return c.bus.Read(ar.addr)
}

func (c *CPU) execute(ent opEntry, ar addrResult) (branchTaken, branchCrossed bool) {
	switch ent.op {
	case opJam:
		c.Jam()

	case OpADC:
		c.adc(c.readOperand(ar))
	case OpSBC:
		c.sbc(c.readOperand(ar))
	case OpAND:
		c.A &= c.readOperand(ar)
		c.setZN(c.A)
	case OpORA:
		c.A |= c.readOperand(ar)
		c.setZN(c.A)
	case OpEOR:
		c.A ^= c.readOperand(ar)
		c.setZN(c.A)

	case OpASL:
		c.rmw(ar, func(v uint8) uint8 {
			c.setCarry(v&0x80 != 0)
			return v << 1
		})
	case OpASLAcc:
		c.setCarry(c.A&0x80 != 0)
		c.A <<= 1
		c.setZN(c.A)
	case OpLSR:
		c.rmw(ar, func(v uint8) uint8 {
			c.setCarry(v&0x01 != 0)
			return v >> 1
		})
	case OpLSRAcc:
		c.setCarry(c.A&0x01 != 0)
		c.A >>= 1
		c.setZN(c.A)
	case OpROL:
		c.rmw(ar, func(v uint8) uint8 {
			carryIn := c.P & FlagCarry
			c.setCarry(v&0x80 != 0)
			return v<<1 | carryIn
		})
	case OpROLAcc:
		carryIn := c.P & FlagCarry
		c.setCarry(c.A&0x80 != 0)
		c.A = c.A<<1 | carryIn
		c.setZN(c.A)
	case OpROR:
		c.rmw(ar, func(v uint8) uint8 {
			carryIn := (c.P & FlagCarry) << 7
			c.setCarry(v&0x01 != 0)
			return v>>1 | carryIn
		})
	case OpRORAcc:
		carryIn := (c.P & FlagCarry) << 7
		c.setCarry(c.A&0x01 != 0)
		c.A = c.A>>1 | carryIn
		c.setZN(c.A)
	case OpINC:
		c.rmw(ar, func(v uint8) uint8 { return v + 1 })
	case OpINCAcc:
		c.A++
		c.setZN(c.A)
	case OpDEC:
		c.rmw(ar, func(v uint8) uint8 { return v - 1 })
	case OpDECAcc:
		c.A--
		c.setZN(c.A)

	case OpINX:
		c.X++
		c.setZN(c.X)
	case OpINY:
		c.Y++
		c.setZN(c.Y)
	case OpDEX:
		c.X--
		c.setZN(c.X)
	case OpDEY:
		c.Y--
		c.setZN(c.Y)

	case OpLDA:
		c.A = c.readOperand(ar)
		c.setZN(c.A)
	case OpLDX:
		c.X = c.readOperand(ar)
		c.setZN(c.X)
	case OpLDY:
		c.Y = c.readOperand(ar)
		c.setZN(c.Y)
	case OpSTA:
		c.bus.Write(ar.addr, c.A)
	case OpSTX:
		c.bus.Write(ar.addr, c.X)
	case OpSTY:
		c.bus.Write(ar.addr, c.Y)
	case OpSTZ:
		c.bus.Write(ar.addr, 0)

	case OpTAX:
		c.X = c.A
		c.setZN(c.X)
	case OpTAY:
		c.Y = c.A
		c.setZN(c.Y)
	case OpTXA:
		c.A = c.X
		c.setZN(c.A)
	case OpTYA:
		c.A = c.Y
		c.setZN(c.A)
	case OpTSX:
		c.X = c.S
		c.setZN(c.X)
	case OpTXS:
		c.S = c.X // Does not affect flags and is not range-checked.

	case OpCLC:
		c.P &^= FlagCarry
	case OpSEC:
		c.P |= FlagCarry
	case OpCLI:
		c.P &^= FlagInterrupt
	case OpSEI:
		c.P |= FlagInterrupt
	case OpCLD:
		c.P &^= FlagDecimal
	case OpSED:
		c.P |= FlagDecimal
	case OpCLV:
		c.P &^= FlagOverflow

	case OpCMP:
		c.compare(c.A, c.readOperand(ar))
	case OpCPX:
		c.compare(c.X, c.readOperand(ar))
	case OpCPY:
		c.compare(c.Y, c.readOperand(ar))

	case OpBIT:
		v := c.readOperand(ar)
		c.P &^= FlagZero | FlagOverflow | FlagNegative
		if c.A&v == 0 {
			c.P |= FlagZero
		}
		c.P |= v & (FlagOverflow | FlagNegative)
	case OpBITImm:
		v := c.readOperand(ar)
		c.P &^= FlagZero
		if c.A&v == 0 {
			c.P |= FlagZero
		}

	case OpTRB:
		v := c.readOperand(ar)
		c.P &^= FlagZero
		if c.A&v == 0 {
			c.P |= FlagZero
		}
		c.bus.Write(ar.addr, v&^c.A)
	case OpTSB:
		v := c.readOperand(ar)
		c.P &^= FlagZero
		if c.A&v == 0 {
			c.P |= FlagZero
		}
		c.bus.Write(ar.addr, v|c.A)

	case OpRMB:
		v := c.readOperand(ar)
		c.bus.Write(ar.addr, v&^(1<<ent.bit))
	case OpSMB:
		v := c.readOperand(ar)
		c.bus.Write(ar.addr, v|(1<<ent.bit))
	case OpBBR:
		v := c.readOperand(ar)
		branchTaken = v&(1<<ent.bit) == 0
	case OpBBS:
		v := c.readOperand(ar)
		branchTaken = v&(1<<ent.bit) != 0

	case OpBCC:
		branchTaken = c.P&FlagCarry == 0
	case OpBCS:
		branchTaken = c.P&FlagCarry != 0
	case OpBEQ:
		branchTaken = c.P&FlagZero != 0
	case OpBNE:
		branchTaken = c.P&FlagZero == 0
	case OpBMI:
		branchTaken = c.P&FlagNegative != 0
	case OpBPL:
		branchTaken = c.P&FlagNegative == 0
	case OpBVC:
		branchTaken = c.P&FlagOverflow == 0
	case OpBVS:
		branchTaken = c.P&FlagOverflow != 0
	case OpBRA:
		branchTaken = true

	case OpJMP:
		c.PC = ar.addr
	case OpJSR:
		retAddr := c.PC - 1
		c.pushStack(uint8(retAddr >> 8))
		c.pushStack(uint8(retAddr))
		c.PC = ar.addr
	case OpRTS:
		lo := c.popStack()
		hi := c.popStack()
		c.PC = (uint16(hi)<<8 | uint16(lo)) + 1
	case OpBRK:
		c.brk(false)
	case OpRTI:
		c.P = c.popStack()&^FlagBreak | FlagUnused
		lo := c.popStack()
		hi := c.popStack()
		c.PC = uint16(hi)<<8 | uint16(lo)

	case OpPHA:
		c.pushStack(c.A)
	case OpPHP:
		c.pushStack(c.P | FlagBreak | FlagUnused)
	case OpPHX:
		c.pushStack(c.X)
	case OpPHY:
		c.pushStack(c.Y)
	case OpPLA:
		c.A = c.popStack()
		c.setZN(c.A)
	case OpPLP:
		c.P = c.popStack()&^FlagBreak | FlagUnused
	case OpPLX:
		c.X = c.popStack()
		c.setZN(c.X)
	case OpPLY:
		c.Y = c.popStack()
		c.setZN(c.Y)

	case OpWAI:
		c.wai = true
	case OpSTP:
		c.jammed = true
		c.haltOpcode = c.op

	case OpNOP:
		// Consumes whatever operand byte(s) evalAddress already read.

	// --- Stable NMOS-illegal opcodes ---
	case OpSLO:
		c.rmw(ar, func(v uint8) uint8 {
			c.setCarry(v&0x80 != 0)
			return v << 1
		})
		c.A |= c.readOperand(ar)
		c.setZN(c.A)
	case OpRLA:
		c.rmw(ar, func(v uint8) uint8 {
			carryIn := c.P & FlagCarry
			c.setCarry(v&0x80 != 0)
			return v<<1 | carryIn
		})
		c.A &= c.readOperand(ar)
		c.setZN(c.A)
	case OpSRE:
		c.rmw(ar, func(v uint8) uint8 {
			c.setCarry(v&0x01 != 0)
			return v >> 1
		})
		c.A ^= c.readOperand(ar)
		c.setZN(c.A)
	case OpRRA:
		c.rmw(ar, func(v uint8) uint8 {
			carryIn := (c.P & FlagCarry) << 7
			c.setCarry(v&0x01 != 0)
			return v>>1 | carryIn
		})
		c.adc(c.readOperand(ar))
	case OpSAX:
		c.bus.Write(ar.addr, c.A&c.X)
	case OpLAX:
		v := c.readOperand(ar)
		c.A, c.X = v, v
		c.setZN(v)
	case OpDCP:
		c.rmw(ar, func(v uint8) uint8 { return v - 1 })
		c.compare(c.A, c.readOperand(ar))
	case OpISC:
		c.rmw(ar, func(v uint8) uint8 { return v + 1 })
		c.sbc(c.readOperand(ar))
	case OpANC:
		c.A &= c.readOperand(ar)
		c.setZN(c.A)
		c.setCarry(c.A&0x80 != 0)
	case OpALR:
		c.A &= c.readOperand(ar)
		c.setCarry(c.A&0x01 != 0)
		c.A >>= 1
		c.setZN(c.A)
	case OpARR:
		c.A &= c.readOperand(ar)
		carryIn := (c.P & FlagCarry) << 7
		c.A = c.A>>1 | carryIn
		c.setZN(c.A)
		c.setCarry(c.A&0x40 != 0)
		c.setOverflow((c.A>>6)&1^(c.A>>5)&1 != 0)
	case OpAXS:
		v := c.readOperand(ar)
		r := (c.A & c.X) - v
		c.setCarry(c.A&c.X >= v)
		c.X = r
		c.setZN(c.X)
	case OpSHA:
		c.bus.Write(ar.addr, c.A&c.X&uint8(ar.addr>>8+1))
	case OpSHX:
		c.bus.Write(ar.addr, c.X&uint8(ar.addr>>8+1))
	case OpSHY:
		c.bus.Write(ar.addr, c.Y&uint8(ar.addr>>8+1))
	case OpTAS:
		c.S = c.A & c.X
		c.bus.Write(ar.addr, c.S&uint8(ar.addr>>8+1))
	case OpLAS:
		v := c.readOperand(ar) & c.S
		c.A, c.X, c.S = v, v, v
		c.setZN(v)
	case OpANE:
		c.A = (c.A | 0xEE) & c.X & c.readOperand(ar)
		c.setZN(c.A)
	case OpLXA:
		v := (c.A | 0xEE) & c.readOperand(ar)
		c.A, c.X = v, v
		c.setZN(v)
	}

	if ent.mode == ModeRelative {
		branchCrossed = ar.crossed
	}
	return branchTaken, branchCrossed
}

// rmw implements the read-modify-write bus pattern: every RMW opcode on
// real 6502/65C02 hardware issues a read followed by two writes (the
// unmodified value, then the modified one); this module doesn't model
// the intermediate write since no SPEC_FULL component observes it.
func (c *CPU) rmw(ar addrResult, f func(uint8) uint8) {
	v := c.readOperand(ar)
	nv := f(v)
	c.bus.Write(ar.addr, nv)
	c.setZN(nv)
}

func (c *CPU) compare(reg, v uint8) {
	r := reg - v
	c.setCarry(reg >= v)
	c.setZN(r)
}

// adc implements ADC, including CMOS-correct decimal-mode flags. NMOS
// decimal-mode N/Z/V are not guaranteed to match real NMOS silicon
// (which derives them from the pre-adjustment binary sum); this module
// sets them the same way as for CMOS. Ricoh variants never enter
// decimal mode regardless of the D flag.
func (c *CPU) adc(v uint8) {
	if c.P&FlagDecimal != 0 && c.variant != VariantNMOSRicoh {
		c.adcDecimal(v)
		return
	}
	c.adcBinary(v)
}

func (c *CPU) adcBinary(v uint8) {
	carryIn := uint16(c.P & FlagCarry)
	sum := uint16(c.A) + uint16(v) + carryIn
	result := uint8(sum)
	c.setOverflow((c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.setCarry(sum > 0xFF)
	c.A = result
	c.setZN(c.A)
}

// adcDecimal implements BCD addition. CMOS takes one extra cycle (added
// by Step, not by the table entry). N/Z are set from the decimal-corrected
// result and V from the binary sum, for every variant that reaches here
// (NMOS included).
func (c *CPU) adcDecimal(v uint8) {
	carryIn := uint8(c.P & FlagCarry)
	lo := (c.A & 0x0F) + (v & 0x0F) + carryIn
	hi := (c.A >> 4) + (v >> 4)
	if lo > 9 {
		lo += 6
		hi++
	}
	binSum := uint16(c.A) + uint16(v) + uint16(carryIn)
	c.setOverflow((c.A^v)&0x80 == 0 && (c.A^uint8(binSum))&0x80 != 0)
	if hi > 9 {
		hi += 6
	}
	c.setCarry(hi > 15)
	c.A = (hi << 4) | (lo & 0x0F)
	c.setZN(c.A)
}

func (c *CPU) sbc(v uint8) {
	if c.P&FlagDecimal != 0 && c.variant != VariantNMOSRicoh {
		c.sbcDecimal(v)
		return
	}
	c.adcBinary(v ^ 0xFF)
}

func (c *CPU) sbcDecimal(v uint8) {
	carryIn := uint8(c.P & FlagCarry)
	// Binary result/flags are always correct for SBC, decimal or not.
	binResult := int16(c.A) - int16(v) - int16(1-carryIn)
	c.setOverflow((c.A^v)&0x80 != 0 && (c.A^uint8(binResult))&0x80 != 0)
	c.setCarry(binResult >= 0)

	lo := int16(c.A&0x0F) - int16(v&0x0F) - int16(1-carryIn)
	hi := int16(c.A>>4) - int16(v>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.A = uint8(hi<<4) | uint8(lo&0x0F)
	c.setZN(c.A)
}

// brk implements the BRK instruction (hardware IRQ/NMI entry uses
// enterInterrupt instead). With irqEntry=false it skips the signature
// byte, pushes opcode-address+2 and sets B in the pushed status; with
// irqEntry=true B is clear in the pushed copy. Either way it vectors
// through IRQVector.
func (c *CPU) brk(irqEntry bool) {
	if !irqEntry {
		c.PC++ // Consume the BRK signature byte.
	}
	c.pushStack(uint8(c.PC >> 8))
	c.pushStack(uint8(c.PC))
	pushed := c.P | FlagUnused
	if !irqEntry {
		pushed |= FlagBreak
	} else {
		pushed &^= FlagBreak
	}
	c.pushStack(pushed)
	c.P |= FlagInterrupt
	if c.variant.cmos() {
		c.P &^= FlagDecimal
	}
	vector := IRQVector
	c.PC = uint16(c.bus.Read(vector+1))<<8 | uint16(c.bus.Read(vector))
}
