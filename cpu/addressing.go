package cpu

// AddressMode identifies the effective-address computation an opcode uses.
// Disassembly formatting is keyed off this, not off the underlying Go
// function (several modes share an evaluator and differ only in whether
// the page-crossing read penalty applies).
type AddressMode int

// Supported addressing modes.
const (
	ModeImplied AddressMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeZeroPageIndirect // CMOS: (zp)
	ModeIndirectX        // (zp,X)
	ModeIndirectY        // (zp),Y -- read-style, pays the page-cross penalty
	ModeIndirectYStore   // (zp),Y -- write/RMW-style, always pays the worst case
	ModeAbsolute
	ModeAbsoluteX      // read-style
	ModeAbsoluteXStore // write/RMW-style
	ModeAbsoluteY      // read-style
	ModeAbsoluteYStore // write/RMW-style
	ModeRelative
	ModeAbsoluteIndirect        // JMP (a)
	ModeAbsoluteIndexedIndirect // CMOS JMP (a,X)
)

// addrResult is what every non-trivial addressing-mode evaluator produces:
// the effective address and whether a page boundary was crossed computing it.
type addrResult struct {
	addr    uint16
	crossed bool
}

// fetchOperandByte reads the next operand byte at PC and advances PC.
// Implied and Accumulator modes never call it, so single-byte
// instructions (e.g. NOP) do not read the byte after the opcode.
func (c *CPU) fetchOperandByte() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchOperandWord() uint16 {
	lo := c.fetchOperandByte()
	hi := c.fetchOperandByte()
	return uint16(hi)<<8 | uint16(lo)
}

// addrImmediate returns the address of the operand byte itself (i.e. PC
// before the fetch), consuming one operand byte.
func (c *CPU) addrImmediate() addrResult {
	addr := c.PC
	c.PC++
	return addrResult{addr: addr}
}

// addrZeroPage implements mode "d".
func (c *CPU) addrZeroPage() addrResult {
	return addrResult{addr: uint16(c.fetchOperandByte())}
}

// addrZeroPageX implements mode "d,X", wrapping within the zero page.
func (c *CPU) addrZeroPageX() addrResult {
	zp := c.fetchOperandByte()
	return addrResult{addr: uint16(zp + c.X)}
}

// addrZeroPageY implements mode "d,Y", wrapping within the zero page.
func (c *CPU) addrZeroPageY() addrResult {
	zp := c.fetchOperandByte()
	return addrResult{addr: uint16(zp + c.Y)}
}

// addrZeroPageIndirect implements the CMOS "(d)" mode.
func (c *CPU) addrZeroPageIndirect() addrResult {
	zp := c.fetchOperandByte()
	lo := c.bus.Read(uint16(zp))
	hi := c.bus.Read(uint16(zp + 1))
	return addrResult{addr: uint16(hi)<<8 | uint16(lo)}
}

// addrIndirectX implements mode "(d,X)": index into the zero page first,
// then dereference, both wrapping within page zero.
func (c *CPU) addrIndirectX() addrResult {
	zp := c.fetchOperandByte() + c.X
	lo := c.bus.Read(uint16(zp))
	hi := c.bus.Read(uint16(zp + 1))
	return addrResult{addr: uint16(hi)<<8 | uint16(lo)}
}

// addrIndirectY implements mode "(d),Y": dereference the zero page pointer,
// then add Y to the 16-bit result, reporting whether that addition
// crossed a page.
func (c *CPU) addrIndirectY() addrResult {
	zp := c.fetchOperandByte()
	lo := c.bus.Read(uint16(zp))
	hi := c.bus.Read(uint16(zp + 1))
	base := uint16(hi)<<8 | uint16(lo)
	addr := base + uint16(c.Y)
	return addrResult{addr: addr, crossed: (base & 0xFF00) != (addr & 0xFF00)}
}

// addrAbsolute implements mode "a".
func (c *CPU) addrAbsolute() addrResult {
	return addrResult{addr: c.fetchOperandWord()}
}

// addrAbsoluteX implements mode "a,X".
func (c *CPU) addrAbsoluteX() addrResult {
	return c.addrAbsoluteIndexed(c.X)
}

// addrAbsoluteY implements mode "a,Y".
func (c *CPU) addrAbsoluteY() addrResult {
	return c.addrAbsoluteIndexed(c.Y)
}

func (c *CPU) addrAbsoluteIndexed(reg uint8) addrResult {
	base := c.fetchOperandWord()
	addr := base + uint16(reg)
	return addrResult{addr: addr, crossed: (base & 0xFF00) != (addr & 0xFF00)}
}

// addrRelative implements the branch displacement operand: returns the
// target address a taken branch would land on (PC already points past
// the operand byte), and whether that differs in page from the
// instruction following the branch (the defined "taken, crossed" case).
func (c *CPU) addrRelative() addrResult {
	off := int8(c.fetchOperandByte())
	next := c.PC
	target := uint16(int32(next) + int32(off))
	return addrResult{addr: target, crossed: (next & 0xFF00) != (target & 0xFF00)}
}

// addrAbsoluteIndirect implements JMP (a). On NMOS the high-byte fetch
// famously wraps within the same page when the low byte of the pointer
// is 0xFF; CMOS performs the correct cross-page fetch (and the extra
// cycle this costs is accounted for in the CMOS cycle table entry).
func (c *CPU) addrAbsoluteIndirect() addrResult {
	ptr := c.fetchOperandWord()
	lo := c.bus.Read(ptr)
	var hiAddr uint16
	if c.variant.cmos() {
		hiAddr = ptr + 1
	} else {
		hiAddr = (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	}
	hi := c.bus.Read(hiAddr)
	return addrResult{addr: uint16(hi)<<8 | uint16(lo)}
}

// addrAbsoluteIndexedIndirect implements the CMOS JMP (a,X) mode.
func (c *CPU) addrAbsoluteIndexedIndirect() addrResult {
	base := c.fetchOperandWord()
	ptr := base + uint16(c.X)
	lo := c.bus.Read(ptr)
	hi := c.bus.Read(ptr + 1)
	return addrResult{addr: uint16(hi)<<8 | uint16(lo)}
}

// evalAddress dispatches to the evaluator for mode. Implied and
// Accumulator modes consume no operand bytes and have no effective
// address; callers must check for those before calling this.
func (c *CPU) evalAddress(mode AddressMode) addrResult {
	switch mode {
	case ModeImmediate:
		return c.addrImmediate()
	case ModeZeroPage:
		return c.addrZeroPage()
	case ModeZeroPageX:
		return c.addrZeroPageX()
	case ModeZeroPageY:
		return c.addrZeroPageY()
	case ModeZeroPageIndirect:
		return c.addrZeroPageIndirect()
	case ModeIndirectX:
		return c.addrIndirectX()
	case ModeIndirectY, ModeIndirectYStore:
		return c.addrIndirectY()
	case ModeAbsolute:
		return c.addrAbsolute()
	case ModeAbsoluteX, ModeAbsoluteXStore:
		return c.addrAbsoluteX()
	case ModeAbsoluteY, ModeAbsoluteYStore:
		return c.addrAbsoluteY()
	case ModeRelative:
		return c.addrRelative()
	case ModeAbsoluteIndirect:
		return c.addrAbsoluteIndirect()
	case ModeAbsoluteIndexedIndirect:
		return c.addrAbsoluteIndexedIndirect()
	}
	return addrResult{}
}

// readPenalty reports whether mode incurs the +1 page-crossing cycle for
// read-style instructions (write/RMW opcodes always use the *Store
// variant of indexed modes and never get this penalty; they pay the
// worst case in their base cycle count instead).
func readPenalty(mode AddressMode, crossed bool) int {
	if !crossed {
		return 0
	}
	switch mode {
	case ModeAbsoluteX, ModeAbsoluteY, ModeIndirectY:
		return 1
	}
	return 0
}
