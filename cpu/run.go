package cpu

// Step executes exactly one instruction (or, if jammed, does nothing and
// returns the JammedError again) and returns the number of cycles it
// took. Interrupts are checked and, if pending, serviced in place of the
// next instruction fetch.
func (c *CPU) Step() (cycles int, err error) {
	if c.jammed {
		// Still costs a cycle of real time per call so RunCycles loops
		// driven by an already-jammed CPU make bounded progress.
		return 1, &JammedError{Opcode: c.haltOpcode}
	}

	if serviced, n := c.checkInterrupts(); serviced {
		return n, nil
	}

	if c.wai {
		// Parked until an interrupt pin is serviced above; still costs
		// a cycle of real time so callers driving RunCycles make progress.
		return 1, nil
	}

	c.opAddr = c.PC
	c.op = c.bus.Read(c.PC)
	c.PC++

	ent := c.table.entries[c.op]
	var ar addrResult
	if ent.mode != ModeImplied && ent.mode != ModeAccumulator {
		ar = c.evalAddress(ent.mode)
	}

	decimalADCSBC := (ent.op == OpADC || ent.op == OpSBC) && c.variant.cmos() && c.P&FlagDecimal != 0

	taken, crossed := c.execute(ent, ar)

	cycles = int(ent.cycles)
	cycles += readPenalty(ent.mode, ar.crossed)
	if decimalADCSBC {
		// CMOS decimal-mode ADC/SBC costs one extra cycle versus binary
		// mode; NMOS decimal mode does not.
		cycles++
	}
	if ent.mode == ModeRelative {
		if taken {
			cycles++
			if crossed {
				cycles++
			}
			c.PC = ar.addr
		}
	} else if ent.op == OpBBR || ent.op == OpBBS {
		// BBR/BBS read the zero-page operand then a signed relative
		// displacement; evalAddress for ModeZeroPage already
		// consumed the zero-page byte, so the displacement is read here.
		off := int8(c.fetchOperandByte())
		if taken {
			cycles++
			next := c.PC
			target := uint16(int32(next) + int32(off))
			if next&0xFF00 != target&0xFF00 {
				cycles++
			}
			c.PC = target
		}
	}

	if c.jammed {
		return cycles, &JammedError{Opcode: c.haltOpcode}
	}
	return cycles, nil
}

// RunInstructions executes up to n instructions, stopping early (without
// error) only because n was reached, and stopping with error if the CPU
// jams mid-run. Interrupt servicing counts as a step.
func (c *CPU) RunInstructions(n int) (executed int, cycles int, err error) {
	for i := 0; i < n; i++ {
		wasJammed := c.jammed
		cy, err := c.Step()
		cycles += cy
		if !wasJammed {
			executed++
		}
		if err != nil {
			return executed, cycles, err
		}
	}
	return executed, cycles, nil
}

// RunCycles executes instructions until at least n cycles have elapsed
// (the final instruction may overrun n; this never truncates an
// in-progress instruction) or the CPU jams.
func (c *CPU) RunCycles(n int) (cycles int, err error) {
	for cycles < n {
		cy, err := c.Step()
		cycles += cy
		if err != nil {
			return cycles, err
		}
	}
	return cycles, nil
}

// checkInterrupts services a pending NMI (priority) or level-asserted IRQ
// at an instruction boundary, per spec: NMI is edge-latched and always
// wins when both are pending; IRQ only fires with I clear, except a WAI
// wake-up which accepts either pin regardless of I.
func (c *CPU) checkInterrupts() (serviced bool, cycles int) {
	if c.nmi == Asserted && !c.nmiLatched {
		c.nmiLatched = true
		c.wai = false
		c.enterInterrupt(NMIVector)
		return true, 7
	}
	if c.irq == Asserted && (c.P&FlagInterrupt == 0 || c.wai) {
		c.wai = false
		c.enterInterrupt(IRQVector)
		return true, 7
	}
	return false, 0
}

func (c *CPU) enterInterrupt(vector uint16) {
	c.pushStack(uint8(c.PC >> 8))
	c.pushStack(uint8(c.PC))
	c.pushStack((c.P | FlagUnused) &^ FlagBreak)
	c.P |= FlagInterrupt
	if c.variant.cmos() {
		c.P &^= FlagDecimal
	}
	c.PC = uint16(c.bus.Read(vector+1))<<8 | uint16(c.bus.Read(vector))
}
