// Package disassemble renders 6502-family instructions as text, sharing
// the exact opcode/addressing-mode/mnemonic tables a cpu.CPU uses so
// disassembly never drifts from execution semantics for the same variant.
package disassemble

import (
	"fmt"

	"github.com/jmchacon/go6502/cpu"
)

func read(bus cpu.Bus, addr uint16) uint8 {
	if db, ok := bus.(cpu.DebugBus); ok {
		return db.ReadDebug(addr)
	}
	return bus.Read(addr)
}

// Step disassembles the single instruction at pc and returns its text,
// the address immediately following it, and (for instructions that name
// an address) that referenced address plus hasRef=true. labels, if non-nil,
// is consulted to print a symbolic name in place of a raw absolute,
// zero-page, or relative address.
func Step(c *cpu.CPU, bus cpu.Bus, pc uint16, labels map[uint16]string) (text string, next uint16, ref uint16, hasRef bool) {
	op := read(bus, pc)
	mnem := c.Mnemonic(op)
	mode := c.AddrMode(op)
	p := pc + 1

	sym := func(addr uint16) string {
		if labels != nil {
			if name, ok := labels[addr]; ok {
				return name
			}
		}
		return fmt.Sprintf("$%04X", addr)
	}
	symZP := func(addr uint8) string {
		if labels != nil {
			if name, ok := labels[uint16(addr)]; ok {
				return name
			}
		}
		return fmt.Sprintf("$%02X", addr)
	}

	if c.IsBitBranch(op) {
		zp := read(bus, p)
		off := int8(read(bus, p+1))
		target := uint16(int32(p+2) + int32(off))
		bit := c.OpcodeBit(op)
		text = fmt.Sprintf("%s%d %s,%s", mnem, bit, symZP(zp), sym(target))
		return text, p + 2, target, true
	}
	if mode == cpu.ModeZeroPage && (mnem == "RMB" || mnem == "SMB") {
		zp := read(bus, p)
		bit := c.OpcodeBit(op)
		text = fmt.Sprintf("%s%d %s", mnem, bit, symZP(zp))
		return text, p + 1, uint16(zp), true
	}

	switch mode {
	case cpu.ModeImplied:
		return mnem, p, 0, false
	case cpu.ModeAccumulator:
		return mnem + " A", p, 0, false
	case cpu.ModeImmediate:
		v := read(bus, p)
		return fmt.Sprintf("%s #$%02X", mnem, v), p + 1, 0, false
	case cpu.ModeZeroPage:
		zp := read(bus, p)
		return fmt.Sprintf("%s %s", mnem, symZP(zp)), p + 1, uint16(zp), true
	case cpu.ModeZeroPageX:
		zp := read(bus, p)
		return fmt.Sprintf("%s %s,X", mnem, symZP(zp)), p + 1, uint16(zp), true
	case cpu.ModeZeroPageY:
		zp := read(bus, p)
		return fmt.Sprintf("%s %s,Y", mnem, symZP(zp)), p + 1, uint16(zp), true
	case cpu.ModeZeroPageIndirect:
		zp := read(bus, p)
		return fmt.Sprintf("%s (%s)", mnem, symZP(zp)), p + 1, uint16(zp), true
	case cpu.ModeIndirectX:
		zp := read(bus, p)
		return fmt.Sprintf("%s (%s,X)", mnem, symZP(zp)), p + 1, uint16(zp), true
	case cpu.ModeIndirectY, cpu.ModeIndirectYStore:
		zp := read(bus, p)
		return fmt.Sprintf("%s (%s),Y", mnem, symZP(zp)), p + 1, uint16(zp), true
	case cpu.ModeAbsolute:
		addr := uint16(read(bus, p)) | uint16(read(bus, p+1))<<8
		return fmt.Sprintf("%s %s", mnem, sym(addr)), p + 2, addr, true
	case cpu.ModeAbsoluteX, cpu.ModeAbsoluteXStore:
		addr := uint16(read(bus, p)) | uint16(read(bus, p+1))<<8
		return fmt.Sprintf("%s %s,X", mnem, sym(addr)), p + 2, addr, true
	case cpu.ModeAbsoluteY, cpu.ModeAbsoluteYStore:
		addr := uint16(read(bus, p)) | uint16(read(bus, p+1))<<8
		return fmt.Sprintf("%s %s,Y", mnem, sym(addr)), p + 2, addr, true
	case cpu.ModeRelative:
		off := int8(read(bus, p))
		target := uint16(int32(p+1) + int32(off))
		return fmt.Sprintf("%s %s", mnem, sym(target)), p + 1, target, true
	case cpu.ModeAbsoluteIndirect:
		addr := uint16(read(bus, p)) | uint16(read(bus, p+1))<<8
		return fmt.Sprintf("%s (%s)", mnem, sym(addr)), p + 2, addr, true
	case cpu.ModeAbsoluteIndexedIndirect:
		addr := uint16(read(bus, p)) | uint16(read(bus, p+1))<<8
		return fmt.Sprintf("%s (%s,X)", mnem, sym(addr)), p + 2, addr, true
	}
	return mnem, p, 0, false
}

// Truncate clamps s to at most max bytes, matching the original reference
// implementation's fixed-size output buffer: callers that embed
// disassembly into a bounded display never need to fail, only truncate.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
