// Package cpu implements the MOS 6502 family of processors and its CMOS
// descendants (65C02, WDC W65C02, Rockwell R65C02). It models register
// state, interrupt pins, and per-instruction cycle timing; all memory
// access is delegated to host-supplied callbacks.
package cpu

import (
	"fmt"

	"github.com/jmchacon/go6502/irq"
)

// Variant selects which opcode table and behavioural quirks a CPU uses.
type Variant int

// Supported processor variants.
const (
	VariantUnknown          Variant = iota // Zero value is deliberately invalid.
	VariantNMOS                            // Documented NMOS 6502/6510 opcodes only.
	VariantNMOSUndocumented                // NMOS 6502/6510 including stable illegal opcodes.
	VariantNMOSRicoh                       // Ricoh 2A03/2A07 (as used in the NES): NMOS+undocumented, no BCD.
	VariantCMOS                            // Generic CMOS 65C02.
	VariantWDC65C02                        // 65C02 plus WAI/STP.
	VariantRockwell65C02                   // 65C02 plus RMB/SMB/BBR/BBS.
	variantMax

	// Aliases matching the naming used by other emulators of this family.
	Variant6510 = VariantNMOSUndocumented
	Variant8500 = VariantNMOSUndocumented
	Variant8502 = VariantNMOSUndocumented
	Variant7501 = VariantNMOS
	Variant8501 = VariantNMOS
)

// String implements fmt.Stringer for diagnostics and test output.
func (v Variant) String() string {
	switch v {
	case VariantNMOS:
		return "NMOS"
	case VariantNMOSUndocumented:
		return "NMOS+Undocumented"
	case VariantNMOSRicoh:
		return "NMOS-Ricoh"
	case VariantCMOS:
		return "CMOS"
	case VariantWDC65C02:
		return "WDC65C02"
	case VariantRockwell65C02:
		return "Rockwell65C02"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

func (v Variant) cmos() bool {
	return v == VariantCMOS || v == VariantWDC65C02 || v == VariantRockwell65C02
}

// Flag bits within the P (status) register.
const (
	FlagCarry     = uint8(0x01)
	FlagZero      = uint8(0x02)
	FlagInterrupt = uint8(0x04)
	FlagDecimal   = uint8(0x08)
	FlagBreak     = uint8(0x10) // Software-only; never physically stored.
	FlagUnused    = uint8(0x20) // Always reads as 1 when pushed.
	FlagOverflow  = uint8(0x40)
	FlagNegative  = uint8(0x80)
)

// Hardware vectors.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

const stackBase = uint16(0x0100)

// Bus is the memory interface the host supplies. All reads/writes during
// normal execution go through this; a read may have side effects on
// memory-mapped devices.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// DebugBus is an optional extension of Bus a host can provide so the
// disassembler can read memory without perturbing memory-mapped device
// state. If the bus passed to disassemble.Step doesn't implement this,
// it falls back to Read and the caller accepts that devices may be
// disturbed.
type DebugBus interface {
	Bus
	ReadDebug(addr uint16) uint8
}

// PinLevel models the level of an interrupt input pin. Both IRQ and NMI
// are active-low on real hardware; Asserted represents that low level.
type PinLevel bool

// Pin levels.
const (
	Cleared  PinLevel = false
	Asserted PinLevel = true
)

// JammedError reports that the CPU has entered the halted JAM state,
// either from executing an NMOS illegal lock opcode, a WDC STP, or a
// host-requested Jam call.
type JammedError struct {
	Opcode uint8
}

func (e *JammedError) Error() string {
	return fmt.Sprintf("cpu: jammed by opcode 0x%02X", e.Opcode)
}

// InvalidVariantError reports a Variant outside the supported range.
type InvalidVariantError struct {
	Variant Variant
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("cpu: invalid variant %d", int(e.Variant))
}

// Definition configures a new CPU.
type Definition struct {
	Variant Variant
	Bus     Bus
}

// CPU holds the complete architectural state of a single 65xx processor.
// A CPU must not be driven from more than one goroutine concurrently;
// independent CPU instances may run on independent goroutines without
// contention since there is no shared global state.
type CPU struct {
	A, X, Y uint8
	S       uint8
	P       uint8
	PC      uint16

	variant Variant
	table   *opcodeTable
	bus     Bus

	irq PinLevel
	nmi PinLevel

	jammed     bool
	haltOpcode uint8
	wai        bool
	nmiLatched bool // True once the current NMI assertion has been serviced.

	op     uint8  // Opcode of the instruction currently/most recently fetched.
	opAddr uint16 // Fetch address of op.
}

// New creates a CPU of the requested variant, wired to bus, and performs
// power-on reset. Registers A/X/Y are unspecified after power-on (as on
// real hardware); callers that need determinism should set them explicitly.
func New(def *Definition) (*CPU, error) {
	t := tableFor(def.Variant)
	if t == nil {
		return nil, &InvalidVariantError{def.Variant}
	}
	c := &CPU{
		variant: def.Variant,
		table:   t,
		bus:     def.Bus,
	}
	c.Reset()
	return c, nil
}

// Reset reinitializes PC from the reset vector, sets S to 0xFD and P to
// 0x34 (I=1, U=1, B=1-image), and clears JAM/WAI/NMI-edge state. A/X/Y
// are left untouched, matching real hardware.
func (c *CPU) Reset() {
	c.S = 0xFD
	c.P = FlagInterrupt | FlagUnused | FlagBreak
	c.jammed = false
	c.haltOpcode = 0
	c.wai = false
	c.nmiLatched = false
	lo := c.bus.Read(ResetVector)
	hi := c.bus.Read(ResetVector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

// Variant returns the CPU's configured variant.
func (c *CPU) Variant() Variant { return c.variant }

// SetIRQ sets the level of the IRQ pin. IRQ is level-triggered: as long
// as it is Asserted and I is clear, the interrupt fires at every
// instruction boundary.
func (c *CPU) SetIRQ(level PinLevel) { c.irq = level }

// IRQ returns the current level of the IRQ pin.
func (c *CPU) IRQ() PinLevel { return c.irq }

// SetIRQFromSenders aggregates one or more irq.Sender devices onto this
// CPU's single physical IRQ pin: the pin reads Asserted whenever any
// sender currently holds its line high. Call this whenever a device's
// interrupt state may have changed, e.g. after driving a peripheral
// that owns an irq.Line.
func (c *CPU) SetIRQFromSenders(senders ...irq.Sender) {
	c.SetIRQ(PinLevel(irq.Raised(senders...)))
}

// SetNMI sets the level of the NMI pin. NMI is edge-triggered: only the
// Cleared->Asserted transition schedules an NMI entry, latched so a
// held-Asserted pin doesn't refire until it's released and reasserted.
func (c *CPU) SetNMI(level PinLevel) {
	if level == Cleared {
		c.nmiLatched = false
	}
	c.nmi = level
}

// NMI returns the current level of the NMI pin.
func (c *CPU) NMI() PinLevel { return c.nmi }

// Jam forces the CPU into the halted JAM state. Only Reset or Unjam clears it.
func (c *CPU) Jam() {
	c.jammed = true
	c.haltOpcode = c.op
}

// Unjam is a host-only action clearing JAM without a full Reset.
func (c *CPU) Unjam() {
	c.jammed = false
	c.haltOpcode = 0
}

// Jammed reports whether the CPU is currently halted.
func (c *CPU) Jammed() bool { return c.jammed }

// Waiting reports whether the CPU is parked in a WDC WAI.
func (c *CPU) Waiting() bool { return c.wai }

// Opcode returns the most recently fetched opcode byte and its fetch address.
func (c *CPU) Opcode() (op uint8, addr uint16) { return c.op, c.opAddr }

// NextOpcode returns the opcode byte at the current PC without advancing
// any state (a plain Read, which may have device side effects).
func (c *CPU) NextOpcode() uint8 { return c.bus.Read(c.PC) }

// Mnemonic returns the textual mnemonic this CPU's variant uses for op,
// independent of the disassembler.
func (c *CPU) Mnemonic(op uint8) string {
	return mnemonics[c.table.entries[op].op]
}

// AddrMode returns the addressing mode this CPU's variant uses for op.
func (c *CPU) AddrMode(op uint8) AddressMode {
	return c.table.entries[op].mode
}

// OpcodeBit returns the bit index (0-7) for op when it is one of the
// Rockwell RMB/SMB/BBR/BBS opcodes, and 0 otherwise.
func (c *CPU) OpcodeBit(op uint8) uint8 {
	return c.table.entries[op].bit
}

// IsBitBranch reports whether op is one of the Rockwell bit-branch opcodes
// (BBR/BBS), which the disassembler needs to know about separately from
// mode since they carry both a zero-page operand and a displacement.
func (c *CPU) IsBitBranch(op uint8) bool {
	o := c.table.entries[op].op
	return o == OpBBR || o == OpBBS
}

func (c *CPU) pushStack(val uint8) {
	c.bus.Write(stackBase+uint16(c.S), val)
	c.S--
}

func (c *CPU) popStack() uint8 {
	c.S++
	return c.bus.Read(stackBase + uint16(c.S))
}

func (c *CPU) setZN(val uint8) {
	c.P &^= FlagZero | FlagNegative
	if val == 0 {
		c.P |= FlagZero
	}
	if val&0x80 != 0 {
		c.P |= FlagNegative
	}
}

func (c *CPU) setCarry(cond bool) {
	c.P &^= FlagCarry
	if cond {
		c.P |= FlagCarry
	}
}

func (c *CPU) setOverflow(cond bool) {
	c.P &^= FlagOverflow
	if cond {
		c.P |= FlagOverflow
	}
}
