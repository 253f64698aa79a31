package cpu

// Operation identifies the semantic action an opcode performs, independent
// of addressing mode. Several opcodes across variants share an Operation
// (e.g. every indexed ADC) and differ only in the opEntry's mode/cycles.
type Operation int

// Supported operations. The first group is the documented 6502/65C02
// instruction set (entries marked with a variant tag exist only on that
// family); the group under "Stable NMOS-illegal opcodes" covers illegal
// opcodes that are useful and stable enough that software relies on them.
const (
	OpNone Operation = iota
	opJam            // NMOS illegal lock opcode.

	OpADC
	OpAND
	OpASL
	OpASLAcc
	OpBCC
	OpBCS
	OpBEQ
	OpBIT
	OpBITImm // CMOS: BIT #imm only affects Z, not N/V.
	OpBMI
	OpBNE
	OpBPL
	OpBRA // CMOS unconditional branch.
	OpBRK
	OpBVC
	OpBVS
	OpCLC
	OpCLD
	OpCLI
	OpCLV
	OpCMP
	OpCPX
	OpCPY
	OpDEC
	OpDECAcc // CMOS.
	OpDEX
	OpDEY
	OpEOR
	OpINC
	OpINCAcc // CMOS.
	OpINX
	OpINY
	OpJMP
	OpJSR
	OpLDA
	OpLDX
	OpLDY
	OpLSR
	OpLSRAcc
	OpNOP
	OpORA
	OpPHA
	OpPHP
	OpPHX // CMOS.
	OpPHY // CMOS.
	OpPLA
	OpPLP
	OpPLX // CMOS.
	OpPLY // CMOS.
	OpROL
	OpROLAcc
	OpROR
	OpRORAcc
	OpRTI
	OpRTS
	OpSBC
	OpSEC
	OpSED
	OpSEI
	OpSTA
	OpSTX
	OpSTY
	OpSTP // WDC.
	OpSTZ // CMOS.
	OpTAX
	OpTAY
	OpTRB // CMOS.
	OpTSB // CMOS.
	OpTSX
	OpTXA
	OpTXS
	OpTYA
	OpWAI // WDC.

	// Rockwell bit-manipulation family; opEntry.bit selects 0-7.
	OpRMB
	OpSMB
	OpBBR
	OpBBS

	// Stable NMOS-illegal opcodes.
	OpSLO
	OpRLA
	OpSRE
	OpRRA
	OpSAX
	OpLAX
	OpDCP
	OpISC
	OpANC
	OpALR
	OpARR
	OpAXS // a.k.a. SBX.
	OpSHA // a.k.a. AHX.
	OpSHX
	OpSHY
	OpTAS // a.k.a. SHS.
	OpLAS
	OpANE // a.k.a. XAA, highly unstable on real silicon.
	OpLXA // a.k.a. ANX/LAX-imm, highly unstable on real silicon.
)

// mnemonics gives the canonical text for each Operation, independent of
// addressing mode; the disassembler appends the operand text itself.
var mnemonics = map[Operation]string{
	OpNone: "???", opJam: "JAM",
	OpADC: "ADC", OpAND: "AND", OpASL: "ASL", OpASLAcc: "ASL",
	OpBCC: "BCC", OpBCS: "BCS", OpBEQ: "BEQ", OpBIT: "BIT", OpBITImm: "BIT",
	OpBMI: "BMI", OpBNE: "BNE", OpBPL: "BPL", OpBRA: "BRA", OpBRK: "BRK",
	OpBVC: "BVC", OpBVS: "BVS", OpCLC: "CLC", OpCLD: "CLD", OpCLI: "CLI",
	OpCLV: "CLV", OpCMP: "CMP", OpCPX: "CPX", OpCPY: "CPY", OpDEC: "DEC",
	OpDECAcc: "DEC", OpDEX: "DEX", OpDEY: "DEY", OpEOR: "EOR", OpINC: "INC",
	OpINCAcc: "INC", OpINX: "INX", OpINY: "INY", OpJMP: "JMP", OpJSR: "JSR",
	OpLDA: "LDA", OpLDX: "LDX", OpLDY: "LDY", OpLSR: "LSR", OpLSRAcc: "LSR",
	OpNOP: "NOP", OpORA: "ORA", OpPHA: "PHA", OpPHP: "PHP", OpPHX: "PHX",
	OpPHY: "PHY", OpPLA: "PLA", OpPLP: "PLP", OpPLX: "PLX", OpPLY: "PLY",
	OpROL: "ROL", OpROLAcc: "ROL", OpROR: "ROR", OpRORAcc: "ROR",
	OpRTI: "RTI", OpRTS: "RTS", OpSBC: "SBC", OpSEC: "SEC", OpSED: "SED",
	OpSEI: "SEI", OpSTA: "STA", OpSTX: "STX", OpSTY: "STY", OpSTP: "STP",
	OpSTZ: "STZ", OpTAX: "TAX", OpTAY: "TAY", OpTRB: "TRB", OpTSB: "TSB",
	OpTSX: "TSX", OpTXA: "TXA", OpTXS: "TXS", OpTYA: "TYA", OpWAI: "WAI",
	OpRMB: "RMB", OpSMB: "SMB", OpBBR: "BBR", OpBBS: "BBS",
	OpSLO: "SLO", OpRLA: "RLA", OpSRE: "SRE", OpRRA: "RRA", OpSAX: "SAX",
	OpLAX: "LAX", OpDCP: "DCP", OpISC: "ISC", OpANC: "ANC", OpALR: "ALR",
	OpARR: "ARR", OpAXS: "AXS", OpSHA: "SHA", OpSHX: "SHX", OpSHY: "SHY",
	OpTAS: "TAS", OpLAS: "LAS", OpANE: "ANE", OpLXA: "LXA",
}

// opEntry is one row of a variant's 256-entry dispatch table.
type opEntry struct {
	op      Operation
	mode    AddressMode
	cycles  uint8 // Base cycles; +1 may apply per readPenalty, +1 per branch taken.
	bit     uint8 // RMB/SMB/BBR/BBS bit index 0-7; unused otherwise.
	illegal bool  // True for NMOS-illegal opcodes (SLO/RLA/.../JAM/extra NOPs).
}

type opcodeTable struct {
	variant Variant
	entries [256]opEntry
}

// nmosBase is the documented-plus-undocumented NMOS 6502 opcode matrix,
// laid out in the conventional 16x16 reference-table order. This is the
// single source of truth every NMOS-family Variant is filtered from.
var nmosBase = buildNMOSBase()

func e(op Operation, mode AddressMode, cycles uint8) opEntry {
	return opEntry{op: op, mode: mode, cycles: cycles}
}

func ei(op Operation, mode AddressMode, cycles uint8) opEntry {
	return opEntry{op: op, mode: mode, cycles: cycles, illegal: true}
}

func buildNMOSBase() [256]opEntry {
	var t [256]opEntry
	for i := range t {
		t[i] = ei(opJam, ModeImplied, 2)
	}
	set := func(op uint8, entry opEntry) { t[op] = entry }

	set(0x00, e(OpBRK, ModeImplied, 7))
	set(0x01, e(OpORA, ModeIndirectX, 6))
	set(0x03, ei(OpSLO, ModeIndirectX, 8))
	set(0x04, ei(OpNOP, ModeZeroPage, 3))
	set(0x05, e(OpORA, ModeZeroPage, 3))
	set(0x06, e(OpASL, ModeZeroPage, 5))
	set(0x07, ei(OpSLO, ModeZeroPage, 5))
	set(0x08, e(OpPHP, ModeImplied, 3))
	set(0x09, e(OpORA, ModeImmediate, 2))
	set(0x0A, e(OpASLAcc, ModeAccumulator, 2))
	set(0x0B, ei(OpANC, ModeImmediate, 2))
	set(0x0C, ei(OpNOP, ModeAbsolute, 4))
	set(0x0D, e(OpORA, ModeAbsolute, 4))
	set(0x0E, e(OpASL, ModeAbsolute, 6))
	set(0x0F, ei(OpSLO, ModeAbsolute, 6))

	set(0x10, e(OpBPL, ModeRelative, 2))
	set(0x11, e(OpORA, ModeIndirectY, 5))
	set(0x13, ei(OpSLO, ModeIndirectYStore, 8))
	set(0x14, ei(OpNOP, ModeZeroPageX, 4))
	set(0x15, e(OpORA, ModeZeroPageX, 4))
	set(0x16, e(OpASL, ModeZeroPageX, 6))
	set(0x17, ei(OpSLO, ModeZeroPageX, 6))
	set(0x18, e(OpCLC, ModeImplied, 2))
	set(0x19, e(OpORA, ModeAbsoluteY, 4))
	set(0x1A, ei(OpNOP, ModeImplied, 2))
	set(0x1B, ei(OpSLO, ModeAbsoluteYStore, 7))
	set(0x1C, ei(OpNOP, ModeAbsoluteX, 4))
	set(0x1D, e(OpORA, ModeAbsoluteX, 4))
	set(0x1E, e(OpASL, ModeAbsoluteXStore, 7))
	set(0x1F, ei(OpSLO, ModeAbsoluteXStore, 7))

	set(0x20, e(OpJSR, ModeAbsolute, 6))
	set(0x21, e(OpAND, ModeIndirectX, 6))
	set(0x23, ei(OpRLA, ModeIndirectX, 8))
	set(0x24, e(OpBIT, ModeZeroPage, 3))
	set(0x25, e(OpAND, ModeZeroPage, 3))
	set(0x26, e(OpROL, ModeZeroPage, 5))
	set(0x27, ei(OpRLA, ModeZeroPage, 5))
	set(0x28, e(OpPLP, ModeImplied, 4))
	set(0x29, e(OpAND, ModeImmediate, 2))
	set(0x2A, e(OpROLAcc, ModeAccumulator, 2))
	set(0x2B, ei(OpANC, ModeImmediate, 2))
	set(0x2C, e(OpBIT, ModeAbsolute, 4))
	set(0x2D, e(OpAND, ModeAbsolute, 4))
	set(0x2E, e(OpROL, ModeAbsolute, 6))
	set(0x2F, ei(OpRLA, ModeAbsolute, 6))

	set(0x30, e(OpBMI, ModeRelative, 2))
	set(0x31, e(OpAND, ModeIndirectY, 5))
	set(0x33, ei(OpRLA, ModeIndirectYStore, 8))
	set(0x34, ei(OpNOP, ModeZeroPageX, 4))
	set(0x35, e(OpAND, ModeZeroPageX, 4))
	set(0x36, e(OpROL, ModeZeroPageX, 6))
	set(0x37, ei(OpRLA, ModeZeroPageX, 6))
	set(0x38, e(OpSEC, ModeImplied, 2))
	set(0x39, e(OpAND, ModeAbsoluteY, 4))
	set(0x3A, ei(OpNOP, ModeImplied, 2))
	set(0x3B, ei(OpRLA, ModeAbsoluteYStore, 7))
	set(0x3C, ei(OpNOP, ModeAbsoluteX, 4))
	set(0x3D, e(OpAND, ModeAbsoluteX, 4))
	set(0x3E, e(OpROL, ModeAbsoluteXStore, 7))
	set(0x3F, ei(OpRLA, ModeAbsoluteXStore, 7))

	set(0x40, e(OpRTI, ModeImplied, 6))
	set(0x41, e(OpEOR, ModeIndirectX, 6))
	set(0x43, ei(OpSRE, ModeIndirectX, 8))
	set(0x44, ei(OpNOP, ModeZeroPage, 3))
	set(0x45, e(OpEOR, ModeZeroPage, 3))
	set(0x46, e(OpLSR, ModeZeroPage, 5))
	set(0x47, ei(OpSRE, ModeZeroPage, 5))
	set(0x48, e(OpPHA, ModeImplied, 3))
	set(0x49, e(OpEOR, ModeImmediate, 2))
	set(0x4A, e(OpLSRAcc, ModeAccumulator, 2))
	set(0x4B, ei(OpALR, ModeImmediate, 2))
	set(0x4C, e(OpJMP, ModeAbsolute, 3))
	set(0x4D, e(OpEOR, ModeAbsolute, 4))
	set(0x4E, e(OpLSR, ModeAbsolute, 6))
	set(0x4F, ei(OpSRE, ModeAbsolute, 6))

	set(0x50, e(OpBVC, ModeRelative, 2))
	set(0x51, e(OpEOR, ModeIndirectY, 5))
	set(0x53, ei(OpSRE, ModeIndirectYStore, 8))
	set(0x54, ei(OpNOP, ModeZeroPageX, 4))
	set(0x55, e(OpEOR, ModeZeroPageX, 4))
	set(0x56, e(OpLSR, ModeZeroPageX, 6))
	set(0x57, ei(OpSRE, ModeZeroPageX, 6))
	set(0x58, e(OpCLI, ModeImplied, 2))
	set(0x59, e(OpEOR, ModeAbsoluteY, 4))
	set(0x5A, ei(OpNOP, ModeImplied, 2))
	set(0x5B, ei(OpSRE, ModeAbsoluteYStore, 7))
	set(0x5C, ei(OpNOP, ModeAbsoluteX, 4))
	set(0x5D, e(OpEOR, ModeAbsoluteX, 4))
	set(0x5E, e(OpLSR, ModeAbsoluteXStore, 7))
	set(0x5F, ei(OpSRE, ModeAbsoluteXStore, 7))

	set(0x60, e(OpRTS, ModeImplied, 6))
	set(0x61, e(OpADC, ModeIndirectX, 6))
	set(0x63, ei(OpRRA, ModeIndirectX, 8))
	set(0x64, ei(OpNOP, ModeZeroPage, 3))
	set(0x65, e(OpADC, ModeZeroPage, 3))
	set(0x66, e(OpROR, ModeZeroPage, 5))
	set(0x67, ei(OpRRA, ModeZeroPage, 5))
	set(0x68, e(OpPLA, ModeImplied, 4))
	set(0x69, e(OpADC, ModeImmediate, 2))
	set(0x6A, e(OpRORAcc, ModeAccumulator, 2))
	set(0x6B, ei(OpARR, ModeImmediate, 2))
	set(0x6C, e(OpJMP, ModeAbsoluteIndirect, 5))
	set(0x6D, e(OpADC, ModeAbsolute, 4))
	set(0x6E, e(OpROR, ModeAbsolute, 6))
	set(0x6F, ei(OpRRA, ModeAbsolute, 6))

	set(0x70, e(OpBVS, ModeRelative, 2))
	set(0x71, e(OpADC, ModeIndirectY, 5))
	set(0x73, ei(OpRRA, ModeIndirectYStore, 8))
	set(0x74, ei(OpNOP, ModeZeroPageX, 4))
	set(0x75, e(OpADC, ModeZeroPageX, 4))
	set(0x76, e(OpROR, ModeZeroPageX, 6))
	set(0x77, ei(OpRRA, ModeZeroPageX, 6))
	set(0x78, e(OpSEI, ModeImplied, 2))
	set(0x79, e(OpADC, ModeAbsoluteY, 4))
	set(0x7A, ei(OpNOP, ModeImplied, 2))
	set(0x7B, ei(OpRRA, ModeAbsoluteYStore, 7))
	set(0x7C, ei(OpNOP, ModeAbsoluteX, 4))
	set(0x7D, e(OpADC, ModeAbsoluteX, 4))
	set(0x7E, e(OpROR, ModeAbsoluteXStore, 7))
	set(0x7F, ei(OpRRA, ModeAbsoluteXStore, 7))

	set(0x80, ei(OpNOP, ModeImmediate, 2))
	set(0x81, e(OpSTA, ModeIndirectX, 6))
	set(0x82, ei(OpNOP, ModeImmediate, 2))
	set(0x83, ei(OpSAX, ModeIndirectX, 6))
	set(0x84, e(OpSTY, ModeZeroPage, 3))
	set(0x85, e(OpSTA, ModeZeroPage, 3))
	set(0x86, e(OpSTX, ModeZeroPage, 3))
	set(0x87, ei(OpSAX, ModeZeroPage, 3))
	set(0x88, e(OpDEY, ModeImplied, 2))
	set(0x89, ei(OpNOP, ModeImmediate, 2))
	set(0x8A, e(OpTXA, ModeImplied, 2))
	set(0x8B, ei(OpANE, ModeImmediate, 2))
	set(0x8C, e(OpSTY, ModeAbsolute, 4))
	set(0x8D, e(OpSTA, ModeAbsolute, 4))
	set(0x8E, e(OpSTX, ModeAbsolute, 4))
	set(0x8F, ei(OpSAX, ModeAbsolute, 4))

	set(0x90, e(OpBCC, ModeRelative, 2))
	set(0x91, e(OpSTA, ModeIndirectYStore, 6))
	set(0x93, ei(OpSHA, ModeIndirectYStore, 6))
	set(0x94, e(OpSTY, ModeZeroPageX, 4))
	set(0x95, e(OpSTA, ModeZeroPageX, 4))
	set(0x96, e(OpSTX, ModeZeroPageY, 4))
	set(0x97, ei(OpSAX, ModeZeroPageY, 4))
	set(0x98, e(OpTYA, ModeImplied, 2))
	set(0x99, e(OpSTA, ModeAbsoluteYStore, 5))
	set(0x9A, e(OpTXS, ModeImplied, 2))
	set(0x9B, ei(OpTAS, ModeAbsoluteYStore, 5))
	set(0x9C, ei(OpSHY, ModeAbsoluteXStore, 5))
	set(0x9D, e(OpSTA, ModeAbsoluteXStore, 5))
	set(0x9E, ei(OpSHX, ModeAbsoluteYStore, 5))
	set(0x9F, ei(OpSHA, ModeAbsoluteYStore, 5))

	set(0xA0, e(OpLDY, ModeImmediate, 2))
	set(0xA1, e(OpLDA, ModeIndirectX, 6))
	set(0xA2, e(OpLDX, ModeImmediate, 2))
	set(0xA3, ei(OpLAX, ModeIndirectX, 6))
	set(0xA4, e(OpLDY, ModeZeroPage, 3))
	set(0xA5, e(OpLDA, ModeZeroPage, 3))
	set(0xA6, e(OpLDX, ModeZeroPage, 3))
	set(0xA7, ei(OpLAX, ModeZeroPage, 3))
	set(0xA8, e(OpTAY, ModeImplied, 2))
	set(0xA9, e(OpLDA, ModeImmediate, 2))
	set(0xAA, e(OpTAX, ModeImplied, 2))
	set(0xAB, ei(OpLXA, ModeImmediate, 2))
	set(0xAC, e(OpLDY, ModeAbsolute, 4))
	set(0xAD, e(OpLDA, ModeAbsolute, 4))
	set(0xAE, e(OpLDX, ModeAbsolute, 4))
	set(0xAF, ei(OpLAX, ModeAbsolute, 4))

	set(0xB0, e(OpBCS, ModeRelative, 2))
	set(0xB1, e(OpLDA, ModeIndirectY, 5))
	set(0xB3, ei(OpLAX, ModeIndirectY, 5))
	set(0xB4, e(OpLDY, ModeZeroPageX, 4))
	set(0xB5, e(OpLDA, ModeZeroPageX, 4))
	set(0xB6, e(OpLDX, ModeZeroPageY, 4))
	set(0xB7, ei(OpLAX, ModeZeroPageY, 4))
	set(0xB8, e(OpCLV, ModeImplied, 2))
	set(0xB9, e(OpLDA, ModeAbsoluteY, 4))
	set(0xBA, e(OpTSX, ModeImplied, 2))
	set(0xBB, ei(OpLAS, ModeAbsoluteY, 4))
	set(0xBC, e(OpLDY, ModeAbsoluteX, 4))
	set(0xBD, e(OpLDA, ModeAbsoluteX, 4))
	set(0xBE, e(OpLDX, ModeAbsoluteY, 4))
	set(0xBF, ei(OpLAX, ModeAbsoluteY, 4))

	set(0xC0, e(OpCPY, ModeImmediate, 2))
	set(0xC1, e(OpCMP, ModeIndirectX, 6))
	set(0xC2, ei(OpNOP, ModeImmediate, 2))
	set(0xC3, ei(OpDCP, ModeIndirectX, 8))
	set(0xC4, e(OpCPY, ModeZeroPage, 3))
	set(0xC5, e(OpCMP, ModeZeroPage, 3))
	set(0xC6, e(OpDEC, ModeZeroPage, 5))
	set(0xC7, ei(OpDCP, ModeZeroPage, 5))
	set(0xC8, e(OpINY, ModeImplied, 2))
	set(0xC9, e(OpCMP, ModeImmediate, 2))
	set(0xCA, e(OpDEX, ModeImplied, 2))
	set(0xCB, ei(OpAXS, ModeImmediate, 2))
	set(0xCC, e(OpCPY, ModeAbsolute, 4))
	set(0xCD, e(OpCMP, ModeAbsolute, 4))
	set(0xCE, e(OpDEC, ModeAbsolute, 6))
	set(0xCF, ei(OpDCP, ModeAbsolute, 6))

	set(0xD0, e(OpBNE, ModeRelative, 2))
	set(0xD1, e(OpCMP, ModeIndirectY, 5))
	set(0xD3, ei(OpDCP, ModeIndirectYStore, 8))
	set(0xD4, ei(OpNOP, ModeZeroPageX, 4))
	set(0xD5, e(OpCMP, ModeZeroPageX, 4))
	set(0xD6, e(OpDEC, ModeZeroPageX, 6))
	set(0xD7, ei(OpDCP, ModeZeroPageX, 6))
	set(0xD8, e(OpCLD, ModeImplied, 2))
	set(0xD9, e(OpCMP, ModeAbsoluteY, 4))
	set(0xDA, ei(OpNOP, ModeImplied, 2))
	set(0xDB, ei(OpDCP, ModeAbsoluteYStore, 7))
	set(0xDC, ei(OpNOP, ModeAbsoluteX, 4))
	set(0xDD, e(OpCMP, ModeAbsoluteX, 4))
	set(0xDE, e(OpDEC, ModeAbsoluteXStore, 7))
	set(0xDF, ei(OpDCP, ModeAbsoluteXStore, 7))

	set(0xE0, e(OpCPX, ModeImmediate, 2))
	set(0xE1, e(OpSBC, ModeIndirectX, 6))
	set(0xE2, ei(OpNOP, ModeImmediate, 2))
	set(0xE3, ei(OpISC, ModeIndirectX, 8))
	set(0xE4, e(OpCPX, ModeZeroPage, 3))
	set(0xE5, e(OpSBC, ModeZeroPage, 3))
	set(0xE6, e(OpINC, ModeZeroPage, 5))
	set(0xE7, ei(OpISC, ModeZeroPage, 5))
	set(0xE8, e(OpINX, ModeImplied, 2))
	set(0xE9, e(OpSBC, ModeImmediate, 2))
	set(0xEA, e(OpNOP, ModeImplied, 2))
	set(0xEB, ei(OpSBC, ModeImmediate, 2))
	set(0xEC, e(OpCPX, ModeAbsolute, 4))
	set(0xED, e(OpSBC, ModeAbsolute, 4))
	set(0xEE, e(OpINC, ModeAbsolute, 6))
	set(0xEF, ei(OpISC, ModeAbsolute, 6))

	set(0xF0, e(OpBEQ, ModeRelative, 2))
	set(0xF1, e(OpSBC, ModeIndirectY, 5))
	set(0xF3, ei(OpISC, ModeIndirectYStore, 8))
	set(0xF4, ei(OpNOP, ModeZeroPageX, 4))
	set(0xF5, e(OpSBC, ModeZeroPageX, 4))
	set(0xF6, e(OpINC, ModeZeroPageX, 6))
	set(0xF7, ei(OpISC, ModeZeroPageX, 6))
	set(0xF8, e(OpSED, ModeImplied, 2))
	set(0xF9, e(OpSBC, ModeAbsoluteY, 4))
	set(0xFA, ei(OpNOP, ModeImplied, 2))
	set(0xFB, ei(OpISC, ModeAbsoluteYStore, 7))
	set(0xFC, ei(OpNOP, ModeAbsoluteX, 4))
	set(0xFD, e(OpSBC, ModeAbsoluteX, 4))
	set(0xFE, e(OpINC, ModeAbsoluteXStore, 7))
	set(0xFF, ei(OpISC, ModeAbsoluteXStore, 7))

	return t
}

// cmosBase is the generic 65C02 opcode matrix: the documented NMOS subset
// plus Rockwell/WDC's shared CMOS additions, with every former
// NMOS-illegal slot collapsed to a single-byte NOP (CMOS parts never jam
// on an unused opcode).
var cmosBase = buildCMOSBase()

func buildCMOSBase() [256]opEntry {
	var t [256]opEntry
	for i := range t {
		t[i] = e(OpNOP, ModeImplied, 2)
	}
	set := func(op uint8, entry opEntry) { t[op] = entry }

	// Start from the NMOS documented matrix: carry over every entry not
	// specifically overridden or freed up below. Illegal-on-NMOS slots
	// keep the implied 2-cycle NOP default set above.
	for op, ent := range nmosBase {
		if !ent.illegal && ent.op != opJam {
			set(uint8(op), ent)
		}
	}

	// CMOS fixes the indexed-store penalty: STA (abs,X)/(abs,Y) and
	// ASL/DEC/INC/LSR/ROL/ROR abs,X all drop one cycle versus NMOS when
	// no page is crossed; this module keeps the NMOS worst-case cycle
	// count for those (spec.md §9 allows either layout) and only adds
	// the genuinely new opcodes and operations below.
	set(0x6C, e(OpJMP, ModeAbsoluteIndirect, 6)) // CMOS fixes the NMOS page-wrap bug; costs one extra cycle.

	set(0x04, e(OpTSB, ModeZeroPage, 5))
	set(0x0C, e(OpTSB, ModeAbsolute, 6))
	set(0x14, e(OpTRB, ModeZeroPage, 5))
	set(0x1C, e(OpTRB, ModeAbsolute, 6))
	set(0x64, e(OpSTZ, ModeZeroPage, 3))
	set(0x74, e(OpSTZ, ModeZeroPageX, 4))
	set(0x9C, e(OpSTZ, ModeAbsolute, 4))
	set(0x9E, e(OpSTZ, ModeAbsoluteXStore, 5))

	set(0x80, e(OpBRA, ModeRelative, 3))
	set(0x89, e(OpBITImm, ModeImmediate, 2))

	set(0x12, e(OpORA, ModeZeroPageIndirect, 5))
	set(0x32, e(OpAND, ModeZeroPageIndirect, 5))
	set(0x52, e(OpEOR, ModeZeroPageIndirect, 5))
	set(0x72, e(OpADC, ModeZeroPageIndirect, 5))
	set(0x92, e(OpSTA, ModeZeroPageIndirect, 5))
	set(0xB2, e(OpLDA, ModeZeroPageIndirect, 5))
	set(0xD2, e(OpCMP, ModeZeroPageIndirect, 5))
	set(0xF2, e(OpSBC, ModeZeroPageIndirect, 5))
	set(0x34, e(OpBIT, ModeZeroPageX, 4))
	set(0x3C, e(OpBIT, ModeAbsoluteX, 4))

	set(0x1A, e(OpINCAcc, ModeAccumulator, 2))
	set(0x3A, e(OpDECAcc, ModeAccumulator, 2))

	set(0x5A, e(OpPHY, ModeImplied, 3))
	set(0x7A, e(OpPLY, ModeImplied, 4))
	set(0xDA, e(OpPHX, ModeImplied, 3))
	set(0xFA, e(OpPLX, ModeImplied, 4))

	set(0x7C, e(OpJMP, ModeAbsoluteIndexedIndirect, 6))

	// Every opcode NMOS treats as illegal and every remaining unused
	// slot stays at the default set above: a single-byte, Implied-mode
	// NOP. Real 65C02 parts vary cycle counts and occasionally consume
	// a throwaway operand byte on these, but no JAM cells exist on CMOS
	// and this module keeps them uniformly 1-byte/2-cycle rather than
	// reproduce that undocumented variation.

	return t
}

// wdcExtras layers WAI/STP onto a base CMOS table.
func wdcExtras(t [256]opEntry) [256]opEntry {
	t[0xCB] = e(OpWAI, ModeImplied, 3)
	t[0xDB] = e(OpSTP, ModeImplied, 3)
	return t
}

// rockwellExtras layers RMB/SMB/BBR/BBS onto a base CMOS table.
func rockwellExtras(t [256]opEntry) [256]opEntry {
	for n := uint8(0); n < 8; n++ {
		t[0x07|(n<<4)] = opEntry{op: OpRMB, mode: ModeZeroPage, cycles: 5, bit: n}
		t[0x87|(n<<4)] = opEntry{op: OpSMB, mode: ModeZeroPage, cycles: 5, bit: n}
		t[0x0F|(n<<4)] = opEntry{op: OpBBR, mode: ModeZeroPage, cycles: 5, bit: n}
		t[0x8F|(n<<4)] = opEntry{op: OpBBS, mode: ModeZeroPage, cycles: 5, bit: n}
	}
	return t
}

// filterUndocumented strips illegal opcodes from an NMOS-family table,
// replacing them with NOPs of the same addressing mode and cycle count
// (so disassembly byte-length and timing of a program run against
// VariantNMOS stay identical to running it on VariantNMOSUndocumented;
// only the register/memory side effects differ) while forcing the twelve
// known lock opcodes to the documented JAM behaviour.
func filterUndocumented(base [256]opEntry) [256]opEntry {
	t := base
	for i, ent := range t {
		if ent.op == opJam {
			continue
		}
		if ent.illegal {
			t[i] = opEntry{op: OpNOP, mode: ent.mode, cycles: ent.cycles}
		}
	}
	return t
}

// Ricoh's lack of BCD support is implemented in instructions.go (adc/sbc
// check the variant directly), not by altering the table: its opcode,
// mode and cycle shape is identical to VariantNMOSUndocumented.

var tableCache = map[Variant]*opcodeTable{}

func init() {
	tableCache[VariantNMOS] = &opcodeTable{variant: VariantNMOS, entries: filterUndocumented(nmosBase)}
	tableCache[VariantNMOSUndocumented] = &opcodeTable{variant: VariantNMOSUndocumented, entries: nmosBase}
	tableCache[VariantNMOSRicoh] = &opcodeTable{variant: VariantNMOSRicoh, entries: nmosBase}
	tableCache[VariantCMOS] = &opcodeTable{variant: VariantCMOS, entries: cmosBase}
	tableCache[VariantWDC65C02] = &opcodeTable{variant: VariantWDC65C02, entries: wdcExtras(cmosBase)}
	tableCache[VariantRockwell65C02] = &opcodeTable{variant: VariantRockwell65C02, entries: rockwellExtras(cmosBase)}
}

// tableFor returns the cached dispatch table for v, or nil if v is not a
// recognized, concrete variant.
func tableFor(v Variant) *opcodeTable {
	if t, ok := tableCache[v]; ok {
		return t
	}
	return nil
}
