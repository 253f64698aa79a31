package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	deep "github.com/go-test/deep"
	"github.com/jmchacon/go6502/irq"
)

// flatMemory implements Bus/DebugBus over a full 64K address space for tests.
type flatMemory struct {
	addr [65536]uint8
}

func (r *flatMemory) Read(addr uint16) uint8       { return r.addr[addr] }
func (r *flatMemory) Write(addr uint16, val uint8) { r.addr[addr] = val }
func (r *flatMemory) ReadDebug(addr uint16) uint8   { return r.addr[addr] }

func (r *flatMemory) setVector(vector, target uint16) {
	r.addr[vector] = uint8(target)
	r.addr[vector+1] = uint8(target >> 8)
}

func newTestCPU(t *testing.T, variant Variant, resetPC uint16) (*CPU, *flatMemory) {
	t.Helper()
	m := &flatMemory{}
	m.setVector(ResetVector, resetPC)
	m.setVector(IRQVector, 0xE000)
	m.setVector(NMIVector, 0xF000)
	c, err := New(&Definition{Variant: variant, Bus: m})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, m
}

func TestReset(t *testing.T) {
	c, _ := newTestCPU(t, VariantNMOS, 0x1234)
	if c.PC != 0x1234 {
		t.Errorf("PC after reset = %04X, want 1234", c.PC)
	}
	if c.S != 0xFD {
		t.Errorf("S after reset = %02X, want FD", c.S)
	}
	if c.P&FlagInterrupt == 0 {
		t.Errorf("P after reset has I clear, want set")
	}
	if c.Jammed() {
		t.Errorf("Jammed() after reset = true, want false")
	}
}

func TestNewInvalidVariant(t *testing.T) {
	_, err := New(&Definition{Variant: Variant(99), Bus: &flatMemory{}})
	if err == nil {
		t.Fatal("New with invalid variant returned nil error")
	}
	if _, ok := err.(*InvalidVariantError); !ok {
		t.Errorf("New error type = %T, want *InvalidVariantError", err)
	}
}

func TestLDAImmediate(t *testing.T) {
	tests := []struct {
		name    string
		val     uint8
		wantZ   bool
		wantNeg bool
	}{
		{"positive", 0x42, false, false},
		{"zero", 0x00, true, false},
		{"negative", 0x80, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m := newTestCPU(t, VariantNMOS, 0x0200)
			m.addr[0x0200] = 0xA9 // LDA #imm
			m.addr[0x0201] = tc.val
			cycles, err := c.Step()
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			if cycles != 2 {
				t.Errorf("cycles = %d, want 2", cycles)
			}
			if c.A != tc.val {
				t.Errorf("A = %02X, want %02X", c.A, tc.val)
			}
			if got := c.P&FlagZero != 0; got != tc.wantZ {
				t.Errorf("Z = %v, want %v", got, tc.wantZ)
			}
			if got := c.P&FlagNegative != 0; got != tc.wantNeg {
				t.Errorf("N = %v, want %v", got, tc.wantNeg)
			}
		})
	}
}

func TestADCBinary(t *testing.T) {
	tests := []struct {
		name          string
		a, v, carryIn uint8
		wantA         uint8
		wantC, wantV  bool
	}{
		{"simple", 0x01, 0x01, 0, 0x02, false, false},
		{"carry out", 0xFF, 0x01, 0, 0x00, true, false},
		{"signed overflow", 0x7F, 0x01, 0, 0x80, false, true},
		{"carry in", 0x01, 0x01, 1, 0x03, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, m := newTestCPU(t, VariantNMOS, 0x0200)
			m.addr[0x0200] = 0x69 // ADC #imm
			m.addr[0x0201] = tc.v
			c.A = tc.a
			c.setCarry(tc.carryIn != 0)
			if _, err := c.Step(); err != nil {
				t.Fatalf("Step: %v", err)
			}
			if c.A != tc.wantA {
				t.Errorf("A = %02X, want %02X", c.A, tc.wantA)
			}
			if got := c.P&FlagCarry != 0; got != tc.wantC {
				t.Errorf("C = %v, want %v", got, tc.wantC)
			}
			if got := c.P&FlagOverflow != 0; got != tc.wantV {
				t.Errorf("V = %v, want %v", got, tc.wantV)
			}
		})
	}
}

func TestADCDecimalCMOS(t *testing.T) {
	// 0x58 + 0x46 BCD = 0x104 BCD (1,04), carry set, extra CMOS cycle.
	c, m := newTestCPU(t, VariantCMOS, 0x0200)
	m.addr[0x0200] = 0x69 // ADC #imm
	m.addr[0x0201] = 0x46
	c.A = 0x58
	c.P |= FlagDecimal
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 3 {
		t.Errorf("cycles = %d, want 3 (CMOS decimal-mode penalty)", cycles)
	}
	if c.A != 0x04 {
		t.Errorf("A = %02X, want 04", c.A)
	}
	if c.P&FlagCarry == 0 {
		t.Errorf("C not set, want set")
	}
}

func TestADCDecimalRicohIgnoresD(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOSRicoh, 0x0200)
	m.addr[0x0200] = 0x69
	m.addr[0x0201] = 0x46
	c.A = 0x58
	c.P |= FlagDecimal
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if want := uint8(0x58 + 0x46); c.A != want {
		t.Errorf("A = %02X, want %02X (binary add, D ignored on Ricoh)", c.A, want)
	}
}

func TestJSRRTS(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0x20 // JSR $0300
	m.addr[0x0201] = 0x00
	m.addr[0x0202] = 0x03
	m.addr[0x0300] = 0x60 // RTS
	startS := c.S

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("JSR Step: %v", err)
	}
	if cycles != 6 {
		t.Errorf("JSR cycles = %d, want 6", cycles)
	}
	if c.PC != 0x0300 {
		t.Errorf("PC after JSR = %04X, want 0300", c.PC)
	}
	if c.S != startS-2 {
		t.Errorf("S after JSR = %02X, want %02X", c.S, startS-2)
	}

	cycles, err = c.Step()
	if err != nil {
		t.Fatalf("RTS Step: %v", err)
	}
	if cycles != 6 {
		t.Errorf("RTS cycles = %d, want 6", cycles)
	}
	if c.PC != 0x0203 {
		t.Errorf("PC after RTS = %04X, want 0203", c.PC)
	}
	if c.S != startS {
		t.Errorf("S after RTS = %02X, want %02X (round trip)", c.S, startS)
	}
}

func TestIRQEntry(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0xEA // NOP, never executed: IRQ preempts it.
	c.P &^= FlagInterrupt // Reset leaves I set; IRQ entry needs it clear.
	c.SetIRQ(Asserted)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 7 {
		t.Errorf("IRQ entry cycles = %d, want 7", cycles)
	}
	if c.PC != 0xE000 {
		t.Errorf("PC after IRQ = %04X, want E000", c.PC)
	}
	if c.P&FlagInterrupt == 0 {
		t.Errorf("I not set after IRQ entry")
	}
	if pushed := m.addr[stackBase+uint16(c.S)+1]; pushed&FlagBreak != 0 {
		t.Errorf("B set in pushed P after IRQ entry, want clear")
	}
}

func TestIRQMaskedByI(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0xEA // NOP
	c.P |= FlagInterrupt
	c.SetIRQ(Asserted)

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x0201 {
		t.Errorf("PC = %04X, want 0201 (IRQ should stay masked)", c.PC)
	}
}

func TestNMIEdgeLatch(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0xEA
	m.addr[0x0201] = 0xEA
	m.addr[0x0202] = 0xEA
	c.SetNMI(Asserted)

	if _, err := c.Step(); err != nil {
		t.Fatalf("first Step: %v", err)
	}
	if c.PC != 0xF000 {
		t.Errorf("PC after first NMI = %04X, want F000", c.PC)
	}

	// Still asserted (held high): must not refire until cleared+reasserted.
	c.PC = 0x0201
	if _, err := c.Step(); err != nil {
		t.Fatalf("second Step: %v", err)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC = %04X, want 0202 (NMI should not refire while held)", c.PC)
	}

	c.SetNMI(Cleared)
	c.SetNMI(Asserted)
	if _, err := c.Step(); err != nil {
		t.Fatalf("third Step: %v", err)
	}
	if c.PC != 0xF000 {
		t.Errorf("PC after re-edge NMI = %04X, want F000", c.PC)
	}
}

func TestNMOSJam(t *testing.T) {
	jamOpcodes := []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2}
	for _, op := range jamOpcodes {
		t.Run(spew.Sprintf("%02X", op), func(t *testing.T) {
			c, m := newTestCPU(t, VariantNMOS, 0x0200)
			m.addr[0x0200] = op
			_, err := c.Step()
			if err == nil {
				t.Fatalf("Step with opcode %02X: got nil error, want JammedError", op)
			}
			je, ok := err.(*JammedError)
			if !ok {
				t.Fatalf("error type = %T, want *JammedError", err)
			}
			if je.Opcode != op {
				t.Errorf("JammedError.Opcode = %02X, want %02X", je.Opcode, op)
			}
			if !c.Jammed() {
				t.Errorf("Jammed() = false, want true")
			}
			// Once jammed, further Steps keep returning the same error.
			if _, err := c.Step(); err == nil {
				t.Errorf("Step after jam: got nil error, want JammedError again")
			}
			c.Unjam()
			if c.Jammed() {
				t.Errorf("Jammed() after Unjam = true, want false")
			}
		})
	}
}

func TestCMOSNeverJams(t *testing.T) {
	jamOnNMOS := []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2}
	for _, op := range jamOnNMOS {
		c, m := newTestCPU(t, VariantCMOS, 0x0200)
		m.addr[0x0200] = op
		if _, err := c.Step(); err != nil {
			t.Errorf("opcode %02X on CMOS: got error %v, want nil", op, err)
		}
		if c.Jammed() {
			t.Errorf("opcode %02X on CMOS: Jammed() = true, want false", op)
		}
	}
}

func TestWAIWakesOnIRQ(t *testing.T) {
	c, m := newTestCPU(t, VariantWDC65C02, 0x0200)
	m.addr[0x0200] = 0xCB // WAI
	// A real opcode, not the zero-fill default, so a regression that lets
	// Step fall through to fetch-and-execute instead of servicing the IRQ
	// is caught here rather than accidentally vectoring via a stray BRK.
	m.addr[0x0201] = 0xEA // NOP
	if _, err := c.Step(); err != nil {
		t.Fatalf("WAI Step: %v", err)
	}
	if !c.Waiting() {
		t.Fatalf("Waiting() = false after WAI, want true")
	}
	if _, err := c.Step(); err != nil {
		t.Fatalf("idle Step: %v", err)
	}
	if !c.Waiting() {
		t.Errorf("Waiting() = false with no pending interrupt, want true (still parked)")
	}

	c.SetIRQ(Asserted)
	if _, err := c.Step(); err != nil {
		t.Fatalf("wake Step: %v", err)
	}
	if c.Waiting() {
		t.Errorf("Waiting() = true after IRQ assertion, want false")
	}
	if c.PC != 0xE000 {
		t.Errorf("PC = %04X, want E000 (IRQ serviced on wake)", c.PC)
	}
}

func TestWAIWakesOnIRQEvenWithIBitSet(t *testing.T) {
	c, m := newTestCPU(t, VariantWDC65C02, 0x0200)
	m.addr[0x0200] = 0xCB // WAI
	m.addr[0x0201] = 0xEA // NOP; must never be reached.
	if _, err := c.Step(); err != nil {
		t.Fatalf("WAI Step: %v", err)
	}
	if !c.Waiting() {
		t.Fatalf("Waiting() = false after WAI, want true")
	}

	// WAI must wake and service an asserted IRQ even though I is set; only
	// a masked IRQ reaching an ordinary (non-WAI) instruction boundary
	// stays pending.
	c.P |= FlagInterrupt
	c.SetIRQ(Asserted)
	if _, err := c.Step(); err != nil {
		t.Fatalf("wake Step: %v", err)
	}
	if c.Waiting() {
		t.Errorf("Waiting() = true after IRQ assertion with I set, want false")
	}
	if c.PC != 0xE000 {
		t.Errorf("PC = %04X, want E000 (IRQ serviced on wake despite I=1)", c.PC)
	}
}

func TestRockwellBitOps(t *testing.T) {
	c, m := newTestCPU(t, VariantRockwell65C02, 0x0200)
	m.addr[0x0200] = 0x87 // SMB0 $10
	m.addr[0x0201] = 0x10
	if _, err := c.Step(); err != nil {
		t.Fatalf("SMB0 Step: %v", err)
	}
	if m.addr[0x10] != 0x01 {
		t.Errorf("mem[0x10] = %02X, want 01 after SMB0", m.addr[0x10])
	}

	m.addr[0x0202] = 0x07 // RMB0 $10
	m.addr[0x0203] = 0x10
	if _, err := c.Step(); err != nil {
		t.Fatalf("RMB0 Step: %v", err)
	}
	if m.addr[0x10] != 0x00 {
		t.Errorf("mem[0x10] = %02X, want 00 after RMB0", m.addr[0x10])
	}

	m.addr[0x10] = 0x01
	m.addr[0x0204] = 0x8F // BBS0 $10, +2
	m.addr[0x0205] = 0x10
	m.addr[0x0206] = 0x02
	if _, err := c.Step(); err != nil {
		t.Fatalf("BBS0 Step: %v", err)
	}
	if c.PC != 0x0209 {
		t.Errorf("PC after taken BBS0 = %04X, want 0209", c.PC)
	}
}

func TestBBSPageCrossCycle(t *testing.T) {
	stepWithOffset := func(offset uint8) int {
		c, m := newTestCPU(t, VariantRockwell65C02, 0x0200)
		m.addr[0x10] = 0x01   // bit0 set, so BBS0 always branches
		m.addr[0x0200] = 0x8F // BBS0 $10,offset
		m.addr[0x0201] = 0x10
		m.addr[0x0202] = offset
		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		return cycles
	}
	noCross := stepWithOffset(0x02)  // PC 0203 + 2 = 0205: same page.
	crossed := stepWithOffset(0xF6) // PC 0203 + (-10) = 01F9: crosses page.
	if crossed != noCross+1 {
		t.Errorf("page-crossing BBS0 cycles = %d, want %d (same-page cycles + 1)", crossed, noCross+1)
	}
}

func TestStepOnAlreadyJammedCPU(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0x02 // JAM
	if _, err := c.Step(); err == nil {
		t.Fatalf("first Step: got nil error, want JammedError")
	}
	cycles, err := c.Step()
	if err == nil {
		t.Fatalf("Step on already-jammed CPU: got nil error, want JammedError")
	}
	if cycles != 1 {
		t.Errorf("Step on already-jammed CPU: cycles = %d, want 1", cycles)
	}
}

func TestRunInstructionsOnAlreadyJammedCPU(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0x02 // JAM
	if _, _, err := c.RunInstructions(1); err == nil {
		t.Fatalf("priming RunInstructions: got nil error, want JammedError")
	}
	executed, cycles, err := c.RunInstructions(3)
	if err == nil {
		t.Fatalf("RunInstructions on already-jammed CPU: got nil error, want JammedError")
	}
	if executed != 0 {
		t.Errorf("executed = %d, want 0 (CPU was already jammed before this call)", executed)
	}
	if cycles != 1 {
		t.Errorf("cycles = %d, want 1 (one idle cycle accounted)", cycles)
	}
}

func TestSetIRQFromSenders(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0xEA // NOP

	var a, b irq.Line
	c.SetIRQFromSenders(&a, &b)
	if c.IRQ() != Cleared {
		t.Errorf("IRQ() with no senders raised = %v, want Cleared", c.IRQ())
	}

	b.Set(true)
	c.SetIRQFromSenders(&a, &b)
	if c.IRQ() != Asserted {
		t.Errorf("IRQ() with one sender raised = %v, want Asserted", c.IRQ())
	}

	b.Set(false)
	c.SetIRQFromSenders(&a, &b)
	if c.IRQ() != Cleared {
		t.Errorf("IRQ() after all senders lowered = %v, want Cleared", c.IRQ())
	}
}

func TestCompareSnapshot(t *testing.T) {
	c1, m1 := newTestCPU(t, VariantNMOS, 0x0200)
	c2, m2 := newTestCPU(t, VariantNMOS, 0x0200)
	m1.addr[0x0200], m2.addr[0x0200] = 0xA9, 0xA9
	m1.addr[0x0201], m2.addr[0x0201] = 0x05, 0x05
	if _, err := c1.Step(); err != nil {
		t.Fatalf("c1 Step: %v", err)
	}
	if _, err := c2.Step(); err != nil {
		t.Fatalf("c2 Step: %v", err)
	}
	if diff := deep.Equal(c1, c2); diff != nil {
		t.Errorf("identical programs produced divergent state: %v", diff)
	}
}

func TestRunInstructions(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	for i := 0; i < 5; i++ {
		m.addr[0x0200+i] = 0xE8 // INX
	}
	executed, cycles, err := c.RunInstructions(5)
	if err != nil {
		t.Fatalf("RunInstructions: %v", err)
	}
	if executed != 5 {
		t.Errorf("executed = %d, want 5", executed)
	}
	if cycles != 10 {
		t.Errorf("cycles = %d, want 10", cycles)
	}
	if c.X != 5 {
		t.Errorf("X = %d, want 5", c.X)
	}
}

func TestRunCyclesStopsOnJam(t *testing.T) {
	c, m := newTestCPU(t, VariantNMOS, 0x0200)
	m.addr[0x0200] = 0xEA // NOP
	m.addr[0x0201] = 0x02 // JAM
	cycles, err := c.RunCycles(100)
	if err == nil {
		t.Fatalf("RunCycles: got nil error, want JammedError")
	}
	if _, ok := err.(*JammedError); !ok {
		t.Errorf("error type = %T, want *JammedError", err)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4 (2 for NOP + 2 for JAM)", cycles)
	}
}
