package memory

import "testing"

func TestRAMBankReadWrite(t *testing.T) {
	b, err := New8BitRAMBank(1<<16, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	b.Write(0x1234, 0x42)
	if got := b.Read(0x1234); got != 0x42 {
		t.Errorf("Read(0x1234) = %02X, want 42", got)
	}
	if got := b.DatabusVal(); got != 0x42 {
		t.Errorf("DatabusVal() = %02X, want 42", got)
	}
}

func TestRAMBankAliasing(t *testing.T) {
	b, err := New8BitRAMBank(0x100, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	b.Write(0x00, 0x11)
	if got := b.Read(0x1100); got != 0x11 {
		t.Errorf("Read(0x1100) = %02X, want 11 (should alias with 0x00)", got)
	}
}

func TestRAMBankReadDebugNoSideEffect(t *testing.T) {
	b, err := New8BitRAMBank(1<<16, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank: %v", err)
	}
	b.Write(0x10, 0xAA)
	b.Read(0x20) // Updates databus.
	if got := b.ReadDebug(0x10); got != 0xAA {
		t.Errorf("ReadDebug(0x10) = %02X, want AA", got)
	}
	if got := b.DatabusVal(); got != 0x00 {
		t.Errorf("DatabusVal() changed by ReadDebug: got %02X, want 00 (from the prior Read of 0x20)", got)
	}
}

func TestLatestDatabusVal(t *testing.T) {
	parent, err := New8BitRAMBank(0x100, nil)
	if err != nil {
		t.Fatalf("New8BitRAMBank parent: %v", err)
	}
	child, err := New8BitRAMBank(0x100, parent)
	if err != nil {
		t.Fatalf("New8BitRAMBank child: %v", err)
	}
	parent.Write(0x01, 0x55)
	child.Write(0x02, 0x99)
	if got := LatestDatabusVal(child); got != 0x55 {
		t.Errorf("LatestDatabusVal(child) = %02X, want 55 (parent's last value)", got)
	}
}
