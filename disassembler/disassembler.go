// disassembler loads a flat binary file into RAM at the given offset and
// disassembles it to stdout starting at the given PC, using the opcode
// table of the requested processor variant.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/jmchacon/go6502/cpu"
	"github.com/jmchacon/go6502/disassemble"
	"github.com/jmchacon/go6502/memory"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "Offset into RAM to start loading data. All other RAM is filled with random values.")
	variant = flag.String("variant", "nmos-undocumented", "Processor variant: nmos, nmos-undocumented, nmos-ricoh, cmos, wdc65c02, rockwell65c02")
)

func variantFromFlag(s string) cpu.Variant {
	switch s {
	case "nmos":
		return cpu.VariantNMOS
	case "nmos-undocumented":
		return cpu.VariantNMOSUndocumented
	case "nmos-ricoh":
		return cpu.VariantNMOSRicoh
	case "cmos":
		return cpu.VariantCMOS
	case "wdc65c02":
		return cpu.VariantWDC65C02
	case "rockwell65c02":
		return cpu.VariantRockwell65C02
	}
	return cpu.VariantUnknown
}

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s [-start_pc <PC> -offset <offset> -variant <variant>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	v := variantFromFlag(*variant)
	if v == cpu.VariantUnknown {
		log.Fatalf("Unknown variant %q", *variant)
	}

	bank, err := memory.New8BitRAMBank(1<<16, nil)
	if err != nil {
		log.Fatalf("Can't initialize RAM: %v", err)
	}
	bank.PowerOn()

	b, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}
	max := 1<<16 - *offset
	if l := len(b); l > max {
		log.Printf("Length %d at offset %d too long, truncating to 64k", l, *offset)
		b = b[:max]
	}
	for i, by := range b {
		bank.Write(uint16(*offset+i), by)
	}

	c, err := cpu.New(&cpu.Definition{Variant: v, Bus: bank})
	if err != nil {
		log.Fatalf("Can't create CPU: %v", err)
	}

	pc := uint16(*startPC)
	fmt.Printf("0x%.2X bytes at pc: %.4X\n", len(b), pc)
	cnt := 0
	for cnt < len(b) {
		text, next, _, _ := disassemble.Step(c, bank, pc, nil)
		fmt.Printf("%.4X %s\n", pc, text)
		cnt += int(next - pc)
		pc = next
	}
}
