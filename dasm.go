package main

import (
	"fmt"

	isa "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// disasm renders one instruction word as assembly for the debugger's state
// line. Words that match no instruction render as raw data.
func disasm(op uint16) string {
	for _, o := range isa.Opcodes[int(op>>12)] {
		if o.Info.Mask&op != o.Info.Value {
			continue
		}
		name := o.Instruction.Name
		if args := operands(name, op); args != "" {
			return name + " " + args
		}
		return name
	}
	return fmt.Sprintf(".dw $%.4x", op)
}

// operands formats the instruction's parameters from the fields embedded in
// the word. The same mnemonic covers several encodings (ld, jp, se...), so
// dispatch is on the top nibble within each name.
func operands(name string, op uint16) string {
	var (
		nnn = op & 0x0FFF
		nn  = op & 0x00FF
		n   = op & 0x000F
		x   = op & 0x0F00 >> 8
		y   = op & 0x00F0 >> 4
	)
	switch name {
	case isa.Jp.Name:
		if op&0xF000 == 0xB000 {
			return fmt.Sprintf("v0, $%.3x", nnn)
		}
		return fmt.Sprintf("$%.3x", nnn)
	case isa.Call.Name:
		return fmt.Sprintf("$%.3x", nnn)
	case isa.Se.Name, isa.Sne.Name:
		if op&0xF000 == 0x5000 || op&0xF000 == 0x9000 {
			return fmt.Sprintf("v%x, v%x", x, y)
		}
		return fmt.Sprintf("v%x, $%.2x", x, nn)
	case isa.Ld.Name:
		return loadOperands(op, x, y, nn, nnn)
	case isa.Add.Name:
		switch op & 0xF000 {
		case 0x7000:
			return fmt.Sprintf("v%x, $%.2x", x, nn)
		case 0x8000:
			return fmt.Sprintf("v%x, v%x", x, y)
		default: // fx1e
			return fmt.Sprintf("i, v%x", x)
		}
	case isa.Or.Name, isa.And.Name, isa.Xor.Name, isa.Sub.Name, isa.Subn.Name:
		return fmt.Sprintf("v%x, v%x", x, y)
	case isa.Shr.Name, isa.Shl.Name:
		return fmt.Sprintf("v%x, v%x", x, y)
	case isa.Rnd.Name:
		return fmt.Sprintf("v%x, $%.2x", x, nn)
	case isa.Drw.Name:
		return fmt.Sprintf("v%x, v%x, $%x", x, y, n)
	case isa.Skp.Name, isa.Sknp.Name:
		return fmt.Sprintf("v%x", x)
	}
	return ""
}

// loadOperands covers the many ld encodings: register, immediate, index,
// timers, key wait, font, BCD, and register dump/load.
func loadOperands(op, x, y, nn, nnn uint16) string {
	switch op & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("v%x, $%.2x", x, nn)
	case 0x8000:
		return fmt.Sprintf("v%x, v%x", x, y)
	case 0xA000:
		return fmt.Sprintf("i, $%.3x", nnn)
	case 0xF000:
		switch nn {
		case 0x07:
			return fmt.Sprintf("v%x, dt", x)
		case 0x0A:
			return fmt.Sprintf("v%x, k", x)
		case 0x15:
			return fmt.Sprintf("dt, v%x", x)
		case 0x18:
			return fmt.Sprintf("st, v%x", x)
		case 0x29:
			return fmt.Sprintf("f, v%x", x)
		case 0x33:
			return fmt.Sprintf("b, v%x", x)
		case 0x55:
			return fmt.Sprintf("[i], v%x", x)
		case 0x65:
			return fmt.Sprintf("v%x, [i]", x)
		}
	}
	return ""
}
