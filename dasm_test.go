package main

import "testing"

func TestDisasm(t *testing.T) {
	for _, c := range []struct {
		op   uint16
		want string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x1ABC, "jp $abc"},
		{0x2ABC, "call $abc"},
		{0x3A42, "se va, $42"},
		{0x5AB0, "se va, vb"},
		{0x6A42, "ld va, $42"},
		{0x7A42, "add va, $42"},
		{0x8AB4, "add va, vb"},
		{0x8AB6, "shr va, vb"},
		{0x9AB0, "sne va, vb"},
		{0xAABC, "ld i, $abc"},
		{0xBABC, "jp v0, $abc"},
		{0xCA42, "rnd va, $42"},
		{0xDAB5, "drw va, vb, $5"},
		{0xEA9E, "skp va"},
		{0xEAA1, "sknp va"},
		{0xFA07, "ld va, dt"},
		{0xFA0A, "ld va, k"},
		{0xFA1E, "add i, va"},
		{0xFA29, "ld f, va"},
		{0xFA33, "ld b, va"},
		{0xFA55, "ld [i], va"},
		{0xFA65, "ld va, [i]"},
		{0xFFFF, ".dw $ffff"},
	} {
		if got := disasm(c.op); got != c.want {
			t.Errorf("disasm(%.4x) = %q, want %q", c.op, got, c.want)
		}
	}
}
