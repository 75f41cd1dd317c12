package vip

import "golang.org/x/mobile/event/key"

// The 4x4 hex pad maps onto the left of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F

var padRunes = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

func padRune(r rune) (byte, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	k, ok := padRunes[r]
	return k, ok
}

var padCodes = map[key.Code]byte{
	key.Code1: 0x1, key.Code2: 0x2, key.Code3: 0x3, key.Code4: 0xC,
	key.CodeQ: 0x4, key.CodeW: 0x5, key.CodeE: 0x6, key.CodeR: 0xD,
	key.CodeA: 0x7, key.CodeS: 0x8, key.CodeD: 0x9, key.CodeF: 0xE,
	key.CodeZ: 0xA, key.CodeX: 0x0, key.CodeC: 0xB, key.CodeV: 0xF,
}

// padCode maps a physical key code to a pad key. Codes are positional, so
// the pad stays in place on non-QWERTY layouts.
func padCode(c key.Code) (byte, bool) {
	k, ok := padCodes[c]
	return k, ok
}
