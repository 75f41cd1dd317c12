// Package chip8 provides an implementation of a CHIP-8 interpreter, called
// Machine, that can be used to execute CHIP-8 program images.
package chip8

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// MemorySize is the size of the emulated memory in bytes.
	MemorySize = 4096
	// ProgramStart is the address at which program images are loaded and
	// at which execution begins.
	ProgramStart = 0x200
	// StackSize is the depth of the call stack.
	StackSize = 16
	// NumRegisters is the number of general purpose registers V0-VF.
	NumRegisters = 16
	// NumKeys is the number of keys on the hex keypad.
	NumKeys = 16
	// ScreenWidth and ScreenHeight are the display dimensions in pixels.
	ScreenWidth  = 64
	ScreenHeight = 32
)

// addrMask wraps memory indices into the emulated address space, matching
// the address truncation of the original hardware.
const addrMask = MemorySize - 1

// Machine is an implementation of a CHIP-8 interpreter.
//
// A Machine is a single session: create it with New, feed it a program
// image with Load or LoadImage, then drive it with Step at the instruction
// rate and Tick at 60Hz. It is not safe for concurrent use.
type Machine struct {
	Mem   [MemorySize]byte
	V     [NumRegisters]byte // VF doubles as the carry/borrow/collision flag
	I     uint16
	PC    uint16
	Stack [StackSize]uint16
	SP    byte

	Delay byte
	Sound byte

	// Rand is the source for the random instruction. New seeds it from
	// the clock; replace it for deterministic sessions.
	Rand *rand.Rand

	gfx  [ScreenWidth * ScreenHeight]byte
	keys [NumKeys]bool
	prev [NumKeys]bool // key state at the previous Step, for release detection

	waitReg   int // register awaiting a key release, or -1
	fault     *OpcodeError
	draw      bool
	frameDone bool
}

// Glyphs for the hex digits 0-F, 5 bytes each, copied into the low 80
// bytes of memory by Reset.
var fontset = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// New returns a Machine in its power-on state.
func New() *Machine {
	m := &Machine{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
	m.Reset()
	return m
}

// Reset returns the machine to its power-on state: memory, registers,
// stack, display, keys, and timers zeroed, the font loaded, PC at
// ProgramStart, and any halt cleared. The random source is kept.
func (m *Machine) Reset() {
	r := m.Rand
	*m = Machine{PC: ProgramStart, waitReg: -1, Rand: r}
	copy(m.Mem[:], fontset[:])
}

// Tick advances the delay and sound timers by one step, flooring at zero,
// and reports whether the sound timer is still running afterwards. The
// host calls it at 60Hz, independently of Step, and uses the result to
// gate the audio cue.
func (m *Machine) Tick() bool {
	if m.Sound > 0 {
		m.Sound--
	}
	if m.Delay > 0 {
		m.Delay--
	}
	return m.Sound > 0
}

// KeyDown records a press of keypad key k (0-15). Out of range keys are
// ignored.
func (m *Machine) KeyDown(k byte) {
	if k < NumKeys {
		m.keys[k] = true
	}
}

// KeyUp records a release of keypad key k (0-15).
func (m *Machine) KeyUp(k byte) {
	if k < NumKeys {
		m.keys[k] = false
	}
}

// Running reports whether the machine can execute further instructions.
// It becomes false, permanently for the session, when an unrecognized
// opcode is executed.
func (m *Machine) Running() bool { return m.fault == nil }

// Err returns the error that halted the machine, or nil while it is
// running.
func (m *Machine) Err() error {
	if m.fault == nil {
		return nil
	}
	return m.fault
}

// Redraw reports whether the display changed since the last call, and
// clears the flag.
func (m *Machine) Redraw() bool {
	d := m.draw
	m.draw = false
	return d
}

// FrameDone reports whether the last Step ended the current frame's slice
// of work: a screen mutation, or a satisfied key wait. The host uses it to
// stop executing instructions until the next frame.
func (m *Machine) FrameDone() bool { return m.frameDone }

// Pixels returns a copy of the display, row-major, one byte per pixel,
// nonzero meaning lit.
func (m *Machine) Pixels() [ScreenWidth * ScreenHeight]byte { return m.gfx }

// Pixel reports whether the pixel at (x, y) is lit.
func (m *Machine) Pixel(x, y int) bool {
	return m.gfx[y*ScreenWidth+x] != 0
}

// OpcodeError is the fault recorded when the machine fetches an
// instruction outside the CHIP-8 opcode table.
type OpcodeError struct {
	Opcode uint16
	Addr   uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unrecognized opcode %.4x at %.4x", e.Opcode, e.Addr)
}
