package chip8

// Step executes the instruction at PC: fetch two bytes big-endian, advance
// PC past them, then dispatch. Jump and call instructions overwrite the
// pre-incremented PC. Once the machine has halted on an unrecognized
// opcode, Step is a no-op.
//
// A machine waiting on a key release (the FX0A instruction) does not fetch;
// it re-checks the keypad each Step until a key that was down at the
// previous Step has come up, then stores that key and resumes.
func (m *Machine) Step() {
	if m.fault != nil {
		return
	}
	m.frameDone = false

	if m.waitReg >= 0 {
		if k, ok := m.releasedKey(); ok {
			m.V[m.waitReg] = k
			m.waitReg = -1
			m.frameDone = true
		}
		m.prev = m.keys
		return
	}

	op := uint16(m.Mem[m.PC&addrMask])<<8 | uint16(m.Mem[(m.PC+1)&addrMask])
	m.PC += 2
	m.exec(op)
	m.prev = m.keys
}

func (m *Machine) exec(op uint16) {
	var (
		nnn = op & 0x0FFF
		nn  = byte(op)
		n   = byte(op & 0x000F)
		x   = byte(op&0x0F00) >> 8
		y   = byte(op&0x00F0) >> 4
	)

	switch op & 0xF000 {
	case 0x0000:
		switch op {
		case 0x00E0: // clear screen
			m.gfx = [ScreenWidth * ScreenHeight]byte{}
			m.draw = true
			m.frameDone = true
		case 0x00EE: // return
			m.SP--
			m.PC = m.Stack[m.SP&(StackSize-1)]
		default:
			m.halt(op)
		}

	case 0x1000: // jump
		m.PC = nnn

	case 0x2000: // call
		m.Stack[m.SP&(StackSize-1)] = m.PC
		m.SP++
		m.PC = nnn

	case 0x3000: // skip if VX == NN
		if m.V[x] == nn {
			m.PC += 2
		}

	case 0x4000: // skip if VX != NN
		if m.V[x] != nn {
			m.PC += 2
		}

	case 0x5000: // skip if VX == VY
		if m.V[x] == m.V[y] {
			m.PC += 2
		}

	case 0x6000: // VX = NN
		m.V[x] = nn

	case 0x7000: // VX += NN, no flag
		m.V[x] += nn

	case 0x8000:
		m.execALU(op, x, y)

	case 0x9000: // skip if VX != VY
		if m.V[x] != m.V[y] {
			m.PC += 2
		}

	case 0xA000: // I = NNN
		m.I = nnn

	case 0xB000: // jump to NNN + V0
		m.PC = nnn + uint16(m.V[0])

	case 0xC000: // VX = random byte AND NN
		m.V[x] = byte(m.Rand.Intn(256)) & nn

	case 0xD000:
		m.drawSprite(x, y, n)

	case 0xE000:
		switch nn {
		case 0x9E: // skip if key VX pressed
			if m.keys[m.V[x]&0x0F] {
				m.PC += 2
			}
		case 0xA1: // skip if key VX not pressed
			if !m.keys[m.V[x]&0x0F] {
				m.PC += 2
			}
		default:
			m.halt(op)
		}

	case 0xF000:
		switch nn {
		case 0x07: // VX = delay timer
			m.V[x] = m.Delay
		case 0x0A: // wait for key release
			if k, ok := m.releasedKey(); ok {
				m.V[x] = k
				m.frameDone = true
			} else {
				m.waitReg = int(x)
			}
		case 0x15: // delay timer = VX
			m.Delay = m.V[x]
		case 0x18: // sound timer = VX
			m.Sound = m.V[x]
		case 0x1E: // I += VX, no flag
			m.I += uint16(m.V[x])
		case 0x29: // I = font glyph address for digit VX
			m.I = uint16(m.V[x]) * 5
		case 0x33: // binary-coded decimal of VX at I..I+2
			m.Mem[m.I&addrMask] = m.V[x] / 100
			m.Mem[(m.I+1)&addrMask] = m.V[x] / 10 % 10
			m.Mem[(m.I+2)&addrMask] = m.V[x] % 10
		case 0x55: // store V0..VX at I; I advances per register
			for i := byte(0); i <= x; i++ {
				m.Mem[m.I&addrMask] = m.V[i]
				m.I++
			}
		case 0x65: // load V0..VX from I; I advances per register
			for i := byte(0); i <= x; i++ {
				m.V[i] = m.Mem[m.I&addrMask]
				m.I++
			}
		default:
			m.halt(op)
		}
	}
}

// execALU handles the 8XYN register-to-register family. The flag register
// is written after the result, so an operation targeting VF keeps the flag,
// and the bitwise ops force VF to zero as the original interpreter did.
func (m *Machine) execALU(op uint16, x, y byte) {
	switch op & 0x000F {
	case 0x0:
		m.V[x] = m.V[y]
	case 0x1:
		m.V[x] |= m.V[y]
		m.V[0xF] = 0
	case 0x2:
		m.V[x] &= m.V[y]
		m.V[0xF] = 0
	case 0x3:
		m.V[x] ^= m.V[y]
		m.V[0xF] = 0
	case 0x4: // VX += VY, VF = carry
		sum := uint16(m.V[x]) + uint16(m.V[y])
		m.V[x] = byte(sum)
		if sum > 0xFF {
			m.V[0xF] = 1
		} else {
			m.V[0xF] = 0
		}
	case 0x5: // VX -= VY, VF = no borrow
		flag := byte(0)
		if m.V[x] >= m.V[y] {
			flag = 1
		}
		m.V[x] -= m.V[y]
		m.V[0xF] = flag
	case 0x6: // VX = VY >> 1, VF = bit shifted out
		bit := m.V[y] & 1
		m.V[x] = m.V[y] >> 1
		m.V[0xF] = bit
	case 0x7: // VX = VY - VX, VF = no borrow
		flag := byte(0)
		if m.V[y] >= m.V[x] {
			flag = 1
		}
		m.V[x] = m.V[y] - m.V[x]
		m.V[0xF] = flag
	case 0xE: // VX = VY << 1, VF = bit shifted out
		bit := m.V[y] >> 7
		m.V[x] = m.V[y] << 1
		m.V[0xF] = bit
	default:
		m.halt(op)
	}
}

// drawSprite XORs the N-row sprite at I onto the display at (VX, VY).
// Start coordinates wrap; within the sprite, a row or column whose
// coordinate exceeds the display bound is skipped, but one exactly at the
// bound is drawn and wraps to row or column zero. VF is set if any lit
// pixel was toggled off.
func (m *Machine) drawSprite(x, y, n byte) {
	px := uint16(m.V[x]) % ScreenWidth
	py := uint16(m.V[y]) % ScreenHeight
	m.V[0xF] = 0
	for row := uint16(0); row < uint16(n); row++ {
		if py+row > ScreenHeight {
			continue
		}
		bits := m.Mem[(m.I+row)&addrMask]
		for col := uint16(0); col < 8; col++ {
			if px+col > ScreenWidth {
				continue
			}
			if bits&(0x80>>col) == 0 {
				continue
			}
			idx := (py+row)%ScreenHeight*ScreenWidth + (px+col)%ScreenWidth
			if m.gfx[idx] == 1 {
				m.V[0xF] = 1
			}
			m.gfx[idx] ^= 1
		}
	}
	m.draw = true
	m.frameDone = true
}

// releasedKey scans for a key that was down at the previous Step and is up
// now.
func (m *Machine) releasedKey() (byte, bool) {
	for i := 0; i < NumKeys; i++ {
		if m.prev[i] && !m.keys[i] {
			return byte(i), true
		}
	}
	return 0, false
}

func (m *Machine) halt(op uint16) {
	m.fault = &OpcodeError{Opcode: op, Addr: m.PC - 2}
}
