// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"fmt"
	"io"
	"math/rand/v2"
)

func NewMachine(devices *DeviceHandler, quirks QuirkConfig) *Machine {
	mc := &Machine{
		Devices: devices,
		Quirks:  quirks,
	}

	mc.State.Reset()

	return mc
}

func (mc *MachineState) Reset() {
	for i := range mc.Memory {
		mc.Memory[i] = 0x00
	}

	for i := range mc.Registers {
		mc.Registers[i] = 0x00
	}

	for i := range mc.Stack {
		mc.Stack[i] = 0x0000
	}

	for i := range mc.Pixels {
		mc.Pixels[i] = false
	}

	// Glyph sprites occupy the bottom of memory below the program space
	copy(mc.Memory[:len(GlyphSprites)], GlyphSprites[:])

	mc.Index = 0x0000
	mc.Program = PROGRAM_START
	mc.StackPointer = 0

	mc.DelayTimer = 0x00
	mc.SoundTimer = 0x00

	mc.Keyboard = make(map[uint8]bool)
	mc.Wait = WaitState{}

	mc.Running = false
}

// LoadProgram resets the machine and copies the program image verbatim into
// memory starting at the program space, leaving the machine running with the
// program counter at the first instruction.
func (mc *Machine) LoadProgram(reader io.Reader) error {
	mc.State.Reset()

	program := mc.State.Memory[PROGRAM_START:]

	image, err := io.ReadAll(reader)

	if err != nil {
		return fmt.Errorf("reading program image: %w", err)
	}

	if len(image) > len(program) {
		return fmt.Errorf(
			"program image is %d bytes, exceeding the %d byte program space",
			len(image),
			len(program),
		)
	}

	copy(program, image)

	if mc.Devices != nil && mc.Devices.Tone != nil {
		mc.Devices.Tone.Stop()
	}

	mc.State.Running = true
	return nil
}

// KeyPress records a pressed key, 0x0 through 0xF. While waiting on a key
// the value is latched into the destination register immediately, though
// the suspension is not lifted until the key is released again.
func (mc *Machine) KeyPress(key uint8) {
	key &= 0xF
	mc.State.Keyboard[key] = true

	if mc.State.Wait.Status == WAIT_KEY {
		mc.State.Registers[mc.State.Wait.Register] = key
		mc.State.Wait.Key = key
		mc.State.Wait.Latched = true
	}
}

// KeyRelease records a released key. Releasing the key most recently
// latched by KeyPress resumes a machine suspended on a key wait.
func (mc *Machine) KeyRelease(key uint8) {
	key &= 0xF
	delete(mc.State.Keyboard, key)

	wait := &mc.State.Wait

	if wait.Status == WAIT_KEY && wait.Latched && wait.Key == key {
		mc.State.Wait = WaitState{}
	}
}

func (mc *Machine) push(value uint16) {
	mc.State.Stack[mc.State.StackPointer] = value
	mc.State.StackPointer++
}

func (mc *Machine) pop() uint16 {
	mc.State.StackPointer--
	return mc.State.Stack[mc.State.StackPointer]
}

// Cycle performs one fetch-decode-execute step. The step is skipped
// entirely while the machine is halted or suspended on a key or refresh
// wait. A word the decoder does not recognize halts the machine and is
// reported along with its address.
func (mc *Machine) Cycle() error {
	if !mc.State.Running || mc.State.Wait.Status != WAIT_NONE {
		return nil
	}

	first := mc.State.Memory[mc.State.Program]
	second := mc.State.Memory[mc.State.Program+1]

	instruction, err := Decode(first, second)

	if err != nil {
		mc.State.Running = false
		return fmt.Errorf("%#03x: %w", mc.State.Program, err)
	}

	mc.State.Program += PROGRAM_INCREMENT
	mc.execute(instruction)

	return nil
}

// Frame performs the once-per-rendered-frame tick: timers count down,
// the framebuffer is presented, and a draw deferred by the display-wait
// quirk is resolved. The tick runs even while the machine is suspended,
// which is what allows a refresh wait to ever complete.
func (mc *Machine) Frame() {
	if !mc.State.Running {
		return
	}

	if mc.State.DelayTimer > 0 {
		mc.State.DelayTimer--
	}

	if mc.State.SoundTimer > 0 {
		mc.State.SoundTimer--

		if mc.State.SoundTimer == 0 {
			if mc.Devices != nil && mc.Devices.Tone != nil {
				mc.Devices.Tone.Stop()
			}
		}
	}

	if mc.Devices != nil && mc.Devices.Display != nil {
		mc.Devices.Display.Refresh(&mc.State.Pixels)
	}

	if mc.State.Wait.Status == WAIT_REFRESH {
		wait := mc.State.Wait
		mc.State.Wait = WaitState{}
		mc.completeDraw(wait.X, wait.Y, wait.Height)
	}
}

func (mc *Machine) execute(in Instruction) {
	registers := &mc.State.Registers

	switch in.Op {
	// SYS  |0nnn | Machine routine call, treated as CALL
	// CALL |2nnn | Subroutine call
	// ---- [ _ _ _ _ ]
	case OP_SYS, OP_CALL:
		mc.push(mc.State.Program)
		mc.State.Program = in.Addr

	// CLS  |00E0 | Clear screen
	// ---- [ _ _ _ _ ]
	case OP_CLS:
		for i := range mc.State.Pixels {
			mc.State.Pixels[i] = false
		}

	// RET  |00EE | Subroutine return
	// ---- [ _ _ _ _ ]
	case OP_RET:
		mc.State.Program = mc.pop()

	// JP   |1nnn | Absolute jump
	// ---- [ _ _ _ _ ]
	case OP_JP:
		mc.State.Program = in.Addr

	// SE   |3xkk | Skip next instruction if Vx == kk
	// ---- [ _ _ _ _ ]
	case OP_SE_VAL:
		if registers[in.X] == in.Value {
			mc.State.Program += PROGRAM_INCREMENT
		}

	// SNE  |4xkk | Skip next instruction if Vx != kk
	// ---- [ _ _ _ _ ]
	case OP_SNE_VAL:
		if registers[in.X] != in.Value {
			mc.State.Program += PROGRAM_INCREMENT
		}

	// SE   |5xy0 | Skip next instruction if Vx == Vy
	// ---- [ _ _ _ _ ]
	case OP_SE_REG:
		if registers[in.X] == registers[in.Y] {
			mc.State.Program += PROGRAM_INCREMENT
		}

	// LD   |6xkk | Immediate load
	// ---- [ _ _ _ _ ]
	case OP_LD_VAL:
		registers[in.X] = in.Value

	// ADD  |7xkk | Immediate addition, carry flag untouched
	// ---- [ _ _ _ _ ]
	case OP_ADD_VAL:
		registers[in.X] += in.Value

	// LD   |8xy0 | Register copy
	// ---- [ _ _ _ _ ]
	case OP_LD_REG:
		registers[in.X] = registers[in.Y]

	// OR   |8xy1 | Bitwise or
	// ---- [ _ _ _ _ ]
	case OP_OR:
		registers[in.X] |= registers[in.Y]
		mc.resetFlags()

	// AND  |8xy2 | Bitwise and
	// ---- [ _ _ _ _ ]
	case OP_AND:
		registers[in.X] &= registers[in.Y]
		mc.resetFlags()

	// XOR  |8xy3 | Bitwise exclusive or
	// ---- [ _ _ _ _ ]
	case OP_XOR:
		registers[in.X] ^= registers[in.Y]
		mc.resetFlags()

	// ADD  |8xy4 | Register addition, VF is the carry bit
	// ---- [ _ _ _ _ ]
	case OP_ADD_REG:
		sum := uint16(registers[in.X]) + uint16(registers[in.Y])

		registers[in.X] = uint8(sum)

		// Flag written last so VF as an operand still works
		if sum > 0xFF {
			registers[REGISTER_FLAGS] = 1
		} else {
			registers[REGISTER_FLAGS] = 0
		}

	// SUB  |8xy5 | Vx = Vx - Vy, VF set when no borrow occurred
	// ---- [ _ _ _ _ ]
	case OP_SUB:
		borrow := registers[in.Y] > registers[in.X]

		registers[in.X] -= registers[in.Y]

		if borrow {
			registers[REGISTER_FLAGS] = 0
		} else {
			registers[REGISTER_FLAGS] = 1
		}

	// SHR  |8xy6 | Right shift into Vx, VF is the shifted-off bit
	// ---- [ _ _ _ _ ]
	case OP_SHR:
		source := mc.shiftSource(in)

		registers[in.X] = source >> 1
		registers[REGISTER_FLAGS] = source & 0x1

	// SUBN |8xy7 | Vx = Vy - Vx, VF set when no borrow occurred
	// ---- [ _ _ _ _ ]
	case OP_SUBN:
		borrow := registers[in.X] > registers[in.Y]

		registers[in.X] = registers[in.Y] - registers[in.X]

		if borrow {
			registers[REGISTER_FLAGS] = 0
		} else {
			registers[REGISTER_FLAGS] = 1
		}

	// SHL  |8xyE | Left shift into Vx, VF is the shifted-off bit
	// ---- [ _ _ _ _ ]
	case OP_SHL:
		source := mc.shiftSource(in)

		registers[in.X] = source << 1
		registers[REGISTER_FLAGS] = source >> 7

	// SNE  |9xy0 | Skip next instruction if Vx != Vy
	// ---- [ _ _ _ _ ]
	case OP_SNE_REG:
		if registers[in.X] != registers[in.Y] {
			mc.State.Program += PROGRAM_INCREMENT
		}

	// LD   |Annn | Load address into the index register
	// ---- [ _ _ _ _ ]
	case OP_LD_I:
		mc.State.Index = in.Addr

	// JP   |Bnnn | Jump with register offset, V0 or Vx by quirk
	// ---- [ _ _ _ _ ]
	case OP_JP_V0:
		offset := uint8(0x0)

		if mc.Quirks.JumpOffsetX {
			offset = uint8(in.Addr >> 8)
		}

		mc.State.Program = in.Addr + uint16(registers[offset])

	// RND  |Cxkk | Random byte masked by kk
	// ---- [ _ _ _ _ ]
	case OP_RND:
		registers[in.X] = uint8(rand.UintN(0x100)) & in.Value

	// DRW  |Dxyn | XOR an n-byte sprite at (Vx, Vy), VF on collision
	// ---- [ _ _ _ _ ]
	case OP_DRW:
		if mc.Quirks.DisplayWait {
			// Draw is deferred, parameters stashed until the frame tick
			mc.State.Wait = WaitState{
				Status: WAIT_REFRESH,
				X:      in.X,
				Y:      in.Y,
				Height: in.Height,
			}
		} else {
			mc.completeDraw(in.X, in.Y, in.Height)
		}

	// SKP  |Ex9E | Skip next instruction if the key in Vx is pressed
	// ---- [ _ _ _ _ ]
	case OP_SKP:
		if mc.State.Keyboard[registers[in.X]&0xF] {
			mc.State.Program += PROGRAM_INCREMENT
		}

	// SKNP |ExA1 | Skip next instruction if the key in Vx is not pressed
	// ---- [ _ _ _ _ ]
	case OP_SKNP:
		if !mc.State.Keyboard[registers[in.X]&0xF] {
			mc.State.Program += PROGRAM_INCREMENT
		}

	// LD   |Fx07 | Read the delay timer
	// ---- [ _ _ _ _ ]
	case OP_LD_DT:
		registers[in.X] = mc.State.DelayTimer

	// LD   |Fx0A | Suspend until a key press and release
	// ---- [ _ _ _ _ ]
	case OP_LD_KEY:
		mc.State.Wait = WaitState{
			Status:   WAIT_KEY,
			Register: in.X,
		}

	// LD   |Fx15 | Set the delay timer
	// ---- [ _ _ _ _ ]
	case OP_SET_DT:
		mc.State.DelayTimer = registers[in.X]

	// LD   |Fx18 | Set the sound timer
	// ---- [ _ _ _ _ ]
	case OP_SET_ST:
		mc.State.SoundTimer = registers[in.X]

		if mc.Devices != nil && mc.Devices.Tone != nil {
			if mc.State.SoundTimer > 0 {
				mc.Devices.Tone.Start()
			} else {
				mc.Devices.Tone.Stop()
			}
		}

	// ADD  |Fx1E | Add Vx into the index register, no carry flag
	// ---- [ _ _ _ _ ]
	case OP_ADD_I:
		mc.State.Index += uint16(registers[in.X])

	// LD   |Fx29 | Point the index register at the glyph sprite for Vx
	// ---- [ _ _ _ _ ]
	case OP_LD_GLYPH:
		mc.State.Index = uint16(registers[in.X]&0xF) * GLYPH_LENGTH

	// LD   |Fx33 | Store the decimal digits of Vx at I, I+1, I+2
	// ---- [ _ _ _ _ ]
	case OP_BCD:
		value := registers[in.X]

		mc.State.Memory[mc.State.Index+2] = value % 10
		value /= 10

		mc.State.Memory[mc.State.Index+1] = value % 10
		value /= 10

		mc.State.Memory[mc.State.Index] = value % 10

	// LD   |Fx55 | Store V0 through Vx into memory at I
	// ---- [ _ _ _ _ ]
	case OP_STORE_REGS:
		for i := uint16(0); i <= uint16(in.X); i++ {
			if mc.Quirks.IncrementIndex {
				mc.State.Memory[mc.State.Index] = registers[i]
				mc.State.Index++
			} else {
				mc.State.Memory[mc.State.Index+i] = registers[i]
			}
		}

	// LD   |Fx65 | Load V0 through Vx from memory at I
	// ---- [ _ _ _ _ ]
	case OP_LOAD_REGS:
		for i := uint16(0); i <= uint16(in.X); i++ {
			if mc.Quirks.IncrementIndex {
				registers[i] = mc.State.Memory[mc.State.Index]
				mc.State.Index++
			} else {
				registers[i] = mc.State.Memory[mc.State.Index+i]
			}
		}
	}
}

// Logic ops zero VF afterward under the reset quirk
func (mc *Machine) resetFlags() {
	if mc.Quirks.ResetFlags {
		mc.State.Registers[REGISTER_FLAGS] = 0
	}
}

func (mc *Machine) shiftSource(in Instruction) uint8 {
	if mc.Quirks.ShiftSourceY {
		return mc.State.Registers[in.Y]
	}

	return mc.State.Registers[in.X]
}

// completeDraw XORs a sprite of the given height onto the framebuffer. The
// origin always wraps onto the screen; rows and columns past the edges
// either clip or wrap by quirk. VF is set when any lit pixel is erased.
func (mc *Machine) completeDraw(xr uint8, yr uint8, height uint8) {
	originX := int(mc.State.Registers[xr]) % SCREEN_WIDTH
	originY := int(mc.State.Registers[yr]) % SCREEN_HEIGHT

	mc.State.Registers[REGISTER_FLAGS] = 0

	for row := 0; row < int(height); row++ {
		y := originY + row

		if y >= SCREEN_HEIGHT {
			if mc.Quirks.ClipSprites {
				break
			}

			y %= SCREEN_HEIGHT
		}

		sprite := mc.State.Memory[mc.State.Index+uint16(row)]

		for bit := 0; bit < 8; bit++ {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			x := originX + bit

			if x >= SCREEN_WIDTH {
				if mc.Quirks.ClipSprites {
					continue
				}

				x %= SCREEN_WIDTH
			}

			index := y*SCREEN_WIDTH + x

			if mc.State.Pixels[index] {
				mc.State.Registers[REGISTER_FLAGS] = 1
			}

			mc.State.Pixels[index] = !mc.State.Pixels[index]
		}
	}
}
