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

	"github.com/lassandro/goc8/pkg/encoding"
)

type Op uint8

const (
	OP_SYS Op = iota // 0nnn
	OP_CLS           // 00E0
	OP_RET           // 00EE
	OP_JP            // 1nnn
	OP_CALL          // 2nnn
	OP_SE_VAL        // 3xkk
	OP_SNE_VAL       // 4xkk
	OP_SE_REG        // 5xy0
	OP_LD_VAL        // 6xkk
	OP_ADD_VAL       // 7xkk
	OP_LD_REG        // 8xy0
	OP_OR            // 8xy1
	OP_AND           // 8xy2
	OP_XOR           // 8xy3
	OP_ADD_REG       // 8xy4
	OP_SUB           // 8xy5
	OP_SHR           // 8xy6
	OP_SUBN          // 8xy7
	OP_SHL           // 8xyE
	OP_SNE_REG       // 9xy0
	OP_LD_I          // Annn
	OP_JP_V0         // Bnnn
	OP_RND           // Cxkk
	OP_DRW           // Dxyn
	OP_SKP           // Ex9E
	OP_SKNP          // ExA1
	OP_LD_DT         // Fx07
	OP_LD_KEY        // Fx0A
	OP_SET_DT        // Fx15
	OP_SET_ST        // Fx18
	OP_ADD_I         // Fx1E
	OP_LD_GLYPH      // Fx29
	OP_BCD           // Fx33
	OP_STORE_REGS    // Fx55
	OP_LOAD_REGS     // Fx65
)

// Instruction is one decoded instruction word. Only the operand fields
// relevant to Op carry meaning; the rest are zero.
type Instruction struct {
	Op     Op
	X      uint8  // first register index (low nibble, first byte)
	Y      uint8  // second register index (high nibble, second byte)
	Value  uint8  // immediate byte (whole second byte)
	Addr   uint16 // 12-bit address
	Height uint8  // sprite height (low nibble, second byte)
}

// DecodeError reports an instruction word that matches no known pattern
type DecodeError struct {
	Word uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unrecognized instruction word %#04x", e.Word)
}

// Decode turns a two-byte instruction word into a typed Instruction. The
// two whole-word patterns are checked first, then the high nibble of the
// first byte selects the opcode family, with the families 0x5, 0x8, 0x9,
// 0xE and 0xF dispatching a second time on the second byte or its low
// nibble. Every unmapped pattern returns a DecodeError.
func Decode(first uint8, second uint8) (Instruction, error) {
	word := encoding.Word(first, second)

	switch word {
	case 0x00E0:
		return Instruction{Op: OP_CLS}, nil
	case 0x00EE:
		return Instruction{Op: OP_RET}, nil
	}

	x := encoding.LowNibble(first)
	y := encoding.HighNibble(second)
	addr := encoding.Addr(first, second)

	switch encoding.HighNibble(first) {
	case 0x0:
		return Instruction{Op: OP_SYS, Addr: addr}, nil

	case 0x1:
		return Instruction{Op: OP_JP, Addr: addr}, nil

	case 0x2:
		return Instruction{Op: OP_CALL, Addr: addr}, nil

	case 0x3:
		return Instruction{Op: OP_SE_VAL, X: x, Value: second}, nil

	case 0x4:
		return Instruction{Op: OP_SNE_VAL, X: x, Value: second}, nil

	case 0x5:
		if encoding.LowNibble(second) == 0x0 {
			return Instruction{Op: OP_SE_REG, X: x, Y: y}, nil
		}

	case 0x6:
		return Instruction{Op: OP_LD_VAL, X: x, Value: second}, nil

	case 0x7:
		return Instruction{Op: OP_ADD_VAL, X: x, Value: second}, nil

	case 0x8:
		var op Op

		switch encoding.LowNibble(second) {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xE:
			op = OP_SHL
		default:
			return Instruction{}, &DecodeError{Word: word}
		}

		return Instruction{Op: op, X: x, Y: y}, nil

	case 0x9:
		if encoding.LowNibble(second) == 0x0 {
			return Instruction{Op: OP_SNE_REG, X: x, Y: y}, nil
		}

	case 0xA:
		return Instruction{Op: OP_LD_I, Addr: addr}, nil

	case 0xB:
		return Instruction{Op: OP_JP_V0, Addr: addr}, nil

	case 0xC:
		return Instruction{Op: OP_RND, X: x, Value: second}, nil

	case 0xD:
		return Instruction{
			Op: OP_DRW, X: x, Y: y, Height: encoding.LowNibble(second),
		}, nil

	case 0xE:
		switch second {
		case 0x9E:
			return Instruction{Op: OP_SKP, X: x}, nil
		case 0xA1:
			return Instruction{Op: OP_SKNP, X: x}, nil
		}

	case 0xF:
		var op Op

		switch second {
		case 0x07:
			op = OP_LD_DT
		case 0x0A:
			op = OP_LD_KEY
		case 0x15:
			op = OP_SET_DT
		case 0x18:
			op = OP_SET_ST
		case 0x1E:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_GLYPH
		case 0x33:
			op = OP_BCD
		case 0x55:
			op = OP_STORE_REGS
		case 0x65:
			op = OP_LOAD_REGS
		default:
			return Instruction{}, &DecodeError{Word: word}
		}

		return Instruction{Op: op, X: x}, nil
	}

	return Instruction{}, &DecodeError{Word: word}
}
