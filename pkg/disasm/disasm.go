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

// Package disasm renders decoded instructions in conventional CHIP-8
// assembly notation: lowercase mnemonics, V-prefixed registers, and
// $-prefixed hexadecimal immediates.
package disasm

import (
	"fmt"

	"github.com/lassandro/goc8/pkg/machine"
)

// Format renders a decoded instruction as one line of assembly
func Format(in machine.Instruction) string {
	switch in.Op {
	case machine.OP_CLS:
		return "cls"
	case machine.OP_RET:
		return "ret"
	case machine.OP_SYS:
		return fmt.Sprintf("sys $%03X", in.Addr)
	case machine.OP_JP:
		return fmt.Sprintf("jp $%03X", in.Addr)
	case machine.OP_CALL:
		return fmt.Sprintf("call $%03X", in.Addr)
	case machine.OP_SE_VAL:
		return fmt.Sprintf("se V%X, $%02X", in.X, in.Value)
	case machine.OP_SNE_VAL:
		return fmt.Sprintf("sne V%X, $%02X", in.X, in.Value)
	case machine.OP_SE_REG:
		return fmt.Sprintf("se V%X, V%X", in.X, in.Y)
	case machine.OP_LD_VAL:
		return fmt.Sprintf("ld V%X, $%02X", in.X, in.Value)
	case machine.OP_ADD_VAL:
		return fmt.Sprintf("add V%X, $%02X", in.X, in.Value)
	case machine.OP_LD_REG:
		return fmt.Sprintf("ld V%X, V%X", in.X, in.Y)
	case machine.OP_OR:
		return fmt.Sprintf("or V%X, V%X", in.X, in.Y)
	case machine.OP_AND:
		return fmt.Sprintf("and V%X, V%X", in.X, in.Y)
	case machine.OP_XOR:
		return fmt.Sprintf("xor V%X, V%X", in.X, in.Y)
	case machine.OP_ADD_REG:
		return fmt.Sprintf("add V%X, V%X", in.X, in.Y)
	case machine.OP_SUB:
		return fmt.Sprintf("sub V%X, V%X", in.X, in.Y)
	case machine.OP_SHR:
		return fmt.Sprintf("shr V%X", in.X)
	case machine.OP_SUBN:
		return fmt.Sprintf("subn V%X, V%X", in.X, in.Y)
	case machine.OP_SHL:
		return fmt.Sprintf("shl V%X", in.X)
	case machine.OP_SNE_REG:
		return fmt.Sprintf("sne V%X, V%X", in.X, in.Y)
	case machine.OP_LD_I:
		return fmt.Sprintf("ld I, $%03X", in.Addr)
	case machine.OP_JP_V0:
		return fmt.Sprintf("jp V0, $%03X", in.Addr)
	case machine.OP_RND:
		return fmt.Sprintf("rnd V%X, $%02X", in.X, in.Value)
	case machine.OP_DRW:
		return fmt.Sprintf("drw V%X, V%X, $%X", in.X, in.Y, in.Height)
	case machine.OP_SKP:
		return fmt.Sprintf("skp V%X", in.X)
	case machine.OP_SKNP:
		return fmt.Sprintf("sknp V%X", in.X)
	case machine.OP_LD_DT:
		return fmt.Sprintf("ld V%X, DT", in.X)
	case machine.OP_LD_KEY:
		return fmt.Sprintf("ld V%X, K", in.X)
	case machine.OP_SET_DT:
		return fmt.Sprintf("ld DT, V%X", in.X)
	case machine.OP_SET_ST:
		return fmt.Sprintf("ld ST, V%X", in.X)
	case machine.OP_ADD_I:
		return fmt.Sprintf("add I, V%X", in.X)
	case machine.OP_LD_GLYPH:
		return fmt.Sprintf("ld F, V%X", in.X)
	case machine.OP_BCD:
		return fmt.Sprintf("ld B, V%X", in.X)
	case machine.OP_STORE_REGS:
		return fmt.Sprintf("ld [I], V%X", in.X)
	case machine.OP_LOAD_REGS:
		return fmt.Sprintf("ld V%X, [I]", in.X)
	}

	return ""
}

// Disassemble decodes and renders one instruction word
func Disassemble(first uint8, second uint8) (string, error) {
	instruction, err := machine.Decode(first, second)

	if err != nil {
		return "", err
	}

	return Format(instruction), nil
}
