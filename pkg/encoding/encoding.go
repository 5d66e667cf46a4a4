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

package encoding

// Returns the upper four bits of a byte, shifted down into 0x0-0xF
func HighNibble(value uint8) uint8 {
	return value >> 4
}

// Returns the lower four bits of a byte
func LowNibble(value uint8) uint8 {
	return value & 0xF
}

// Combines two bytes into a big-endian 16-bit instruction word
func Word(first uint8, second uint8) uint16 {
	return (uint16(first) << 8) | uint16(second)
}

// Extracts the 12-bit address of an instruction word: the low nibble of the
// first byte shifted left eight, combined with the whole second byte
func Addr(first uint8, second uint8) uint16 {
	return (uint16(first&0xF) << 8) | uint16(second)
}
