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

// QuirkConfig collects the six behaviour switches that historical CHIP-8
// implementations disagree on. It is supplied once at construction and
// never mutated during a session.
type QuirkConfig struct {
	// OR/AND/XOR additionally zero VF afterward
	ResetFlags bool

	// Block register store/load mutates the index register as it walks,
	// one increment per register copied. The final memory image is the
	// same either way.
	IncrementIndex bool

	// A draw is deferred until the next frame tick instead of executing
	// within the cycle that issued it
	DisplayWait bool

	// Sprite rows/columns falling outside the screen are dropped; when
	// false they wrap around the opposite edge
	ClipSprites bool

	// Shifts read their source value from Vy; when false they read Vx.
	// The result lands in Vx either way.
	ShiftSourceY bool

	// Jump-with-offset adds the register named by the address's high
	// nibble; when false it always adds V0
	JumpOffsetX bool
}

// DefaultQuirks reproduces the behaviour of the original COSMAC VIP
// interpreter.
func DefaultQuirks() QuirkConfig {
	return QuirkConfig{
		ResetFlags:     true,
		IncrementIndex: true,
		DisplayWait:    true,
		ClipSprites:    true,
		ShiftSourceY:   true,
		JumpOffsetX:    false,
	}
}
