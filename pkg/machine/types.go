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

// Display receives the framebuffer once per frame tick
type Display interface {
	Refresh(pixels *[SCREEN_SIZE]bool)
}

// Tone receives the on/off signal derived from the sound timer
type Tone interface {
	Start()
	Stop()
}

// Either device may be nil for headless or test use
type DeviceHandler struct {
	Display Display
	Tone    Tone
}

type WaitStatus uint8

const (
	WAIT_NONE WaitStatus = iota

	// Suspended until the key latched into Register is released
	WAIT_KEY

	// Suspended until the next frame tick completes the stashed draw
	WAIT_REFRESH
)

// At most one suspension can be active, so the status and both payloads
// share a single value
type WaitState struct {
	Status   WaitStatus
	Register uint8

	// Most recent key pressed while waiting. Each press latches into the
	// destination register, but only the release of the latest press
	// lifts the suspension.
	Key     uint8
	Latched bool

	X      uint8
	Y      uint8
	Height uint8
}

type MachineState struct {
	Memory [MEMORY_SIZE]uint8

	Registers [REGISTER_COUNT]uint8
	Index     uint16
	Program   uint16

	Stack        [STACK_SIZE]uint16
	StackPointer int

	DelayTimer uint8
	SoundTimer uint8

	// Currently held keys, 0x0 through 0xF
	Keyboard map[uint8]bool
	Wait     WaitState

	Pixels [SCREEN_SIZE]bool

	Running bool
}

type Machine struct {
	Devices *DeviceHandler
	State   MachineState
	Quirks  QuirkConfig
}
