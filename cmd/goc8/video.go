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

package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"github.com/lassandro/goc8/pkg/disasm"
	"github.com/lassandro/goc8/pkg/machine"
)

// The 16-key pad maps onto the left half of a QWERTY layout:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var keyMap = map[ebiten.Key]uint8{
	ebiten.KeyDigit1: 0x1,
	ebiten.KeyDigit2: 0x2,
	ebiten.KeyDigit3: 0x3,
	ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ:      0x4,
	ebiten.KeyW:      0x5,
	ebiten.KeyE:      0x6,
	ebiten.KeyR:      0xD,
	ebiten.KeyA:      0x7,
	ebiten.KeyS:      0x8,
	ebiten.KeyD:      0x9,
	ebiten.KeyF:      0xE,
	ebiten.KeyZ:      0xA,
	ebiten.KeyX:      0x0,
	ebiten.KeyC:      0xB,
	ebiten.KeyV:      0xF,
}

// game drives the machine at the renderer's fixed tick rate, one machine
// frame per ebiten update. It doubles as the machine's display device by
// keeping the last presented framebuffer for Draw.
type game struct {
	mc     *machine.Machine
	logger *log.Logger

	cycles int
	trace  bool

	frame  [machine.SCREEN_SIZE]bool
	buffer [machine.SCREEN_SIZE * 4]byte
}

func newGame(
	mc *machine.Machine, cycles int, trace bool, logger *log.Logger,
) *game {
	return &game{
		mc:     mc,
		logger: logger,
		cycles: cycles,
		trace:  trace,
	}
}

// Refresh implements machine.Display
func (g *game) Refresh(pixels *[machine.SCREEN_SIZE]bool) {
	g.frame = *pixels
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for key, value := range keyMap {
		if inpututil.IsKeyJustPressed(key) {
			g.mc.KeyPress(value)
		}

		if inpututil.IsKeyJustReleased(key) {
			g.mc.KeyRelease(value)
		}
	}

	for i := 0; i < g.cycles; i++ {
		if g.trace {
			g.traceInstruction()
		}

		if err := g.mc.Cycle(); err != nil {
			g.logger.Error("Emulation halted", log.Err(err))
		}
	}

	g.mc.Frame()

	return nil
}

func (g *game) traceInstruction() {
	state := &g.mc.State

	if !state.Running || state.Wait.Status != machine.WAIT_NONE {
		return
	}

	line, err := disasm.Disassemble(
		state.Memory[state.Program],
		state.Memory[state.Program+1],
	)

	if err != nil {
		return
	}

	g.logger.Debug(line, log.Hex("address", state.Program))
}

func (g *game) Draw(screen *ebiten.Image) {
	for i, lit := range g.frame {
		value := byte(0x00)

		if lit {
			value = 0xFF
		}

		g.buffer[i*4+0] = value
		g.buffer[i*4+1] = value
		g.buffer[i*4+2] = value
		g.buffer[i*4+3] = 0xFF
	}

	screen.WritePixels(g.buffer[:])
}

// The layout matches the framebuffer exactly, ebiten scales it up to the
// window size
func (g *game) Layout(outsideWidth int, outsideHeight int) (int, int) {
	return machine.SCREEN_WIDTH, machine.SCREEN_HEIGHT
}
