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
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/log"

	"github.com/lassandro/goc8/pkg/machine"
)

var helpvar bool
var tracevar bool
var quietvar bool
var mutevar bool
var scalevar int
var cyclesvar int

var quirkReset bool
var quirkIncrement bool
var quirkDisplayWait bool
var quirkClip bool
var quirkShiftY bool
var quirkJumpX bool

const usage = "goc8 [options] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&tracevar, "trace", false,
		"Logs every executed instruction in assembly form",
	)
	flag.BoolVar(&quietvar, "quiet", false, "Only logs errors")
	flag.BoolVar(&mutevar, "mute", false, "Disables the audio tone")
	flag.IntVar(
		&scalevar, "scale", 10,
		"Window pixels per framebuffer cell",
	)
	flag.IntVar(
		&cyclesvar, "cycles", 10,
		"Instruction cycles per rendered frame",
	)

	flag.BoolVar(
		&quirkReset, "quirk-reset", true,
		"OR/AND/XOR zero the flags register",
	)
	flag.BoolVar(
		&quirkIncrement, "quirk-increment", true,
		"Block register transfers advance the index register",
	)
	flag.BoolVar(
		&quirkDisplayWait, "quirk-displaywait", true,
		"Draws wait for the next rendered frame",
	)
	flag.BoolVar(
		&quirkClip, "quirk-clip", true,
		"Sprites clip at the screen edges instead of wrapping",
	)
	flag.BoolVar(
		&quirkShiftY, "quirk-shifty", true,
		"Shifts read their source value from Vy instead of Vx",
	)
	flag.BoolVar(
		&quirkJumpX, "quirk-jumpx", false,
		"Offset jumps add Vx instead of V0",
	)

	flag.Parse()
}

func createLogger() *log.Logger {
	cfg := log.DefaultConfig()

	if tracevar {
		cfg.Level = log.DebugLevel
	} else if quietvar {
		cfg.Level = log.ErrorLevel
	}

	return log.NewWithConfig(cfg)
}

func goc8() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	logger := createLogger()
	args := flag.Args()

	if len(args) != 1 {
		fmt.Println(usage)
		return 1
	}

	filename := args[0]

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ch8", ".chip8":
	default:
		logger.Warn(
			"Unrecognized game file extension",
			log.String("file", filename),
		)
	}

	file, err := os.Open(filename)

	if err != nil {
		logger.Error("Opening game file", log.Err(err))
		return 1
	}

	defer file.Close()

	quirks := machine.QuirkConfig{
		ResetFlags:     quirkReset,
		IncrementIndex: quirkIncrement,
		DisplayWait:    quirkDisplayWait,
		ClipSprites:    quirkClip,
		ShiftSourceY:   quirkShiftY,
		JumpOffsetX:    quirkJumpX,
	}

	devices := &machine.DeviceHandler{}

	if !mutevar {
		tone, err := newTone()

		if err != nil {
			logger.Warn("Audio unavailable", log.Err(err))
		} else {
			devices.Tone = tone
		}
	}

	mc := machine.NewMachine(devices, quirks)

	if err := mc.LoadProgram(file); err != nil {
		logger.Error("Loading game file", log.Err(err))
		return 1
	}

	game := newGame(mc, cyclesvar, tracevar, logger)
	devices.Display = game

	ebiten.SetWindowSize(
		machine.SCREEN_WIDTH*scalevar,
		machine.SCREEN_HEIGHT*scalevar,
	)
	ebiten.SetWindowTitle(filepath.Base(filename))

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("Running game", log.Err(err))
		return 1
	}

	return 0
}

func main() {
	os.Exit(goc8())
}
