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
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	toneSampleRate = 44100
	toneFrequency  = 440.0
	toneVolume     = 0.25
)

// tone implements machine.Tone with a fixed square wave. The player keeps
// running and pulls samples on its own goroutine; Start and Stop only flip
// the gate, so the switch is atomic and silence is just a zero waveform.
type tone struct {
	player *oto.Player
	on     atomic.Bool
	phase  float64
}

func newTone() (*tone, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   toneSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})

	if err != nil {
		return nil, err
	}

	<-ready

	t := &tone{}
	t.player = ctx.NewPlayer(t)
	t.player.Play()

	return t, nil
}

func (t *tone) Read(p []byte) (int, error) {
	period := float64(toneSampleRate) / toneFrequency
	samples := len(p) / 4

	for i := 0; i < samples; i++ {
		var sample float32

		if t.on.Load() {
			if t.phase < period/2 {
				sample = toneVolume
			} else {
				sample = -toneVolume
			}
		}

		t.phase++
		if t.phase >= period {
			t.phase -= period
		}

		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(sample))
	}

	return samples * 4, nil
}

func (t *tone) Start() {
	t.on.Store(true)
}

func (t *tone) Stop() {
	t.on.Store(false)
}
