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
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/lassandro/goc8/pkg/disasm"
	"github.com/lassandro/goc8/pkg/machine"
)

var helpvar bool
var outvar string

const usage = "goc8-dis [-out outfile] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&outvar, "out", "",
		"Writes the listing to a file instead of standard output",
	)
	flag.Parse()
}

func goc8_dis() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	logger := log.NewWithConfig(log.DefaultConfig())
	args := flag.Args()

	var data []byte

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		var err error

		if data, err = io.ReadAll(os.Stdin); err != nil {
			logger.Error("Reading game file", log.Err(err))
			return 1
		}
	} else {
		if len(args) != 1 {
			fmt.Println(usage)
			return 1
		}

		var err error

		if data, err = os.ReadFile(args[0]); err != nil {
			logger.Error("Reading game file", log.Err(err))
			return 1
		}
	}

	var listing strings.Builder

	for i := 0; i+1 < len(data); i += 2 {
		addr := machine.PROGRAM_START + uint16(i)
		line, err := disasm.Disassemble(data[i], data[i+1])

		if err != nil {
			// Words that decode to nothing are likely sprite or table
			// data interleaved with the code
			line = fmt.Sprintf(".word $%02X%02X", data[i], data[i+1])
		}

		fmt.Fprintf(&listing, "$%03X: %s\n", addr, line)
	}

	if len(data)%2 == 1 {
		fmt.Fprintf(
			&listing,
			"$%03X: .byte $%02X\n",
			machine.PROGRAM_START+uint16(len(data)-1),
			data[len(data)-1],
		)
	}

	if outvar == "" {
		fmt.Print(listing.String())
	} else {
		err := os.WriteFile(outvar, []byte(listing.String()), 0666)

		if err != nil {
			logger.Error("Writing listing file", log.Err(err))
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(goc8_dis())
}
