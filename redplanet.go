// This file is part of RedPlanet.
//
// RedPlanet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RedPlanet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RedPlanet.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/jonatcln/redplanet/console"
	"github.com/jonatcln/redplanet/hardware"
	"github.com/jonatcln/redplanet/hardware/arena"
	"github.com/jonatcln/redplanet/hardware/memory/bus"
	"github.com/jonatcln/redplanet/hardware/memory/memorymap"
	"github.com/jonatcln/redplanet/hardware/uart"
	"github.com/jonatcln/redplanet/logger"
	"github.com/jonatcln/redplanet/statsview"
)

// the keystroke that detaches a console session (Ctrl-])
const detachKey = uint8(0x1d)

func main() {
	flgs := flag.NewFlagSet("redplanet", flag.ExitOnError)
	dramSize := flgs.Int("dram", 0, "DRAM size in bytes (0 for the default)")
	dramImage := flgs.String("image", "", "flat binary to load into the start of DRAM")
	mromImage := flgs.String("mrom", "", "flat binary to load into the boot ROM")
	flashImage := flgs.String("flash", "", "flat binary to load into flash")
	echoLog := flgs.Bool("log", false, "echo log entries to stderr")

	flgs.Usage = func() {
		fmt.Fprintf(flgs.Output(), "usage: %s [flags] mode [args]\n", os.Args[0])
		fmt.Fprintf(flgs.Output(), "modes: map, peek ADDR [N], poke ADDR BYTE..., console, viz\n")
		flgs.PrintDefaults()
	}

	_ = flgs.Parse(os.Args[1:])

	if *echoLog {
		logger.SetEcho(os.Stderr)
	}

	spec := hardware.BoardSpec{DRAMSize: *dramSize}

	var err error
	if spec.DRAMImage, err = loadImage(*dramImage); err == nil {
		if spec.MROMImage, err = loadImage(*mromImage); err == nil {
			spec.FlashImage, err = loadImage(*flashImage)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}

	mode := "map"
	if flgs.NArg() > 0 {
		mode = flgs.Arg(0)
	}

	switch mode {
	case "map":
		err = mapMode(spec)
	case "peek":
		err = peekMode(spec, flgs.Args()[1:])
	case "poke":
		err = pokeMode(spec, flgs.Args()[1:])
	case "console":
		err = consoleMode(spec)
	case "viz":
		err = vizMode(spec)
	default:
		flgs.Usage()
		os.Exit(10)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}

func loadImage(filename string) ([]byte, error) {
	if filename == "" {
		return nil, nil
	}
	return os.ReadFile(filename)
}

func parseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("not an address: %s", s)
	}
	return uint32(v), nil
}

// mapMode prints the memory map of the board
func mapMode(spec hardware.BoardSpec) error {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, spec)
	if err != nil {
		return err
	}
	defer board.Release(a)

	fmt.Print(board.Mem.Map.Summary())

	return nil
}

// peekMode builds a board and reads memory through the debugging bus
func peekMode(spec hardware.BoardSpec, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("peek: an address is required")
	}

	address, err := parseAddress(args[0])
	if err != nil {
		return err
	}

	n := 4
	if len(args) > 1 {
		if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
			return fmt.Errorf("peek: not a length: %s", args[1])
		}
	}

	a := arena.NewArena()

	board, err := hardware.NewBoard(a, spec)
	if err != nil {
		return err
	}
	defer board.Release(a)

	if !board.Mem.Accepts(address, n, bus.Read) {
		fmt.Printf("%08x: no response (%d byte read)\n", address, n)
		return nil
	}

	buf := make([]byte, n)
	board.Mem.ReadDebug(buf, a, address)

	fmt.Printf("%08x: % 02x\n", address, buf)

	return nil
}

// pokeMode builds a board, writes memory through the bus and reads the
// result back through the debugging bus
func pokeMode(spec hardware.BoardSpec, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("poke: an address and at least one byte are required")
	}

	address, err := parseAddress(args[0])
	if err != nil {
		return err
	}

	buf := make([]byte, 0, len(args)-1)
	for _, s := range args[1:] {
		v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
		if err != nil {
			return fmt.Errorf("poke: not a byte: %s", s)
		}
		buf = append(buf, uint8(v))
	}

	a := arena.NewArena()

	board, err := hardware.NewBoard(a, spec)
	if err != nil {
		return err
	}
	defer board.Release(a)

	if !board.Mem.Accepts(address, len(buf), bus.Write) {
		fmt.Printf("%08x: no response (%d byte write)\n", address, len(buf))
		return nil
	}

	board.Mem.Write(a, address, buf)

	check := make([]byte, len(buf))
	board.Mem.ReadDebug(check, a, address)
	fmt.Printf("%08x: % 02x\n", address, check)

	return nil
}

// consoleMode attaches the host terminal to the machine's serial port. with
// no instruction core in the machine the driver stands in for firmware:
// every byte arriving on the UART is read back over the bus and
// retransmitted.
func consoleMode(spec hardware.BoardSpec) error {
	cons, err := console.NewConsole()
	if err != nil {
		return err
	}
	defer cons.CleanUp()

	a := arena.NewArena()

	spec.UARTOutput = cons
	board, err := hardware.NewBoard(a, spec)
	if err != nil {
		return err
	}
	defer board.Release(a)

	if statsview.Available() {
		statsview.Launch()
		fmt.Fprintf(cons, "stats server at http://%s/debug/statsview\n", statsview.Address)
	}

	fmt.Fprintf(cons, "connected to UART0. Ctrl-] detaches\n")

	for !board.PoweredDown() {
		if b, ok := cons.ReadByte(); ok {
			if b == detachKey {
				break
			}
			board.Mem.UART0.Receive(a, b)
		}

		var status [1]byte
		board.Mem.Read(status[:], a, memorymap.OriginUART0+uart.AddrLSR)
		for status[0]&0x01 == 0x01 {
			var data [1]byte
			board.Mem.Read(data[:], a, memorymap.OriginUART0+uart.AddrRBR)
			board.Mem.Write(a, memorymap.OriginUART0+uart.AddrTHR, data[:])
			board.Mem.Read(status[:], a, memorymap.OriginUART0+uart.AddrLSR)
		}

		board.Tick(a, 1)
	}

	fmt.Fprintf(cons, "\ndetached\n")

	return nil
}

// vizMode dumps the board's object graph in graphviz dot format
func vizMode(spec hardware.BoardSpec) error {
	a := arena.NewArena()

	board, err := hardware.NewBoard(a, spec)
	if err != nil {
		return err
	}
	defer board.Release(a)

	memviz.Map(os.Stdout, board)

	return nil
}
