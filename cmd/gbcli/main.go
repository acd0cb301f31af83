// Command gbcli runs a ROM against the core with no display attached —
// useful for test ROMs that report pass/fail over the serial port, and for
// scripted regression runs.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"dmgcore/internal/machine"
)

const usage = `usage: gbcli run [-debug] [-frames N] [-until substring] <rom-path>

exit codes: 0 normal termination, 1 argument error, 2 unsupported mapper, 3 decode error
`

type serialSink struct{ buf strings.Builder }

func (s *serialSink) Write(p []byte) (int, error) {
	s.buf.Write(p)
	os.Stdout.Write(p)
	return len(p), nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] != "run" {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "print a PC trace to stderr")
	frames := fs.Int("frames", 0, "stop after N PPU frames (0 = run until decode error or -until match)")
	until := fs.String("until", "", "stop when serial output contains this substring")
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
	romPath := fs.Arg(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcli: read rom: %v\n", err)
		return 1
	}

	m := machine.New()
	if err := m.LoadCartridge(rom); err != nil {
		fmt.Fprintf(os.Stderr, "gbcli: %v\n", err)
		return 2
	}
	m.PowerOn()
	sink := &serialSink{}
	m.SetSerialWriter(sink)

	framesSeen := 0
	var lastLY byte
	for {
		if *debug {
			fmt.Fprintf(os.Stderr, "PC=%04X\n", m.PC())
		}
		ok, stepErr := m.Step()
		if !ok {
			fmt.Fprintf(os.Stderr, "gbcli: %v\n", stepErr)
			return 3
		}
		ly := m.Read(0xFF44)
		if ly == 144 && lastLY != 144 {
			framesSeen++
			if *frames > 0 && framesSeen >= *frames {
				return 0
			}
		}
		lastLY = ly
		if *until != "" && strings.Contains(sink.buf.String(), *until) {
			return 0
		}
	}
}
