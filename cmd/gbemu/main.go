// Command gbemu is the windowed front end: load a ROM, power the machine
// on, and hand it to the ebiten game loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"dmgcore/internal/machine"
	"dmgcore/internal/ui"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	scale := flag.Int("scale", 3, "window scale")
	title := flag.String("title", "gbemu", "window title")
	save := flag.Bool("save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	m := machine.New()
	if err := m.LoadCartridge(rom); err != nil {
		log.Fatalf("load cart: %v", err)
	}
	m.PowerOn()
	if h := m.Header(); h != nil {
		log.Printf("ROM: %q type=%#02x ram=%dB", h.Title, h.CartType, h.RAMSizeBytes)
	}

	savPath := strings.TrimSuffix(*romPath, ".gb") + ".sav"
	if *save {
		if data, err := os.ReadFile(savPath); err == nil {
			m.LoadRAM(data)
			log.Printf("loaded save RAM: %s (%d bytes)", savPath, len(data))
		}
	}

	app := ui.NewApp(ui.Config{Title: *title, Scale: *scale}, m)
	runErr := app.Run()

	if *save {
		if data := m.SaveRAM(); data != nil {
			if err := os.WriteFile(savPath, data, 0644); err == nil {
				log.Printf("wrote %s", savPath)
			}
		}
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
