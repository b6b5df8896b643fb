// Package main provides the entry point for rvemu, a user-mode
// emulator for a 64-bit fixed-point integer machine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rvemu/emu"
	"github.com/sarchlab/rvemu/loader"
)

var (
	trace    = flag.Bool("trace", false, "Force instruction trace output regardless of the in-guest toggle")
	maxSteps = flag.Uint64("maxsteps", 0, "Abort after this many instructions (0 means unbounded)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvemu [options] <image> [symbol-map]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	imagePath := flag.Arg(0)

	image, err := loader.LoadImage(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	opts := []emu.EmulatorOption{
		emu.WithTrace(*trace),
		emu.WithMaxInstructions(*maxSteps),
	}

	if flag.NArg() >= 2 {
		symbols, err := loader.LoadSymbols(flag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading symbol map: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, emu.WithSymbols(symbols))
	}

	memory := emu.NewMemory(image)
	emulator := emu.NewEmulator(memory, opts...)

	exitCode := emulator.Run()
	os.Exit(int(exitCode))
}
