// Package main provides a pointer to rvemu's real entry point.
// rvemu is a user-mode emulator for a 64-bit fixed-point integer
// machine.
//
// For the full CLI, use: go run ./cmd/rvemu
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvemu - user-mode integer machine emulator")
	fmt.Println("")
	fmt.Println("Usage: rvemu [options] <image> [symbol-map]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -trace      Force instruction trace output")
	fmt.Println("  -maxsteps   Abort after this many instructions")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvemu' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvemu' instead.")
	}
}
