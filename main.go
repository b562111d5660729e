// Package main provides the entry point for mipsim.
// mipsim is a cycle-accurate MIPS-I five-stage pipeline simulator.
//
// For the full CLI, use: go run ./cmd/mipsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("mipsim - MIPS-I pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: mipsim [options] <program.bin|program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -single    Use the single-cycle reference model")
	fmt.Println("  -cycles    Maximum number of cycles to simulate")
	fmt.Println("  -config    Path to memory timing configuration JSON file")
	fmt.Println("  -cache     Enable the cache latency model")
	fmt.Println("  -trace     Dump the register file every cycle")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/mipsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/mipsim' instead.")
	}
}
