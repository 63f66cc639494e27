// Package main runs the inputsim demo, script player, and control server.
package main

import (
	"flag"
	"fmt"
	"os"
)

const usage = `usage: inputsim [-debug] [-dry-run] <command>

commands:
  demo               press A, B, C, type a greeting, open Explorer, double-click
  run <script.yaml>  play a gesture script
  serve              start the HTTP and websocket control server
`

// main is the entrypoint for inputsim.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	dryRun := flag.Bool("dry-run", false, "Log input events instead of injecting them")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(options{debug: *debug, dryRun: *dryRun}, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
