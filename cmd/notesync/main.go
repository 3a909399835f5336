package main

import (
	"fmt"
	"os"
)

const usageText = `notesync reads and edits course notes against the REST API.

Usage:
  notesync <command> [flags]

Commands:
  show      print my and shared notes of a file, page by page
  edit      replace my note or drawing on one page
  profile   print the effective profile, optionally saving it
  help      show help

Common flags:
  --profile <path>   TOML profile (default notesync.toml)

Examples:
  notesync show 4 8
  notesync show --view shared --page 2 4 8
  notesync edit 4 8 2 "derivative of x^2 is 2x"
  notesync edit --annotation '{"paths":[]}' --scale 1.5 4 8 2
  notesync profile --base-url http://localhost:3000/api --save
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
