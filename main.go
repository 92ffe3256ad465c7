// samio: a tool for parsing and serializing files in the SAM format.
// Copyright (c) 2026 the samio authors.
//
// This program is free software distributed under the terms of the MIT
// license. See the LICENSE file in the repository root for details.

// samio is a tool for parsing, filtering, sorting, and splitting SAM
// files in their text representation.
//
// Please see https://github.com/compbio/samio for a documentation of
// the tool, and the sam package for the API documentation.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/compbio/samio/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: view, sort, split")
	fmt.Fprint(os.Stderr, "\n", cmd.ViewHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.SortHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.SplitHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "view":
		err = cmd.View()
	case "sort":
		err = cmd.Sort()
	case "split":
		err = cmd.Split()
	case "help", "-h", "--h", "-help", "--help":
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
	default:
		log.Println("Unknown command: ", os.Args[1])
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
