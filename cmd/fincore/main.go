package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "schedule":
		return runSchedule(args[1:], stdin, stdout, stderr)
	case "yearfrac", "year-fraction":
		return runYearFraction(args[1:], stdin, stdout, stderr)
	case "yield":
		return runYield(args[1:], stdin, stdout, stderr)
	case "fwdyield", "forward-yield":
		return runForwardYield(args[1:], stdin, stdout, stderr)
	case "calendars":
		return runCalendars(args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fincore <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  schedule   Generate a coupon schedule")
	fmt.Fprintln(w, "  yearfrac   Day count and year fraction between two dates")
	fmt.Fprintln(w, "  yield      Fixed-rate bond price or yield")
	fmt.Fprintln(w, "  fwdyield   CTD forward yield from a futures price")
	fmt.Fprintln(w, "  calendars  List registered calendars")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every command reads a JSON object or array from stdin or -input")
	fmt.Fprintln(w, "and writes JSON to stdout. Run `fincore <command> -h` for details.")
}
