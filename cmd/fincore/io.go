package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/fincore/utils"
)

// command holds the flags every subcommand accepts.
type command struct {
	name       string
	fs         *flag.FlagSet
	inputPath  *string
	configPath *string
	parallel   *int
	help       *bool
	usage      func(io.Writer)
}

func newCommand(name string, stderr io.Writer, usage func(io.Writer)) *command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &command{
		name:       name,
		fs:         fs,
		inputPath:  fs.String("input", "", "JSON input path (optional; if set, ignores stdin)"),
		configPath: fs.String("config", "", "YAML config path (optional; FINCORE_* env vars also apply)"),
		parallel:   fs.Int("parallel", runtime.GOMAXPROCS(0), "Maximum number of array items evaluated concurrently"),
		help:       fs.Bool("h", false, "Show help"),
		usage:      usage,
	}
	fs.BoolVar(c.help, "help", false, "Show help")
	return c
}

// read parses args and returns the raw JSON input. When done is set the
// caller returns code without further work.
func (c *command) read(args []string, stdin io.Reader, stdout, stderr io.Writer) (raw []byte, code int, done bool) {
	if err := c.fs.Parse(args); err != nil {
		return nil, 2, true
	}
	if *c.help {
		c.usage(stderr)
		return nil, 0, true
	}

	path := strings.TrimSpace(*c.inputPath)
	if path == "" {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
				c.usage(stderr)
				return nil, 2, true
			}
		}
	}

	raw, err := readInput(stdin, path)
	if err != nil {
		return nil, writeError(stdout, fmt.Sprintf("failed to read input: %v", err)), true
	}
	return raw, 0, false
}

// execute runs process over every input item and writes one output per item,
// as an array when the input was an array. Any failed item makes the exit
// code 1; the other items are still reported.
func execute[In, Out any](
	c *command,
	args []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	process func(*env, In) (Out, error),
	failed func(In, error) Out,
) int {
	raw, code, done := c.read(args, stdin, stdout, stderr)
	if done {
		return code
	}

	e, err := newEnv(*c.configPath, stderr)
	if err != nil {
		return writeError(stdout, fmt.Sprintf("config: %v", err))
	}
	defer e.Close()

	inputs, isArray, err := parseInputs[In](raw)
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to parse JSON input: %v", err))
	}

	start := time.Now()
	outputs, failures := processAll(e, inputs, *c.parallel, process, failed)
	e.logger.Info("command finished",
		"command", c.name,
		"items", len(inputs),
		"failed", failures,
		"elapsed", time.Since(start))

	if isArray {
		writeJSON(stdout, outputs)
	} else {
		writeJSON(stdout, outputs[0])
	}
	if failures > 0 {
		return 1
	}
	return 0
}

func processAll[In, Out any](e *env, inputs []In, parallel int, process func(*env, In) (Out, error), failed func(In, error) Out) ([]Out, int) {
	outputs := make([]Out, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			out, err := process(e, in)
			if err != nil {
				errs[i] = err
				outputs[i] = failed(in, err)
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for i, err := range errs {
		if err != nil {
			failures++
			e.logger.Warn("item failed", "index", i, "error", err)
		}
	}
	return outputs, failures
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func parseInputs[T any](raw []byte) ([]T, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []T
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input T
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []T{input}, false, nil
}

type errorOutput struct {
	Error string `json:"error"`
}

func writeError(w io.Writer, msg string) int {
	writeJSON(w, errorOutput{Error: msg})
	return 1
}

func writeJSON(w io.Writer, v any) {
	b, _ := json.Marshal(v)
	fmt.Fprintln(w, string(b))
}

func parseDate(field, s string) (time.Time, error) {
	t, err := utils.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %v", field, err)
	}
	return t, nil
}

// parseOptionalDate treats an empty string as "not given".
func parseOptionalDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return parseDate(field, s)
}

func formatDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = utils.FormatDate(t)
	}
	return out
}
