/*
 * Simple World - command-line front end
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// simworld is the external collaborator that drives a store from the
// command line: seed a fresh world, step its scheduler, and inspect or
// edit individual rows. Every subcommand except asm and disasm takes the
// store path as its first positional argument; the core engine (internal/scheduler,
// internal/store, ...) never imports this package.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/simpleworld/internal/logger"
)

var log *slog.Logger

type cmd struct {
	name    string
	min     int
	process func(args []string) error
}

var cmdList = []cmd{
	{name: "create", min: 2, process: cmdCreate},
	{name: "run", min: 1, process: cmdRun},
	{name: "info", min: 1, process: cmdInfo},
	{name: "env", min: 1, process: cmdEnv},
	{name: "egg", min: 1, process: cmdEgg},
	{name: "food", min: 1, process: cmdFood},
	{name: "spawn", min: 2, process: cmdSpawn},
	{name: "resource", min: 2, process: cmdResource},
	{name: "asm", min: 2, process: cmdAsm},
	{name: "disasm", min: 2, process: cmdDisasm},
}

func matchCommand(name string) []cmd {
	var matches []cmd
	for _, c := range cmdList {
		if len(name) < c.min {
			continue
		}
		if len(name) <= len(c.name) && c.name[:len(name)] == name {
			matches = append(matches, c)
		}
	}
	return matches
}

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror every log record to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("<command> [args...]")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "simworld: can't open log file:", err)
			os.Exit(1)
		}
		file = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug)
	log = slog.New(handler)
	slog.SetDefault(log)

	args := getopt.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "simworld: missing command")
		getopt.Usage()
		os.Exit(1)
	}

	name := args[0]
	matches := matchCommand(name)
	switch len(matches) {
	case 0:
		fmt.Fprintln(os.Stderr, "simworld: unknown command:", name)
		os.Exit(1)
	case 1:
		if err := matches[0].process(args[1:]); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "simworld: ambiguous command:", name)
		os.Exit(1)
	}
}
