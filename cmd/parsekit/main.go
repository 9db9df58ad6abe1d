/*
Parsekit compiles a regular expression pattern against the toolkit's own
grammar/automaton engine and either matches it against input strings given
on the command line, or drops into an interactive REPL for repeated testing.

Usage:

	parsekit [flags] PATTERN [INPUT...]

The flags are:

	-v, --version
		Print the current version and exit.

	-i, --interactive
		Start the REPL instead of matching INPUT arguments.

	-t, --trace
		Print the backtracking parser's trace while compiling PATTERN.

	-c, --config FILE
		Load configuration (cache directory, REPL prompt) from the given
		TOML file. Defaults to "parsekit.toml" in the current directory; a
		missing file is not an error.

	-s, --serve ADDR
		Start the HTTP demo server bound to ADDR (e.g. ":8080") instead of
		matching INPUT arguments or starting the REPL.

If INPUT arguments are given without -i or -s, each is matched against
PATTERN and the result is printed as "INPUT: true" or "INPUT: false"; the
process exits non-zero if any input fails to match, or if PATTERN fails to
compile.
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dekarrin/parsekit/internal/cache"
	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/dekarrin/parsekit/internal/version"
	"github.com/dekarrin/parsekit/regex"
	"github.com/dekarrin/parsekit/server"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitNoMatch
	ExitCompileError
)

var (
	flagVersion     = pflag.BoolP("version", "v", false, "print the current version and exit")
	flagInteractive = pflag.BoolP("interactive", "i", false, "start the REPL instead of matching arguments")
	flagTrace       = pflag.BoolP("trace", "t", false, "print the backtracking parser's trace while compiling")
	flagConfig      = pflag.StringP("config", "c", "parsekit.toml", "path to a TOML configuration file")
	flagServe       = pflag.StringP("serve", "s", "", "start the HTTP demo server bound to this address instead")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("parsekit %s\n", version.Current)
		return ExitSuccess
	}

	cfg, err := LoadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}
	cfg = cfg.FillDefaults()
	cfg.EchoTrace = cfg.EchoTrace || *flagTrace

	var pc *cache.Cache
	if cfg.CacheDir != "" {
		pc, err = cache.Open(cfg.CacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			return ExitCompileError
		}
		defer pc.Close()
	}

	if *flagServe != "" {
		return runServe(*flagServe, cfg, pc)
	}

	if *flagInteractive {
		return runREPL(cfg, pc)
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: a pattern argument is required (or pass -i for the REPL, -s to serve)")
		return ExitCompileError
	}
	return runMatch(args[0], args[1:], cfg)
}

func runREPL(cfg Config, pc *cache.Cache) int {
	r, err := newREPL(cfg, pc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}
	defer r.Close()

	if err := r.run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}
	return ExitSuccess
}

func runServe(addr string, cfg Config, pc *cache.Cache) int {
	srv, err := server.New(server.Config{
		Cache:       pc,
		APIToken:    cfg.APIToken,
		UnauthDelay: cfg.unauthDelay(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}

	log.Printf("parsekit demo server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}
	return ExitSuccess
}

func runMatch(pattern string, inputs []string, cfg Config) int {
	var dfa *automaton.DFA
	var err error
	if cfg.EchoTrace {
		dfa, err = regex.CompileTrace(pattern, os.Stdout)
	} else {
		dfa, err = regex.Compile(pattern)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return ExitCompileError
	}

	allMatch := true
	for _, in := range inputs {
		ok := dfa.Match(in)
		fmt.Printf("%s: %v\n", in, ok)
		if !ok {
			allMatch = false
		}
	}
	if !allMatch {
		return ExitNoMatch
	}
	return ExitSuccess
}
