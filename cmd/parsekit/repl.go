package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/parsekit/internal/cache"
	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/dekarrin/parsekit/internal/friendlyerr"
	"github.com/dekarrin/parsekit/regex"
	"github.com/dekarrin/rosed"
)

// repl is an interactive session that compiles a regex pattern once and then
// tests it against as many input strings as the user cares to enter, using
// chzyer/readline directly for line editing and history. Type a bare line
// starting with '/' to recompile against a new pattern; ":trace" toggles
// backtracking trace output; ":quit" or EOF ends the session.
type repl struct {
	rl    *readline.Instance
	cache *cache.Cache
	trace bool

	pattern string
	dfa     *automaton.DFA
}

func newREPL(cfg Config, c *cache.Cache) (*repl, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: cfg.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline session: %w", err)
	}

	return &repl{rl: rl, cache: c, trace: cfg.EchoTrace}, nil
}

func (r *repl) Close() error {
	return r.rl.Close()
}

func (r *repl) run(out io.Writer) error {
	fmt.Fprintln(out, "parsekit REPL. Enter /<pattern> to compile, then strings to test it.")
	fmt.Fprintln(out, "Commands: :trace (toggle trace), :quit")

	for {
		line, err := r.rl.Readline()
		if err != nil {
			return nil // EOF or interrupt ends the session cleanly
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == ":quit":
			return nil
		case line == ":trace":
			r.trace = !r.trace
			fmt.Fprintf(out, "trace: %v\n", r.trace)
		case strings.HasPrefix(line, "/"):
			r.compile(out, line[1:])
		default:
			r.test(out, line)
		}
	}
}

func (r *repl) compile(out io.Writer, pattern string) {
	if !r.trace && r.cache != nil {
		if cached, ok, err := r.cache.Get(pattern); err == nil && ok {
			r.pattern = pattern
			r.dfa = cached
			fmt.Fprintf(out, "loaded %q from cache\n", pattern)
			return
		}
	}

	var dfa *automaton.DFA
	var err error
	if r.trace {
		dfa, err = regex.CompileTrace(pattern, out)
	} else {
		dfa, err = regex.Compile(pattern)
	}
	if err != nil {
		friendly := friendlyerr.Wrap(err, fmt.Sprintf("%q is not a valid pattern", pattern))
		fmt.Fprintf(out, "error: %s\n", friendlyerr.UserMessage(friendly))
		if r.trace {
			fmt.Fprintf(out, "  (%v)\n", friendly)
		}
		return
	}
	r.dfa = dfa
	r.pattern = pattern

	if r.cache != nil {
		if err := r.cache.Put(pattern, r.dfa); err != nil {
			fmt.Fprintf(out, "warning: could not cache compiled pattern: %v\n", err)
		}
	}

	fmt.Fprintf(out, "compiled %q\n", pattern)
}

func (r *repl) test(out io.Writer, input string) {
	if r.dfa == nil {
		fmt.Fprintln(out, "no pattern compiled yet; enter /<pattern> first")
		return
	}

	match := r.dfa.Match(input)
	summary := rosed.Edit(fmt.Sprintf("%q against /%s/: %v", input, r.pattern, match)).Wrap(72).String()
	fmt.Fprintln(out, summary)
}
