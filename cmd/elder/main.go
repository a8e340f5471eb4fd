package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	elder "github.com/rphilander/elderlisp/core"
	"github.com/rphilander/elderlisp/store"
)

const (
	appName     = "elder"
	historyFile = ".elder_history"
	promptMain  = "elder> "
	promptCont  = "...    "
	banner      = "elder REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	helpText    = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :load <file>     Evaluate a file into the current session
  :env             List global bindings
  :traces [n]      Show the last n evaluation traces
  :reset           Clear the form log and return to the prelude
`
)

func main() {
	var (
		evalStr  string
		dbPath   string
		debug    bool
		maxDepth int
	)
	flag.StringVar(&evalStr, "e", "", "Evaluate the given forms and exit")
	flag.StringVar(&dbPath, "db", "", "SQLite file that persists top-level definitions")
	flag.BoolVar(&debug, "debug", false, "Log every application to stderr")
	flag.IntVar(&maxDepth, "depth", elder.DefaultMaxDepth, "Maximum evaluation depth")
	flag.Parse()

	opts := elder.SessionOptions{MaxDepth: maxDepth}
	var st *store.Store
	if debug {
		opts.Logger = log.New(os.Stderr, "[elder] ", log.Lmicroseconds)
	}
	if dbPath != "" {
		var err error
		if st, err = store.Open(dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			os.Exit(1)
		}
		opts.Log = st
	}

	session, err := elder.NewSession(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}

	args := flag.Args()
	var code int
	switch {
	case evalStr != "":
		code = runSource(session, evalStr)
	case len(args) > 0:
		for _, path := range args {
			if code = runFile(session, path); code != 0 {
				break
			}
		}
	default:
		code = runREPL(session)
	}
	if st != nil {
		st.Close()
	}
	os.Exit(code)
}

func runFile(session *elder.Session, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}
	return runSource(session, string(src))
}

func runSource(session *elder.Session, src string) int {
	v, err := session.Eval(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", appName, elder.Describe(v, err))
		return 1
	}
	fmt.Println(elder.Repr(v))
	return 0
}

func runREPL(session *elder.Session) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if done := handleReplCommand(session, ln, code); done {
				break
			}
			continue
		}

		fmt.Println(elder.Describe(session.Eval(code)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// handleReplCommand runs one ':' command and reports whether the REPL
// should exit.
func handleReplCommand(session *elder.Session, ln *liner.State, line string) (exit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(helpText)

	case ":quit", ":exit":
		return true

	case ":reset":
		if err := session.Reset(); err != nil {
			fmt.Println(err)
			return false
		}
		fmt.Println("session reset.")

	case ":env":
		for _, b := range session.Bindings() {
			fmt.Printf("%-12s %s\n", b.Name, elder.Repr(b.Value))
		}

	case ":traces":
		n := 10
		if len(fields) > 1 {
			if _, err := fmt.Sscanf(fields[1], "%d", &n); err != nil {
				fmt.Println("usage: :traces [n]")
				return false
			}
		}
		for _, t := range session.Traces(n) {
			fmt.Println(elder.Repr(t.ToValue()))
		}

	case ":load":
		if len(fields) < 2 {
			fmt.Println("usage: :load <file>")
			return false
		}
		path := fields[1]
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("cannot read %s: %v\n", path, err)
			return false
		}
		fmt.Println(elder.Describe(session.Eval(string(src))))
		ln.AppendHistory(":load " + path)

	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}

// readByParseProbe reads lines until the buffer parses as complete forms.
// A parse error that more input cannot fix returns the buffer as is, so the
// caller reports it.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := elder.ParseAll(src); perr != nil && elder.Incomplete(perr) {
			continue
		}
		return src, true
	}
}
