package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	elder "github.com/rphilander/elderlisp/core"
)

const usage = `usage: elder-cli [flags] [expr ...]

Sends one request to elderd on $ELDER_SOCK (default /tmp/elder.sock).
With op eval, the forms come from the arguments or, when there are none,
from stdin.

`

func main() {
	var (
		op  string
		n   int
		raw bool
	)
	flag.StringVar(&op, "op", "eval", "Operation: eval, bindings, traces, reset")
	flag.IntVar(&n, "n", 0, "Number of traces for -op traces (0 for all)")
	flag.BoolVar(&raw, "raw", false, "Read a JSON request from stdin and print the raw JSON response")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	msg, err := buildRequest(op, n, raw, flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elder-cli: %v\n", err)
		os.Exit(1)
	}

	sockPath := os.Getenv("ELDER_SOCK")
	if sockPath == "" {
		sockPath = "/tmp/elder.sock"
	}
	resp, err := roundTrip(sockPath, msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "elder-cli: %v\n", err)
		os.Exit(1)
	}
	os.Exit(printResponse(os.Stdout, os.Stderr, resp, raw))
}

// buildRequest turns the command line into one wire request.
func buildRequest(op string, n int, raw bool, args []string, stdin io.Reader) (map[string]any, error) {
	if raw {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if msg == nil {
			return nil, errors.New("request must be a JSON object")
		}
		if _, ok := msg["id"]; !ok {
			msg["id"] = elder.NextID()
		}
		return msg, nil
	}

	msg := map[string]any{"id": elder.NextID(), "op": op}
	switch op {
	case "eval":
		src := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			src = string(data)
		}
		if strings.TrimSpace(src) == "" {
			return nil, errors.New("eval: no forms given")
		}
		msg["expr"] = src
	case "traces":
		if n > 0 {
			msg["n"] = n
		}
	case "bindings", "reset":
	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
	return msg, nil
}

func roundTrip(sockPath string, msg map[string]any) (map[string]any, error) {
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := elder.WriteMsg(conn, msg); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	resp, err := elder.ReadMsg(conn)
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}
	return resp, nil
}

// printResponse writes the result and returns the exit code: 0 on success,
// 2 when the daemon reported an error.
func printResponse(stdout, stderr io.Writer, resp map[string]any, raw bool) int {
	ok, _ := resp["ok"].(bool)
	if raw {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(stdout, string(out))
		if !ok {
			return 2
		}
		return 0
	}
	if !ok {
		if kind, _ := resp["kind"].(string); kind != "" {
			fmt.Fprintf(stderr, "%s: %v\n", kind, resp["error"])
		} else {
			fmt.Fprintf(stderr, "%v\n", resp["error"])
		}
		return 2
	}
	if s, isString := resp["value"].(string); isString {
		fmt.Fprintln(stdout, s)
		return 0
	}
	out, _ := json.MarshalIndent(resp["value"], "", "  ")
	fmt.Fprintln(stdout, string(out))
	return 0
}
