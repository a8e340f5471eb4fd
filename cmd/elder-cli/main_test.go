package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildRequestEvalFromArgs(t *testing.T) {
	msg, err := buildRequest("eval", 0, false, []string{"(define", "x", "1)"}, strings.NewReader("ignored"))
	if err != nil {
		t.Fatal(err)
	}
	if msg["op"] != "eval" || msg["expr"] != "(define x 1)" {
		t.Fatalf("unexpected request %v", msg)
	}
	if id, _ := msg["id"].(string); id == "" {
		t.Fatal("request should carry an id")
	}
}

func TestBuildRequestEvalFromStdin(t *testing.T) {
	msg, err := buildRequest("eval", 0, false, nil, strings.NewReader("(+ 1 2)\n"))
	if err != nil {
		t.Fatal(err)
	}
	if msg["expr"] != "(+ 1 2)\n" {
		t.Fatalf("unexpected expr %q", msg["expr"])
	}
	if _, err := buildRequest("eval", 0, false, nil, strings.NewReader("  \n")); err == nil {
		t.Fatal("empty source should be rejected")
	}
}

func TestBuildRequestOps(t *testing.T) {
	msg, err := buildRequest("traces", 5, false, nil, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if msg["n"] != 5 {
		t.Fatalf("expected n=5, got %v", msg)
	}
	if _, err := buildRequest("frobnicate", 0, false, nil, strings.NewReader("")); err == nil {
		t.Fatal("unknown op should be rejected")
	}
}

func TestBuildRequestRaw(t *testing.T) {
	msg, err := buildRequest("", 0, true, nil, strings.NewReader(`{"op":"bindings"}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg["op"] != "bindings" || msg["id"] == nil {
		t.Fatalf("unexpected request %v", msg)
	}
	for _, input := range []string{"null", "[1]", "{"} {
		if _, err := buildRequest("", 0, true, nil, strings.NewReader(input)); err == nil {
			t.Fatalf("raw input %q should be rejected", input)
		}
	}
}

func TestPrintResponse(t *testing.T) {
	var out, errOut bytes.Buffer
	code := printResponse(&out, &errOut, map[string]any{"ok": true, "value": "42"}, false)
	if code != 0 || out.String() != "42\n" {
		t.Fatalf("got code %d, output %q", code, out.String())
	}

	out.Reset()
	code = printResponse(&out, &errOut, map[string]any{"ok": false, "kind": "TypeMismatch", "error": "car: type mismatch"}, false)
	if code != 2 || !strings.HasPrefix(errOut.String(), "TypeMismatch: ") {
		t.Fatalf("got code %d, stderr %q", code, errOut.String())
	}
}
