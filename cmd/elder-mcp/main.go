package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	elder "github.com/rphilander/elderlisp/core"
	"github.com/rphilander/elderlisp/store"
)

// tools serializes every tool call onto one session.
type tools struct {
	mu      sync.Mutex
	session *elder.Session
}

// formatResult marshals a tool value as indented JSON text.
func formatResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (t *tools) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.mu.Lock()
	val, err := t.session.Eval(expr)
	t.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(elder.Describe(val, err)), nil
	}
	return mcp.NewToolResultText(elder.Repr(val)), nil
}

func (t *tools) handleBindings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	bindings := t.session.Bindings()
	t.mu.Unlock()
	out := make(map[string]string, len(bindings))
	for _, b := range bindings {
		out[b.Name] = elder.Repr(b.Value)
	}
	return formatResult(out)
}

func (t *tools) handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := request.GetInt("n", 20)
	t.mu.Lock()
	traces := t.session.Traces(n)
	t.mu.Unlock()
	out := make([]map[string]any, len(traces))
	for i := range traces {
		out[i] = traces[i].ToMap()
	}
	return formatResult(out)
}

func (t *tools) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	err := t.session.Reset()
	t.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("reset"), nil
}

func main() {
	opts := elder.SessionOptions{}
	if dbPath := os.Getenv("ELDER_DB"); dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			log.Fatalf("open form log: %v", err)
		}
		defer st.Close()
		opts.Log = st
	}

	session, err := elder.NewSession(opts)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}
	t := &tools{session: session}

	s := server.NewMCPServer(
		"elder",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("elder_eval",
			mcp.WithDescription("Evaluate one or more top-level forms. Defines persist for later calls. Returns the last value."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Source to evaluate, e.g. (define sq (lambda (x) (* x x)))"),
			),
		),
		t.handleEval,
	)

	s.AddTool(
		mcp.NewTool("elder_bindings",
			mcp.WithDescription("List every global binding and its printed value."),
		),
		t.handleBindings,
	)

	s.AddTool(
		mcp.NewTool("elder_traces",
			mcp.WithDescription("Show recent evaluation traces: form, result or error, timestamp."),
			mcp.WithNumber("n",
				mcp.Description("How many traces to return (default 20)"),
			),
		),
		t.handleTraces,
	)

	s.AddTool(
		mcp.NewTool("elder_reset",
			mcp.WithDescription("Clear the form log and traces and return the environment to the prelude."),
		),
		t.handleReset,
	)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
