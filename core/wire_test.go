package elder

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func TestWireFraming(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMsg(&buf, map[string]any{"id": "a", "op": "eval", "expr": "(+ 1 2)"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteMsg(&buf, map[string]any{"id": "b", "op": "bindings"}); err != nil {
		t.Fatal(err)
	}

	first, err := ReadMsg(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if first["expr"] != "(+ 1 2)" {
		t.Fatalf("unexpected first message %v", first)
	}
	second, err := ReadMsg(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if second["id"] != "b" {
		t.Fatalf("unexpected second message %v", second)
	}
	if _, err := ReadMsg(&buf); err != io.EOF {
		t.Fatalf("expected io.EOF after last message, got %v", err)
	}
}

func TestWireRejectsOversize(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(maxMsgSize+1))
	if _, err := ReadMsg(&buf); err == nil || err == io.EOF {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestWireTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(10))
	buf.WriteString("{}")
	if _, err := ReadMsg(&buf); err == nil || err == io.EOF {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestNextIDUnique(t *testing.T) {
	if NextID() == NextID() {
		t.Fatal("ids should differ")
	}
}
