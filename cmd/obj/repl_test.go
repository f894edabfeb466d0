package main

import (
	"strings"
	"testing"
)

func TestReplEvaluateExpression(t *testing.T) {
	m := newReplModel()
	entry := m.evaluate("+(40, 2)")
	if entry.isErr {
		t.Fatalf("unexpected error entry: %s", entry.output)
	}
	if entry.output != "42" {
		t.Fatalf("expected 42, got %q", entry.output)
	}
}

func TestReplStatePersistsAcrossLines(t *testing.T) {
	m := newReplModel()
	if entry := m.evaluate("define x = 10"); entry.isErr {
		t.Fatalf("define failed: %s", entry.output)
	}
	if entry := m.evaluate("class Box\n field v = 7\n method get = proc() <this>v\nend"); entry.isErr {
		t.Fatalf("class failed: %s", entry.output)
	}
	entry := m.evaluate("+(x, .<new Box>get())")
	if entry.isErr {
		t.Fatalf("unexpected error entry: %s", entry.output)
	}
	if entry.output != "17" {
		t.Fatalf("expected 17, got %q", entry.output)
	}
}

func TestReplFoldsPrintedOutput(t *testing.T) {
	m := newReplModel()
	entry := m.evaluate("print(5)")
	if entry.isErr {
		t.Fatalf("unexpected error entry: %s", entry.output)
	}
	if entry.output != "5\n5" {
		t.Fatalf("expected printed line plus value, got %q", entry.output)
	}
}

func TestReplParseErrorShown(t *testing.T) {
	m := newReplModel()
	entry := m.evaluate("define = 1")
	if !entry.isErr {
		t.Fatalf("expected error entry")
	}
	if !strings.Contains(entry.output, "parse error") {
		t.Fatalf("unexpected output %q", entry.output)
	}
}

func TestReplRuntimeErrorShown(t *testing.T) {
	m := newReplModel()
	entry := m.evaluate("ghost")
	if !entry.isErr {
		t.Fatalf("expected error entry")
	}
	if !strings.Contains(entry.output, "unbound identifier 'ghost'") {
		t.Fatalf("unexpected output %q", entry.output)
	}
}
