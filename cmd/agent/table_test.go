package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	out := renderTable(&buf,
		[]string{"ID", "Name", "Duration"},
		[][]string{
			{"p1", "Morning Vlog", "12.500"},
			{"p2", "Short"},
		},
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	)

	for _, want := range []string{"ID", "NAME", "DURATION", "p1", "Morning Vlog", "12.500", "p2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	if out := renderTable(&buf, nil, nil, nil); out != "" {
		t.Fatalf("renderTable with no headers = %q, want empty", out)
	}
}

func TestIsTerminal_NonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Fatal("bytes.Buffer should not be a terminal")
	}
}
