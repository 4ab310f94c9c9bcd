package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	specs := []struct {
		in  string
		exp Level
		err bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"", Notice, false},
		{"warn", Warning, false},
		{"error", Error, false},
		{"chatty", Notice, true},
	}

	for index, s := range specs {
		level, err := ParseLevel(s.in)
		if s.err != (err != nil) {
			t.Fatalf("[spec %d] expected error to be %t; got %v", index, s.err, err)
		}
		if level != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, level)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Notice("hidden")
	logger.Warning("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected notice message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message with module name; got %q", out)
	}
}

func TestModuleLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	SetLevel(Notice)
	SetModuleLevel("chatty", Debug)
	defer SetModuleLevel("chatty", Notice)

	New("chatty").Debug("chatty details")
	New("quiet").Debug("quiet details")

	out := buf.String()
	if !strings.Contains(out, "chatty details") {
		t.Fatalf("expected debug message of module with debug level; got %q", out)
	}
	if strings.Contains(out, "quiet details") {
		t.Fatalf("expected debug message of module without override to be filtered; got %q", out)
	}
}
