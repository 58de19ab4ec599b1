package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/handiism/goprocat/internal/merge"
)

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "input", shorthand: "i"},
		{name: "output", shorthand: "o"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.name)
		if f == nil {
			t.Fatalf("flag --%s missing", tt.name)
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("flag --%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
		}
	}
}

func TestRootCmd_MissingOutputDir(t *testing.T) {
	in := t.TempDir()
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-i", in, "-o", filepath.Join(in, "missing")})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() expected error for a missing output directory")
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() expected error for positional arguments")
	}
}

func TestRootCmd_RejectsOutputEqualToInput(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "GX010123.MP4"), []byte("chapter"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-i", in, "-o", filepath.Join(in, ".")})

	err := cmd.Execute()
	if !errors.Is(err, merge.ErrOverwritesInput) {
		t.Fatalf("Execute() error = %v, want ErrOverwritesInput", err)
	}

	data, err := os.ReadFile(filepath.Join(in, "GX010123.MP4"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "chapter" {
		t.Errorf("input chapter changed to %q", data)
	}
}

func TestBarLogger_ClearsBarBeforeLogging(t *testing.T) {
	var out bytes.Buffer
	log.SetHandler(cli.New(&out))
	defer log.SetHandler(cli.New(os.Stderr))

	l := &barLogger{bar: newBar(2, &out)}
	if err := l.bar.RenderBlank(); err != nil {
		t.Fatal(err)
	}

	const msg = "GPS data is not contained: GX020123.MP4"
	l.handle(merge.ProgressEvent{Message: msg, Level: merge.LevelWarning})

	text := out.String()
	at := strings.Index(text, msg)
	if at < 0 {
		t.Fatalf("log entry missing from output %q", text)
	}
	before := text[:at]
	if strings.LastIndex(before, "\r") < strings.LastIndex(before, "merging") {
		t.Errorf("bar was not cleared before the log entry: %q", text)
	}
	if !strings.Contains(text[at:], "merging") {
		t.Errorf("bar was not drawn again after the log entry: %q", text)
	}
}

func TestBarLogger_AbortClearsBar(t *testing.T) {
	var out bytes.Buffer
	l := &barLogger{bar: newBar(2, &out)}
	if err := l.bar.RenderBlank(); err != nil {
		t.Fatal(err)
	}

	l.abort()

	text := out.String()
	if !strings.HasSuffix(text, "\r") {
		t.Errorf("bar left on the line after abort: %q", text)
	}
	if l.bar.IsFinished() {
		t.Error("abort should not fill the bar")
	}
}
