package capture

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileSourceCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, []byte("Alice\nHi there\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path, 3, time.Millisecond)
	got, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if got != "Alice\nHi there\n" {
		t.Errorf("Capture() = %q", got)
	}
}

func TestFileSourceEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path, 2, time.Millisecond)
	if _, err := src.Capture(context.Background()); err == nil {
		t.Error("Capture() = nil error for empty file, want error")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.txt"), 2, time.Millisecond)
	if _, err := src.Capture(context.Background()); err == nil {
		t.Error("Capture() = nil error for missing file, want error")
	}
}

func TestFileSourceWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(path, 1, time.Millisecond)
	ch, err := src.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("new sample"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification within 2s")
	}
}

func TestCommandSourceCapture(t *testing.T) {
	src := NewCommandSource("printf 'Bob\\nhello there\\n'", 5*time.Second)
	got, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if !strings.Contains(got, "hello there") {
		t.Errorf("Capture() = %q, want transcript text", got)
	}
}

func TestCommandSourceFailure(t *testing.T) {
	src := NewCommandSource("exit 3", 5*time.Second)
	if _, err := src.Capture(context.Background()); err == nil {
		t.Error("Capture() = nil error for failing command, want error")
	}
}

func TestStdoutSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &StdoutSink{W: &buf}
	if err := sink.Deliver(context.Background(), "Sounds good!"); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got := buf.String(); got != "Sounds good!\n" {
		t.Errorf("Deliver() wrote %q", got)
	}
}

func TestCommandSinkReceivesReplyOnStdin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "delivered.txt")
	sink := NewCommandSink("cat > " + out)
	if err := sink.Deliver(context.Background(), "See you at 3"); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "See you at 3" {
		t.Errorf("delivered %q", string(data))
	}
}
