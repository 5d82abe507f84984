package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading")

	if s == nil {
		t.Fatal("NewSpinner returned nil")
	}
	if s.message != "Loading" {
		t.Errorf("Spinner message = %q, want 'Loading'", s.message)
	}
	if len(s.frames) == 0 {
		t.Error("Spinner frames should not be empty")
	}
}

func TestSpinner_StartStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Processing")

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	output := buf.String()
	if !strings.Contains(output, "Processing") {
		t.Error("Spinner output should contain the message")
	}
	if !strings.HasSuffix(output, "\r\033[K") {
		t.Error("Stop should clear the line")
	}
}

func TestSpinner_Success(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	s.Success("Done!")

	output := buf.String()
	if !strings.Contains(output, "✓ Done!") {
		t.Errorf("Success output = %q, want a checkmark and message", output)
	}
}

func TestSpinner_Fail(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	s.Fail("Error occurred")

	output := buf.String()
	if !strings.Contains(output, "✗ Error occurred") {
		t.Errorf("Fail output = %q, want an X mark and message", output)
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Test")

	s.Start()
	s.Success("ok")
	n := buf.Len()
	s.Stop()
	s.Fail("late")

	if buf.Len() != n {
		t.Errorf("output after first stop: %q", buf.String()[n:])
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Test")

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Stop without Start caused panic: %v", r)
		}
	}()

	s.Stop()
}
