package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "churn", 4)

	if p.title != "churn" {
		t.Errorf("title = %q, want %q", p.title, "churn")
	}
	if p.total != 4 {
		t.Errorf("total = %d, want 4", p.total)
	}
	if buf.Len() != 0 {
		t.Error("NewProgress should not write")
	}
}

func TestProgress_Step(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "churn", 4)

	p.Step("")
	p.Step("fill 12ms")

	output := buf.String()
	if !strings.Contains(output, "2/4") {
		t.Errorf("output = %q, want 2/4", output)
	}
	if !strings.Contains(output, "fill 12ms") {
		t.Error("output should contain the step detail")
	}
	if p.current != 2 {
		t.Errorf("current = %d, want 2", p.current)
	}
}

func TestProgress_Full(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "x", 2)

	p.Step("")
	p.Step("")
	p.Step("") // past the total
	p.Finish()

	output := buf.String()
	if strings.Contains(output[strings.LastIndex(output, "["):], "░") {
		t.Error("bar past the total should be full")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Finish should end the line")
	}
}
