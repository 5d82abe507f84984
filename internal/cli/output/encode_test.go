package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name   string        `json:"name" yaml:"name"`
	Period time.Duration `json:"period" yaml:"period"`
	Tags   []string      `json:"tags" yaml:"tags"`
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	err := (&JSONFormatter{}).Format(&buf, sample{Name: "a<b>", Period: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"name": "a<b>"`) {
		t.Errorf("Format() = %q, want unescaped name", out)
	}

	var got sample
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Period != 10*time.Millisecond {
		t.Errorf("Period = %v, want 10ms", got.Period)
	}
}

func TestJSONFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format(nil) error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "null" {
		t.Errorf("Format(nil) = %q, want null", got)
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	data := sample{Name: "steady", Period: 10 * time.Millisecond, Tags: []string{"a", "b"}}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name: steady\n", "period: 10ms\n", "tags:\n", "- a\n", "- b\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() = %q, missing %q", out, want)
		}
	}
	if !strings.HasPrefix(out, "name:") {
		t.Errorf("Format() = %q, want fields in declaration order", out)
	}
}
