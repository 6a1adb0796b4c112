package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tutu-network/fmodcli/internal/domain"
)

func TestResult_Text(t *testing.T) {
	tests := []struct {
		name   string
		result domain.GenerationResult
		want   Rendered
	}{
		{"success", domain.Success{Text: "Hi there"}, Rendered{Text: "Hi there\n", Stream: Stdout}},
		{"unavailable", domain.Unavailable{Reason: "model not ready"}, Rendered{Text: "Error: model not ready\n", Stream: Stderr}},
		{"failure", domain.Failure{Message: "boom"}, Rendered{Text: "Error: boom\n", Stream: Stderr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Result(domain.FormatText, tt.result)
			if got != tt.want {
				t.Errorf("Result() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResult_JSON(t *testing.T) {
	tests := []struct {
		name   string
		result domain.GenerationResult
		want   Rendered
	}{
		{"success", domain.Success{Text: "Hello"}, Rendered{Text: `{"result": "Hello"}` + "\n", Stream: Stdout}},
		{"unavailable", domain.Unavailable{Reason: "Apple Intelligence not enabled"}, Rendered{Text: `{"error": "Apple Intelligence not enabled"}` + "\n", Stream: Stderr}},
		{"failure", domain.Failure{Message: "boom"}, Rendered{Text: `{"error": "boom"}` + "\n", Stream: Stderr}},
		{"escaping", domain.Success{Text: "line1\n\"q\" <b> & \\"}, Rendered{Text: `{"result": "line1\n\"q\" <b> & \\"}` + "\n", Stream: Stdout}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Result(domain.FormatJSON, tt.result)
			if got != tt.want {
				t.Errorf("Result() = %q, want %q", got.Text, tt.want.Text)
			}
		})
	}
}

func TestResult_JSONIsStable(t *testing.T) {
	first := Result(domain.FormatJSON, domain.Success{Text: "Hello"})
	for i := 0; i < 100; i++ {
		if got := Result(domain.FormatJSON, domain.Success{Text: "Hello"}); got != first {
			t.Fatalf("call %d = %q, want %q", i, got.Text, first.Text)
		}
	}
}

func TestResult_JSONParses(t *testing.T) {
	text := "unicode ✓ and tabs\tand\x01control"
	got := Result(domain.FormatJSON, domain.Success{Text: text})

	var obj map[string]string
	if err := json.Unmarshal([]byte(got.Text), &obj); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, got.Text)
	}
	if obj["result"] != text {
		t.Errorf("result = %q, want %q", obj["result"], text)
	}
	if len(obj) != 1 {
		t.Errorf("object has %d keys, want 1", len(obj))
	}
}

func TestModels(t *testing.T) {
	models := []domain.ModelDescriptor{
		{Identifier: "llama3.2:latest", DisplayName: "llama3.2", IsAvailable: true},
		{Identifier: "phi3:mini", DisplayName: "phi3:mini", IsAvailable: false},
	}
	before := append([]domain.ModelDescriptor(nil), models...)

	text := Models(domain.FormatText, models)
	if text.Stream != Stdout {
		t.Error("models listing should go to stdout")
	}
	lines := strings.Split(strings.TrimSpace(text.Text), "\n")
	if len(lines) != 3 {
		t.Fatalf("text listing has %d lines, want 3:\n%s", len(lines), text.Text)
	}
	if !strings.HasPrefix(lines[0], "IDENTIFIER") || !strings.Contains(lines[2], "no") {
		t.Errorf("unexpected listing:\n%s", text.Text)
	}

	js := Models(domain.FormatJSON, models)
	var got []domain.ModelDescriptor
	if err := json.Unmarshal([]byte(js.Text), &got); err != nil {
		t.Fatalf("json listing does not parse: %v", err)
	}
	if diff := cmp.Diff(models, got); diff != "" {
		t.Errorf("json round trip (-want +got):\n%s", diff)
	}
	if !strings.Contains(js.Text, `"displayName"`) || !strings.Contains(js.Text, `"isAvailable"`) {
		t.Errorf("json keys missing:\n%s", js.Text)
	}
	if diff := cmp.Diff(before, models); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestModels_Empty(t *testing.T) {
	if got := Models(domain.FormatText, nil).Text; got != NoModels+"\n" {
		t.Errorf("text = %q, want %q", got, NoModels+"\n")
	}
	if got := Models(domain.FormatJSON, nil).Text; got != "[]\n" {
		t.Errorf("json = %q, want %q", got, "[]\n")
	}
}

func TestHistory(t *testing.T) {
	entries := []domain.HistoryEntry{{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		Prompt:    "Write a haiku about autumn leaves falling on a quiet river",
		Outcome:   domain.OutcomeSuccess,
		Output:    "...",
		CreatedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		Duration:  1234567890,
	}}

	got := History(domain.FormatText, entries).Text
	for _, want := range []string{"0f8fad5b", "2026-10-18 09:30", "success", "1.235s", "Write a haiku"} {
		if !strings.Contains(got, want) {
			t.Errorf("history text missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "quiet river") {
		t.Errorf("prompt not truncated:\n%s", got)
	}

	if got := History(domain.FormatText, nil).Text; got != NoHistory+"\n" {
		t.Errorf("empty text = %q", got)
	}
	if got := History(domain.FormatJSON, nil).Text; got != "[]\n" {
		t.Errorf("empty json = %q", got)
	}
}

func TestRendered_WriteTo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_ = Rendered{Text: "out\n"}.WriteTo(&stdout, &stderr)
	_ = Rendered{Text: "err\n", Stream: Stderr}.WriteTo(&stdout, &stderr)

	if stdout.String() != "out\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "err\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}
