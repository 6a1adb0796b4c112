package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDefault(t *testing.T) *Set {
	t.Helper()
	set, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return set
}

func TestParse_Run(t *testing.T) {
	set := mustDefault(t)

	tests := []struct {
		name string
		args []string
		want map[string]string
	}{
		{"default output", []string{"run", "Hello world"}, map[string]string{"prompt": "Hello world", "output": "text"}},
		{"long output", []string{"run", "--output", "json", "Test prompt"}, map[string]string{"prompt": "Test prompt", "output": "json"}},
		{"short output", []string{"run", "-o", "json", "Test prompt"}, map[string]string{"prompt": "Test prompt", "output": "json"}},
		{"inline output", []string{"run", "--output=json", "Test prompt"}, map[string]string{"prompt": "Test prompt", "output": "json"}},
		{"flag after prompt", []string{"run", "Test prompt", "-o", "json"}, map[string]string{"prompt": "Test prompt", "output": "json"}},
		{"dash prompt after separator", []string{"run", "--", "-5 degrees?"}, map[string]string{"prompt": "-5 degrees?", "output": "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := Parse(set, tt.args)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.args, err)
			}
			if pc.Action != ActionExecute || pc.Name != Run {
				t.Errorf("Parse(%q) = %+v, want execute run", tt.args, pc)
			}
			if diff := cmp.Diff(tt.want, pc.Values); diff != "" {
				t.Errorf("Values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_NoArgumentCommands(t *testing.T) {
	set := mustDefault(t)
	for _, name := range []string{Models, Examples} {
		pc, err := Parse(set, []string{name})
		if err != nil {
			t.Fatalf("Parse(%s) error: %v", name, err)
		}
		if pc.Name != name {
			t.Errorf("Name = %q, want %q", pc.Name, name)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	set := mustDefault(t)

	tests := []struct {
		name  string
		args  []string
		kind  error
		label string
		token string
	}{
		{"empty", nil, ErrUnknownCommand, "", ""},
		{"unknown command", []string{"chat"}, ErrUnknownCommand, "", "chat"},
		{"unknown root flag", []string{"--verbose", "run"}, ErrUnknownFlag, "", "--verbose"},
		{"missing prompt", []string{"run"}, ErrMissingArgument, "prompt", ""},
		{"missing prompt with output", []string{"run", "-o", "json"}, ErrMissingArgument, "prompt", ""},
		{"missing flag value", []string{"run", "hi", "--output"}, ErrMissingArgument, "output", "--output"},
		{"invalid output", []string{"run", "--output", "xml", "hi"}, ErrInvalidValue, "output", "--output"},
		{"unknown flag", []string{"run", "--invalid-flag", "prompt"}, ErrUnknownFlag, "", "--invalid-flag"},
		{"unknown short flag", []string{"run", "-x", "prompt"}, ErrUnknownFlag, "", "-x"},
		{"surplus positional", []string{"run", "hello", "world"}, ErrUnexpectedArgument, "", "world"},
		{"examples takes nothing", []string{"examples", "extra"}, ErrUnexpectedArgument, "", "extra"},
		{"help unknown command", []string{"help", "chat"}, ErrUnknownCommand, "", "chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(set, tt.args)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Parse(%q) err = %v, want %v", tt.args, err, tt.kind)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err is %T, want *ParseError", err)
			}
			if pe.Label != tt.label {
				t.Errorf("Label = %q, want %q", pe.Label, tt.label)
			}
			if pe.Token != tt.token {
				t.Errorf("Token = %q, want %q", pe.Token, tt.token)
			}
		})
	}
}

func TestParse_InvalidOutputNeverPasses(t *testing.T) {
	set := mustDefault(t)
	for _, v := range []string{"", "TEXT", "yaml", "json ", "xml"} {
		_, err := Parse(set, []string{"run", "-o", v, "prompt"})
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("output %q: err = %v, want ErrInvalidValue", v, err)
		}
	}
}

func TestParse_HelpAndVersion(t *testing.T) {
	set := mustDefault(t)

	tests := []struct {
		args   []string
		action Action
		name   string
	}{
		{[]string{"--help"}, ActionHelp, ""},
		{[]string{"-h"}, ActionHelp, ""},
		{[]string{"help"}, ActionHelp, ""},
		{[]string{"help", "run"}, ActionHelp, "run"},
		{[]string{"run", "--help"}, ActionHelp, "run"},
		{[]string{"models", "-h"}, ActionHelp, "models"},
		{[]string{"--version"}, ActionVersion, ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			pc, err := Parse(set, tt.args)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if pc.Action != tt.action || pc.Name != tt.name {
				t.Errorf("Parse(%q) = {%d %q}, want {%d %q}", tt.args, pc.Action, pc.Name, tt.action, tt.name)
			}
		})
	}
}

func TestParseError_Messages(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Kind: ErrUnknownCommand}, "no command given"},
		{&ParseError{Kind: ErrUnknownCommand, Token: "chat"}, `unknown command "chat"`},
		{&ParseError{Kind: ErrMissingArgument, Label: "prompt"}, "missing value for '<prompt>'"},
		{&ParseError{Kind: ErrInvalidValue, Label: "output", Value: "xml", Allowed: []string{"text", "json"}}, `invalid value "xml" for '<output>' (allowed: text, json)`},
		{InvalidValue("run", "prompt", "  "), `invalid value "  " for '<prompt>'`},
		{&ParseError{Kind: ErrUnknownFlag, Token: "--x"}, `unknown flag "--x"`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
