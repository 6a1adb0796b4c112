// Package command declares the fmodcli command set and parses raw process
// arguments against it. Nothing here touches a backend or writes output.
package command

import (
	"errors"
	"fmt"
	"slices"
)

// Configuration errors. These indicate a packaging bug, never user input.
var (
	ErrDuplicateCommand = errors.New("duplicate command name")
	ErrInvalidSpec      = errors.New("invalid command spec")
)

// Command names.
const (
	Run      = "run"
	Models   = "models"
	Examples = "examples"
	History  = "history"
)

// Argument labels.
const (
	LabelPrompt = "prompt"
	LabelOutput = "output"
	LabelLimit  = "limit"
)

// ArgKind distinguishes positional slots from flagged options.
type ArgKind int

const (
	Positional ArgKind = iota
	Option
)

// ArgumentSpec describes one argument of a command.
type ArgumentSpec struct {
	Label   string
	Short   rune   // 0 when the option has no short form
	Long    string // empty for positionals
	Kind    ArgKind
	Default string
	Allowed []string // nil means any value
	Help    string
}

// HasDefault reports whether an option carries a default value.
func (a ArgumentSpec) HasDefault() bool { return a.Default != "" }

// Accepts reports whether v is permitted for this argument.
func (a ArgumentSpec) Accepts(v string) bool {
	return len(a.Allowed) == 0 || slices.Contains(a.Allowed, v)
}

func (a ArgumentSpec) validate() error {
	if a.Label == "" {
		return fmt.Errorf("%w: argument without label", ErrInvalidSpec)
	}
	switch a.Kind {
	case Positional:
		if a.Short != 0 || a.Long != "" {
			return fmt.Errorf("%w: positional %q has a flag", ErrInvalidSpec, a.Label)
		}
	case Option:
		if a.Short == 0 && a.Long == "" {
			return fmt.Errorf("%w: option %q has no flag", ErrInvalidSpec, a.Label)
		}
		if a.HasDefault() && !a.Accepts(a.Default) {
			return fmt.Errorf("%w: default %q of %q not in allowed values", ErrInvalidSpec, a.Default, a.Label)
		}
	default:
		return fmt.Errorf("%w: argument %q has unknown kind %d", ErrInvalidSpec, a.Label, a.Kind)
	}
	return nil
}

// CommandSpec is the declarative definition of one subcommand.
type CommandSpec struct {
	Name      string
	Abstract  string
	Arguments []ArgumentSpec
}

// Positionals returns the positional arguments in declaration order.
func (c CommandSpec) Positionals() []ArgumentSpec {
	var out []ArgumentSpec
	for _, a := range c.Arguments {
		if a.Kind == Positional {
			out = append(out, a)
		}
	}
	return out
}

// Options returns the flagged arguments in declaration order.
func (c CommandSpec) Options() []ArgumentSpec {
	var out []ArgumentSpec
	for _, a := range c.Arguments {
		if a.Kind == Option {
			out = append(out, a)
		}
	}
	return out
}

func (c CommandSpec) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: command without name", ErrInvalidSpec)
	}
	labels := make(map[string]bool, len(c.Arguments))
	flags := make(map[string]bool)
	for _, a := range c.Arguments {
		if err := a.validate(); err != nil {
			return fmt.Errorf("command %q: %w", c.Name, err)
		}
		if labels[a.Label] {
			return fmt.Errorf("%w: command %q declares %q twice", ErrInvalidSpec, c.Name, a.Label)
		}
		labels[a.Label] = true
		for _, f := range flagForms(a) {
			if f == "--help" || f == "-h" || flags[f] {
				return fmt.Errorf("%w: command %q reuses flag %s", ErrInvalidSpec, c.Name, f)
			}
			flags[f] = true
		}
	}
	return nil
}

func flagForms(a ArgumentSpec) []string {
	var forms []string
	if a.Long != "" {
		forms = append(forms, "--"+a.Long)
	}
	if a.Short != 0 {
		forms = append(forms, "-"+string(a.Short))
	}
	return forms
}

// Set is the immutable, validated collection of commands.
type Set struct {
	Name     string
	Abstract string
	commands []CommandSpec
	byName   map[string]int
}

// NewSet validates specs and builds a Set. Duplicate names fail with
// ErrDuplicateCommand.
func NewSet(name, abstract string, specs ...CommandSpec) (*Set, error) {
	s := &Set{
		Name:     name,
		Abstract: abstract,
		byName:   make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCommand, spec.Name)
		}
		s.byName[spec.Name] = len(s.commands)
		s.commands = append(s.commands, spec)
	}
	return s, nil
}

// Lookup returns the spec registered under name.
func (s *Set) Lookup(name string) (CommandSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return CommandSpec{}, false
	}
	return s.commands[i], true
}

// Commands returns the specs in registration order.
func (s *Set) Commands() []CommandSpec {
	return slices.Clone(s.commands)
}

// ─── Default Command Set ────────────────────────────────────────────────────

var formats = []string{"text", "json"}

func outputOption(help string) ArgumentSpec {
	return ArgumentSpec{
		Label:   LabelOutput,
		Short:   'o',
		Long:    "output",
		Kind:    Option,
		Default: "text",
		Allowed: formats,
		Help:    help,
	}
}

// DefaultSpecs returns the fmodcli commands.
func DefaultSpecs() []CommandSpec {
	return []CommandSpec{
		{
			Name:     Run,
			Abstract: "Generate text using the on-device model",
			Arguments: []ArgumentSpec{
				{Label: LabelPrompt, Kind: Positional, Help: "The prompt to send to the model"},
				outputOption("Output format (text, json)"),
			},
		},
		{
			Name:     Models,
			Abstract: "List available models",
			Arguments: []ArgumentSpec{
				outputOption("Output format (text, json)"),
			},
		},
		{
			Name:     Examples,
			Abstract: "Show usage examples",
		},
		{
			Name:     History,
			Abstract: "Show recent generations",
			Arguments: []ArgumentSpec{
				outputOption("Output format (text, json)"),
				{Label: LabelLimit, Short: 'n', Long: "limit", Kind: Option, Default: "10", Help: "Number of entries to show"},
			},
		},
	}
}

// Default builds the fmodcli command set.
func Default() (*Set, error) {
	return NewSet("fmodcli", "On-device generative text CLI", DefaultSpecs()...)
}
