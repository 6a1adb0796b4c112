package command

import "strings"

// Action says what the caller should do with a ParsedCommand.
type Action int

const (
	ActionExecute Action = iota
	ActionHelp
	ActionVersion
)

// ParsedCommand is one validated invocation. Name is empty for root-level
// help and version.
type ParsedCommand struct {
	Action Action
	Name   string
	Values map[string]string
}

// Value returns the parsed value for label.
func (p ParsedCommand) Value(label string) string { return p.Values[label] }

func isFlag(tok string) bool { return len(tok) > 1 && strings.HasPrefix(tok, "-") }

func isHelp(tok string) bool { return tok == "--help" || tok == "-h" }

// Parse turns raw arguments (program name excluded) into exactly one
// ParsedCommand or a *ParseError. It has no side effects.
func Parse(set *Set, tokens []string) (ParsedCommand, error) {
	if len(tokens) == 0 {
		return ParsedCommand{}, &ParseError{Kind: ErrUnknownCommand}
	}

	head := tokens[0]
	switch {
	case isHelp(head) || head == "help":
		if head == "help" && len(tokens) > 1 {
			if _, ok := set.Lookup(tokens[1]); ok {
				return ParsedCommand{Action: ActionHelp, Name: tokens[1]}, nil
			}
			return ParsedCommand{}, &ParseError{Kind: ErrUnknownCommand, Token: tokens[1]}
		}
		return ParsedCommand{Action: ActionHelp}, nil
	case head == "--version":
		return ParsedCommand{Action: ActionVersion}, nil
	case isFlag(head):
		return ParsedCommand{}, &ParseError{Kind: ErrUnknownFlag, Token: head}
	}

	spec, ok := set.Lookup(head)
	if !ok {
		return ParsedCommand{}, &ParseError{Kind: ErrUnknownCommand, Token: head}
	}
	return parseArgs(spec, tokens[1:])
}

func parseArgs(spec CommandSpec, tokens []string) (ParsedCommand, error) {
	pc := ParsedCommand{Name: spec.Name, Values: make(map[string]string)}
	positionals := spec.Positionals()
	var rest []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			rest = append(rest, tokens[i+1:]...)
			break
		}
		if !isFlag(tok) {
			rest = append(rest, tok)
			continue
		}
		if isHelp(tok) {
			return ParsedCommand{Action: ActionHelp, Name: spec.Name}, nil
		}

		name, value, inline := strings.Cut(tok, "=")
		opt, ok := lookupFlag(spec, name)
		if !ok {
			return ParsedCommand{}, &ParseError{Kind: ErrUnknownFlag, Command: spec.Name, Token: tok}
		}
		if !inline {
			if i+1 >= len(tokens) {
				return ParsedCommand{}, &ParseError{Kind: ErrMissingArgument, Command: spec.Name, Label: opt.Label, Token: tok}
			}
			i++
			value = tokens[i]
		}
		if !opt.Accepts(value) {
			return ParsedCommand{}, &ParseError{
				Kind:    ErrInvalidValue,
				Command: spec.Name,
				Label:   opt.Label,
				Token:   tok,
				Value:   value,
				Allowed: opt.Allowed,
			}
		}
		pc.Values[opt.Label] = value
	}

	if len(rest) > len(positionals) {
		return ParsedCommand{}, &ParseError{Kind: ErrUnexpectedArgument, Command: spec.Name, Token: rest[len(positionals)]}
	}
	for i, p := range positionals {
		if i >= len(rest) {
			return ParsedCommand{}, &ParseError{Kind: ErrMissingArgument, Command: spec.Name, Label: p.Label}
		}
		if !p.Accepts(rest[i]) {
			return ParsedCommand{}, &ParseError{Kind: ErrInvalidValue, Command: spec.Name, Label: p.Label, Value: rest[i], Allowed: p.Allowed}
		}
		pc.Values[p.Label] = rest[i]
	}

	for _, opt := range spec.Options() {
		if _, set := pc.Values[opt.Label]; !set && opt.HasDefault() {
			pc.Values[opt.Label] = opt.Default
		}
	}
	return pc, nil
}

func lookupFlag(spec CommandSpec, tok string) (ArgumentSpec, bool) {
	for _, opt := range spec.Options() {
		for _, form := range flagForms(opt) {
			if form == tok {
				return opt, true
			}
		}
	}
	return ArgumentSpec{}, false
}
