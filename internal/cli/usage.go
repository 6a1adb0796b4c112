package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutu-network/fmodcli/internal/command"
)

// commandTree mirrors the command set as a cobra tree. Parsing is done by
// command.Parse; cobra only renders help and usage lines.
func commandTree(set *command.Set) *cobra.Command {
	root := &cobra.Command{
		Use:   set.Name,
		Short: set.Abstract,
		Long: set.Abstract + `.

` + set.Name + ` sends prompts to the on-device generative model and prints the
result as text or JSON. Backend, model and timeout are read from
$FMODCLI_HOME/config.toml (default ~/.fmodcli/config.toml).`,
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().Bool("version", false, "Print the version and exit")

	for _, spec := range set.Commands() {
		sub := &cobra.Command{
			Use:   useFor(spec),
			Short: spec.Abstract,
			RunE:  func(*cobra.Command, []string) error { return nil },
		}
		for _, opt := range spec.Options() {
			name := opt.Long
			if name == "" {
				name = opt.Label
			}
			short := ""
			if opt.Short != 0 {
				short = string(opt.Short)
			}
			sub.Flags().StringP(name, short, opt.Default, opt.Help)
		}
		sub.InitDefaultHelpFlag()
		root.AddCommand(sub)
	}

	root.InitDefaultHelpFlag()
	return root
}

func useFor(spec command.CommandSpec) string {
	parts := []string{spec.Name}
	for _, p := range spec.Positionals() {
		parts = append(parts, "<"+p.Label+">")
	}
	return strings.Join(parts, " ")
}

func (a *App) tree() *cobra.Command {
	return commandTree(a.Set)
}

// findSub returns the cobra command for name, or root when name is empty.
func findSub(root *cobra.Command, name string) *cobra.Command {
	if name == "" {
		return root
	}
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// help prints generated usage for the root or one command.
func (a *App) help(name string) int {
	cmd := findSub(a.tree(), name)
	if cmd == nil {
		fmt.Fprintf(a.Stderr, "Error: unknown command %q\n", name)
		return ExitUsage
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if err := cmd.Help(); err != nil {
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	fmt.Fprint(a.Stdout, buf.String())
	return ExitOK
}

// useLine returns the one-line usage for a command, or "" for the root.
func (a *App) useLine(name string) string {
	if name == "" {
		return ""
	}
	if cmd := findSub(a.tree(), name); cmd != nil {
		return cmd.UseLine()
	}
	return ""
}
