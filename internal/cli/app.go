package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tutu-network/fmodcli/internal/command"
	"github.com/tutu-network/fmodcli/internal/domain"
	"github.com/tutu-network/fmodcli/internal/infra/metrics"
	"github.com/tutu-network/fmodcli/internal/output"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1  // backend unavailable or generation failure
	ExitUsage       = 2  // argument errors
	ExitConfig      = 70 // malformed command set or config file
	ExitInterrupted = 130
)

// App dispatches one invocation. Every field except Set and Backend is
// optional.
type App struct {
	Set     *command.Set
	Backend domain.GenerationBackend
	Version string
	Model   string        // preferred model for run; empty lets the backend choose
	Timeout time.Duration // bound on a single generate call; 0 disables

	Stdout io.Writer
	Stderr io.Writer
	Log    zerolog.Logger

	History     domain.HistoryStore // nil when the journal is disabled
	HistoryHint string              // shown by `history` when History is nil
	Metrics     *metrics.Metrics

	now   func() time.Time
	newID func() string
}

func (a *App) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *App) requestID() string {
	if a.newID != nil {
		return a.newID()
	}
	return uuid.NewString()
}

// Run parses args and executes the selected command, returning the process
// exit code. Exactly one formatted message is written per failure path.
func (a *App) Run(ctx context.Context, args []string) int {
	pc, err := command.Parse(a.Set, args)
	if err != nil {
		code := a.usageError(err)
		a.observe("", code)
		return code
	}

	a.Log.Debug().Str("command", pc.Name).Int("action", int(pc.Action)).Msg("dispatch")

	var code int
	switch pc.Action {
	case command.ActionHelp:
		code = a.help(pc.Name)
	case command.ActionVersion:
		fmt.Fprintln(a.Stdout, a.Version)
		code = ExitOK
	default:
		code = a.execute(ctx, pc)
	}
	a.observe(pc.Name, code)
	return code
}

func (a *App) execute(ctx context.Context, pc command.ParsedCommand) int {
	switch pc.Name {
	case command.Run:
		return a.runGenerate(ctx, pc)
	case command.Models:
		return a.runModels(ctx, pc)
	case command.Examples:
		return a.runExamples()
	case command.History:
		return a.runHistory(pc)
	}
	// A spec registered without a handler is a packaging bug.
	fmt.Fprintf(a.Stderr, "%scommand %q has no handler\n", output.ErrorMarker, pc.Name)
	return ExitConfig
}

// usageError reports an argument error with a usage hint.
func (a *App) usageError(err error) int {
	var pe *command.ParseError
	if !errors.As(err, &pe) {
		fmt.Fprintf(a.Stderr, "%s%v\n", output.ErrorMarker, err)
		return ExitUsage
	}

	fmt.Fprintf(a.Stderr, "%s%v\n", output.ErrorMarker, pe)
	if line := a.useLine(pe.Command); line != "" {
		fmt.Fprintf(a.Stderr, "Usage: %s\n", line)
	}
	if pe.Command != "" {
		fmt.Fprintf(a.Stderr, "See '%s %s --help'.\n", a.Set.Name, pe.Command)
	} else {
		fmt.Fprintf(a.Stderr, "See '%s --help'.\n", a.Set.Name)
	}
	return ExitUsage
}

func (a *App) emit(r output.Rendered) int {
	if err := r.WriteTo(a.Stdout, a.Stderr); err != nil {
		a.Log.Error().Err(err).Msg("write output")
		return ExitFailure
	}
	return ExitOK
}

func (a *App) observe(name string, code int) {
	if a.Metrics != nil {
		a.Metrics.ObserveInvocation(name, code)
	}
}

func formatOf(pc command.ParsedCommand) domain.OutputFormat {
	f, err := domain.ParseOutputFormat(pc.Value(command.LabelOutput))
	if err != nil {
		return domain.FormatText
	}
	return f
}
