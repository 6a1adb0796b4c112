package cli

import (
	"context"

	"github.com/tutu-network/fmodcli/internal/command"
	"github.com/tutu-network/fmodcli/internal/output"
)

// runModels lists descriptors. An empty listing is not an error.
func (a *App) runModels(ctx context.Context, pc command.ParsedCommand) int {
	models := a.Backend.ListModels(ctx)
	if ctx.Err() != nil {
		return ExitInterrupted
	}
	a.Log.Debug().Int("count", len(models)).Msg("models listed")
	return a.emit(output.Models(formatOf(pc), models))
}
