package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/tutu-network/fmodcli/internal/command"
	"github.com/tutu-network/fmodcli/internal/domain"
	"github.com/tutu-network/fmodcli/internal/infra/engine"
	"github.com/tutu-network/fmodcli/internal/output"
)

// runGenerate checks availability, then awaits exactly one generate call.
func (a *App) runGenerate(ctx context.Context, pc command.ParsedCommand) int {
	format := formatOf(pc)
	prompt := pc.Value(command.LabelPrompt)
	if strings.TrimSpace(prompt) == "" {
		return a.usageError(command.InvalidValue(command.Run, command.LabelPrompt, prompt))
	}

	req := domain.GenerationRequest{
		ID:     a.requestID(),
		Prompt: prompt,
		Model:  a.Model,
		Format: format,
	}
	log := a.Log.With().Str("request_id", req.ID).Logger()
	start := a.clock()

	var result domain.GenerationResult
	avail := a.Backend.CheckAvailability(ctx)
	if ctx.Err() != nil {
		log.Debug().Msg("interrupted during availability check")
		return ExitInterrupted
	}
	if !avail.Available {
		log.Debug().Str("reason", avail.Reason).Msg("backend unavailable")
		result = domain.Unavailable{Reason: avail.Reason}
	} else {
		r, err := engine.Await(ctx, a.Backend, req, a.Timeout)
		if errors.Is(err, domain.ErrAbandoned) {
			log.Debug().Msg("generation abandoned")
			return ExitInterrupted
		}
		result = r
	}

	took := a.clock().Sub(start)
	log.Debug().Str("outcome", string(result.Outcome())).Dur("took", took).Msg("run resolved")
	if a.Metrics != nil {
		a.Metrics.ObserveGeneration(result.Outcome(), took)
	}
	a.record(req, result, start, took)

	if code := a.emit(output.Result(format, result)); code != ExitOK {
		return code
	}
	if _, ok := result.(domain.Success); ok {
		return ExitOK
	}
	return ExitFailure
}
