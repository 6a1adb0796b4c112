package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tutu-network/fmodcli/internal/command"
	"github.com/tutu-network/fmodcli/internal/domain"
	"github.com/tutu-network/fmodcli/internal/output"
)

// record journals a resolved run. Journal failures never change the exit code.
func (a *App) record(req domain.GenerationRequest, r domain.GenerationResult, start time.Time, took time.Duration) {
	if a.History == nil {
		return
	}
	entry := domain.HistoryEntry{
		ID:        req.ID,
		Prompt:    req.Prompt,
		Model:     req.Model,
		Outcome:   r.Outcome(),
		Output:    domain.ResultMessage(r),
		CreatedAt: start,
		Duration:  took,
	}
	if err := a.History.RecordRun(entry); err != nil {
		a.Log.Warn().Err(err).Str("request_id", req.ID).Msg("record history")
	}
}

func (a *App) runHistory(pc command.ParsedCommand) int {
	format := formatOf(pc)
	raw := pc.Value(command.LabelLimit)
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return a.usageError(command.InvalidValue(command.History, command.LabelLimit, raw))
	}

	if a.History == nil {
		if format == domain.FormatJSON {
			return a.emit(output.History(format, nil))
		}
		hint := a.HistoryHint
		if hint == "" {
			hint = "Set history.enabled = true in config.toml to record runs."
		}
		fmt.Fprintf(a.Stdout, "History is disabled. %s\n", hint)
		return ExitOK
	}

	entries, err := a.History.RecentRuns(limit)
	if err != nil {
		a.emit(output.Error(format, fmt.Sprintf("read history: %v", err)))
		return ExitFailure
	}
	if code := a.emit(output.History(format, entries)); code != ExitOK || format == domain.FormatJSON {
		return code
	}
	if total, err := a.History.CountRuns(); err != nil {
		a.Log.Warn().Err(err).Msg("count history")
	} else if total > len(entries) {
		fmt.Fprintf(a.Stdout, "Showing %d of %d runs. Use -n to see more.\n", len(entries), total)
	}
	return ExitOK
}
