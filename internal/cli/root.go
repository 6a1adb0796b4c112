// Package cli implements the fmodcli command-line interface: it wires config,
// logging and the generation backend, dispatches one invocation, and maps the
// outcome to a process exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tutu-network/fmodcli/internal/command"
	"github.com/tutu-network/fmodcli/internal/config"
	"github.com/tutu-network/fmodcli/internal/infra/engine"
	"github.com/tutu-network/fmodcli/internal/infra/metrics"
	"github.com/tutu-network/fmodcli/internal/infra/sqlite"
	"github.com/tutu-network/fmodcli/internal/logging"
	"github.com/tutu-network/fmodcli/internal/output"
)

// Execute runs the CLI and exits. Called from main.go.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Main(ctx, os.Args[1:], os.Stdout, os.Stderr, version)
	stop()
	os.Exit(code)
}

// Main loads configuration, builds the App and runs one invocation.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer, version string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "%s%v\n", output.ErrorMarker, err)
		return ExitConfig
	}
	log := logging.New(stderr, cfg.Logging.Level)

	set, err := command.Default()
	if err != nil {
		log.Error().Err(err).Msg("invalid command set")
		fmt.Fprintf(stderr, "%s%v\n", output.ErrorMarker, err)
		return ExitConfig
	}

	backend, err := engine.New(cfg.Backend, log)
	if err != nil {
		fmt.Fprintf(stderr, "%s%v\n", output.ErrorMarker, err)
		return ExitConfig
	}

	app := &App{
		Set:         set,
		Backend:     backend,
		Version:     version,
		Model:       cfg.Backend.Model,
		Timeout:     cfg.Backend.Timeout.Duration,
		Stdout:      stdout,
		Stderr:      stderr,
		Log:         log,
		HistoryHint: fmt.Sprintf("Set history.enabled = true in %s to record runs.", filepath.Join(config.Home(), "config.toml")),
		Metrics:     metrics.New(),
	}

	if cfg.History.Enabled {
		db, err := sqlite.Open(cfg.History.Dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.History.Dir).Msg("history journal unavailable")
		} else {
			defer db.Close()
			app.History = db
		}
	}

	code := app.Run(ctx, args)

	if err := app.Metrics.WriteTextfile(cfg.Telemetry.Textfile); err != nil {
		log.Warn().Err(err).Str("path", cfg.Telemetry.Textfile).Msg("write metrics textfile")
	}
	return code
}
