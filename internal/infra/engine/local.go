// Package engine implements the generation backends: Local, which talks to
// the on-device model runtime over its loopback HTTP API, and Stub, a
// deterministic stand-in. Await wraps a single generate call with timeout and
// cancellation handling.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tutu-network/fmodcli/internal/domain"
	"github.com/tutu-network/fmodcli/internal/health"
)

// DefaultEndpoint is the loopback address of the on-device runtime.
const DefaultEndpoint = "http://127.0.0.1:11434"

// probeTimeout bounds each version and tags request. Generation itself is
// bounded by Await.
const probeTimeout = 5 * time.Second

// LocalOptions configures a Local backend.
type LocalOptions struct {
	Endpoint string
	Model    string // preferred model; empty selects the first installed model
	Enabled  bool
	Client   *http.Client
	Logger   zerolog.Logger
}

// Local is the real backend. It reaches the on-device runtime through the
// Ollama-compatible endpoints /api/version, /api/tags and /api/generate.
type Local struct {
	endpoint string
	model    string
	enabled  bool
	client   *http.Client
	log      zerolog.Logger
	checker  *health.Checker

	installed []string             // filled by the models check
	last      *domain.Availability // result of the latest CheckAvailability
}

// NewLocal creates a Local backend. No network traffic happens until the
// first call.
func NewLocal(opts LocalOptions) *Local {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	l := &Local{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		model:    opts.Model,
		enabled:  opts.Enabled,
		client:   opts.Client,
		log:      opts.Logger,
	}
	l.checker = health.NewChecker(
		health.Check{Name: "enabled", CheckFn: l.checkEnabled},
		health.Check{Name: "runtime", CheckFn: l.checkRuntime},
		health.Check{Name: "models", CheckFn: l.checkModels},
	)
	return l
}

// ─── Availability ───────────────────────────────────────────────────────────

func (l *Local) CheckAvailability(ctx context.Context) domain.Availability {
	statuses, failed := l.checker.First(ctx)
	avail := domain.AvailableNow()
	if failed != nil {
		avail = domain.UnavailableBecause(failed.Error)
	}
	l.last = &avail

	l.log.Debug().
		Int("checks", len(statuses)).
		Bool("available", avail.Available).
		Str("reason", avail.Reason).
		Msg("availability checked")
	return avail
}

func (l *Local) checkEnabled(context.Context) error {
	if !l.enabled {
		return errors.New("on-device generation is disabled (backend.enabled = false)")
	}
	return nil
}

func (l *Local) checkRuntime(ctx context.Context) error {
	var v struct {
		Version string `json:"version"`
	}
	if err := l.getJSON(ctx, "/api/version", &v); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("on-device runtime not reachable at %s", l.endpoint)
	}
	l.log.Debug().Str("version", v.Version).Msg("runtime reachable")
	return nil
}

func (l *Local) checkModels(ctx context.Context) error {
	names, err := l.tags(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("cannot list models: %v", err)
	}
	if len(names) == 0 {
		return errors.New("no models are installed on the on-device runtime")
	}
	if l.model != "" && !slices.Contains(names, l.model) && !slices.Contains(names, l.model+":latest") {
		return fmt.Errorf("model %q is not installed", l.model)
	}
	l.installed = names
	return nil
}

// ─── Models ─────────────────────────────────────────────────────────────────

// ListModels queries the runtime on every call. The configured model is
// listed as unavailable when it is not installed.
func (l *Local) ListModels(ctx context.Context) []domain.ModelDescriptor {
	models := []domain.ModelDescriptor{}
	if !l.enabled {
		return models
	}
	names, err := l.tags(ctx)
	if err != nil {
		l.log.Debug().Err(err).Msg("list models failed")
		return models
	}

	for _, name := range names {
		models = append(models, domain.ModelDescriptor{
			Identifier:  name,
			DisplayName: strings.TrimSuffix(name, ":latest"),
			IsAvailable: true,
		})
	}
	if l.model != "" && !slices.Contains(names, l.model) && !slices.Contains(names, l.model+":latest") {
		models = append(models, domain.ModelDescriptor{
			Identifier:  l.model,
			DisplayName: l.model,
		})
	}
	return models
}

func (l *Local) tags(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := l.getJSON(ctx, "/api/tags", &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// ─── Generation ─────────────────────────────────────────────────────────────

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Generate sends one non-streaming request. Availability is checked first
// when CheckAvailability has not run yet.
func (l *Local) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	avail := l.last
	if avail == nil {
		a := l.CheckAvailability(ctx)
		avail = &a
	}
	if !avail.Available {
		return domain.Unavailable{Reason: avail.Reason}
	}

	model := l.resolveModel(req.Model)
	body, err := json.Marshal(generateRequest{Model: model, Prompt: req.Prompt})
	if err != nil {
		return domain.Failure{Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return domain.Failure{Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	start := time.Now()
	resp, err := l.client.Do(httpReq)
	if err != nil {
		return domain.Failure{Message: fmt.Sprintf("runtime request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Failure{Message: fmt.Sprintf("read runtime response: %v", err)}
	}

	var out generateResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != "" {
			msg = out.Error
		}
		return domain.Failure{Message: fmt.Sprintf("runtime error %d: %s", resp.StatusCode, msg)}
	}
	if decodeErr != nil {
		return domain.Failure{Message: fmt.Sprintf("could not parse runtime response: %v", decodeErr)}
	}
	if out.Error != "" {
		return domain.Failure{Message: out.Error}
	}

	l.log.Debug().
		Str("request_id", req.ID).
		Str("model", model).
		Dur("took", time.Since(start)).
		Msg("generation complete")
	return domain.Success{Text: out.Response}
}

func (l *Local) resolveModel(requested string) string {
	switch {
	case requested != "":
		return requested
	case l.model != "":
		return l.model
	case len(l.installed) > 0:
		return l.installed[0]
	}
	return ""
}

func (l *Local) getJSON(ctx context.Context, path string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint+path, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
