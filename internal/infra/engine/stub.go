package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tutu-network/fmodcli/internal/domain"
)

// ─── Stub Backend (deterministic, no runtime required) ──────────────────────

// Stub implements domain.GenerationBackend without any platform resources.
// Fields may be set before first use; the stub is safe for concurrent calls.
type Stub struct {
	// Availability is returned by CheckAvailability and gates Generate.
	Availability domain.Availability
	// Models is returned by ListModels.
	Models []domain.ModelDescriptor
	// Respond produces the result for a request. Nil echoes the prompt.
	Respond func(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
	// Delay simulates inference latency. Cancellation during the delay
	// resolves to Failure.
	Delay time.Duration

	mu    sync.Mutex
	calls StubCalls
}

// StubCalls counts invocations per operation.
type StubCalls struct {
	CheckAvailability int
	ListModels        int
	Generate          int
}

// NewStub returns an available stub with one model that echoes prompts.
func NewStub() *Stub {
	return &Stub{
		Availability: domain.AvailableNow(),
		Models: []domain.ModelDescriptor{
			{Identifier: "stub", DisplayName: "Stub Model", IsAvailable: true},
		},
	}
}

// StubReturning returns an available stub whose Generate always yields r.
func StubReturning(r domain.GenerationResult) *Stub {
	s := NewStub()
	s.Respond = func(context.Context, domain.GenerationRequest) domain.GenerationResult { return r }
	return s
}

// StubUnavailable returns a stub that reports reason and lists no models.
func StubUnavailable(reason string) *Stub {
	return &Stub{Availability: domain.UnavailableBecause(reason)}
}

func (s *Stub) CheckAvailability(ctx context.Context) domain.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.CheckAvailability++
	return s.Availability
}

func (s *Stub) ListModels(ctx context.Context) []domain.ModelDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.ListModels++
	return append([]domain.ModelDescriptor(nil), s.Models...)
}

func (s *Stub) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	s.mu.Lock()
	s.calls.Generate++
	avail := s.Availability
	respond := s.Respond
	delay := s.Delay
	s.mu.Unlock()

	if !avail.Available {
		return domain.Unavailable{Reason: avail.Reason}
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Failure{Message: ctx.Err().Error()}
		case <-timer.C:
		}
	}

	if respond != nil {
		return respond(ctx, req)
	}
	return domain.Success{Text: fmt.Sprintf("Hello! I received your prompt: %s", req.Prompt)}
}

// Calls returns a snapshot of the invocation counters.
func (s *Stub) Calls() StubCalls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
