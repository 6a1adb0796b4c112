package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the command layer depends on them.

// GenerationBackend is the sole gateway to the text-generation capability.
// Implementations never return errors across this boundary: every failure is
// a GenerationResult variant.
type GenerationBackend interface {
	// CheckAvailability reports whether generation can currently run.
	CheckAvailability(ctx context.Context) Availability

	// ListModels returns descriptors, recomputed on every call.
	// An empty slice is permitted when the backend is unavailable.
	ListModels(ctx context.Context) []ModelDescriptor

	// Generate resolves one request into exactly one result. On an
	// unavailable backend it returns Unavailable without attempting the call.
	Generate(ctx context.Context, req GenerationRequest) GenerationResult
}

// HistoryStore persists run invocations. Implemented by infra/sqlite.DB.
type HistoryStore interface {
	RecordRun(entry HistoryEntry) error
	RecentRuns(limit int) ([]HistoryEntry, error)
	CountRuns() (int, error)
}
