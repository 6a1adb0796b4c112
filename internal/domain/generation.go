// Package domain holds the pure types shared by every layer of fmodcli:
// generation requests and results, model descriptors, and the sentinel
// errors that flow between them. It has no infrastructure dependency.
package domain

import (
	"fmt"
	"time"
)

// ─── Output Format ──────────────────────────────────────────────────────────

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat maps a user-supplied value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ─── Requests & Results ─────────────────────────────────────────────────────

// GenerationRequest is a single prompt sent to a backend. Passed by value.
type GenerationRequest struct {
	ID     string       `json:"id"`
	Prompt string       `json:"prompt"`
	Model  string       `json:"model,omitempty"`
	Format OutputFormat `json:"format"`
}

// GenerationResult is the one resolution of a generate call.
// It is one of Success, Unavailable or Failure.
type GenerationResult interface {
	// Outcome is a short stable label, used for metrics and the history journal.
	Outcome() Outcome
	isGenerationResult()
}

// Outcome labels a GenerationResult variant.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeFailure     Outcome = "failure"
)

// Success carries generated text.
type Success struct {
	Text string
}

// Unavailable means the backend could not serve the request at all.
type Unavailable struct {
	Reason string
}

// Failure is a backend-internal error during inference, including timeouts.
type Failure struct {
	Message string
}

func (Success) Outcome() Outcome     { return OutcomeSuccess }
func (Unavailable) Outcome() Outcome { return OutcomeUnavailable }
func (Failure) Outcome() Outcome     { return OutcomeFailure }

func (Success) isGenerationResult()     {}
func (Unavailable) isGenerationResult() {}
func (Failure) isGenerationResult()     {}

// ResultMessage returns the user-facing text of any result variant.
func ResultMessage(r GenerationResult) string {
	switch v := r.(type) {
	case Success:
		return v.Text
	case Unavailable:
		return v.Reason
	case Failure:
		return v.Message
	}
	return ""
}

// ─── Availability ───────────────────────────────────────────────────────────

// Availability is the answer to a capability check.
type Availability struct {
	Available bool
	Reason    string // set when !Available
}

// AvailableNow is the positive Availability.
func AvailableNow() Availability { return Availability{Available: true} }

// UnavailableBecause builds a negative Availability.
func UnavailableBecause(reason string) Availability {
	return Availability{Reason: reason}
}

// ─── Models ─────────────────────────────────────────────────────────────────

// ModelDescriptor describes one generation model. Recomputed on every listing.
type ModelDescriptor struct {
	Identifier  string `json:"identifier"`
	DisplayName string `json:"displayName"`
	IsAvailable bool   `json:"isAvailable"`
}

// ─── History ────────────────────────────────────────────────────────────────

// HistoryEntry is one journaled run invocation.
type HistoryEntry struct {
	ID        string        `json:"id"`
	Prompt    string        `json:"prompt"`
	Model     string        `json:"model,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	Output    string        `json:"output"`
	CreatedAt time.Time     `json:"createdAt"`
	Duration  time.Duration `json:"durationNs"`
}
