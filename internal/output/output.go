// Package output renders generation results, model listings and errors as
// text or JSON. Rendering is deterministic: the same input and format always
// produce the same bytes, and inputs are never modified.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tutu-network/fmodcli/internal/domain"
)

// Stream selects the process stream a rendering belongs on.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// Rendered is formatted output bound for one stream.
type Rendered struct {
	Text   string
	Stream Stream
}

// WriteTo writes r to stdout or stderr.
func (r Rendered) WriteTo(stdout, stderr io.Writer) error {
	w := stdout
	if r.Stream == Stderr {
		w = stderr
	}
	_, err := io.WriteString(w, r.Text)
	return err
}

// ErrorMarker prefixes human-readable error lines.
const ErrorMarker = "Error: "

// Result renders a GenerationResult. Success goes to stdout; Unavailable and
// Failure go to stderr.
func Result(format domain.OutputFormat, r domain.GenerationResult) Rendered {
	if s, ok := r.(domain.Success); ok {
		if format == domain.FormatJSON {
			return Rendered{Text: object("result", s.Text)}
		}
		return Rendered{Text: s.Text + "\n"}
	}
	return Error(format, domain.ResultMessage(r))
}

// Error renders a failure message on stderr.
func Error(format domain.OutputFormat, msg string) Rendered {
	if format == domain.FormatJSON {
		return Rendered{Text: object("error", msg), Stream: Stderr}
	}
	return Rendered{Text: ErrorMarker + msg + "\n", Stream: Stderr}
}

// object renders a single-key JSON object in the form {"key": "value"}.
func object(key, value string) string {
	return "{" + quote(key) + ": " + quote(value) + "}\n"
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	return strings.TrimSuffix(buf.String(), "\n")
}

func array[T any](items []T) string {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return "[]\n"
	}
	return buf.String()
}

// ─── Models ─────────────────────────────────────────────────────────────────

// NoModels is printed in text mode when a listing is empty.
const NoModels = "No models available."

// Models renders a descriptor listing on stdout.
func Models(format domain.OutputFormat, models []domain.ModelDescriptor) Rendered {
	if format == domain.FormatJSON {
		return Rendered{Text: array(models)}
	}
	if len(models) == 0 {
		return Rendered{Text: NoModels + "\n"}
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDENTIFIER\tNAME\tAVAILABLE")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Identifier, m.DisplayName, yesNo(m.IsAvailable))
	}
	w.Flush()
	return Rendered{Text: buf.String()}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ─── History ────────────────────────────────────────────────────────────────

// NoHistory is printed in text mode when the journal is empty.
const NoHistory = "No generations recorded yet."

const promptWidth = 40

// History renders journal entries on stdout, newest first as given.
func History(format domain.OutputFormat, entries []domain.HistoryEntry) Rendered {
	if format == domain.FormatJSON {
		return Rendered{Text: array(entries)}
	}
	if len(entries) == 0 {
		return Rendered{Text: NoHistory + "\n"}
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tOUTCOME\tDURATION\tPROMPT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Outcome,
			e.Duration.Round(time.Millisecond),
			truncate(e.Prompt, promptWidth),
		)
	}
	w.Flush()
	return Rendered{Text: buf.String()}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to n runes on a single line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
