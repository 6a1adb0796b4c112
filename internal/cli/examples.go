package cli

import "fmt"

// examples is the static usage shown by `fmodcli examples` and in root help.
const examples = `  # Generate text
  fmodcli run "What is the capital of France?"

  # Machine-readable output
  fmodcli run --output json "Summarize the plot of Hamlet in two sentences"
  fmodcli run -o json "Write a haiku about autumn" | jq -r .result

  # Prompts that start with a dash
  fmodcli run -- "-5 degrees: is that cold?"

  # Inspect the on-device runtime
  fmodcli models
  fmodcli models --output json

  # Recent generations (requires history.enabled = true)
  fmodcli history -n 5`

func (a *App) runExamples() int {
	fmt.Fprintf(a.Stdout, "Examples:\n%s\n", examples)
	return ExitOK
}
