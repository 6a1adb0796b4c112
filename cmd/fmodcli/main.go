// Package main is the fmodcli entrypoint.
// fmodcli sends prompts to the on-device generative model from the shell.
package main

import "github.com/tutu-network/fmodcli/internal/cli"

// version is set at build time via -ldflags.
var version = "1.0.0"

func main() {
	cli.Execute(version)
}
