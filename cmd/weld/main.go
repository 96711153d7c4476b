// Package main is the single-binary entrypoint for weld.
// weld supervises the external tools (media transcoder, script runner)
// that the recording pipeline depends on.
package main

import "github.com/weld-media/weld/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
