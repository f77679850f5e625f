// =============================================================================
// PO Decoder - Main Entry Point
// =============================================================================
//
// This is the main entry point for the PO Decoder CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   podecoder decode         - Decode all files in the input directory
//   podecoder inspect <file> - Print one decoded order to stdout
//   podecoder version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Decoders, canonical model, configuration
//   - pkg/           : Shared file and text utilities
//   - configs/       : Per-partner YAML/TOML configurations
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/po-decoder/cmd"
)

func main() {
	cmd.Execute()
}
