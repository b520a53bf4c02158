// =============================================================================
// CSV to OFX/QIF Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CSV to OFX/QIF Converter CLI
// application. It initializes the Cobra CLI framework and delegates command
// execution to the cmd package.
//
// USAGE:
//   csv2ofx convert -i file.csv   - Convert a single CSV file
//   csv2ofx convert               - Convert all files in the input directory
//   csv2ofx mappings              - List available institution mappings
//   csv2ofx version               - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - mappings/      : Contains institution-specific YAML mapping files
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv2ofx/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
