// Package cli constructs the forksweep command-line interface. It wires the
// Cobra command hierarchy to the layered configuration loader and the zap
// logger, and registers the bulk repository commands.
package cli
