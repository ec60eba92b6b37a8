// Package app wires application dependencies for the CLI and the TUI.
//
// It loads Config, picks the key-value store named there and builds the
// engine and services on top of it, exposing them via the Wire struct for
// commands to use.
package app
