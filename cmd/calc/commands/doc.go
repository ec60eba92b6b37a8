// Package commands defines the calc CLI and wires dependencies for subcommands.
//
// Commands
//
//   - eval      Evaluate an expression and record it in history
//   - history   List, select, remove or clear history entries
//   - plot      Sample an expression over [-10, 9.8] and draw it
//   - theme     Show, set or toggle the light/dark preference
//   - tui       Start the interactive calculator (the default)
//
// # Implementation
//
// The root command loads config.yaml from the home directory, builds the zap
// logger and the dependency graph (store, engine, services) before any
// subcommand runs. Subcommands other than tui preload history and theme so
// that writes extend the persisted state instead of replacing it.
package commands
