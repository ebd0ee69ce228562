// Package app contains the core application logic. It wires configuration,
// the event graph, the render targets and the worker pool into one run,
// decoupled from the CLI entrypoint.
package app
