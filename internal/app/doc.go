// Package app contains the core application logic. It wires the pipeline
// modules, the run configuration and the dataflow driver together, and owns
// the process lifecycle (logger, health check server) independently of any
// entrypoint like a CLI.
package app
