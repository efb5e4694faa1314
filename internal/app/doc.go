// Package app wires the command-line front end to the include resolver. It
// builds the logger, registers the format adapters, selects the adapter for
// the requested file, and runs the load, report and dump cycle, optionally
// re-running it when watched files change.
package app
