// Package detectors wires the built-in binary format detectors.
// Each detector knows how to recognise one format from its leading bytes.
//
// Detectors are registered with the FormatRegistry at startup, in the
// order classification should try them.
package detectors
