// Package domain defines the core entities for sniff.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Format: A recognised binary format and its display extension
//   - Signature: The magic bytes that identify a format
//   - Outcome: The result of probing one file against one signature
//   - Classification: The result of running every detector over a file
//   - Settings: User-tunable behaviour loaded from the config store
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
