// Package domain defines the core business entities for wikiport.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: A unit of the legacy knowledge-base export tree
//   - NodeIndex: An id lookup built over a Node tree
//   - Page: A published wiki page record
//   - MigrationRequest / MigrationResult: One migration invocation
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
