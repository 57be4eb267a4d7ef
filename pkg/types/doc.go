// Package types defines the store abstraction shared by every registry
// backend and by the exporter.
//
// A Store hands out Key handles for the predefined root keys; a Key exposes
// its values as typed Payloads and its children by name. Backends live in
// internal/winreg (the live Windows registry) and internal/regtext (.reg
// files parsed into memory).
//
// Errors carry a stable ErrKind so callers can branch on intent:
//
//	if errors.Is(err, types.ErrNotFound) { ... }
//
// This package has no dependencies beyond the standard library.
package types
