// Package textutil provides text processing utilities for project naming and
// diagnostics.
//
// The primary use cases are:
//   - Folding event titles into filesystem-safe directory tokens
//   - Truncating provider diagnostics to a bounded excerpt
//
// Title folding decomposes accented characters and strips combining marks so
// directory names stay ASCII-safe regardless of the source language.
package textutil
