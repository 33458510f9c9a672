// Package stringx provides string helpers shared across ff.
//
// Package: stringx
// Title: String Utilities
// Description: Blank checks, defaults, truncation and the quote-aware
//              splitter used to turn rendered commands into argv.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.3.0: Reduced to helpers used by ff
package stringx
