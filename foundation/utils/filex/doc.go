// Package filex provides path and file helpers.
//
// Package: filex
// Title: Path and File Utilities
// Description: Helpers for working with media file names. Paths are treated
//              as slash-separated strings so that names typed in a phrase
//              behave the same on every platform.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Reduced to media path helpers
//
// Usage:
//
//	filex.Ext("clips/video.MP4")              // "MP4"
//	filex.Stem("clips/video.mp4")             // "video"
//	filex.ReplaceExt("clips/video.mp4", "mov") // "clips/video.mov", true
//	filex.Relocate("out", "clips/video.mov")  // "out/video.mov", true
package filex
