// File: doc.go
// Title: Phrase Parser Package Documentation
// Description: Lexer and recursive descent parser for media phrases.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

/*
Package parser turns phrases such as "convert video.mp4 to .avi" into an
intent.Intent.

Lexing classifies each token by its first character:

	.      Format  ".avi" (lowercased)
	/      Path    "/home/me/clip.mp4" (case kept)
	0-9    Number  "1920", "1.5"
	other  Word    "convert" (lowercased), or Path when it contains '.' or '/'

Parsing accepts exactly

	<operation> <input path> to <output path | .format>

where operation is one of convert, resize, transcode, extract or
extractaudio. A format output keeps the input's directory and stem.

	in, err := parser.ParseString("convert dir/video.mp4 to .mov", parser.Options{})
	// in.OutputPath == "dir/video.mov"

	if errors.Is(err, parser.ErrUnsupportedFormat) { ... }
*/
package parser
