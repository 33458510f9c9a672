// File: doc.go
// Title: Phrase Package Documentation
// Description: Entry point for translating media phrases into commands.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

/*
Package phrase translates plain-English media phrases into ffmpeg command
lines.

	engine := phrase.NewEngine()
	tr, err := engine.Translate("convert video.mp4 to .avi")
	// tr.Command == `ffmpeg -i "video.mp4" "video.avi"`

Sub-packages:
  - parser: lexer and recursive descent parser
  - intent: the parsed operation model
  - render: command line rendering
*/
package phrase
