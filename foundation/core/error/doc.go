// Package error provides structured error handling for ff.
//
// Package: error
// Title: Structured Errors
// Description: Errors with codes, severities, operation names and detail maps.
//              Codes classify failures (parse, render, execution, storage,
//              configuration) so the CLI can choose guidance and the logger
//              can choose a level.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Phrase and execution codes
//
// Usage:
//
//	import mdwerror "github.com/msto63/ff/foundation/core/error"
//
//	err := mdwerror.New("ffmpeg exited with status 1").
//		WithCode(mdwerror.CodeCommandFailed).
//		WithOperation("runner.Run").
//		WithDetail("exit_code", 1)
//
//	if mdwerror.HasCode(err, mdwerror.CodeCommandFailed) {
//		// show execution guidance
//	}
package error
