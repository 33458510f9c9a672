package translator

import (
	"errors"
	"fmt"
	"io"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

// Guidance holds the user-facing explanation for a failed phrase
type Guidance struct {
	Title   string
	Reason  string
	Hint    string
	Example string
}

// GuidanceFor builds the explanation for err based on the stage it failed in
func GuidanceFor(err error) Guidance {
	g := Guidance{Reason: rootMessage(err)}

	switch StageOf(err) {
	case StageParse:
		g.Title = "Parse Error"
		g.Hint = "Make sure your command follows the format 'convert <input> to <output>' or similar."
		g.Example = "'convert video.mp4 to video.avi'"
	case StageRender:
		g.Title = "Command Build Error"
		g.Hint = "Check that your input and output paths are valid and formats are supported."
	case StageOutput:
		g.Title = "Command Build Error"
		g.Hint = "Check that your output directory is valid and writable."
	case StageExecute:
		g.Title = "Execution Error"
		if mdwerror.HasCode(err, mdwerror.CodeTimeout) {
			g.Hint = "The command did not finish in time. Raise runner.timeout or run it without a limit."
		} else {
			g.Hint = "Make sure ffmpeg is installed and accessible in your PATH."
		}
	default:
		g.Title = "Error"
	}
	return g
}

// Report writes the guidance for err to w
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	g := GuidanceFor(err)
	fmt.Fprintf(w, "%s: %s\n", g.Title, g.Reason)
	if g.Hint != "" {
		fmt.Fprintf(w, "Guidance: %s\n", g.Hint)
	}
	if g.Example != "" {
		fmt.Fprintf(w, "Example: %s\n", g.Example)
	}
}

// rootMessage strips structured wrappers and returns the message of the
// first plain error, or of the innermost structured one
func rootMessage(err error) string {
	for {
		var e *mdwerror.Error
		if !errors.As(err, &e) {
			return err.Error()
		}
		cause := e.Unwrap()
		if cause == nil {
			return e.Message()
		}
		err = cause
	}
}
