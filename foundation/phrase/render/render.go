// File: render.go
// Title: Command Renderer
// Description: Renders an Intent as an ffmpeg command line. Paths are
//              double-quoted; operation parameters fall back to configured
//              defaults. Rendering is a pure function of its inputs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package render

import (
	"strconv"
	"strings"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/foundation/phrase/intent"
	"github.com/msto63/ff/foundation/utils/stringx"
)

// Parameter names read from Intent.Parameters
const (
	ParamWidth      = "width"
	ParamHeight     = "height"
	ParamVideoCodec = "vcodec"
	ParamAudioCodec = "acodec"
)

// ParamNames lists the parameters the renderer reads
func ParamNames() []string {
	return []string{ParamWidth, ParamHeight, ParamVideoCodec, ParamAudioCodec}
}

// IsParam reports whether name is a parameter the renderer reads
func IsParam(name string) bool {
	switch name {
	case ParamWidth, ParamHeight, ParamVideoCodec, ParamAudioCodec:
		return true
	}
	return false
}

// Defaults holds the values used when an Intent does not set a parameter
type Defaults struct {
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
}

// DefaultDefaults returns 1920x1080, libx264 and aac
func DefaultDefaults() Defaults {
	return Defaults{
		Width:      1920,
		Height:     1080,
		VideoCodec: "libx264",
		AudioCodec: "aac",
	}
}

// Options configures a Builder
type Options struct {
	// Program is the executable placed at the start of every command
	Program  string
	Defaults Defaults
}

// Builder renders intents into command lines
type Builder struct {
	program  string
	defaults Defaults
}

// NewBuilder creates a Builder, filling unset options with defaults
func NewBuilder(opts Options) *Builder {
	base := DefaultDefaults()
	d := opts.Defaults
	if d.Width <= 0 {
		d.Width = base.Width
	}
	if d.Height <= 0 {
		d.Height = base.Height
	}
	if d.VideoCodec == "" {
		d.VideoCodec = base.VideoCodec
	}
	if d.AudioCodec == "" {
		d.AudioCodec = base.AudioCodec
	}

	program := opts.Program
	if stringx.IsBlank(program) {
		program = "ffmpeg"
	}
	return &Builder{program: program, defaults: d}
}

// Build renders the command for in using its own output path
func (b *Builder) Build(in *intent.Intent) (string, error) {
	return b.BuildWithOutput(in, in.OutputPath)
}

// BuildWithOutput renders the command for in, writing to output instead of
// in.OutputPath
func (b *Builder) BuildWithOutput(in *intent.Intent, output string) (string, error) {
	args, err := b.args(in, output)
	if err != nil {
		return "", err
	}
	program := b.program
	if strings.ContainsAny(program, " \t") {
		program = stringx.Quote(program)
	}
	return program + " " + strings.Join(args, " "), nil
}

func (b *Builder) args(in *intent.Intent, output string) ([]string, error) {
	input := stringx.Quote(in.InputPath)
	out := stringx.Quote(output)

	switch in.Operation {
	case intent.Convert:
		return []string{"-i", input, out}, nil

	case intent.Resize:
		width, err := b.dimension(in, ParamWidth, b.defaults.Width)
		if err != nil {
			return nil, err
		}
		height, err := b.dimension(in, ParamHeight, b.defaults.Height)
		if err != nil {
			return nil, err
		}
		return []string{"-i", input, "-vf", "scale=" + width + ":" + height, out}, nil

	case intent.Transcode:
		vcodec, err := b.codec(in, ParamVideoCodec, b.defaults.VideoCodec)
		if err != nil {
			return nil, err
		}
		acodec, err := b.codec(in, ParamAudioCodec, b.defaults.AudioCodec)
		if err != nil {
			return nil, err
		}
		return []string{"-i", input, "-c:v", vcodec, "-c:a", acodec, out}, nil

	case intent.ExtractAudio:
		return []string{"-i", input, "-q:a", "0", "-map", "a", out}, nil

	default:
		return nil, mdwerror.Newf("cannot render operation %s", in.Operation).
			WithCode(mdwerror.CodeInvalidOperation).
			WithOperation("render.Build")
	}
}

// dimension accepts a positive integer or -1/-2, which ffmpeg's scale
// filter reads as "keep aspect ratio"
func (b *Builder) dimension(in *intent.Intent, key string, def int) (string, error) {
	raw := in.Param(key, strconv.Itoa(def))
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 || n < -2 {
		return "", mdwerror.Newf("invalid %s %q", key, raw).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("render.Build").
			WithDetail("parameter", key)
	}
	return strconv.Itoa(n), nil
}

func (b *Builder) codec(in *intent.Intent, key, def string) (string, error) {
	value := in.Param(key, def)
	if strings.ContainsAny(value, " \t\r\n\"") {
		return "", mdwerror.Newf("invalid %s %q", key, value).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("render.Build").
			WithDetail("parameter", key)
	}
	return value, nil
}

// Program returns the executable commands start with
func (b *Builder) Program() string {
	return b.program
}
