// File: parser_test.go
// Title: Phrase Parser Tests
// Description: Grammar, extension gating, format substitution and error
//              classification tests.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	mdwlog "github.com/msto63/ff/foundation/core/log"
	"github.com/msto63/ff/foundation/phrase/intent"
)

var quiet = Options{Logger: mdwlog.Discard()}

var supportedExts = []string{"mp4", "avi", "mov", "wmv", "mkv", "webm", "mp3", "wav", "flac", "jpg", "png", "gif"}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, in *intent.Intent)
	}{
		{
			name:  "explicit output path",
			input: "convert video.mp4 to video.avi",
			check: func(t *testing.T, in *intent.Intent) {
				want := intent.New(intent.Convert, "video.mp4", "video.avi")
				if !reflect.DeepEqual(in, want) {
					t.Errorf("Parse() = %+v, want %+v", in, want)
				}
			},
		},
		{
			name:  "format substitution",
			input: "convert video.mp4 to .avi",
			check: func(t *testing.T, in *intent.Intent) {
				if in.OutputPath != "video.avi" {
					t.Errorf("OutputPath = %q, want video.avi", in.OutputPath)
				}
			},
		},
		{
			name:  "format substitution keeps directory",
			input: "convert dir/video.mp4 to .mov",
			check: func(t *testing.T, in *intent.Intent) {
				if in.InputPath != "dir/video.mp4" || in.OutputPath != "dir/video.mov" {
					t.Errorf("paths = %q -> %q, want dir/video.mp4 -> dir/video.mov", in.InputPath, in.OutputPath)
				}
			},
		},
		{
			name:  "format substitution on absolute path",
			input: "transcode /media/in/Clip.MKV to .WEBM",
			check: func(t *testing.T, in *intent.Intent) {
				if in.Operation != intent.Transcode || in.OutputPath != "/media/in/Clip.webm" {
					t.Errorf("Parse() = %+v", in)
				}
			},
		},
		{
			name:  "output without extension skips validation",
			input: "convert /abs/clip.mkv to /tmp/out",
			check: func(t *testing.T, in *intent.Intent) {
				if in.OutputPath != "/tmp/out" {
					t.Errorf("OutputPath = %q, want /tmp/out", in.OutputPath)
				}
			},
		},
		{
			name:  "trailing tokens are ignored",
			input: "resize video.mp4 to small.mp4 please 640",
			check: func(t *testing.T, in *intent.Intent) {
				if in.Operation != intent.Resize || in.OutputPath != "small.mp4" {
					t.Errorf("Parse() = %+v", in)
				}
			},
		},
		{
			name:  "extract audio",
			input: "extract talk.mp4 to talk.mp3",
			check: func(t *testing.T, in *intent.Intent) {
				if in.Operation != intent.ExtractAudio {
					t.Errorf("Operation = %v, want extract_audio", in.Operation)
				}
			},
		},
		{
			name:  "uppercase keywords",
			input: "CONVERT Video.MP4 TO .AVI",
			check: func(t *testing.T, in *intent.Intent) {
				if in.Operation != intent.Convert || in.OutputPath != "Video.avi" {
					t.Errorf("Parse() = %+v", in)
				}
			},
		},
		{
			name:  "parameters start empty",
			input: "resize a.mp4 to b.mp4",
			check: func(t *testing.T, in *intent.Intent) {
				if in.Parameters == nil || len(in.Parameters) != 0 {
					t.Errorf("Parameters = %v, want empty non-nil map", in.Parameters)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseString(tt.input, quiet)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			tt.check(t, in)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantKind   ErrorKind
		wantErr    error
		wantDetail string
	}{
		{"empty input", "", KindMissingToken, ErrMissingToken, "operation keyword"},
		{"missing to clause", "resize video.mp4", KindMissingToken, ErrMissingToken, "'to'"},
		{"missing input", "convert", KindMissingToken, ErrMissingToken, "input path"},
		{"missing output", "convert video.mp4 to", KindMissingToken, ErrMissingToken, "output path or format"},
		{"unknown operation", "foo video.mp4 to video.avi", KindUnexpectedToken, ErrUnexpectedToken, "unknown operation: foo"},
		{"operation is a path", "video.mp4 to video.avi", KindUnexpectedToken, ErrUnexpectedToken, "expected operation, got Path(video.mp4)"},
		{"input is a number", "convert 42 to x.mp4", KindUnexpectedToken, ErrUnexpectedToken, "expected path, got Number(42)"},
		{"input is a format", "convert .mp4 to x.avi", KindUnexpectedToken, ErrUnexpectedToken, "expected path, got Format(.mp4)"},
		{"wrong keyword", "convert video.mp4 into video.avi", KindUnexpectedToken, ErrUnexpectedToken, "expected 'to', got Word(into)"},
		{"keyword missing", "convert video.mp4 video.avi", KindUnexpectedToken, ErrUnexpectedToken, "expected 'to', got Path(video.avi)"},
		{"output is a word", "convert video.mp4 to avi", KindUnexpectedToken, ErrUnexpectedToken, "expected output path or format, got Word(avi)"},
		{"unsupported output", "convert video.mp4 to video.txt", KindUnsupportedFormat, ErrUnsupportedFormat, "video.txt"},
		{"unsupported input", "convert notes.txt to notes.mp4", KindUnsupportedFormat, ErrUnsupportedFormat, "notes.txt"},
		{"input without extension", "convert /tmp/clip to x.mp4", KindUnsupportedFormat, ErrUnsupportedFormat, "/tmp/clip"},
		{"input checked before to", "convert notes.txt", KindUnsupportedFormat, ErrUnsupportedFormat, "notes.txt"},
		{"bare dot format", "convert video.mp4 to .", KindUnsupportedFormat, ErrUnsupportedFormat, "video."},
		{"unsupported format token", "convert video.mp4 to .doc", KindUnsupportedFormat, ErrUnsupportedFormat, "video.doc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseString(tt.input, quiet)
			if err == nil {
				t.Fatalf("Parse(%q) = %+v, want error", tt.input, in)
			}
			pe, ok := AsParseError(err)
			if !ok {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if pe.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", pe.Kind, tt.wantKind)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantErr)
			}
			if pe.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", pe.Detail, tt.wantDetail)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseString("convert video.mp4 to video.txt", quiet)
	if err == nil || err.Error() != "unsupported format: video.txt" {
		t.Errorf("Error() = %v", err)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseString("convert video.mp4 into video.avi", quiet)
	pe, _ := AsParseError(err)
	if pe.Index != 2 || pe.Pos != 18 {
		t.Errorf("Index, Pos = %d, %d, want 2, 18", pe.Index, pe.Pos)
	}

	_, err = ParseString("resize video.mp4", quiet)
	pe, _ = AsParseError(err)
	if pe.Index != 2 || pe.Pos != -1 {
		t.Errorf("Index, Pos = %d, %d, want 2, -1", pe.Index, pe.Pos)
	}
}

func TestParseHandBuiltTokens(t *testing.T) {
	t.Run("path-like words", func(t *testing.T) {
		tokens := []Token{Word("convert"), Word("clip.mp4"), Word("to"), Word("clip.avi")}
		in, err := New(tokens, quiet).Parse()
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if in.InputPath != "clip.mp4" || in.OutputPath != "clip.avi" {
			t.Errorf("Parse() = %+v", in)
		}
	})

	t.Run("input without stem", func(t *testing.T) {
		tokens := []Token{Word("convert"), Path("dir/.."), Word("to"), Format(".mp4")}
		opts := quiet
		opts.Supported = func(string) bool { return true }
		_, err := New(tokens, opts).Parse()
		if !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Parse() error = %v, want invalid path", err)
		}
		pe, _ := AsParseError(err)
		if pe.Detail != "dir/.." || pe.Index != 1 {
			t.Errorf("ParseError = %+v", pe)
		}
	})

	t.Run("empty sequence", func(t *testing.T) {
		_, err := New(nil, quiet).Parse()
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("Parse() error = %v, want missing token", err)
		}
	})

	t.Run("unknown token as operation", func(t *testing.T) {
		_, err := New([]Token{Unknown(",")}, quiet).Parse()
		if !errors.Is(err, ErrUnexpectedToken) {
			t.Errorf("Parse() error = %v, want unexpected token", err)
		}
	})
}

func TestStrictModeSurfacesSkippedCharacters(t *testing.T) {
	if _, err := ParseString("convert, video.mp4 to video.avi", quiet); err != nil {
		t.Fatalf("lenient Parse() error = %v", err)
	}

	_, err := ParseString("convert, video.mp4 to video.avi", quiet, WithStrict())
	if !errors.Is(err, ErrUnexpectedToken) {
		t.Errorf("strict Parse() error = %v, want unexpected token", err)
	}
}

func TestKeywordsAnyCase(t *testing.T) {
	want := map[string]intent.Operation{
		"convert":      intent.Convert,
		"resize":       intent.Resize,
		"transcode":    intent.Transcode,
		"extract":      intent.ExtractAudio,
		"extractaudio": intent.ExtractAudio,
	}

	for keyword, op := range want {
		for _, variant := range []string{keyword, strings.ToUpper(keyword), strings.ToUpper(keyword[:1]) + keyword[1:]} {
			in, err := ParseString(variant+" a.mp4 to b.mkv", quiet)
			if err != nil {
				t.Errorf("Parse(%q) error = %v", variant, err)
				continue
			}
			if in.Operation != op {
				t.Errorf("Parse(%q) operation = %v, want %v", variant, in.Operation, op)
			}
		}
	}
}

func TestExtensionGating(t *testing.T) {
	for _, ext := range supportedExts {
		phrase := "convert x." + ext + " to y." + ext
		if _, err := ParseString(phrase, quiet); err != nil {
			t.Errorf("Parse(%q) error = %v", phrase, err)
		}
	}

	for _, ext := range []string{"txt", "doc", "mpeg", "ogg", "tiff", "mp5"} {
		phrase := "convert x.mp4 to y." + ext
		if _, err := ParseString(phrase, quiet); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Parse(%q) error = %v, want unsupported format", phrase, err)
		}
		phrase = "convert x." + ext + " to y.mp4"
		if _, err := ParseString(phrase, quiet); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Parse(%q) error = %v, want unsupported format", phrase, err)
		}
	}
}

func TestFormatSubstitutionRoundTrip(t *testing.T) {
	for _, from := range supportedExts {
		for _, to := range supportedExts {
			for _, dir := range []string{"", "media/", "/abs/media/"} {
				phrase := "convert " + dir + "name." + from + " to ." + to
				in, err := ParseString(phrase, quiet)
				if err != nil {
					t.Fatalf("Parse(%q) error = %v", phrase, err)
				}
				if want := dir + "name." + to; in.OutputPath != want {
					t.Errorf("Parse(%q) output = %q, want %q", phrase, in.OutputPath, want)
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	inputs := []string{
		"convert video.mp4 to video.avi",
		"convert dir/video.mp4 to .mov",
		"convert video.mp4 to video.txt",
		"foo video.mp4 to video.avi",
		"resize video.mp4",
		"résumé, 2024.mp4 ~ /x/y.z.",
		"",
	}

	for _, input := range inputs {
		first := Tokenize(input)
		second := Tokenize(input)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Tokenize(%q) not deterministic: %v vs %v", input, first, second)
		}

		in1, err1 := New(first, quiet).Parse()
		in2, err2 := New(second, quiet).Parse()
		if !reflect.DeepEqual(in1, in2) || !reflect.DeepEqual(err1, err2) {
			t.Errorf("Parse(%q) not deterministic: (%v, %v) vs (%v, %v)", input, in1, err1, in2, err2)
		}
	}
}

func TestConcurrentParsing(t *testing.T) {
	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			_, err := ParseString("transcode clip.mov to .mkv", quiet)
			done <- err
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Parse() error = %v", err)
		}
	}
}
