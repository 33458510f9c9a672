// File: media.go
// Title: Supported Media Formats
// Description: The closed set of container and image formats ff accepts, the
//              extension predicate used by the phrase parser, and format
//              metadata for listings.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package media

import (
	"sort"
	"strings"

	"github.com/msto63/ff/foundation/utils/filex"
)

// Kind classifies a format by the media it carries
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// Format describes one supported file format
type Format struct {
	Extension   string `json:"extension" yaml:"extension"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
}

var formats = map[string]Format{
	"mp4":  {"mp4", KindVideo, "MPEG-4 Part 14"},
	"avi":  {"avi", KindVideo, "Audio Video Interleave"},
	"mov":  {"mov", KindVideo, "QuickTime movie"},
	"wmv":  {"wmv", KindVideo, "Windows Media Video"},
	"mkv":  {"mkv", KindVideo, "Matroska"},
	"webm": {"webm", KindVideo, "WebM"},
	"mp3":  {"mp3", KindAudio, "MPEG-1 Audio Layer III"},
	"wav":  {"wav", KindAudio, "Waveform Audio"},
	"flac": {"flac", KindAudio, "Free Lossless Audio Codec"},
	"jpg":  {"jpg", KindImage, "JPEG image"},
	"png":  {"png", KindImage, "Portable Network Graphics"},
	"gif":  {"gif", KindImage, "Graphics Interchange Format"},
}

// Extension returns the lowercased extension of the final element of path,
// or "" when it has none
func Extension(path string) string {
	return strings.ToLower(filex.Ext(path))
}

// IsSupported reports whether path ends in a supported extension. The check
// is case-insensitive; names without an extension (including dot-files such
// as ".mp4") are unsupported.
func IsSupported(path string) bool {
	ext := Extension(path)
	if ext == "" {
		return false
	}
	_, ok := formats[ext]
	return ok
}

// Lookup returns the format for an extension given with or without a dot
func Lookup(ext string) (Format, bool) {
	f, ok := formats[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return f, ok
}

// KindOf returns the kind of the format at path, or "" if unsupported
func KindOf(path string) Kind {
	f, ok := formats[Extension(path)]
	if !ok {
		return ""
	}
	return f.Kind
}

// Formats returns every supported format ordered by kind, then extension
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	order := map[Kind]int{KindVideo: 0, KindAudio: 1, KindImage: 2}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return order[out[i].Kind] < order[out[j].Kind]
		}
		return out[i].Extension < out[j].Extension
	})
	return out
}
