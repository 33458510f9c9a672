// File: media_test.go
// Title: Supported Media Format Tests
// Description: Extension gating for every supported format and the
//              rejection of unsupported or extension-less names.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package media

import (
	"strings"
	"testing"
)

var supported = []string{"mp4", "avi", "mov", "wmv", "mkv", "webm", "mp3", "wav", "flac", "jpg", "png", "gif"}

func TestIsSupportedAcceptsEveryFormat(t *testing.T) {
	for _, ext := range supported {
		for _, path := range []string{"file." + ext, "dir/file." + strings.ToUpper(ext), "/abs/clip.v2." + ext} {
			if !IsSupported(path) {
				t.Errorf("IsSupported(%q) = false, want true", path)
			}
		}
	}
}

func TestIsSupportedRejects(t *testing.T) {
	tests := []string{
		"video.txt",
		"video",
		".mp4",
		"dir/.mp4",
		"video.",
		"video.mp4.bak",
		"mp4",
		"",
		"dir/..",
	}
	for _, path := range tests {
		if IsSupported(path) {
			t.Errorf("IsSupported(%q) = true, want false", path)
		}
	}
}

func TestLookupAndKind(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"a.MKV", KindVideo},
		{"a.flac", KindAudio},
		{"a.gif", KindImage},
		{"a.doc", ""},
	}
	for _, tt := range tests {
		if got := KindOf(tt.path); got != tt.want {
			t.Errorf("KindOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if f, ok := Lookup(".WebM"); !ok || f.Extension != "webm" {
		t.Errorf("Lookup(.WebM) = %+v, %v", f, ok)
	}
}

func TestFormatsOrdered(t *testing.T) {
	list := Formats()
	if len(list) != len(supported) {
		t.Fatalf("Formats() returned %d entries, want %d", len(list), len(supported))
	}
	if list[0].Extension != "avi" || list[0].Kind != KindVideo {
		t.Errorf("first format = %+v, want avi/video", list[0])
	}
	if last := list[len(list)-1]; last.Extension != "png" || last.Kind != KindImage {
		t.Errorf("last format = %+v, want png/image", last)
	}
}
