// File: config_test.go
// Title: Configuration Decoding Tests
// Description: Tests for format detection, TOML/YAML decoding, unknown key
//              rejection and file discovery.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test implementation
// - 2026-10-19 v0.2.0: Typed decoding and discovery tests

package config

import (
	"os"
	"path/filepath"
	"testing"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

type sample struct {
	Name   string `toml:"name" yaml:"name"`
	Render struct {
		Width int `toml:"width" yaml:"width"`
	} `toml:"render" yaml:"render"`
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"ff.toml", FormatTOML},
		{"ff.yaml", FormatYAML},
		{"ff.YML", FormatYAML},
		{"ff.conf", FormatTOML},
		{"ff", FormatTOML},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"toml": FormatTOML, ".yml": FormatYAML, "YAML": FormatYAML, "": FormatAuto} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("ini"); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("ParseFormat(ini) error = %v, want INVALID_CONFIG", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
		wantErr bool
		check   func(*testing.T, sample)
	}{
		{
			name:    "toml",
			content: "name = \"ff\"\n[render]\nwidth = 1280\n",
			format:  FormatTOML,
			check: func(t *testing.T, s sample) {
				if s.Name != "ff" || s.Render.Width != 1280 {
					t.Errorf("decoded %+v", s)
				}
			},
		},
		{
			name:    "yaml",
			content: "name: ff\nrender:\n  width: 640\n",
			format:  FormatYAML,
			check: func(t *testing.T, s sample) {
				if s.Name != "ff" || s.Render.Width != 640 {
					t.Errorf("decoded %+v", s)
				}
			},
		},
		{name: "empty yaml", content: "  \n", format: FormatYAML},
		{name: "empty toml", content: "", format: FormatTOML},
		{name: "unknown toml key", content: "colour = \"red\"\n", format: FormatTOML, wantErr: true},
		{name: "unknown yaml key", content: "colour: red\n", format: FormatYAML, wantErr: true},
		{name: "broken toml", content: "name = \n", format: FormatTOML, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sample
			err := Decode([]byte(tt.content), tt.format, &s)
			if tt.wantErr {
				if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
					t.Fatalf("Decode() error = %v, want INVALID_CONFIG", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ff.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FF_TEST_DIR", dir)
	var s sample
	if err := DecodeFile("$FF_TEST_DIR/ff.yaml", &s); err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if s.Name != "from-file" {
		t.Errorf("Name = %q, want from-file", s.Name)
	}

	err := DecodeFile(filepath.Join(dir, "missing.toml"), &s)
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := sample{Name: "ff"}
	in.Render.Width = 320

	for _, format := range []Format{FormatTOML, FormatYAML} {
		data, err := Encode(in, format)
		if err != nil {
			t.Fatalf("Encode(%v) error = %v", format, err)
		}
		var out sample
		if err := Decode(data, format, &out); err != nil {
			t.Fatalf("Decode(%v) error = %v", format, err)
		}
		if out != in {
			t.Errorf("%v round trip = %+v, want %+v", format, out, in)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	configs := filepath.Join(root, "configs")
	if err := os.MkdirAll(configs, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(configs, "ff.yml")
	if err := os.WriteFile(want, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// a directory with a matching name is not a config file
	if err := os.Mkdir(filepath.Join(root, "ff.toml"), 0o755); err != nil {
		t.Fatal(err)
	}

	opts := DiscoveryOptions{Paths: []string{root, configs}, Filenames: []string{"ff"}}
	got, err := FindConfigFile(opts)
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	if got != want {
		t.Errorf("FindConfigFile() = %q, want %q", got, want)
	}

	_, err = FindConfigFile(DiscoveryOptions{Paths: []string{t.TempDir()}})
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("empty dir error = %v, want NOT_FOUND", err)
	}
}

func TestListPossibleConfigFiles(t *testing.T) {
	got := ListPossibleConfigFiles(
		DiscoveryOptions{Paths: []string{"a"}, Filenames: []string{"ff"}, Extensions: []string{".toml"}},
		DiscoveryOptions{Paths: []string{"b"}, Filenames: []string{"config"}, Extensions: []string{".toml", ".yaml"}},
	)
	want := []string{"a/ff.toml", "b/config.toml", "b/config.yaml"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != filepath.FromSlash(want[i]) {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
