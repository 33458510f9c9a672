// File: config.go
// Title: Configuration Decoding
// Description: Decodes TOML and YAML configuration into typed structs. The
//              format is taken from the file extension unless given.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Typed decoding, environment expansion of paths

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

// Format identifies a configuration file syntax
type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat maps a name or extension ("toml", ".yml") to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "", "auto":
		return FormatAuto, nil
	}
	return FormatAuto, mdwerror.New(fmt.Sprintf("unsupported config format: %s", s)).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.ParseFormat")
}

// DetectFormat determines the format from a file extension. Unknown
// extensions are treated as TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode parses content in the given format into target. FormatAuto is
// treated as TOML.
func Decode(content []byte, format Format, target interface{}) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(target); err != nil {
			// an empty document is a valid, empty configuration
			if len(bytes.TrimSpace(content)) == 0 {
				return nil
			}
			return mdwerror.Wrap(err, "YAML parse error").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Decode")
		}
	default:
		md, err := toml.Decode(string(content), target)
		if err != nil {
			return mdwerror.Wrap(err, "TOML parse error").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Decode")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return mdwerror.New(fmt.Sprintf("unknown configuration keys: %s", strings.Join(keys, ", "))).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Decode").
				WithDetail("keys", keys)
		}
	}
	return nil
}

// DecodeFile reads path (after environment expansion) and decodes it into
// target using the format implied by its extension.
func DecodeFile(path string, target interface{}) error {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return mdwerror.Wrap(err, fmt.Sprintf("reading config file %s", path)).
			WithCode(code).
			WithOperation("config.DecodeFile").
			WithDetail("path", path)
	}

	if err := Decode(content, DetectFormat(path), target); err != nil {
		return mdwerror.Wrap(err, fmt.Sprintf("decoding config file %s", path)).
			WithOperation("config.DecodeFile").
			WithDetail("path", path)
	}
	return nil
}

// Encode writes value in the given format. FormatAuto is treated as TOML.
func Encode(value interface{}, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return nil, mdwerror.Wrap(err, "YAML encode error").
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Encode")
		}
		if err := enc.Close(); err != nil {
			return nil, mdwerror.Wrap(err, "YAML encode error").
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Encode")
		}
	default:
		if err := toml.NewEncoder(&buf).Encode(value); err != nil {
			return nil, mdwerror.Wrap(err, "TOML encode error").
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Encode")
		}
	}
	return buf.Bytes(), nil
}
