// File: discovery.go
// Title: Configuration File Discovery
// Description: Finds the first existing configuration file across search
//              directories, base names and extensions.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Discovery returns paths; decoding is left to the caller

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

// DiscoveryOptions defines where to look for configuration files
type DiscoveryOptions struct {
	Paths      []string // Directories to search
	Filenames  []string // Base filenames without extension
	Extensions []string // Extensions to try, in order
}

// DefaultExtensions are tried when DiscoveryOptions.Extensions is empty
var DefaultExtensions = []string{".toml", ".yaml", ".yml"}

func (o DiscoveryOptions) normalized() DiscoveryOptions {
	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}
	if len(o.Filenames) == 0 {
		o.Filenames = []string{"config"}
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	return o
}

// ListPossibleConfigFiles returns every candidate path in search order
func ListPossibleConfigFiles(options ...DiscoveryOptions) []string {
	var paths []string
	for _, opt := range options {
		opt = opt.normalized()
		for _, dir := range opt.Paths {
			dir = os.ExpandEnv(dir)
			for _, name := range opt.Filenames {
				for _, ext := range opt.Extensions {
					paths = append(paths, filepath.Join(dir, name+ext))
				}
			}
		}
	}
	return paths
}

// FindConfigFile returns the first candidate that exists as a regular file.
// Several option sets are searched in order.
func FindConfigFile(options ...DiscoveryOptions) (string, error) {
	candidates := ListPossibleConfigFiles(options...)
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", mdwerror.New(fmt.Sprintf("no configuration file found in: %s", strings.Join(candidates, ", "))).
		WithCode(mdwerror.CodeNotFound).
		WithOperation("config.FindConfigFile").
		WithDetail("searchPaths", candidates)
}
